package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/campus-medios/av-booking-api/internal/models"
	"github.com/campus-medios/av-booking-api/pkg/database"
)

func newReservationRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func pendingReservation() *models.Reservation {
	return &models.Reservation{
		Fecha:      "2026-09-14",
		HoraInicio: "10:00:00",
		HoraFin:    "11:30:00",
		Servicio:   "sala",
		Estado:     models.StateApproved,
		Salon:      "B-301",
		Asignatura: "Fotografia",
		Docente:    "R. Gomez",
		Celular:    "3001234567",
	}
}

func TestReservationRepositoryInsertTxReturnsID(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	repo := NewReservationRepository(db)
	runner := database.NewTxRunner(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO solicitudes")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(17)))
	mock.ExpectCommit()

	res := pendingReservation()
	err := runner.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
		return repo.InsertTx(context.Background(), tx, res)
	})
	require.NoError(t, err)
	require.Equal(t, int64(17), res.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryInsertAndHistoryRollBackTogether(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	repo := NewReservationRepository(db)
	runner := database.NewTxRunner(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO solicitudes")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(17)))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO historial_estados")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := runner.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
		res := pendingReservation()
		if err := repo.InsertTx(context.Background(), tx, res); err != nil {
			return err
		}
		return repo.InsertHistoryTx(context.Background(), tx, &models.StatusHistory{
			ReservationID: res.ID,
			EstadoNuevo:   models.StateApproved,
		})
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryApprovedIntervalsTx(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	repo := NewReservationRepository(db)

	mock.ExpectBegin()
	rows := sqlmock.NewRows([]string{"id_recurso", "hora_inicio", "hora_fin"}).
		AddRow(int64(3), "09:00:00", "10:30:00").
		AddRow(int64(4), "11:00:00", "12:00:00")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id_sala AS id_recurso, hora_inicio, hora_fin FROM solicitudes")).
		WithArgs("2026-09-14", models.StateApproved).
		WillReturnRows(rows)

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	intervals, err := repo.ApprovedIntervalsTx(context.Background(), tx, models.KindRoom, "2026-09-14")
	require.NoError(t, err)
	require.Len(t, intervals, 2)
	require.Equal(t, int64(3), intervals[0].ResourceID)
	require.Equal(t, "09:00:00", intervals[0].HoraInicio)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryListAppliesFilters(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	repo := NewReservationRepository(db)

	cols := []string{
		"id", "id_usuario", "fecha", "hora_inicio", "hora_fin", "servicio", "estado_reserva",
		"id_sala", "id_videoproyector", "id_equipo",
		"estudiante", "docente", "programa", "asignatura", "semestre", "celular", "salon",
		"tipo_actividad", "numero_asistentes", "equip_cual",
		"equip_videocamara", "equip_dvd", "equip_extension_audio",
		"created_at", "updated_at",
	}
	rows := sqlmock.NewRows(cols).AddRow(
		int64(1), nil, "2026-09-14", "10:00:00", "11:30:00", "sala", "aprobado",
		int64(3), nil, nil,
		nil, "R. Gomez", nil, "Fotografia", nil, "3001234567", "B-301",
		nil, nil, nil,
		false, false, false,
		time.Now(), time.Now(),
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM solicitudes WHERE 1=1 AND fecha = $1 AND estado_reserva = $2")).
		WithArgs("2026-09-14", models.StateApproved).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM solicitudes WHERE 1=1 AND fecha = $1 AND estado_reserva = $2")).
		WithArgs("2026-09-14", models.StateApproved).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.ReservationFilter{
		Fecha:  "2026-09-14",
		Estado: models.StateApproved,
	})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, list, 1)
	require.Equal(t, models.StateApproved, list[0].Estado)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryListHistoryOrder(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	repo := NewReservationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "id_solicitud", "estado_anterior", "estado_nuevo", "comentarios", "created_at"}).
		AddRow(int64(1), int64(7), nil, "aprobado", "aprobación automática", time.Now()).
		AddRow(int64(2), int64(7), "aprobado", "anulado", "equipo dañado", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM historial_estados WHERE id_solicitud = $1 ORDER BY id ASC")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	records, err := repo.ListHistory(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Nil(t, records[0].EstadoAnterior)
	require.Equal(t, models.StateVoided, records[1].EstadoNuevo)
	require.NoError(t, mock.ExpectationsWereMet())
}
