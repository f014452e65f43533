package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campus-medios/av-booking-api/internal/models"
)

const reservationColumns = `id, id_usuario, fecha, hora_inicio, hora_fin, servicio, estado_reserva,
	id_sala, id_videoproyector, id_equipo,
	estudiante, docente, programa, asignatura, semestre, celular, salon,
	tipo_actividad, numero_asistentes, equip_cual,
	equip_videocamara, equip_dvd, equip_extension_audio,
	created_at, updated_at`

// bindingColumn maps a resource kind onto its binding column in solicitudes.
func bindingColumn(kind models.ResourceKind) string {
	switch kind {
	case models.KindRoom:
		return "id_sala"
	case models.KindProjector:
		return "id_videoproyector"
	default:
		return "id_equipo"
	}
}

// ReservationRepository provides persistence for solicitudes and their
// append-only status history.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository creates a new reservation repository.
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// FindByID loads a reservation by id.
func (r *ReservationRepository) FindByID(ctx context.Context, id int64) (*models.Reservation, error) {
	query := fmt.Sprintf("SELECT %s FROM solicitudes WHERE id = $1", reservationColumns)
	var res models.Reservation
	if err := r.db.GetContext(ctx, &res, query, id); err != nil {
		return nil, err
	}
	return &res, nil
}

// List returns reservations with optional filtering and pagination.
func (r *ReservationRepository) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, int, error) {
	base := "FROM solicitudes WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("id_usuario = $%d", len(args)+1))
		args = append(args, *filter.UserID)
	}
	if filter.Fecha != "" {
		conditions = append(conditions, fmt.Sprintf("fecha = $%d", len(args)+1))
		args = append(args, filter.Fecha)
	}
	if filter.Estado != "" {
		conditions = append(conditions, fmt.Sprintf("estado_reserva = $%d", len(args)+1))
		args = append(args, filter.Estado)
	}
	if filter.Servicio != "" {
		conditions = append(conditions, fmt.Sprintf("servicio = $%d", len(args)+1))
		args = append(args, filter.Servicio)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"fecha":       true,
		"hora_inicio": true,
		"created_at":  true,
		"id":          true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "fecha"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, hora_inicio ASC LIMIT %d OFFSET %d", reservationColumns, base, sortBy, order, size, offset)
	var reservations []models.Reservation
	if err := r.db.SelectContext(ctx, &reservations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count reservations: %w", err)
	}

	return reservations, total, nil
}

// ApprovedIntervalsTx returns the booked windows of every approved
// reservation of the given kind on a date. The finder walks these to rule
// out overlapping candidates.
func (r *ReservationRepository) ApprovedIntervalsTx(ctx context.Context, tx *sqlx.Tx, kind models.ResourceKind, fecha string) ([]models.BookedInterval, error) {
	col := bindingColumn(kind)
	query := fmt.Sprintf(`SELECT %s AS id_recurso, hora_inicio, hora_fin FROM solicitudes WHERE fecha = $1 AND estado_reserva = $2 AND %s IS NOT NULL`, col, col)
	var intervals []models.BookedInterval
	if err := tx.SelectContext(ctx, &intervals, query, fecha, models.StateApproved); err != nil {
		return nil, fmt.Errorf("approved intervals: %w", err)
	}
	return intervals, nil
}

// ApprovedIntervalsForResourceTx returns the booked windows for one concrete
// resource on a date. Used to re-verify a candidate after its row lock is
// held.
func (r *ReservationRepository) ApprovedIntervalsForResourceTx(ctx context.Context, tx *sqlx.Tx, kind models.ResourceKind, resourceID int64, fecha string) ([]models.BookedInterval, error) {
	col := bindingColumn(kind)
	query := fmt.Sprintf(`SELECT %s AS id_recurso, hora_inicio, hora_fin FROM solicitudes WHERE fecha = $1 AND estado_reserva = $2 AND %s = $3`, col, col)
	var intervals []models.BookedInterval
	if err := tx.SelectContext(ctx, &intervals, query, fecha, models.StateApproved, resourceID); err != nil {
		return nil, fmt.Errorf("approved intervals for resource: %w", err)
	}
	return intervals, nil
}

// InsertTx stores a reservation inside an existing transaction and fills in
// the generated id.
func (r *ReservationRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, res *models.Reservation) error {
	now := time.Now().UTC()
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = now

	const query = `INSERT INTO solicitudes (
		id_usuario, fecha, hora_inicio, hora_fin, servicio, estado_reserva,
		id_sala, id_videoproyector, id_equipo,
		estudiante, docente, programa, asignatura, semestre, celular, salon,
		tipo_actividad, numero_asistentes, equip_cual,
		equip_videocamara, equip_dvd, equip_extension_audio,
		created_at, updated_at
	) VALUES (
		:id_usuario, :fecha, :hora_inicio, :hora_fin, :servicio, :estado_reserva,
		:id_sala, :id_videoproyector, :id_equipo,
		:estudiante, :docente, :programa, :asignatura, :semestre, :celular, :salon,
		:tipo_actividad, :numero_asistentes, :equip_cual,
		:equip_videocamara, :equip_dvd, :equip_extension_audio,
		:created_at, :updated_at
	) RETURNING id`

	rows, err := sqlx.NamedQueryContext(ctx, tx, query, res)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&res.ID); err != nil {
			return fmt.Errorf("scan reservation id: %w", err)
		}
	}
	return rows.Err()
}

// Update overwrites the descriptive and interval fields of a pending
// reservation. Bindings and state are untouched; edits never re-allocate.
func (r *ReservationRepository) Update(ctx context.Context, res *models.Reservation) error {
	res.UpdatedAt = time.Now().UTC()
	const query = `UPDATE solicitudes SET
		fecha = :fecha, hora_inicio = :hora_inicio, hora_fin = :hora_fin, servicio = :servicio,
		estudiante = :estudiante, docente = :docente, programa = :programa, asignatura = :asignatura,
		semestre = :semestre, celular = :celular, salon = :salon,
		tipo_actividad = :tipo_actividad, numero_asistentes = :numero_asistentes, equip_cual = :equip_cual,
		equip_videocamara = :equip_videocamara, equip_dvd = :equip_dvd, equip_extension_audio = :equip_extension_audio,
		updated_at = :updated_at
	WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, res); err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	return nil
}

// UpdateEstadoTx sets the reservation state inside an existing transaction.
func (r *ReservationRepository) UpdateEstadoTx(ctx context.Context, tx *sqlx.Tx, id int64, estado models.RequestState) error {
	if _, err := tx.ExecContext(ctx, `UPDATE solicitudes SET estado_reserva = $1, updated_at = $2 WHERE id = $3`, estado, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update reservation estado: %w", err)
	}
	return nil
}

// DeleteTx removes a reservation inside an existing transaction.
func (r *ReservationRepository) DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM solicitudes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	return nil
}

// InsertHistoryTx appends one immutable status-history record. History rows
// are never updated or deleted.
func (r *ReservationRepository) InsertHistoryTx(ctx context.Context, tx *sqlx.Tx, rec *models.StatusHistory) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO historial_estados (id_solicitud, estado_anterior, estado_nuevo, comentarios, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := tx.QueryRowxContext(ctx, query, rec.ReservationID, rec.EstadoAnterior, rec.EstadoNuevo, rec.Comentarios, rec.CreatedAt).Scan(&rec.ID); err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

// ListHistory returns the status history of a reservation, oldest first.
func (r *ReservationRepository) ListHistory(ctx context.Context, reservationID int64) ([]models.StatusHistory, error) {
	const query = `SELECT id, id_solicitud, estado_anterior, estado_nuevo, comentarios, created_at FROM historial_estados WHERE id_solicitud = $1 ORDER BY id ASC`
	var records []models.StatusHistory
	if err := r.db.SelectContext(ctx, &records, query, reservationID); err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	return records, nil
}
