package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-medios/av-booking-api/internal/models"
	"github.com/campus-medios/av-booking-api/pkg/config"
	appErrors "github.com/campus-medios/av-booking-api/pkg/errors"
)

type txRunnerStub struct{}

func (txRunnerStub) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type reservationRepoStub struct {
	byID    map[int64]models.Reservation
	history []models.StatusHistory
	deleted []int64
	updated []models.Reservation
	nextID  int64
}

func (s *reservationRepoStub) FindByID(ctx context.Context, id int64) (*models.Reservation, error) {
	if res, ok := s.byID[id]; ok {
		return &res, nil
	}
	return nil, sql.ErrNoRows
}

func (s *reservationRepoStub) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, int, error) {
	var all []models.Reservation
	for _, res := range s.byID {
		all = append(all, res)
	}
	return all, len(all), nil
}

func (s *reservationRepoStub) InsertTx(ctx context.Context, tx *sqlx.Tx, res *models.Reservation) error {
	s.nextID++
	res.ID = s.nextID
	if s.byID == nil {
		s.byID = make(map[int64]models.Reservation)
	}
	s.byID[res.ID] = *res
	return nil
}

func (s *reservationRepoStub) Update(ctx context.Context, res *models.Reservation) error {
	s.updated = append(s.updated, *res)
	s.byID[res.ID] = *res
	return nil
}

func (s *reservationRepoStub) UpdateEstadoTx(ctx context.Context, tx *sqlx.Tx, id int64, estado models.RequestState) error {
	res := s.byID[id]
	res.Estado = estado
	s.byID[id] = res
	return nil
}

func (s *reservationRepoStub) DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	s.deleted = append(s.deleted, id)
	delete(s.byID, id)
	return nil
}

func (s *reservationRepoStub) InsertHistoryTx(ctx context.Context, tx *sqlx.Tx, rec *models.StatusHistory) error {
	rec.ID = int64(len(s.history) + 1)
	s.history = append(s.history, *rec)
	return nil
}

func (s *reservationRepoStub) ListHistory(ctx context.Context, reservationID int64) ([]models.StatusHistory, error) {
	var records []models.StatusHistory
	for _, rec := range s.history {
		if rec.ReservationID == reservationID {
			records = append(records, rec)
		}
	}
	return records, nil
}

type allocatorStub struct {
	ref     *models.ResourceRef
	queries []AllocationQuery
}

func (s *allocatorStub) ClaimResource(ctx context.Context, tx *sqlx.Tx, q AllocationQuery) (*models.ResourceRef, error) {
	s.queries = append(s.queries, q)
	return s.ref, nil
}

type stateWriterStub struct {
	sets map[int64]models.ResourceState
}

func (s *stateWriterStub) SetEstadoTx(ctx context.Context, tx *sqlx.Tx, id int64, estado models.ResourceState) error {
	if s.sets == nil {
		s.sets = make(map[int64]models.ResourceState)
	}
	s.sets[id] = estado
	return nil
}

type typeReaderStub struct {
	types map[string]models.EquipmentType
}

func (s typeReaderStub) FindByClave(ctx context.Context, clave string) (*models.EquipmentType, error) {
	if t, ok := s.types[clave]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

type roleReaderStub struct {
	role string
}

func (s roleReaderStub) FindRole(ctx context.Context, id int64) (string, error) {
	return s.role, nil
}

type notifierStub struct {
	events []models.LifecycleEvent
}

func (s *notifierStub) Emit(event models.LifecycleEvent) {
	s.events = append(s.events, event)
}

type recorderStub struct {
	outcomes []bool
}

func (s *recorderStub) RecordAllocation(approved bool) {
	s.outcomes = append(s.outcomes, approved)
}

type reservationFixture struct {
	service    *ReservationService
	repo       *reservationRepoStub
	allocator  *allocatorStub
	rooms      *stateWriterStub
	projectors *stateWriterStub
	equipment  *stateWriterStub
	notifier   *notifierStub
	recorder   *recorderStub
}

func newReservationFixture(cfg config.BookingConfig) *reservationFixture {
	f := &reservationFixture{
		repo:       &reservationRepoStub{},
		allocator:  &allocatorStub{},
		rooms:      &stateWriterStub{},
		projectors: &stateWriterStub{},
		equipment:  &stateWriterStub{},
		notifier:   &notifierStub{},
		recorder:   &recorderStub{},
	}
	types := typeReaderStub{types: map[string]models.EquipmentType{
		"grabadora": {Clave: "grabadora", Nombre: "Grabadora de audio", Activo: true},
		"tornamesa": {Clave: "tornamesa", Nombre: "Tornamesa", Activo: false},
	}}
	f.service = NewReservationService(
		txRunnerStub{}, f.repo, f.allocator,
		f.rooms, f.projectors, f.equipment,
		types, roleReaderStub{role: models.RoleStudent},
		f.notifier, f.recorder, nil, nil, cfg,
	)
	return f
}

func validCreateRequest() CreateReservationRequest {
	return CreateReservationRequest{
		Fecha:      "2026-09-14",
		HoraInicio: "10:00:00",
		HoraFin:    "11:30:00",
		Servicio:   "sala",
		Salon:      "B-301",
		Asignatura: "Fotografia",
		Docente:    "R. Gomez",
		Celular:    "3001234567",
	}
}

func TestCreateApprovedBindsResourceAndWritesHistory(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})
	f.allocator.ref = &models.ResourceRef{Kind: models.KindRoom, ID: 3, Nombre: "Sala B"}

	result, err := f.service.Create(context.Background(), validCreateRequest(), "")
	require.NoError(t, err)

	assert.Equal(t, models.StateApproved, result.Estado)
	assert.True(t, result.AprobacionAutomatica)
	require.NotNil(t, result.RecursoAsignado)
	assert.Equal(t, int64(3), result.RecursoAsignado.ID)
	assert.Empty(t, result.RazonRechazo)

	stored := f.repo.byID[result.IDSolicitud]
	require.NotNil(t, stored.RoomID)
	assert.Equal(t, int64(3), *stored.RoomID)
	assert.Nil(t, stored.ProjectorID)
	assert.Nil(t, stored.EquipmentID)

	require.Len(t, f.repo.history, 1)
	assert.Nil(t, f.repo.history[0].EstadoAnterior)
	assert.Equal(t, models.StateApproved, f.repo.history[0].EstadoNuevo)

	// Approval at creation never flips the resource's static state.
	assert.Empty(t, f.rooms.sets)

	assert.Equal(t, []bool{true}, f.recorder.outcomes)
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, models.EventReservationCreated, f.notifier.events[0].Name)
}

func TestCreateRejectedLeavesNoBindingOrHistory(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})
	f.allocator.ref = nil

	result, err := f.service.Create(context.Background(), validCreateRequest(), "")
	require.NoError(t, err)

	assert.Equal(t, models.StateRejected, result.Estado)
	assert.False(t, result.AprobacionAutomatica)
	assert.Nil(t, result.RecursoAsignado)
	assert.NotEmpty(t, result.RazonRechazo)

	stored := f.repo.byID[result.IDSolicitud]
	assert.Nil(t, stored.RoomID)
	assert.Nil(t, stored.ProjectorID)
	assert.Nil(t, stored.EquipmentID)
	assert.Empty(t, f.repo.history)
	assert.Equal(t, []bool{false}, f.recorder.outcomes)
}

func TestCreatePassesRequesterRoleToAllocator(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})
	f.allocator.ref = &models.ResourceRef{Kind: models.KindRoom, ID: 1}

	userID := int64(42)
	req := validCreateRequest()
	req.IDUsuario = &userID

	_, err := f.service.Create(context.Background(), req, "")
	require.NoError(t, err)
	require.Len(t, f.allocator.queries, 1)
	assert.Equal(t, models.RoleStudent, f.allocator.queries[0].Role)

	// An authenticated role wins over the lookup.
	_, err = f.service.Create(context.Background(), req, models.RoleProfessor)
	require.NoError(t, err)
	assert.Equal(t, models.RoleProfessor, f.allocator.queries[1].Role)
}

func TestCreateRejectsInvalidWindow(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})

	req := validCreateRequest()
	req.HoraInicio = "12:00:00"
	req.HoraFin = "11:00:00"

	_, err := f.service.Create(context.Background(), req, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, f.allocator.queries)
}

func TestCreateRejectsUnknownServiceType(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})

	req := validCreateRequest()
	req.Servicio = "telescopio"

	_, err := f.service.Create(context.Background(), req, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateRejectsDeactivatedServiceType(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})

	req := validCreateRequest()
	req.Servicio = "tornamesa"

	_, err := f.service.Create(context.Background(), req, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateAcceptsRegisteredEquipmentType(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})
	f.allocator.ref = &models.ResourceRef{Kind: models.KindEquipment, ID: 9, Nombre: "Grabadora Zoom"}

	req := validCreateRequest()
	req.Servicio = "grabadora"

	result, err := f.service.Create(context.Background(), req, "")
	require.NoError(t, err)
	assert.Equal(t, models.StateApproved, result.Estado)

	stored := f.repo.byID[result.IDSolicitud]
	require.NotNil(t, stored.EquipmentID)
	assert.Equal(t, int64(9), *stored.EquipmentID)
	assert.Nil(t, stored.RoomID)
}

func TestChangeStatusApprovalOccupiesResource(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})
	roomID := int64(5)
	f.repo.byID = map[int64]models.Reservation{
		1: {ID: 1, Servicio: "sala", Estado: models.StatePending, RoomID: &roomID},
	}

	result, err := f.service.ChangeStatus(context.Background(), 1, ChangeStatusRequest{EstadoReserva: "aprobado", Comentarios: "ok"})
	require.NoError(t, err)
	assert.Equal(t, models.StateApproved, result.Estado)

	assert.Equal(t, models.ResourceOccupied, f.rooms.sets[roomID])

	require.Len(t, f.repo.history, 1)
	require.NotNil(t, f.repo.history[0].EstadoAnterior)
	assert.Equal(t, models.StatePending, *f.repo.history[0].EstadoAnterior)
	assert.Equal(t, models.StateApproved, f.repo.history[0].EstadoNuevo)
	assert.Equal(t, "ok", f.repo.history[0].Comentarios)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, models.EventReservationStatusChanged, f.notifier.events[0].Name)
}

func TestChangeStatusAcceptsLegacyAlias(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})
	f.repo.byID = map[int64]models.Reservation{
		1: {ID: 1, Servicio: "sala", Estado: models.StatePending},
	}

	result, err := f.service.ChangeStatus(context.Background(), 1, ChangeStatusRequest{Estado: "aprobada"})
	require.NoError(t, err)
	assert.Equal(t, models.StateApproved, result.Estado)
	assert.Equal(t, models.StateApproved, f.repo.byID[1].Estado)
}

func TestChangeStatusRejectsUnknownState(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})
	f.repo.byID = map[int64]models.Reservation{
		1: {ID: 1, Servicio: "sala", Estado: models.StatePending},
	}

	_, err := f.service.ChangeStatus(context.Background(), 1, ChangeStatusRequest{EstadoReserva: "archivado"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
	assert.Empty(t, f.repo.history)
}

func TestChangeStatusDemotionKeepsResourceByDefault(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})
	projectorID := int64(5)
	f.repo.byID = map[int64]models.Reservation{
		1: {ID: 1, Servicio: "videoproyector", Estado: models.StateApproved, ProjectorID: &projectorID},
	}

	// Demoting an approved reservation does not release the projector; the
	// legacy flow only releases on delete.
	_, err := f.service.ChangeStatus(context.Background(), 1, ChangeStatusRequest{EstadoReserva: "rechazado"})
	require.NoError(t, err)
	assert.Empty(t, f.projectors.sets)
	assert.Equal(t, models.StateRejected, f.repo.byID[1].Estado)
}

func TestChangeStatusDemotionReleasesWhenConfigured(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{ReleaseOnDemotion: true})
	roomID := int64(5)
	f.repo.byID = map[int64]models.Reservation{
		1: {ID: 1, Servicio: "sala", Estado: models.StateApproved, RoomID: &roomID},
	}

	_, err := f.service.ChangeStatus(context.Background(), 1, ChangeStatusRequest{EstadoReserva: "anulado"})
	require.NoError(t, err)
	assert.Equal(t, models.ResourceAvailable, f.rooms.sets[roomID])
}

func TestChangeStatusMissingReservation(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})

	_, err := f.service.ChangeStatus(context.Background(), 99, ChangeStatusRequest{EstadoReserva: "aprobado"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUpdateOnlyAllowedWhilePending(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})
	f.repo.byID = map[int64]models.Reservation{
		1: {ID: 1, Servicio: "sala", Estado: models.StateApproved},
		2: {ID: 2, Servicio: "sala", Estado: models.StatePending},
	}

	_, err := f.service.Update(context.Background(), 1, validCreateRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)

	req := validCreateRequest()
	req.Salon = "C-102"
	updated, err := f.service.Update(context.Background(), 2, req)
	require.NoError(t, err)
	assert.Equal(t, "C-102", updated.Salon)
	assert.Equal(t, models.StatePending, updated.Estado)
}

func TestUpdateNeverReallocates(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})
	roomID := int64(8)
	f.repo.byID = map[int64]models.Reservation{
		2: {ID: 2, Servicio: "sala", Estado: models.StatePending, RoomID: &roomID},
	}

	updated, err := f.service.Update(context.Background(), 2, validCreateRequest())
	require.NoError(t, err)
	assert.Empty(t, f.allocator.queries)
	require.NotNil(t, updated.RoomID)
	assert.Equal(t, roomID, *updated.RoomID)
}

func TestDeleteOnlyAllowedWhilePending(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})
	f.repo.byID = map[int64]models.Reservation{
		1: {ID: 1, Servicio: "sala", Estado: models.StateApproved},
		2: {ID: 2, Servicio: "sala", Estado: models.StatePending},
	}

	err := f.service.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)

	err = f.service.Delete(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, f.repo.deleted)
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, models.EventReservationDeleted, f.notifier.events[0].Name)
}

func TestHistoryRequiresExistingReservation(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})

	_, err := f.service.History(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestHistoryReturnsRecordsInOrder(t *testing.T) {
	f := newReservationFixture(config.BookingConfig{})
	f.repo.byID = map[int64]models.Reservation{
		1: {ID: 1, Servicio: "sala", Estado: models.StatePending},
	}

	_, err := f.service.ChangeStatus(context.Background(), 1, ChangeStatusRequest{EstadoReserva: "aprobado"})
	require.NoError(t, err)
	_, err = f.service.ChangeStatus(context.Background(), 1, ChangeStatusRequest{EstadoReserva: "anulado"})
	require.NoError(t, err)

	records, err := f.service.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.StateApproved, records[0].EstadoNuevo)
	assert.Equal(t, models.StateVoided, records[1].EstadoNuevo)
	require.NotNil(t, records[1].EstadoAnterior)
	assert.Equal(t, models.StateApproved, *records[1].EstadoAnterior)
}
