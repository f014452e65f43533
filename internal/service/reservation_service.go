package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/campus-medios/av-booking-api/internal/models"
	"github.com/campus-medios/av-booking-api/pkg/config"
	"github.com/campus-medios/av-booking-api/pkg/database"
	appErrors "github.com/campus-medios/av-booking-api/pkg/errors"
)

// salonPattern accepts classroom identifiers like "B-301", "Aula 12".
var salonPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 .\-]{0,19}$`)

type reservationRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Reservation, error)
	List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, int, error)
	InsertTx(ctx context.Context, tx *sqlx.Tx, res *models.Reservation) error
	Update(ctx context.Context, res *models.Reservation) error
	UpdateEstadoTx(ctx context.Context, tx *sqlx.Tx, id int64, estado models.RequestState) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error
	InsertHistoryTx(ctx context.Context, tx *sqlx.Tx, rec *models.StatusHistory) error
	ListHistory(ctx context.Context, reservationID int64) ([]models.StatusHistory, error)
}

type resourceAllocator interface {
	ClaimResource(ctx context.Context, tx *sqlx.Tx, q AllocationQuery) (*models.ResourceRef, error)
}

type resourceStateWriter interface {
	SetEstadoTx(ctx context.Context, tx *sqlx.Tx, id int64, estado models.ResourceState) error
}

type equipmentTypeReader interface {
	FindByClave(ctx context.Context, clave string) (*models.EquipmentType, error)
}

type roleReader interface {
	FindRole(ctx context.Context, id int64) (string, error)
}

type lifecycleNotifier interface {
	Emit(event models.LifecycleEvent)
}

type allocationRecorder interface {
	RecordAllocation(approved bool)
}

// CreateReservationRequest is the request-creation payload.
type CreateReservationRequest struct {
	IDUsuario  *int64 `json:"id_usuario"`
	Fecha      string `json:"fecha" validate:"required,datetime=2006-01-02"`
	HoraInicio string `json:"hora_inicio" validate:"required,datetime=15:04:05"`
	HoraFin    string `json:"hora_fin" validate:"required,datetime=15:04:05"`
	Servicio   string `json:"servicio" validate:"required"`

	Salon      string `json:"salon" validate:"required"`
	Asignatura string `json:"asignatura" validate:"required"`
	Docente    string `json:"docente" validate:"required"`
	Celular    string `json:"celular" validate:"required,numeric,min=7,max=15"`

	Semestre         *int    `json:"semestre" validate:"omitempty,gte=1"`
	Estudiante       *string `json:"estudiante"`
	Programa         *string `json:"programa"`
	TipoActividad    *string `json:"tipo_actividad"`
	NumeroAsistentes *int    `json:"numero_asistentes" validate:"omitempty,gte=1"`
	EquipCual        *string `json:"equip_cual"`

	EquipVideocamara    bool `json:"equip_videocamara"`
	EquipDVD            bool `json:"equip_dvd"`
	EquipExtensionAudio bool `json:"equip_extension_audio"`
}

// UpdateReservationRequest overwrites a pending reservation in place.
type UpdateReservationRequest = CreateReservationRequest

// CreateReservationResult is the creation outcome returned to the caller.
// RazonRechazo is informational only and never persisted.
type CreateReservationResult struct {
	IDSolicitud          int64               `json:"id_solicitud"`
	Estado               models.RequestState `json:"estado_reserva"`
	AprobacionAutomatica bool                `json:"aprobacion_automatica"`
	RecursoAsignado      *models.ResourceRef `json:"recurso_asignado,omitempty"`
	RazonRechazo         string              `json:"razon_rechazo,omitempty"`
}

// ChangeStatusRequest carries an admin status transition. Estado is the
// legacy field name still sent by older clients.
type ChangeStatusRequest struct {
	EstadoReserva string `json:"estado_reserva"`
	Estado        string `json:"estado"`
	Comentarios   string `json:"comentarios"`
}

// ChangeStatusResult reports the transition outcome.
type ChangeStatusResult struct {
	IDSolicitud int64               `json:"id_solicitud"`
	Estado      models.RequestState `json:"estado_reserva"`
}

// ReservationService owns the reservation state machine: automatic
// allocate-or-reject at creation, admin transitions with history records and
// resource-state side effects, and the pendiente-gated edit/delete paths.
type ReservationService struct {
	tx           database.TxRunner
	reservations reservationRepository
	allocator    resourceAllocator
	rooms        resourceStateWriter
	projectors   resourceStateWriter
	equipment    resourceStateWriter
	types        equipmentTypeReader
	users        roleReader
	notifier     lifecycleNotifier
	metrics      allocationRecorder
	validator    *validator.Validate
	logger       *zap.Logger
	cfg          config.BookingConfig
}

// NewReservationService constructs ReservationService.
func NewReservationService(
	tx database.TxRunner,
	reservations reservationRepository,
	allocator resourceAllocator,
	rooms, projectors, equipment resourceStateWriter,
	types equipmentTypeReader,
	users roleReader,
	notifier lifecycleNotifier,
	metrics allocationRecorder,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg config.BookingConfig,
) *ReservationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxSemester <= 0 {
		cfg.MaxSemester = 12
	}
	return &ReservationService{
		tx:           tx,
		reservations: reservations,
		allocator:    allocator,
		rooms:        rooms,
		projectors:   projectors,
		equipment:    equipment,
		types:        types,
		users:        users,
		notifier:     notifier,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		cfg:          cfg,
	}
}

// Create runs the automatic allocation flow. The finder read and the
// approved insert share one transaction so that find-then-bind is atomic
// with respect to concurrent creators. Allocation exhaustion is a normal
// outcome and produces a rejected reservation, never an error.
func (s *ReservationService) Create(ctx context.Context, req CreateReservationRequest, claimRole string) (*CreateReservationResult, error) {
	svc, err := s.validateFields(ctx, &req)
	if err != nil {
		return nil, err
	}

	role := claimRole
	if role == "" && req.IDUsuario != nil {
		role, err = s.users.FindRole(ctx, *req.IDUsuario)
		if err != nil {
			// Role lookup failure degrades to unrestricted, per the
			// legacy contract.
			s.logger.Sugar().Warnw("role lookup failed, treating requester as unrestricted", "user_id", *req.IDUsuario, "error", err)
			role = ""
		}
	}

	query := AllocationQuery{
		Fecha:      req.Fecha,
		HoraInicio: req.HoraInicio,
		HoraFin:    req.HoraFin,
		Service:    svc,
		Role:       role,
	}

	reservation := s.buildReservation(req)
	var ref *models.ResourceRef

	err = s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		ref, err = s.allocator.ClaimResource(ctx, tx, query)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate resource")
		}

		if ref == nil {
			reservation.Estado = models.StateRejected
			if err := s.reservations.InsertTx(ctx, tx, reservation); err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store rejected reservation")
			}
			return nil
		}

		reservation.Estado = models.StateApproved
		bindResource(reservation, ref)
		if err := s.reservations.InsertTx(ctx, tx, reservation); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store approved reservation")
		}

		history := &models.StatusHistory{
			ReservationID: reservation.ID,
			EstadoNuevo:   models.StateApproved,
			Comentarios:   "aprobación automática: recurso disponible en la franja solicitada",
		}
		if err := s.reservations.InsertHistoryTx(ctx, tx, history); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store status history")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	approved := ref != nil
	if s.metrics != nil {
		s.metrics.RecordAllocation(approved)
	}
	s.emit(models.EventReservationCreated, reservation, ref)

	result := &CreateReservationResult{
		IDSolicitud:          reservation.ID,
		Estado:               reservation.Estado,
		AprobacionAutomatica: approved,
		RecursoAsignado:      ref,
	}
	if !approved {
		result.RazonRechazo = rejectionReason(svc, req.Fecha, req.HoraInicio, req.HoraFin)
	}
	return result, nil
}

// ChangeStatus applies an admin transition: the estado update, the history
// record and the resource side effect commit atomically. Approving sets the
// bound resource occupied; demoting away from aprobado releases it only when
// the release-on-demotion policy is enabled (the legacy flow releases on
// delete alone).
func (s *ReservationService) ChangeStatus(ctx context.Context, id int64, req ChangeStatusRequest) (*ChangeStatusResult, error) {
	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservation")
	}

	raw := req.EstadoReserva
	if raw == "" {
		raw = req.Estado
	}
	newState, ok := models.ParseRequestState(raw)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("unknown reservation state %q", raw))
	}

	prior := reservation.Estado
	err = s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.reservations.UpdateEstadoTx(ctx, tx, id, newState); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update reservation state")
		}

		history := &models.StatusHistory{
			ReservationID:  id,
			EstadoAnterior: &prior,
			EstadoNuevo:    newState,
			Comentarios:    req.Comentarios,
		}
		if err := s.reservations.InsertHistoryTx(ctx, tx, history); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store status history")
		}

		if newState == models.StateApproved {
			if err := s.setBoundResourceEstado(ctx, tx, reservation, models.ResourceOccupied); err != nil {
				return err
			}
		} else if prior == models.StateApproved && s.cfg.ReleaseOnDemotion {
			if err := s.setBoundResourceEstado(ctx, tx, reservation, models.ResourceAvailable); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	reservation.Estado = newState
	s.emit(models.EventReservationStatusChanged, reservation, nil)

	return &ChangeStatusResult{IDSolicitud: id, Estado: newState}, nil
}

// Update overwrites a pending reservation's descriptive and interval fields.
// Allocation is never re-run; the reservation stays pendiente until an admin
// transition resolves it.
func (s *ReservationService) Update(ctx context.Context, id int64, req UpdateReservationRequest) (*models.Reservation, error) {
	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservation")
	}
	if reservation.Estado != models.StatePending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only pending reservations can be edited")
	}

	if _, err := s.validateFields(ctx, &req); err != nil {
		return nil, err
	}

	updated := s.buildReservation(req)
	updated.ID = reservation.ID
	updated.UserID = reservation.UserID
	updated.Estado = reservation.Estado
	updated.RoomID = reservation.RoomID
	updated.ProjectorID = reservation.ProjectorID
	updated.EquipmentID = reservation.EquipmentID
	updated.CreatedAt = reservation.CreatedAt

	if err := s.reservations.Update(ctx, updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update reservation")
	}

	s.emit(models.EventReservationUpdated, updated, nil)
	return updated, nil
}

// Delete removes a pending reservation. Any bound resource is released in
// the same transaction.
func (s *ReservationService) Delete(ctx context.Context, id int64) error {
	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservation")
	}
	if reservation.Estado != models.StatePending {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "only pending reservations can be deleted")
	}

	err = s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if reservation.Estado == models.StateApproved {
			if err := s.setBoundResourceEstado(ctx, tx, reservation, models.ResourceAvailable); err != nil {
				return err
			}
		}
		if err := s.reservations.DeleteTx(ctx, tx, id); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete reservation")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(models.EventReservationDeleted, reservation, nil)
	return nil
}

// Get loads one reservation.
func (s *ReservationService) Get(ctx context.Context, id int64) (*models.Reservation, error) {
	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservation")
	}
	return reservation, nil
}

// List returns reservations with pagination metadata.
func (s *ReservationService) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, *models.Pagination, error) {
	reservations, total, err := s.reservations.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reservations")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return reservations, pagination, nil
}

// History returns the transition log of a reservation, oldest first.
func (s *ReservationService) History(ctx context.Context, id int64) ([]models.StatusHistory, error) {
	if _, err := s.reservations.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservation")
	}
	records, err := s.reservations.ListHistory(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list status history")
	}
	return records, nil
}

func (s *ReservationService) validateFields(ctx context.Context, req *CreateReservationRequest) (models.Service, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Service{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reservation payload")
	}
	if req.HoraInicio >= req.HoraFin {
		return models.Service{}, appErrors.Clone(appErrors.ErrValidation, "hora_inicio must be before hora_fin")
	}
	if !salonPattern.MatchString(req.Salon) {
		return models.Service{}, appErrors.Clone(appErrors.ErrValidation, "invalid salon identifier")
	}
	if req.Semestre != nil && *req.Semestre > s.cfg.MaxSemester {
		return models.Service{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("semestre out of range (1-%d)", s.cfg.MaxSemester))
	}

	svc := models.ServiceFor(req.Servicio)
	if svc.Kind == models.KindEquipment {
		t, err := s.types.FindByClave(ctx, svc.EquipmentType)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.Service{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown service type %q", req.Servicio))
			}
			return models.Service{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve service type")
		}
		if !t.Activo {
			return models.Service{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("service type %q is deactivated", req.Servicio))
		}
	}
	return svc, nil
}

func (s *ReservationService) buildReservation(req CreateReservationRequest) *models.Reservation {
	return &models.Reservation{
		UserID:              req.IDUsuario,
		Fecha:               req.Fecha,
		HoraInicio:          req.HoraInicio,
		HoraFin:             req.HoraFin,
		Servicio:            req.Servicio,
		Salon:               req.Salon,
		Asignatura:          req.Asignatura,
		Docente:             req.Docente,
		Celular:             req.Celular,
		Semestre:            req.Semestre,
		Estudiante:          req.Estudiante,
		Programa:            req.Programa,
		TipoActividad:       req.TipoActividad,
		NumeroAsistentes:    req.NumeroAsistentes,
		EquipCual:           req.EquipCual,
		EquipVideocamara:    req.EquipVideocamara,
		EquipDVD:            req.EquipDVD,
		EquipExtensionAudio: req.EquipExtensionAudio,
	}
}

// setBoundResourceEstado dispatches the side effect onto whichever catalog
// the reservation is bound to. Reservations without a binding are a no-op.
func (s *ReservationService) setBoundResourceEstado(ctx context.Context, tx *sqlx.Tx, res *models.Reservation, estado models.ResourceState) error {
	kind := models.ServiceFor(res.Servicio).Kind
	id := res.BoundResourceID(kind)
	if id == nil {
		return nil
	}

	var writer resourceStateWriter
	switch kind {
	case models.KindRoom:
		writer = s.rooms
	case models.KindProjector:
		writer = s.projectors
	default:
		writer = s.equipment
	}
	if err := writer.SetEstadoTx(ctx, tx, *id, estado); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update resource state")
	}
	return nil
}

func (s *ReservationService) emit(name string, res *models.Reservation, ref *models.ResourceRef) {
	if s.notifier == nil {
		return
	}
	s.notifier.Emit(models.LifecycleEvent{
		Name:          name,
		ReservationID: res.ID,
		Estado:        res.Estado,
		Resource:      ref,
	})
}

func bindResource(res *models.Reservation, ref *models.ResourceRef) {
	switch ref.Kind {
	case models.KindRoom:
		res.RoomID = &ref.ID
	case models.KindProjector:
		res.ProjectorID = &ref.ID
	case models.KindEquipment:
		res.EquipmentID = &ref.ID
	}
}

func rejectionReason(svc models.Service, fecha, inicio, fin string) string {
	label := string(svc.Kind)
	if svc.Kind == models.KindEquipment {
		label = fmt.Sprintf("equipo de tipo %s", svc.EquipmentType)
	}
	return fmt.Sprintf("no hay %s disponible para el %s entre %s y %s", label, fecha, inicio, fin)
}
