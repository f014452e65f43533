package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-medios/av-booking-api/internal/models"
	appErrors "github.com/campus-medios/av-booking-api/pkg/errors"
)

type occupationRepository interface {
	List(ctx context.Context) ([]models.SpecialOccupation, error)
	FindByID(ctx context.Context, id int64) (*models.SpecialOccupation, error)
	Create(ctx context.Context, entry *models.SpecialOccupation) error
	SetActive(ctx context.Context, id int64, activa bool) error
	Delete(ctx context.Context, id int64) error
}

type resourceExists func(ctx context.Context, id int64) error

// OccupationInput is the admin payload for blocking a resource.
type OccupationInput struct {
	TipoRecurso string `json:"tipo_recurso" validate:"required"`
	IDRecurso   int64  `json:"id_recurso" validate:"required,gt=0"`
	Motivo      string `json:"motivo" validate:"required,min=3,max=300"`
}

// OccupationService manages the special-occupation ledger. An active entry
// takes the resource out of allocation entirely, regardless of intervals.
type OccupationService struct {
	repo        occupationRepository
	roomExists  resourceExists
	projExists  resourceExists
	equipExists resourceExists
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewOccupationService constructs OccupationService. The existence probes
// keep ledger entries from pointing at resources that were never registered.
func NewOccupationService(repo occupationRepository, roomExists, projExists, equipExists resourceExists, validate *validator.Validate, logger *zap.Logger) *OccupationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OccupationService{
		repo:        repo,
		roomExists:  roomExists,
		projExists:  projExists,
		equipExists: equipExists,
		validator:   validate,
		logger:      logger,
	}
}

// List returns ledger entries, newest first.
func (s *OccupationService) List(ctx context.Context) ([]models.SpecialOccupation, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list special occupations")
	}
	return entries, nil
}

// Create registers a new ledger entry, active immediately.
func (s *OccupationService) Create(ctx context.Context, input OccupationInput) (*models.SpecialOccupation, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid occupation payload")
	}

	kind := models.ResourceKind(input.TipoRecurso)
	var exists resourceExists
	switch kind {
	case models.KindRoom:
		exists = s.roomExists
	case models.KindProjector:
		exists = s.projExists
	case models.KindEquipment:
		exists = s.equipExists
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown resource kind %q", input.TipoRecurso))
	}
	if exists != nil {
		if err := exists(ctx, input.IDRecurso); err != nil {
			return nil, err
		}
	}

	entry := &models.SpecialOccupation{
		TipoRecurso: kind,
		ResourceID:  input.IDRecurso,
		Motivo:      input.Motivo,
		Activa:      true,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create special occupation")
	}
	return entry, nil
}

// SetActive toggles a ledger entry.
func (s *OccupationService) SetActive(ctx context.Context, id int64, activa bool) (*models.SpecialOccupation, error) {
	entry, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, id, activa); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle special occupation")
	}
	entry.Activa = activa
	return entry, nil
}

// Delete removes a ledger entry, releasing its hold on the resource.
func (s *OccupationService) Delete(ctx context.Context, id int64) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete special occupation")
	}
	return nil
}

func (s *OccupationService) get(ctx context.Context, id int64) (*models.SpecialOccupation, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "special occupation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load special occupation")
	}
	return entry, nil
}
