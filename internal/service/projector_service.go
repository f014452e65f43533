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

type projectorRepository interface {
	List(ctx context.Context) ([]models.Projector, error)
	FindByID(ctx context.Context, id int64) (*models.Projector, error)
	Create(ctx context.Context, p *models.Projector) error
	Update(ctx context.Context, p *models.Projector) error
	Delete(ctx context.Context, id int64) error
	SetEstado(ctx context.Context, id int64, estado models.ResourceState) error
}

// ProjectorInput is the admin payload for creating or updating a projector.
type ProjectorInput struct {
	Nombre    string `json:"nombre" validate:"required,min=2,max=100"`
	Ubicacion string `json:"ubicacion" validate:"max=150"`
	Estado    string `json:"estado"`
}

// ProjectorService manages the videoproyectores catalog.
type ProjectorService struct {
	repo      projectorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProjectorService constructs ProjectorService.
func NewProjectorService(repo projectorRepository, validate *validator.Validate, logger *zap.Logger) *ProjectorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectorService{repo: repo, validator: validate, logger: logger}
}

// List returns every projector.
func (s *ProjectorService) List(ctx context.Context) ([]models.Projector, error) {
	projectors, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projectors")
	}
	return projectors, nil
}

// Get loads one projector.
func (s *ProjectorService) Get(ctx context.Context, id int64) (*models.Projector, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "projector not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load projector")
	}
	return p, nil
}

// Create registers a new projector.
func (s *ProjectorService) Create(ctx context.Context, input ProjectorInput) (*models.Projector, error) {
	p, err := s.buildProjector(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create projector")
	}
	return p, nil
}

// Update overwrites an existing projector.
func (s *ProjectorService) Update(ctx context.Context, id int64, input ProjectorInput) (*models.Projector, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	p, err := s.buildProjector(input)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update projector")
	}
	return p, nil
}

// Delete removes a projector from the catalog.
func (s *ProjectorService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete projector")
	}
	return nil
}

// SetEstado changes only the static availability state.
func (s *ProjectorService) SetEstado(ctx context.Context, id int64, raw string) (*models.Projector, error) {
	estado, ok := models.ParseResourceState(raw)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown resource state %q", raw))
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetEstado(ctx, id, estado); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update projector state")
	}
	p.Estado = estado
	return p, nil
}

func (s *ProjectorService) buildProjector(input ProjectorInput) (*models.Projector, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid projector payload")
	}
	estado := models.ResourceAvailable
	if input.Estado != "" {
		parsed, ok := models.ParseResourceState(input.Estado)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown resource state %q", input.Estado))
		}
		estado = parsed
	}
	return &models.Projector{Nombre: input.Nombre, Ubicacion: input.Ubicacion, Estado: estado}, nil
}
