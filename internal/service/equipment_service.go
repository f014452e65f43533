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

type equipmentRepository interface {
	List(ctx context.Context, tipo string) ([]models.Equipment, error)
	FindByID(ctx context.Context, id int64) (*models.Equipment, error)
	Create(ctx context.Context, item *models.Equipment) error
	Update(ctx context.Context, item *models.Equipment) error
	Delete(ctx context.Context, id int64) error
	SetEstado(ctx context.Context, id int64, estado models.ResourceState) error
}

// EquipmentInput is the admin payload for creating or updating an equipment
// item. Tipo must name a registered equipment type.
type EquipmentInput struct {
	Nombre      string `json:"nombre" validate:"required,min=2,max=100"`
	Tipo        string `json:"tipo" validate:"required"`
	Descripcion string `json:"descripcion" validate:"max=300"`
	Estado      string `json:"estado"`
}

// EquipmentService manages the equipos catalog.
type EquipmentService struct {
	repo      equipmentRepository
	types     equipmentTypeReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEquipmentService constructs EquipmentService.
func NewEquipmentService(repo equipmentRepository, types equipmentTypeReader, validate *validator.Validate, logger *zap.Logger) *EquipmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EquipmentService{repo: repo, types: types, validator: validate, logger: logger}
}

// List returns equipment items, optionally filtered by type key.
func (s *EquipmentService) List(ctx context.Context, tipo string) ([]models.Equipment, error) {
	items, err := s.repo.List(ctx, tipo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list equipment")
	}
	return items, nil
}

// Get loads one equipment item.
func (s *EquipmentService) Get(ctx context.Context, id int64) (*models.Equipment, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "equipment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load equipment")
	}
	return item, nil
}

// Create registers a new equipment item after resolving its type key.
func (s *EquipmentService) Create(ctx context.Context, input EquipmentInput) (*models.Equipment, error) {
	item, err := s.buildEquipment(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create equipment")
	}
	return item, nil
}

// Update overwrites an existing equipment item.
func (s *EquipmentService) Update(ctx context.Context, id int64, input EquipmentInput) (*models.Equipment, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	item, err := s.buildEquipment(ctx, input)
	if err != nil {
		return nil, err
	}
	item.ID = id
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update equipment")
	}
	return item, nil
}

// Delete removes an equipment item from the catalog.
func (s *EquipmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete equipment")
	}
	return nil
}

// SetEstado changes only the static availability state.
func (s *EquipmentService) SetEstado(ctx context.Context, id int64, raw string) (*models.Equipment, error) {
	estado, ok := models.ParseResourceState(raw)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown resource state %q", raw))
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetEstado(ctx, id, estado); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update equipment state")
	}
	item.Estado = estado
	return item, nil
}

func (s *EquipmentService) buildEquipment(ctx context.Context, input EquipmentInput) (*models.Equipment, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid equipment payload")
	}
	if _, err := s.types.FindByClave(ctx, input.Tipo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown equipment type %q", input.Tipo))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve equipment type")
	}
	estado := models.ResourceAvailable
	if input.Estado != "" {
		parsed, ok := models.ParseResourceState(input.Estado)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown resource state %q", input.Estado))
		}
		estado = parsed
	}
	return &models.Equipment{
		Nombre:      input.Nombre,
		Tipo:        input.Tipo,
		Descripcion: input.Descripcion,
		Estado:      estado,
	}, nil
}
