package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-medios/av-booking-api/internal/models"
	"github.com/campus-medios/av-booking-api/pkg/config"
	appErrors "github.com/campus-medios/av-booking-api/pkg/errors"
)

const equipmentTypesCacheKey = "catalog:equipment_types"

type equipmentTypeRepository interface {
	List(ctx context.Context, includeInactive bool) ([]models.EquipmentType, error)
	FindByClave(ctx context.Context, clave string) (*models.EquipmentType, error)
	Create(ctx context.Context, t *models.EquipmentType) error
	Update(ctx context.Context, t *models.EquipmentType) error
	Delete(ctx context.Context, clave string) error
	Reorder(ctx context.Context, claves []string) error
}

// EquipmentTypeInput is the admin payload for creating or updating a type
// entry. Clave becomes the servicio value clients send for this kind of
// equipment.
type EquipmentTypeInput struct {
	Clave  string `json:"clave" validate:"required,min=2,max=50,lowercase"`
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
	Activo *bool  `json:"activo"`
	Orden  int    `json:"orden" validate:"gte=0"`
}

// EquipmentTypeService manages the administrable tipos_equipo catalog that
// drives servicio classification.
type EquipmentTypeService struct {
	repo      equipmentTypeRepository
	cache     catalogCache
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.CatalogConfig
}

// NewEquipmentTypeService constructs EquipmentTypeService. Cache may be nil.
func NewEquipmentTypeService(repo equipmentTypeRepository, cache catalogCache, validate *validator.Validate, logger *zap.Logger, cfg config.CatalogConfig) *EquipmentTypeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EquipmentTypeService{repo: repo, cache: cache, validator: validate, logger: logger, cfg: cfg}
}

// List returns type entries in display order. The active-only listing is the
// one served to booking clients and is cached.
func (s *EquipmentTypeService) List(ctx context.Context, includeInactive bool) ([]models.EquipmentType, error) {
	useCache := s.cacheEnabled() && !includeInactive
	if useCache {
		var cached []models.EquipmentType
		if err := s.cache.Get(ctx, equipmentTypesCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Sugar().Warnw("equipment-type cache read failed", "error", err)
		}
	}

	types, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list equipment types")
	}

	if useCache {
		if err := s.cache.Set(ctx, equipmentTypesCacheKey, types, s.cfg.CacheTTL); err != nil {
			s.logger.Sugar().Warnw("equipment-type cache write failed", "error", err)
		}
	}
	return types, nil
}

// Get loads one type entry by key.
func (s *EquipmentTypeService) Get(ctx context.Context, clave string) (*models.EquipmentType, error) {
	t, err := s.repo.FindByClave(ctx, clave)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "equipment type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load equipment type")
	}
	return t, nil
}

// Create registers a new type entry. Keys colliding with the built-in room
// and projector services are rejected since they could never be reached.
func (s *EquipmentTypeService) Create(ctx context.Context, input EquipmentTypeInput) (*models.EquipmentType, error) {
	t, err := s.buildType(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByClave(ctx, t.Clave); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("equipment type %q already exists", t.Clave))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check equipment type")
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create equipment type")
	}
	s.invalidate(ctx)
	return t, nil
}

// Update overwrites the name, active flag and sort order of a type entry.
// The key itself is immutable; existing reservations reference it by value.
func (s *EquipmentTypeService) Update(ctx context.Context, clave string, input EquipmentTypeInput) (*models.EquipmentType, error) {
	if input.Clave != "" && input.Clave != clave {
		return nil, appErrors.Clone(appErrors.ErrValidation, "equipment type key cannot be changed")
	}
	input.Clave = clave
	if _, err := s.Get(ctx, clave); err != nil {
		return nil, err
	}
	t, err := s.buildType(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update equipment type")
	}
	s.invalidate(ctx)
	return t, nil
}

// Delete removes a type entry. Equipment rows keep the orphaned key and stop
// being allocatable through it until re-typed.
func (s *EquipmentTypeService) Delete(ctx context.Context, clave string) error {
	if _, err := s.Get(ctx, clave); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, clave); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete equipment type")
	}
	s.invalidate(ctx)
	return nil
}

// Reorder rewrites the display order following the given key sequence.
func (s *EquipmentTypeService) Reorder(ctx context.Context, claves []string) error {
	if len(claves) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "reorder requires at least one key")
	}
	if err := s.repo.Reorder(ctx, claves); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reorder equipment types")
	}
	s.invalidate(ctx)
	return nil
}

func (s *EquipmentTypeService) buildType(input EquipmentTypeInput) (*models.EquipmentType, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid equipment type payload")
	}
	if kind := models.ServiceFor(input.Clave).Kind; kind != models.KindEquipment {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("key %q is reserved for a built-in service", input.Clave))
	}
	activo := true
	if input.Activo != nil {
		activo = *input.Activo
	}
	return &models.EquipmentType{
		Clave:  input.Clave,
		Nombre: input.Nombre,
		Activo: activo,
		Orden:  input.Orden,
	}, nil
}

func (s *EquipmentTypeService) cacheEnabled() bool {
	return s.cache != nil && s.cfg.CacheEnabled
}

func (s *EquipmentTypeService) invalidate(ctx context.Context) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, equipmentTypesCacheKey); err != nil {
		s.logger.Sugar().Warnw("equipment-type cache invalidation failed", "error", err)
	}
}
