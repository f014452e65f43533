package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-medios/av-booking-api/internal/models"
	"github.com/campus-medios/av-booking-api/pkg/config"
	appErrors "github.com/campus-medios/av-booking-api/pkg/errors"
)

const roomsCacheKey = "catalog:rooms"

type roomRepository interface {
	List(ctx context.Context) ([]models.Room, error)
	FindByID(ctx context.Context, id int64) (*models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id int64) error
	SetEstado(ctx context.Context, id int64, estado models.ResourceState) error
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// RoomInput is the admin payload for creating or updating a room.
type RoomInput struct {
	Nombre          string `json:"nombre" validate:"required,min=2,max=100"`
	Ubicacion       string `json:"ubicacion" validate:"max=150"`
	Capacidad       int    `json:"capacidad" validate:"gte=0"`
	Estado          string `json:"estado"`
	RolesPermitidos string `json:"roles_permitidos"`
}

// RoomService manages the salas catalog.
type RoomService struct {
	repo      roomRepository
	cache     catalogCache
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.CatalogConfig
}

// NewRoomService constructs RoomService. Cache may be nil.
func NewRoomService(repo roomRepository, cache catalogCache, validate *validator.Validate, logger *zap.Logger, cfg config.CatalogConfig) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, cache: cache, validator: validate, logger: logger, cfg: cfg}
}

// List returns every room, serving from cache when enabled.
func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	if s.cacheEnabled() {
		var cached []models.Room
		if err := s.cache.Get(ctx, roomsCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Sugar().Warnw("room cache read failed", "error", err)
		}
	}

	rooms, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, roomsCacheKey, rooms, s.cfg.CacheTTL); err != nil {
			s.logger.Sugar().Warnw("room cache write failed", "error", err)
		}
	}
	return rooms, nil
}

// Get loads one room.
func (s *RoomService) Get(ctx context.Context, id int64) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}

// Create registers a new room.
func (s *RoomService) Create(ctx context.Context, input RoomInput) (*models.Room, error) {
	room, err := s.buildRoom(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	s.invalidate(ctx)
	return room, nil
}

// Update overwrites an existing room.
func (s *RoomService) Update(ctx context.Context, id int64, input RoomInput) (*models.Room, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	room, err := s.buildRoom(input)
	if err != nil {
		return nil, err
	}
	room.ID = id
	if err := s.repo.Update(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update room")
	}
	s.invalidate(ctx)
	return room, nil
}

// Delete removes a room from the catalog. Existing reservations keep their
// binding; the row simply stops being allocatable.
func (s *RoomService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete room")
	}
	s.invalidate(ctx)
	return nil
}

// SetEstado changes only the static availability state.
func (s *RoomService) SetEstado(ctx context.Context, id int64, raw string) (*models.Room, error) {
	estado, ok := models.ParseResourceState(raw)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown resource state %q", raw))
	}
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetEstado(ctx, id, estado); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update room state")
	}
	room.Estado = estado
	s.invalidate(ctx)
	return room, nil
}

func (s *RoomService) buildRoom(input RoomInput) (*models.Room, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	estado := models.ResourceAvailable
	if input.Estado != "" {
		parsed, ok := models.ParseResourceState(input.Estado)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown resource state %q", input.Estado))
		}
		estado = parsed
	}
	return &models.Room{
		Nombre:          input.Nombre,
		Ubicacion:       input.Ubicacion,
		Capacidad:       input.Capacidad,
		Estado:          estado,
		RolesPermitidos: input.RolesPermitidos,
	}, nil
}

func (s *RoomService) cacheEnabled() bool {
	return s.cache != nil && s.cfg.CacheEnabled
}

func (s *RoomService) invalidate(ctx context.Context) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, roomsCacheKey); err != nil {
		s.logger.Sugar().Warnw("room cache invalidation failed", "error", err)
	}
}
