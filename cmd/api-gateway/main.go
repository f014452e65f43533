package main

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	_ "github.com/campus-medios/av-booking-api/api/swagger"
	"github.com/campus-medios/av-booking-api/internal/handler"
	"github.com/campus-medios/av-booking-api/internal/repository"
	"github.com/campus-medios/av-booking-api/internal/service"
	"github.com/campus-medios/av-booking-api/pkg/cache"
	"github.com/campus-medios/av-booking-api/pkg/config"
	"github.com/campus-medios/av-booking-api/pkg/database"
	"github.com/campus-medios/av-booking-api/pkg/logger"
)

// @title AV Booking API
// @version 1.0.0
// @description Automatic allocation and lifecycle management for audiovisual resource reservations
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching and events disabled", "error", err)
		redisClient = nil
	}

	txRunner := database.NewTxRunner(db)

	roomRepo := repository.NewRoomRepository(db)
	projectorRepo := repository.NewProjectorRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	typeRepo := repository.NewEquipmentTypeRepository(db)
	occupationRepo := repository.NewOccupationRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	notifier := service.NewNotifierService(redisClient, cfg.Events, logr)
	notifier.Start(context.Background())
	defer notifier.Stop()

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	allocationSvc := service.NewAllocationService(roomRepo, projectorRepo, equipmentRepo, occupationRepo, reservationRepo, logr)
	reservationSvc := service.NewReservationService(
		txRunner, reservationRepo, allocationSvc,
		roomRepo, projectorRepo, equipmentRepo,
		typeRepo, userRepo, notifier, metricsSvc,
		validate, logr, cfg.Booking,
	)
	roomSvc := service.NewRoomService(roomRepo, cacheRepo, validate, logr, cfg.Catalog)
	projectorSvc := service.NewProjectorService(projectorRepo, validate, logr)
	equipmentSvc := service.NewEquipmentService(equipmentRepo, typeRepo, validate, logr)
	typeSvc := service.NewEquipmentTypeService(typeRepo, cacheRepo, validate, logr, cfg.Catalog)
	occupationSvc := service.NewOccupationService(
		occupationRepo,
		func(ctx context.Context, id int64) error { _, err := roomSvc.Get(ctx, id); return err },
		func(ctx context.Context, id int64) error { _, err := projectorSvc.Get(ctx, id); return err },
		func(ctx context.Context, id int64) error { _, err := equipmentSvc.Get(ctx, id); return err },
		validate, logr,
	)

	handlers := handler.Handlers{
		Reservations:   handler.NewReservationHandler(reservationSvc),
		Rooms:          handler.NewRoomHandler(roomSvc),
		Projectors:     handler.NewProjectorHandler(projectorSvc),
		Equipment:      handler.NewEquipmentHandler(equipmentSvc),
		EquipmentTypes: handler.NewEquipmentTypeHandler(typeSvc),
		Occupations:    handler.NewOccupationHandler(occupationSvc),
		Metrics:        handler.NewMetricsHandler(metricsSvc),
	}

	r := handler.NewRouter(cfg, logr, handlers, metricsSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
