package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/campus-medios/av-booking-api/internal/models"
)

// maxClaimAttempts bounds the find-lock-verify loop. After a verify failure
// the conflicting reservation is visible, so the next pass skips that
// candidate; a handful of attempts is enough under any realistic contention.
const maxClaimAttempts = 3

type allocatableRooms interface {
	ListAllocatableTx(ctx context.Context, tx *sqlx.Tx) ([]models.Room, error)
	LockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) error
}

type allocatableProjectors interface {
	ListAllocatableTx(ctx context.Context, tx *sqlx.Tx) ([]models.Projector, error)
	LockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) error
}

type allocatableEquipment interface {
	ListAllocatableTx(ctx context.Context, tx *sqlx.Tx, tipo string) ([]models.Equipment, error)
	LockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) error
}

type occupationLedger interface {
	ActiveIDsTx(ctx context.Context, tx *sqlx.Tx, kind models.ResourceKind) (map[int64]struct{}, error)
}

type bookedIntervals interface {
	ApprovedIntervalsTx(ctx context.Context, tx *sqlx.Tx, kind models.ResourceKind, fecha string) ([]models.BookedInterval, error)
	ApprovedIntervalsForResourceTx(ctx context.Context, tx *sqlx.Tx, kind models.ResourceKind, resourceID int64, fecha string) ([]models.BookedInterval, error)
}

// AllocationQuery describes one allocation attempt. The interval is half-open
// [HoraInicio, HoraFin) and is validated by the caller. An empty Role means
// unrestricted.
type AllocationQuery struct {
	Fecha      string
	HoraInicio string
	HoraFin    string
	Service    models.Service
	Role       string
}

// AllocationService is the interval-overlap resource finder. It scans the
// catalog matching the requested service, filters by static state, room role
// gating and the special-occupation ledger, and rules out every candidate
// whose approved reservations on the date overlap the requested window.
type AllocationService struct {
	rooms       allocatableRooms
	projectors  allocatableProjectors
	equipment   allocatableEquipment
	occupations occupationLedger
	intervals   bookedIntervals
	logger      *zap.Logger
}

// NewAllocationService constructs AllocationService.
func NewAllocationService(rooms allocatableRooms, projectors allocatableProjectors, equipment allocatableEquipment, occupations occupationLedger, intervals bookedIntervals, logger *zap.Logger) *AllocationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationService{rooms: rooms, projectors: projectors, equipment: equipment, occupations: occupations, intervals: intervals, logger: logger}
}

// FindAvailableResource returns the first eligible, conflict-free resource
// for the query, or nil when none exists. Exhaustion is a normal outcome,
// not an error; only storage failures surface as errors. The method is a
// pure read.
func (s *AllocationService) FindAvailableResource(ctx context.Context, tx *sqlx.Tx, q AllocationQuery) (*models.ResourceRef, error) {
	blocked, err := s.occupations.ActiveIDsTx(ctx, tx, q.Service.Kind)
	if err != nil {
		return nil, err
	}
	booked, err := s.intervals.ApprovedIntervalsTx(ctx, tx, q.Service.Kind, q.Fecha)
	if err != nil {
		return nil, err
	}
	windows := make(map[int64][]models.BookedInterval, len(booked))
	for _, b := range booked {
		windows[b.ResourceID] = append(windows[b.ResourceID], b)
	}

	free := func(id int64) bool {
		if _, occupied := blocked[id]; occupied {
			return false
		}
		for _, w := range windows[id] {
			if models.Overlaps(w.HoraInicio, w.HoraFin, q.HoraInicio, q.HoraFin) {
				return false
			}
		}
		return true
	}

	switch q.Service.Kind {
	case models.KindRoom:
		rooms, err := s.rooms.ListAllocatableTx(ctx, tx)
		if err != nil {
			return nil, err
		}
		for _, room := range rooms {
			if !room.AllowsRole(q.Role) {
				continue
			}
			if free(room.ID) {
				return &models.ResourceRef{Kind: models.KindRoom, ID: room.ID, Nombre: room.Nombre}, nil
			}
		}
	case models.KindProjector:
		projectors, err := s.projectors.ListAllocatableTx(ctx, tx)
		if err != nil {
			return nil, err
		}
		for _, p := range projectors {
			if free(p.ID) {
				return &models.ResourceRef{Kind: models.KindProjector, ID: p.ID, Nombre: p.Nombre}, nil
			}
		}
	case models.KindEquipment:
		items, err := s.equipment.ListAllocatableTx(ctx, tx, q.Service.EquipmentType)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if free(item.ID) {
				return &models.ResourceRef{Kind: models.KindEquipment, ID: item.ID, Nombre: item.Nombre}, nil
			}
		}
	}

	return nil, nil
}

// ClaimResource finds an eligible resource and locks its row, re-verifying
// the window under the lock so a concurrent creator cannot bind the same
// resource. Returns nil when allocation is exhausted. Must run inside the
// same transaction that inserts the approved reservation.
func (s *AllocationService) ClaimResource(ctx context.Context, tx *sqlx.Tx, q AllocationQuery) (*models.ResourceRef, error) {
	for attempt := 1; attempt <= maxClaimAttempts; attempt++ {
		ref, err := s.FindAvailableResource(ctx, tx, q)
		if err != nil {
			return nil, err
		}
		if ref == nil {
			return nil, nil
		}

		if err := s.lock(ctx, tx, q.Service.Kind, ref.ID); err != nil {
			return nil, err
		}

		stillFree, err := s.verify(ctx, tx, q, ref.ID)
		if err != nil {
			return nil, err
		}
		if stillFree {
			return ref, nil
		}

		s.logger.Sugar().Debugw("allocation candidate lost race, retrying",
			"kind", q.Service.Kind, "resource_id", ref.ID, "attempt", attempt)
	}
	return nil, nil
}

func (s *AllocationService) lock(ctx context.Context, tx *sqlx.Tx, kind models.ResourceKind, id int64) error {
	switch kind {
	case models.KindRoom:
		return s.rooms.LockByIDTx(ctx, tx, id)
	case models.KindProjector:
		return s.projectors.LockByIDTx(ctx, tx, id)
	default:
		return s.equipment.LockByIDTx(ctx, tx, id)
	}
}

func (s *AllocationService) verify(ctx context.Context, tx *sqlx.Tx, q AllocationQuery, resourceID int64) (bool, error) {
	windows, err := s.intervals.ApprovedIntervalsForResourceTx(ctx, tx, q.Service.Kind, resourceID, q.Fecha)
	if err != nil {
		return false, err
	}
	for _, w := range windows {
		if models.Overlaps(w.HoraInicio, w.HoraFin, q.HoraInicio, q.HoraFin) {
			return false, nil
		}
	}
	return true, nil
}
