package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-medios/av-booking-api/internal/models"
)

type roomStoreStub struct {
	rooms  []models.Room
	locked []int64
}

func (s *roomStoreStub) ListAllocatableTx(ctx context.Context, tx *sqlx.Tx) ([]models.Room, error) {
	return s.rooms, nil
}

func (s *roomStoreStub) LockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	s.locked = append(s.locked, id)
	return nil
}

type projectorStoreStub struct {
	projectors []models.Projector
}

func (s *projectorStoreStub) ListAllocatableTx(ctx context.Context, tx *sqlx.Tx) ([]models.Projector, error) {
	return s.projectors, nil
}

func (s *projectorStoreStub) LockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	return nil
}

type equipmentStoreStub struct {
	items    []models.Equipment
	lastTipo string
}

func (s *equipmentStoreStub) ListAllocatableTx(ctx context.Context, tx *sqlx.Tx, tipo string) ([]models.Equipment, error) {
	s.lastTipo = tipo
	var filtered []models.Equipment
	for _, item := range s.items {
		if item.Tipo == tipo {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (s *equipmentStoreStub) LockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	return nil
}

type occupationStub struct {
	blocked map[models.ResourceKind][]int64
}

func (s *occupationStub) ActiveIDsTx(ctx context.Context, tx *sqlx.Tx, kind models.ResourceKind) (map[int64]struct{}, error) {
	set := make(map[int64]struct{})
	for _, id := range s.blocked[kind] {
		set[id] = struct{}{}
	}
	return set, nil
}

type intervalsStub struct {
	booked   []models.BookedInterval
	onVerify map[int64][]models.BookedInterval
}

func (s *intervalsStub) ApprovedIntervalsTx(ctx context.Context, tx *sqlx.Tx, kind models.ResourceKind, fecha string) ([]models.BookedInterval, error) {
	return s.booked, nil
}

func (s *intervalsStub) ApprovedIntervalsForResourceTx(ctx context.Context, tx *sqlx.Tx, kind models.ResourceKind, resourceID int64, fecha string) ([]models.BookedInterval, error) {
	if s.onVerify != nil {
		return s.onVerify[resourceID], nil
	}
	var windows []models.BookedInterval
	for _, b := range s.booked {
		if b.ResourceID == resourceID {
			windows = append(windows, b)
		}
	}
	return windows, nil
}

func newAllocationFixture(rooms *roomStoreStub, projectors *projectorStoreStub, equipment *equipmentStoreStub, occupations *occupationStub, intervals *intervalsStub) *AllocationService {
	if rooms == nil {
		rooms = &roomStoreStub{}
	}
	if projectors == nil {
		projectors = &projectorStoreStub{}
	}
	if equipment == nil {
		equipment = &equipmentStoreStub{}
	}
	if occupations == nil {
		occupations = &occupationStub{}
	}
	if intervals == nil {
		intervals = &intervalsStub{}
	}
	return NewAllocationService(rooms, projectors, equipment, occupations, intervals, nil)
}

func roomQuery(role string) AllocationQuery {
	return AllocationQuery{
		Fecha:      "2026-09-14",
		HoraInicio: "10:00:00",
		HoraFin:    "11:30:00",
		Service:    models.ServiceFor("sala"),
		Role:       role,
	}
}

func TestFindAvailableResourcePrefersSmallestRoom(t *testing.T) {
	rooms := &roomStoreStub{rooms: []models.Room{
		{ID: 1, Nombre: "Sala Grande", Capacidad: 80},
		{ID: 2, Nombre: "Sala Chica", Capacidad: 20},
	}}
	// Allocatable listing arrives capacity-ordered from the repository.
	rooms.rooms = []models.Room{rooms.rooms[1], rooms.rooms[0]}

	svc := newAllocationFixture(rooms, nil, nil, nil, nil)
	ref, err := svc.FindAvailableResource(context.Background(), nil, roomQuery(""))
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, int64(2), ref.ID)
	assert.Equal(t, models.KindRoom, ref.Kind)
	assert.Equal(t, "Sala Chica", ref.Nombre)
}

func TestFindAvailableResourceSkipsOverlappingRoom(t *testing.T) {
	rooms := &roomStoreStub{rooms: []models.Room{
		{ID: 1, Nombre: "Sala A"},
		{ID: 2, Nombre: "Sala B"},
	}}
	intervals := &intervalsStub{booked: []models.BookedInterval{
		{ResourceID: 1, HoraInicio: "09:00:00", HoraFin: "10:30:00"},
	}}

	svc := newAllocationFixture(rooms, nil, nil, nil, intervals)
	ref, err := svc.FindAvailableResource(context.Background(), nil, roomQuery(""))
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, int64(2), ref.ID)
}

func TestFindAvailableResourceAllowsBackToBackWindows(t *testing.T) {
	rooms := &roomStoreStub{rooms: []models.Room{{ID: 1, Nombre: "Sala A"}}}
	intervals := &intervalsStub{booked: []models.BookedInterval{
		{ResourceID: 1, HoraInicio: "08:30:00", HoraFin: "10:00:00"},
		{ResourceID: 1, HoraInicio: "11:30:00", HoraFin: "13:00:00"},
	}}

	svc := newAllocationFixture(rooms, nil, nil, nil, intervals)
	ref, err := svc.FindAvailableResource(context.Background(), nil, roomQuery(""))
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, int64(1), ref.ID)
}

func TestFindAvailableResourceHonoursRoomRoles(t *testing.T) {
	rooms := &roomStoreStub{rooms: []models.Room{
		{ID: 1, Nombre: "Sala Docentes", RolesPermitidos: "profesor"},
		{ID: 2, Nombre: "Sala Abierta"},
	}}

	svc := newAllocationFixture(rooms, nil, nil, nil, nil)

	ref, err := svc.FindAvailableResource(context.Background(), nil, roomQuery(models.RoleStudent))
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, int64(2), ref.ID)

	ref, err = svc.FindAvailableResource(context.Background(), nil, roomQuery(models.RoleProfessor))
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, int64(1), ref.ID)
}

func TestFindAvailableResourceExcludesSpecialOccupations(t *testing.T) {
	rooms := &roomStoreStub{rooms: []models.Room{
		{ID: 1, Nombre: "Sala A"},
		{ID: 2, Nombre: "Sala B"},
	}}
	occupations := &occupationStub{blocked: map[models.ResourceKind][]int64{
		models.KindRoom: {1},
	}}

	svc := newAllocationFixture(rooms, nil, nil, occupations, nil)
	ref, err := svc.FindAvailableResource(context.Background(), nil, roomQuery(""))
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, int64(2), ref.ID)
}

func TestFindAvailableResourceFiltersEquipmentByType(t *testing.T) {
	equipment := &equipmentStoreStub{items: []models.Equipment{
		{ID: 1, Nombre: "Grabadora Zoom", Tipo: "grabadora"},
		{ID: 2, Nombre: "Camara Sony", Tipo: "camara"},
	}}

	svc := newAllocationFixture(nil, nil, equipment, nil, nil)
	query := AllocationQuery{
		Fecha:      "2026-09-14",
		HoraInicio: "10:00:00",
		HoraFin:    "11:00:00",
		Service:    models.ServiceFor("camara"),
	}
	ref, err := svc.FindAvailableResource(context.Background(), nil, query)
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, int64(2), ref.ID)
	assert.Equal(t, "camara", equipment.lastTipo)
}

func TestFindAvailableResourceExhaustionReturnsNil(t *testing.T) {
	rooms := &roomStoreStub{rooms: []models.Room{{ID: 1}}}
	intervals := &intervalsStub{booked: []models.BookedInterval{
		{ResourceID: 1, HoraInicio: "10:00:00", HoraFin: "12:00:00"},
	}}

	svc := newAllocationFixture(rooms, nil, nil, nil, intervals)
	ref, err := svc.FindAvailableResource(context.Background(), nil, roomQuery(""))
	require.NoError(t, err)
	assert.Nil(t, ref)
}

func TestClaimResourceLocksCandidate(t *testing.T) {
	rooms := &roomStoreStub{rooms: []models.Room{{ID: 7, Nombre: "Sala A"}}}

	svc := newAllocationFixture(rooms, nil, nil, nil, nil)
	ref, err := svc.ClaimResource(context.Background(), nil, roomQuery(""))
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, int64(7), ref.ID)
	assert.Equal(t, []int64{7}, rooms.locked)
}

func TestClaimResourceGivesUpWhenVerifyKeepsFailing(t *testing.T) {
	rooms := &roomStoreStub{rooms: []models.Room{{ID: 7}}}
	// The pre-lock scan sees the room free, but the post-lock verify always
	// finds a competing window, as if another creator keeps winning the race.
	intervals := &intervalsStub{
		onVerify: map[int64][]models.BookedInterval{
			7: {{ResourceID: 7, HoraInicio: "10:00:00", HoraFin: "11:00:00"}},
		},
	}

	svc := newAllocationFixture(rooms, nil, nil, nil, intervals)
	ref, err := svc.ClaimResource(context.Background(), nil, roomQuery(""))
	require.NoError(t, err)
	assert.Nil(t, ref)
	assert.Len(t, rooms.locked, maxClaimAttempts)
}
