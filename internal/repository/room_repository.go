package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campus-medios/av-booking-api/internal/models"
)

const roomColumns = "id, nombre, ubicacion, capacidad, estado, roles_permitidos"

// RoomRepository provides persistence for the salas catalog.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns every room ordered by id.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM salas ORDER BY id ASC", roomColumns)
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// FindByID loads a room by id.
func (r *RoomRepository) FindByID(ctx context.Context, id int64) (*models.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM salas WHERE id = $1", roomColumns)
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// Create stores a new room and fills in the generated id.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	const query = `INSERT INTO salas (nombre, ubicacion, capacidad, estado, roles_permitidos) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, room.Nombre, room.Ubicacion, room.Capacidad, room.Estado, room.RolesPermitidos).Scan(&room.ID); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Update modifies a room record.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	const query = `UPDATE salas SET nombre = :nombre, ubicacion = :ubicacion, capacidad = :capacidad, estado = :estado, roles_permitidos = :roles_permitidos WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	return nil
}

// Delete removes a room by id.
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM salas WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}

// SetEstado updates only the static availability state.
func (r *RoomRepository) SetEstado(ctx context.Context, id int64, estado models.ResourceState) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE salas SET estado = $1 WHERE id = $2`, estado, id); err != nil {
		return fmt.Errorf("set room estado: %w", err)
	}
	return nil
}

// ListAllocatableTx returns rooms eligible for allocation, smallest capacity
// first so the finder fills small rooms before large ones.
func (r *RoomRepository) ListAllocatableTx(ctx context.Context, tx *sqlx.Tx) ([]models.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM salas WHERE estado = $1 ORDER BY capacidad ASC, id ASC", roomColumns)
	var rooms []models.Room
	if err := tx.SelectContext(ctx, &rooms, query, models.ResourceAvailable); err != nil {
		return nil, fmt.Errorf("list allocatable rooms: %w", err)
	}
	return rooms, nil
}

// LockByIDTx acquires a row lock on the room for the remainder of the
// transaction, serialising concurrent allocators targeting the same room.
func (r *RoomRepository) LockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	var locked int64
	if err := tx.GetContext(ctx, &locked, `SELECT id FROM salas WHERE id = $1 FOR UPDATE`, id); err != nil {
		return fmt.Errorf("lock room %d: %w", id, err)
	}
	return nil
}

// SetEstadoTx updates the availability state inside an existing transaction.
func (r *RoomRepository) SetEstadoTx(ctx context.Context, tx *sqlx.Tx, id int64, estado models.ResourceState) error {
	if _, err := tx.ExecContext(ctx, `UPDATE salas SET estado = $1 WHERE id = $2`, estado, id); err != nil {
		return fmt.Errorf("set room estado: %w", err)
	}
	return nil
}
