package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campus-medios/av-booking-api/internal/models"
)

const equipmentColumns = "id, nombre, tipo, descripcion, estado"

// EquipmentRepository provides persistence for the equipos catalog.
type EquipmentRepository struct {
	db *sqlx.DB
}

// NewEquipmentRepository creates a new equipment repository.
func NewEquipmentRepository(db *sqlx.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

// List returns equipment items, optionally filtered by type key.
func (r *EquipmentRepository) List(ctx context.Context, tipo string) ([]models.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM equipos", equipmentColumns)
	var args []interface{}
	if tipo != "" {
		query += " WHERE tipo = $1"
		args = append(args, tipo)
	}
	query += " ORDER BY id ASC"

	var items []models.Equipment
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	return items, nil
}

// FindByID loads an equipment item by id.
func (r *EquipmentRepository) FindByID(ctx context.Context, id int64) (*models.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM equipos WHERE id = $1", equipmentColumns)
	var item models.Equipment
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create stores a new equipment item and fills in the generated id.
func (r *EquipmentRepository) Create(ctx context.Context, item *models.Equipment) error {
	const query = `INSERT INTO equipos (nombre, tipo, descripcion, estado) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, item.Nombre, item.Tipo, item.Descripcion, item.Estado).Scan(&item.ID); err != nil {
		return fmt.Errorf("create equipment: %w", err)
	}
	return nil
}

// Update modifies an equipment record.
func (r *EquipmentRepository) Update(ctx context.Context, item *models.Equipment) error {
	const query = `UPDATE equipos SET nombre = :nombre, tipo = :tipo, descripcion = :descripcion, estado = :estado WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update equipment: %w", err)
	}
	return nil
}

// Delete removes an equipment item by id.
func (r *EquipmentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM equipos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete equipment: %w", err)
	}
	return nil
}

// SetEstado updates only the static availability state.
func (r *EquipmentRepository) SetEstado(ctx context.Context, id int64, estado models.ResourceState) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE equipos SET estado = $1 WHERE id = $2`, estado, id); err != nil {
		return fmt.Errorf("set equipment estado: %w", err)
	}
	return nil
}

// ListAllocatableTx returns equipment of the given type eligible for
// allocation ordered by id. Items whose type key no longer exists in the
// catalog still match here; the orphaned key is a tolerated inconsistency.
func (r *EquipmentRepository) ListAllocatableTx(ctx context.Context, tx *sqlx.Tx, tipo string) ([]models.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM equipos WHERE estado = $1 AND tipo = $2 ORDER BY id ASC", equipmentColumns)
	var items []models.Equipment
	if err := tx.SelectContext(ctx, &items, query, models.ResourceAvailable, tipo); err != nil {
		return nil, fmt.Errorf("list allocatable equipment: %w", err)
	}
	return items, nil
}

// LockByIDTx acquires a row lock on the equipment item for the transaction.
func (r *EquipmentRepository) LockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	var locked int64
	if err := tx.GetContext(ctx, &locked, `SELECT id FROM equipos WHERE id = $1 FOR UPDATE`, id); err != nil {
		return fmt.Errorf("lock equipment %d: %w", id, err)
	}
	return nil
}

// SetEstadoTx updates the availability state inside an existing transaction.
func (r *EquipmentRepository) SetEstadoTx(ctx context.Context, tx *sqlx.Tx, id int64, estado models.ResourceState) error {
	if _, err := tx.ExecContext(ctx, `UPDATE equipos SET estado = $1 WHERE id = $2`, estado, id); err != nil {
		return fmt.Errorf("set equipment estado: %w", err)
	}
	return nil
}
