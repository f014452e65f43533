package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campus-medios/av-booking-api/internal/models"
)

// EquipmentTypeRepository manages the administrable tipos_equipo catalog.
type EquipmentTypeRepository struct {
	db *sqlx.DB
}

// NewEquipmentTypeRepository creates a new equipment-type repository.
func NewEquipmentTypeRepository(db *sqlx.DB) *EquipmentTypeRepository {
	return &EquipmentTypeRepository{db: db}
}

// List returns type entries in display order. Inactive entries are included
// only when requested.
func (r *EquipmentTypeRepository) List(ctx context.Context, includeInactive bool) ([]models.EquipmentType, error) {
	query := "SELECT clave, nombre, activo, orden FROM tipos_equipo"
	if !includeInactive {
		query += " WHERE activo = TRUE"
	}
	query += " ORDER BY orden ASC, clave ASC"

	var types []models.EquipmentType
	if err := r.db.SelectContext(ctx, &types, query); err != nil {
		return nil, fmt.Errorf("list equipment types: %w", err)
	}
	return types, nil
}

// FindByClave loads a type entry by key.
func (r *EquipmentTypeRepository) FindByClave(ctx context.Context, clave string) (*models.EquipmentType, error) {
	var t models.EquipmentType
	if err := r.db.GetContext(ctx, &t, `SELECT clave, nombre, activo, orden FROM tipos_equipo WHERE clave = $1`, clave); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create stores a new type entry.
func (r *EquipmentTypeRepository) Create(ctx context.Context, t *models.EquipmentType) error {
	const query = `INSERT INTO tipos_equipo (clave, nombre, activo, orden) VALUES (:clave, :nombre, :activo, :orden)`
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("create equipment type: %w", err)
	}
	return nil
}

// Update modifies a type entry (name, active flag, sort order).
func (r *EquipmentTypeRepository) Update(ctx context.Context, t *models.EquipmentType) error {
	const query = `UPDATE tipos_equipo SET nombre = :nombre, activo = :activo, orden = :orden WHERE clave = :clave`
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("update equipment type: %w", err)
	}
	return nil
}

// Delete removes a type entry. Equipment rows referencing the key keep it as
// an orphan; instances are managed independently of the catalog.
func (r *EquipmentTypeRepository) Delete(ctx context.Context, clave string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tipos_equipo WHERE clave = $1`, clave); err != nil {
		return fmt.Errorf("delete equipment type: %w", err)
	}
	return nil
}

// Reorder rewrites the orden column following the given key sequence.
func (r *EquipmentTypeRepository) Reorder(ctx context.Context, claves []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder equipment types: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for idx, clave := range claves {
		if _, err = tx.ExecContext(ctx, `UPDATE tipos_equipo SET orden = $1 WHERE clave = $2`, idx+1, clave); err != nil {
			return fmt.Errorf("reorder equipment type %s: %w", clave, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder equipment types: %w", err)
	}
	return nil
}
