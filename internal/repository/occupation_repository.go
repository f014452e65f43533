package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campus-medios/av-booking-api/internal/models"
)

// OccupationRepository manages the special-occupation ledger.
type OccupationRepository struct {
	db *sqlx.DB
}

// NewOccupationRepository creates a new occupation repository.
func NewOccupationRepository(db *sqlx.DB) *OccupationRepository {
	return &OccupationRepository{db: db}
}

// List returns ledger entries, newest first.
func (r *OccupationRepository) List(ctx context.Context) ([]models.SpecialOccupation, error) {
	const query = `SELECT id, tipo_recurso, id_recurso, motivo, activa FROM ocupaciones_especiales ORDER BY id DESC`
	var entries []models.SpecialOccupation
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list special occupations: %w", err)
	}
	return entries, nil
}

// FindByID loads a ledger entry by id.
func (r *OccupationRepository) FindByID(ctx context.Context, id int64) (*models.SpecialOccupation, error) {
	var entry models.SpecialOccupation
	if err := r.db.GetContext(ctx, &entry, `SELECT id, tipo_recurso, id_recurso, motivo, activa FROM ocupaciones_especiales WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create stores a new ledger entry and fills in the generated id.
func (r *OccupationRepository) Create(ctx context.Context, entry *models.SpecialOccupation) error {
	const query = `INSERT INTO ocupaciones_especiales (tipo_recurso, id_recurso, motivo, activa) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, entry.TipoRecurso, entry.ResourceID, entry.Motivo, entry.Activa).Scan(&entry.ID); err != nil {
		return fmt.Errorf("create special occupation: %w", err)
	}
	return nil
}

// SetActive toggles a ledger entry on or off.
func (r *OccupationRepository) SetActive(ctx context.Context, id int64, activa bool) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE ocupaciones_especiales SET activa = $1 WHERE id = $2`, activa, id); err != nil {
		return fmt.Errorf("toggle special occupation: %w", err)
	}
	return nil
}

// Delete removes a ledger entry.
func (r *OccupationRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ocupaciones_especiales WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete special occupation: %w", err)
	}
	return nil
}

// ActiveIDsTx returns the set of resource ids of the given kind currently
// blocked by an active ledger entry.
func (r *OccupationRepository) ActiveIDsTx(ctx context.Context, tx *sqlx.Tx, kind models.ResourceKind) (map[int64]struct{}, error) {
	var ids []int64
	if err := tx.SelectContext(ctx, &ids, `SELECT id_recurso FROM ocupaciones_especiales WHERE tipo_recurso = $1 AND activa = TRUE`, kind); err != nil {
		return nil, fmt.Errorf("list active occupations: %w", err)
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
