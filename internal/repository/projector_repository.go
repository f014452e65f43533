package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campus-medios/av-booking-api/internal/models"
)

const projectorColumns = "id, nombre, ubicacion, estado"

// ProjectorRepository provides persistence for the videoproyectores catalog.
type ProjectorRepository struct {
	db *sqlx.DB
}

// NewProjectorRepository creates a new projector repository.
func NewProjectorRepository(db *sqlx.DB) *ProjectorRepository {
	return &ProjectorRepository{db: db}
}

// List returns every projector ordered by id.
func (r *ProjectorRepository) List(ctx context.Context) ([]models.Projector, error) {
	query := fmt.Sprintf("SELECT %s FROM videoproyectores ORDER BY id ASC", projectorColumns)
	var projectors []models.Projector
	if err := r.db.SelectContext(ctx, &projectors, query); err != nil {
		return nil, fmt.Errorf("list projectors: %w", err)
	}
	return projectors, nil
}

// FindByID loads a projector by id.
func (r *ProjectorRepository) FindByID(ctx context.Context, id int64) (*models.Projector, error) {
	query := fmt.Sprintf("SELECT %s FROM videoproyectores WHERE id = $1", projectorColumns)
	var projector models.Projector
	if err := r.db.GetContext(ctx, &projector, query, id); err != nil {
		return nil, err
	}
	return &projector, nil
}

// Create stores a new projector and fills in the generated id.
func (r *ProjectorRepository) Create(ctx context.Context, projector *models.Projector) error {
	const query = `INSERT INTO videoproyectores (nombre, ubicacion, estado) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, projector.Nombre, projector.Ubicacion, projector.Estado).Scan(&projector.ID); err != nil {
		return fmt.Errorf("create projector: %w", err)
	}
	return nil
}

// Update modifies a projector record.
func (r *ProjectorRepository) Update(ctx context.Context, projector *models.Projector) error {
	const query = `UPDATE videoproyectores SET nombre = :nombre, ubicacion = :ubicacion, estado = :estado WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, projector); err != nil {
		return fmt.Errorf("update projector: %w", err)
	}
	return nil
}

// Delete removes a projector by id.
func (r *ProjectorRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM videoproyectores WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete projector: %w", err)
	}
	return nil
}

// SetEstado updates only the static availability state.
func (r *ProjectorRepository) SetEstado(ctx context.Context, id int64, estado models.ResourceState) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE videoproyectores SET estado = $1 WHERE id = $2`, estado, id); err != nil {
		return fmt.Errorf("set projector estado: %w", err)
	}
	return nil
}

// ListAllocatableTx returns projectors eligible for allocation ordered by id.
func (r *ProjectorRepository) ListAllocatableTx(ctx context.Context, tx *sqlx.Tx) ([]models.Projector, error) {
	query := fmt.Sprintf("SELECT %s FROM videoproyectores WHERE estado = $1 ORDER BY id ASC", projectorColumns)
	var projectors []models.Projector
	if err := tx.SelectContext(ctx, &projectors, query, models.ResourceAvailable); err != nil {
		return nil, fmt.Errorf("list allocatable projectors: %w", err)
	}
	return projectors, nil
}

// LockByIDTx acquires a row lock on the projector for the transaction.
func (r *ProjectorRepository) LockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	var locked int64
	if err := tx.GetContext(ctx, &locked, `SELECT id FROM videoproyectores WHERE id = $1 FOR UPDATE`, id); err != nil {
		return fmt.Errorf("lock projector %d: %w", id, err)
	}
	return nil
}

// SetEstadoTx updates the availability state inside an existing transaction.
func (r *ProjectorRepository) SetEstadoTx(ctx context.Context, tx *sqlx.Tx, id int64, estado models.ResourceState) error {
	if _, err := tx.ExecContext(ctx, `UPDATE videoproyectores SET estado = $1 WHERE id = $2`, estado, id); err != nil {
		return fmt.Errorf("set projector estado: %w", err)
	}
	return nil
}
