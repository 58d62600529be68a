package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.StorageLocationRepository = (*StorageLocationRepo)(nil)

// StorageLocationRepo implementación de StorageLocationRepository sobre
// PostgreSQL (usable con pool o tx).
type StorageLocationRepo struct {
	q Querier
}

// NewStorageLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStorageLocationRepository(q Querier) *StorageLocationRepo {
	return &StorageLocationRepo{q: q}
}

// GetByID obtiene una ubicación por ID. Devuelve nil si no existe.
func (r *StorageLocationRepo) GetByID(ctx context.Context, locationID string) (*entity.StorageLocation, error) {
	query := `
		SELECT id, name, active, created_at
		FROM storage_locations WHERE id = $1`
	var loc entity.StorageLocation
	err := r.q.QueryRow(ctx, query, locationID).Scan(&loc.ID, &loc.Name, &loc.Active, &loc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get storage location: %w", err)
	}
	return &loc, nil
}

// List lista todas las ubicaciones.
func (r *StorageLocationRepo) List(ctx context.Context) ([]*entity.StorageLocation, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, active, created_at FROM storage_locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list storage locations: %w", err)
	}
	defer rows.Close()

	var locations []*entity.StorageLocation
	for rows.Next() {
		var loc entity.StorageLocation
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Active, &loc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan storage location: %w", err)
		}
		locations = append(locations, &loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list storage locations: %w", err)
	}
	return locations, nil
}
