package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// StorageLocationRepository define el puerto para validar y listar
// ubicaciones de almacenamiento.
type StorageLocationRepository interface {
	GetByID(ctx context.Context, locationID string) (*entity.StorageLocation, error)
	List(ctx context.Context) ([]*entity.StorageLocation, error)
}
