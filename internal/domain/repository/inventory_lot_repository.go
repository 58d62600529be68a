package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// InventoryLotRepository define el puerto de persistencia para lotes (DIP).
// GetByID devuelve nil sin error si el lote no existe.
type InventoryLotRepository interface {
	Create(ctx context.Context, lot *entity.InventoryLot) error
	GetByID(ctx context.Context, lotID string) (*entity.InventoryLot, error)
	// ListFIFO devuelve los lotes vivos del producto en orden FIFO
	// (received_at ASC, id ASC). locationID vacío = todas las ubicaciones.
	ListFIFO(ctx context.Context, productID, locationID string) ([]*entity.InventoryLot, error)
	// SumQuantity suma las cantidades de los lotes vivos del producto.
	// locationID vacío = todas las ubicaciones.
	SumQuantity(ctx context.Context, productID, locationID string) (decimal.Decimal, error)
	Update(ctx context.Context, lot *entity.InventoryLot) error
	Delete(ctx context.Context, lotID string) error
}
