package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ProductStockRepository define el puerto de persistencia para la ficha de
// stock del producto (DIP). GetByID devuelve nil sin error si no existe.
type ProductStockRepository interface {
	GetByID(ctx context.Context, productID string) (*entity.ProductStock, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE). Toda
	// operación que muta lotes o reclama el cupo de auto-orden debe pasar
	// por aquí dentro de su transacción: es el único punto de serialización
	// entre operaciones concurrentes sobre el mismo producto.
	GetForUpdate(ctx context.Context, productID string) (*entity.ProductStock, error)
	UpdateQuantity(ctx context.Context, productID string, quantity decimal.Decimal) error
	// UpdateLastAutoOrder avanza last_auto_order_at. Solo debe invocarse
	// dentro de la transacción que confirmó el cupo (stock.Guard).
	UpdateLastAutoOrder(ctx context.Context, productID string, at time.Time) error
}
