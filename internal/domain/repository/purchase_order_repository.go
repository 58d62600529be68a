package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de
// compra. El pipeline diferido lo usa atado a su transacción: si la emisión
// falla, el rollback descarta también la orden insertada.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, orderID string) (*entity.PurchaseOrder, error)
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.PurchaseOrder, error)
}
