package stock

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el libro de stock
// y para el pipeline de auto-órdenes.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.InventoryLotRepository,
		stockRepo repository.ProductStockRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error) error
}

// PurchaseOrderIssuer es la frontera hacia la creación real de la orden de
// compra (documento, notificación al proveedor). Recibe el repositorio
// atado a la transacción del pipeline: si Issue falla, el caller hace
// rollback y la orden no queda persistida.
type PurchaseOrderIssuer interface {
	Issue(ctx context.Context, orderRepo repository.PurchaseOrderRepository, order *entity.PurchaseOrder) (string, error)
}
