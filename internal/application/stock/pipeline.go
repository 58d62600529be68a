package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// Pipeline ejecuta las intenciones de reposición estrictamente después del
// commit de la transacción que las disparó. Cada intención corre en su
// propia transacción independiente: así el I/O lento hacia el proveedor
// nunca retiene el bloqueo de la salida de stock, y el fallo de una
// intención no afecta a las demás ni a la salida ya confirmada.
type Pipeline struct {
	txRunner TxRunner
	guard    *Guard
	issuer   PurchaseOrderIssuer
	log      *logger.Logger
	now      func() time.Time
}

// NewPipeline construye el pipeline diferido de auto-órdenes.
func NewPipeline(txRunner TxRunner, guard *Guard, issuer PurchaseOrderIssuer, log *logger.Logger) *Pipeline {
	return &Pipeline{
		txRunner: txRunner,
		guard:    guard,
		issuer:   issuer,
		log:      log,
		now:      time.Now,
	}
}

// Process drena todas las intenciones registradas desde el drenaje anterior
// y las ejecuta una por una. Invocar solo después de que la transacción que
// las registró haya hecho commit. Nunca devuelve error al caller de la
// salida de stock: negaciones del guard se descartan en silencio y los
// fallos de emisión solo se registran en el log.
func (p *Pipeline) Process(ctx context.Context, ob *Outbox) {
	if ob == nil {
		return
	}
	for _, intent := range ob.Drain() {
		p.processIntent(ctx, intent)
	}
}

// Discard elimina la intención pendiente del producto; punto único de
// limpieza para callers cuya transacción va a hacer rollback.
func (p *Pipeline) Discard(ob *Outbox, productID string) {
	if ob == nil {
		return
	}
	ob.Discard(productID)
}

// processIntent reclama el cupo y emite la orden en una transacción nueva.
// Si el guard niega (otro drenaje concurrente ya reclamó el cupo), la
// intención se descarta. Si la emisión falla, el rollback deja
// last_auto_order_at sin avanzar: una próxima salida que cruce el umbral
// vuelve a intentarlo de forma natural.
func (p *Pipeline) processIntent(ctx context.Context, intent ReplenishmentIntent) {
	err := p.txRunner.Run(ctx, func(
		_ repository.InventoryLotRepository,
		stockRepo repository.ProductStockRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error {
		decision, err := p.guard.ClaimAutoOrderSlot(ctx, stockRepo, intent.ProductID, p.guard.MinInterval())
		if err != nil {
			return err
		}
		if !decision.Permitted {
			p.log.Debug().
				Str("product_id", intent.ProductID).
				Str("reason", decision.Reason).
				Msg("auto-orden negada por intervalo mínimo; intención descartada")
			return nil
		}

		// Fila ya bloqueada por el claim; releer para el mínimo de pedido
		stock, err := stockRepo.GetByID(ctx, intent.ProductID)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrProductNotFound
		}
		quantity := intent.Deficit
		if quantity.LessThan(stock.MinOrderQuantity) {
			quantity = stock.MinOrderQuantity
		}

		order := &entity.PurchaseOrder{
			ID:        uuid.New().String(),
			ProductID: intent.ProductID,
			SellerID:  stock.SellerID,
			Quantity:  quantity,
			Status:    entity.PurchaseOrderStatusOpen,
			Source:    entity.PurchaseOrderSourceAuto,
			CreatedAt: p.now(),
		}
		orderID, err := p.issuer.Issue(ctx, orderRepo, order)
		if err != nil {
			return err
		}
		p.log.Info().
			Str("product_id", intent.ProductID).
			Str("order_id", orderID).
			Str("seller_id", stock.SellerID).
			Str("quantity", quantity.String()).
			Msg("auto-orden de reposición emitida")
		return nil
	})
	if err != nil {
		p.log.Warn().
			Err(err).
			Str("product_id", intent.ProductID).
			Str("deficit", intent.Deficit.String()).
			Msg("emisión de auto-orden falló; se reintentará en una próxima salida bajo mínimo")
	}
}
