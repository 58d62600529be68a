package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Ledger es el libro de stock: mantiene los lotes por producto y ubicación,
// consume en orden FIFO estricto y recalcula el agregado materializado tras
// cada mutación. Toda mutación corre dentro de una transacción que bloquea
// primero la fila del producto (SELECT FOR UPDATE), de modo que dos
// operaciones concurrentes sobre el mismo producto se serializan en la BD;
// productos distintos nunca contienden.
//
// El chequeo de umbral solo registra una intención en el Outbox del caller:
// ninguna orden se crea de forma síncrona (ver Pipeline).
type Ledger struct {
	txRunner     TxRunner
	lotRepo      repository.InventoryLotRepository   // atado al pool, solo lecturas
	locationRepo repository.StorageLocationRepository
	now          func() time.Time
}

// NewLedger construye el libro de stock.
func NewLedger(
	txRunner TxRunner,
	lotRepo repository.InventoryLotRepository,
	locationRepo repository.StorageLocationRepository,
) *Ledger {
	return &Ledger{
		txRunner:     txRunner,
		lotRepo:      lotRepo,
		locationRepo: locationRepo,
		now:          time.Now,
	}
}

// LotMetadata datos opcionales del lote al recibir o reponer mercancía.
type LotMetadata struct {
	BatchNumber *string
	ExpiresAt   *time.Time
	Shelf       *string
	Compartment *string
	ReceivedAt  *time.Time // por defecto el momento de la operación
}

// AddStockInput entrada para registrar la recepción de un lote.
type AddStockInput struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	Metadata   LotMetadata
}

// AddStock inserta un lote nuevo y recalcula el agregado del producto.
// Falla con ErrInvalidInput si la cantidad no es positiva y con
// ErrLocationNotFound si la ubicación no existe o está inactiva.
func (l *Ledger) AddStock(ctx context.Context, in AddStockInput) (*entity.InventoryLot, error) {
	if in.ProductID == "" || in.LocationID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	loc, err := l.locationRepo.GetByID(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil || !loc.Active {
		return nil, domain.ErrLocationNotFound
	}

	now := l.now()
	receivedAt := now
	if in.Metadata.ReceivedAt != nil {
		receivedAt = *in.Metadata.ReceivedAt
	}
	lot := &entity.InventoryLot{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		LocationID:  in.LocationID,
		Quantity:    in.Quantity,
		ReceivedAt:  receivedAt,
		BatchNumber: in.Metadata.BatchNumber,
		ExpiresAt:   in.Metadata.ExpiresAt,
		Shelf:       in.Metadata.Shelf,
		Compartment: in.Metadata.Compartment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = l.txRunner.Run(ctx, func(
		lotRepo repository.InventoryLotRepository,
		stockRepo repository.ProductStockRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		// Bloquea la fila del producto: serializa contra salidas concurrentes
		stock, err := stockRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrProductNotFound
		}
		if err := lotRepo.Create(ctx, lot); err != nil {
			return err
		}
		return l.recomputeAggregate(ctx, lotRepo, stockRepo, in.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// IncreaseLotQuantity suma cantidad a un lote existente (reposiciones y
// devoluciones) y recalcula el agregado. Los campos no nil de meta
// actualizan los datos del lote.
func (l *Ledger) IncreaseLotQuantity(ctx context.Context, lotID string, quantity decimal.Decimal, meta LotMetadata) error {
	if lotID == "" || !quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return l.txRunner.Run(ctx, func(
		lotRepo repository.InventoryLotRepository,
		stockRepo repository.ProductStockRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		// Lectura previa solo para conocer el producto; la lectura válida
		// es la que sigue al bloqueo de la fila del producto.
		lot, err := lotRepo.GetByID(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrLotNotFound
		}
		stock, err := stockRepo.GetForUpdate(ctx, lot.ProductID)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrProductNotFound
		}
		lot, err = lotRepo.GetByID(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrLotNotFound
		}

		lot.Quantity = lot.Quantity.Add(quantity)
		if meta.BatchNumber != nil {
			lot.BatchNumber = meta.BatchNumber
		}
		if meta.ExpiresAt != nil {
			lot.ExpiresAt = meta.ExpiresAt
		}
		if meta.Shelf != nil {
			lot.Shelf = meta.Shelf
		}
		if meta.Compartment != nil {
			lot.Compartment = meta.Compartment
		}
		lot.UpdatedAt = l.now()
		if err := lotRepo.Update(ctx, lot); err != nil {
			return err
		}
		return l.recomputeAggregate(ctx, lotRepo, stockRepo, lot.ProductID)
	})
}

// RemoveStockInput entrada para una salida de stock (picking, escaneo,
// ajuste). LocationID vacío = consumir de cualquier ubicación.
// SkipReplenishmentCheck desactiva el registro de intención de reposición
// (por defecto el chequeo está activo).
type RemoveStockInput struct {
	ProductID              string
	Quantity               decimal.Decimal
	LocationID             string
	SkipReplenishmentCheck bool
}

// RemoveStock consume lotes en orden FIFO (received_at ASC, id ASC) dentro
// de una transacción: lotes agotados se eliminan, un lote parcialmente
// consumido reduce su cantidad, y ningún lote se muta si la cantidad pedida
// no puede satisfacerse completa (todo o nada).
//
// Si tras la salida el agregado queda en o bajo el mínimo del producto y el
// auto-pedido está habilitado, registra (o sobrescribe) una intención de
// reposición en ob con el déficit calculado. El caller debe invocar
// Pipeline.Process(ob) solo después de confirmar su commit, o
// DiscardDeferredAutoOrder si va a hacer rollback.
func (l *Ledger) RemoveStock(ctx context.Context, ob *Outbox, in RemoveStockInput) error {
	if in.ProductID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return l.txRunner.Run(ctx, func(
		lotRepo repository.InventoryLotRepository,
		stockRepo repository.ProductStockRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrProductNotFound
		}

		lots, err := lotRepo.ListFIFO(ctx, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		eligible := decimal.Zero
		for _, lot := range lots {
			eligible = eligible.Add(lot.Quantity)
		}
		if eligible.LessThan(in.Quantity) {
			// Todo o nada: en este camino ningún lote se muta
			if in.LocationID != "" {
				global, err := lotRepo.SumQuantity(ctx, in.ProductID, "")
				if err != nil {
					return err
				}
				if global.GreaterThanOrEqual(in.Quantity) {
					return domain.ErrInsufficientStockAtLocation
				}
			}
			return domain.ErrInsufficientStock
		}

		remaining := in.Quantity
		for _, lot := range lots {
			if lot.Quantity.LessThanOrEqual(remaining) {
				// Lote agotado: se elimina, nunca queda fila en cero
				if err := lotRepo.Delete(ctx, lot.ID); err != nil {
					return err
				}
				remaining = remaining.Sub(lot.Quantity)
			} else {
				lot.Quantity = lot.Quantity.Sub(remaining)
				lot.UpdatedAt = l.now()
				if err := lotRepo.Update(ctx, lot); err != nil {
					return err
				}
				remaining = decimal.Zero
			}
			if remaining.IsZero() {
				break
			}
		}

		newAgg, err := lotRepo.SumQuantity(ctx, in.ProductID, "")
		if err != nil {
			return err
		}
		if err := stockRepo.UpdateQuantity(ctx, in.ProductID, newAgg); err != nil {
			return err
		}

		if !in.SkipReplenishmentCheck && ob != nil &&
			stock.AutoOrderEnabled && newAgg.LessThanOrEqual(stock.MinStockLevel) {
			ob.Record(ReplenishmentIntent{
				ProductID:  in.ProductID,
				SellerID:   stock.SellerID,
				Deficit:    stock.MinStockLevel.Sub(newAgg),
				DetectedAt: l.now(),
			})
		}
		return nil
	})
}

// DiscardDeferredAutoOrder elimina la intención pendiente del producto sin
// efectos secundarios. Usar cuando la transacción que la registró va a
// hacer rollback.
func (l *Ledger) DiscardDeferredAutoOrder(ob *Outbox, productID string) {
	if ob == nil {
		return
	}
	ob.Discard(productID)
}

// ListLots devuelve los lotes vivos del producto en orden FIFO (vista
// administrativa).
func (l *Ledger) ListLots(ctx context.Context, productID string) ([]*entity.InventoryLot, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return l.lotRepo.ListFIFO(ctx, productID, "")
}

// recomputeAggregate rehace el agregado del producto desde la suma de sus
// lotes vivos. Debe ejecutarse dentro de la misma transacción que mutó los
// lotes, con la fila del producto ya bloqueada.
func (l *Ledger) recomputeAggregate(
	ctx context.Context,
	lotRepo repository.InventoryLotRepository,
	stockRepo repository.ProductStockRepository,
	productID string,
) error {
	sum, err := lotRepo.SumQuantity(ctx, productID, "")
	if err != nil {
		return err
	}
	return stockRepo.UpdateQuantity(ctx, productID, sum)
}
