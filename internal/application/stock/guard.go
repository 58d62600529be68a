package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Decision resultado estructurado del guard. La negación no es un error:
// es un resultado normal que el pipeline consume en silencio.
type Decision struct {
	Permitted bool
	Reason    string
	RetryIn   time.Duration // tiempo restante del intervalo cuando se niega
}

// Guard decide si se puede colocar una auto-orden para un producto,
// aplicando el intervalo mínimo entre auto-órdenes del mismo producto.
//
// La garantía de como-máximo-una-orden-por-intervalo bajo concurrencia sale
// exclusivamente de ClaimAutoOrderSlot: bloqueo de fila, lectura de
// last_auto_order_at y escritura condicional, todo dentro de la misma
// transacción del caller. Un segundo claim concurrente sobre el mismo
// producto se bloquea en el FOR UPDATE, reevalúa contra el timestamp ya
// avanzado y queda correctamente negado. No se necesita ningún servicio de
// coordinación externo.
type Guard struct {
	stockRepo repository.ProductStockRepository // atado al pool, solo diagnóstico
	interval  time.Duration
	now       func() time.Time
}

// NewGuard construye el guard con el intervalo mínimo configurado.
func NewGuard(stockRepo repository.ProductStockRepository, minInterval time.Duration) *Guard {
	return &Guard{stockRepo: stockRepo, interval: minInterval, now: time.Now}
}

// MinInterval devuelve el intervalo mínimo configurado entre auto-órdenes
// del mismo producto.
func (g *Guard) MinInterval() time.Duration {
	return g.interval
}

// CanPlaceAutoOrder evalúa el intervalo sin tomar bloqueo. Es de solo
// lectura y no vinculante: sirve para el endpoint de diagnóstico, nunca
// para decidir una emisión real (para eso está ClaimAutoOrderSlot).
func (g *Guard) CanPlaceAutoOrder(ctx context.Context, productID string, interval time.Duration) (Decision, error) {
	stock, err := g.stockRepo.GetByID(ctx, productID)
	if err != nil {
		return Decision{}, err
	}
	if stock == nil {
		return Decision{}, domain.ErrProductNotFound
	}
	return g.evaluate(stock.LastAutoOrderAt, interval), nil
}

// ClaimAutoOrderSlot toma el bloqueo de la fila del producto, lee
// last_auto_order_at y, si el intervalo lo permite, lo avanza a now() antes
// de retornar: chequeo y reclamo nunca se separan entre transacciones.
// Debe invocarse con un stockRepo atado a la transacción del caller; el
// reclamo queda vinculante al hacer commit y se deshace con el rollback.
func (g *Guard) ClaimAutoOrderSlot(
	ctx context.Context,
	stockRepo repository.ProductStockRepository,
	productID string,
	interval time.Duration,
) (Decision, error) {
	stock, err := stockRepo.GetForUpdate(ctx, productID)
	if err != nil {
		return Decision{}, err
	}
	if stock == nil {
		return Decision{}, domain.ErrProductNotFound
	}
	decision := g.evaluate(stock.LastAutoOrderAt, interval)
	if !decision.Permitted {
		return decision, nil
	}
	if err := stockRepo.UpdateLastAutoOrder(ctx, productID, g.now()); err != nil {
		return Decision{}, err
	}
	return decision, nil
}

func (g *Guard) evaluate(lastAutoOrderAt *time.Time, interval time.Duration) Decision {
	if lastAutoOrderAt == nil {
		return Decision{Permitted: true}
	}
	elapsed := g.now().Sub(*lastAutoOrderAt)
	if elapsed >= interval {
		return Decision{Permitted: true}
	}
	remaining := interval - elapsed
	return Decision{
		Permitted: false,
		Reason: fmt.Sprintf(
			"última auto-orden hace %s; intervalo mínimo %s, faltan %s",
			elapsed.Round(time.Second), interval, remaining.Round(time.Second),
		),
		RetryIn: remaining,
	}
}
