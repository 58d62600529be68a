package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReplenishmentIntent registra un déficit detectado durante una salida de
// stock: qué producto quedó bajo mínimo, cuánto falta y a qué proveedor
// pedirle. Vive solo entre la escritura que lo disparó y el drenaje
// post-commit; nunca se persiste.
type ReplenishmentIntent struct {
	ProductID  string
	SellerID   string
	Deficit    decimal.Decimal
	DetectedAt time.Time
}

// Outbox es el buffer de intenciones de reposición de una unidad de trabajo
// (outbox transaccional en memoria). El caller crea uno por operación
// lógica, el libro de stock registra intenciones durante la transacción y,
// tras el commit, el pipeline lo drena exactamente una vez. No está pensado
// para compartirse entre requests concurrentes.
type Outbox struct {
	order   []string
	intents map[string]ReplenishmentIntent
}

// NewOutbox crea un buffer vacío.
func NewOutbox() *Outbox {
	return &Outbox{intents: make(map[string]ReplenishmentIntent)}
}

// Record registra la intención para su producto. Una segunda detección para
// el mismo producto antes del drenaje sobrescribe la anterior, nunca la
// duplica.
func (o *Outbox) Record(intent ReplenishmentIntent) {
	if _, ok := o.intents[intent.ProductID]; !ok {
		o.order = append(o.order, intent.ProductID)
	}
	o.intents[intent.ProductID] = intent
}

// Discard elimina la intención pendiente del producto, sin efectos
// secundarios. Usar cuando la transacción que la registró va a hacer
// rollback.
func (o *Outbox) Discard(productID string) {
	if _, ok := o.intents[productID]; !ok {
		return
	}
	delete(o.intents, productID)
	for i, id := range o.order {
		if id == productID {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// Drain devuelve las intenciones pendientes en orden de registro y vacía el
// buffer: cada intención se drena exactamente una vez.
func (o *Outbox) Drain() []ReplenishmentIntent {
	drained := make([]ReplenishmentIntent, 0, len(o.order))
	for _, id := range o.order {
		drained = append(drained, o.intents[id])
	}
	o.order = nil
	o.intents = make(map[string]ReplenishmentIntent)
	return drained
}

// Pending devuelve la cantidad de intenciones sin drenar.
func (o *Outbox) Pending() int {
	return len(o.intents)
}
