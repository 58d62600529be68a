package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados y orígenes de una orden de compra.
const (
	PurchaseOrderStatusOpen = "OPEN"

	PurchaseOrderSourceAuto   = "AUTO"
	PurchaseOrderSourceManual = "MANUAL"
)

// PurchaseOrder representa una orden de compra de reposición.
// El contenido de negocio (precios, selección de proveedor) queda fuera del
// núcleo: aquí solo se registra qué, cuánto y a quién.
type PurchaseOrder struct {
	ID        string
	ProductID string
	SellerID  string
	Quantity  decimal.Decimal
	Status    string
	Source    string // AUTO cuando la genera el pipeline diferido
	CreatedAt time.Time
}
