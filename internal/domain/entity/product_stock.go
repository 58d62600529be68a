package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStock representa la ficha de stock de un producto del catálogo.
// Quantity es el agregado materializado de los lotes vivos: se recalcula
// después de cada mutación de lotes y nunca es autoritativo por sí mismo.
// LastAutoOrderAt solo avanza dentro de la transacción que reclama el cupo
// de auto-orden (ver stock.Guard).
type ProductStock struct {
	ID               string
	SKU              string
	Name             string
	Quantity         decimal.Decimal // suma de lotes vivos, materializada
	MinStockLevel    decimal.Decimal
	MinOrderQuantity decimal.Decimal
	AutoOrderEnabled bool
	SellerID         string // proveedor asignado para auto-órdenes
	LastAutoOrderAt  *time.Time
	UpdatedAt        time.Time
}
