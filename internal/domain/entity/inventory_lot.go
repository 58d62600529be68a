package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLot representa una cantidad de un producto recibida junta,
// rastreada por separado para preservar FIFO y vencimientos.
// Nunca se crea ni se mantiene con cantidad <= 0: un lote consumido por
// completo se elimina, no se deja como fila en cero.
// La clave FIFO es (ReceivedAt ASC, ID ASC); el ID desempata lotes que
// comparten timestamp de recepción.
type InventoryLot struct {
	ID          string
	ProductID   string
	LocationID  string
	Quantity    decimal.Decimal
	ReceivedAt  time.Time
	BatchNumber *string // número de lote del fabricante, opcional
	ExpiresAt   *time.Time
	Shelf       *string // estantería, opcional
	Compartment *string // subdivisión dentro de la estantería, opcional
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
