package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ErrorResponse respuesta estándar de error de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ReceiveStockRequest recepción de mercancía: crea un lote nuevo.
type ReceiveStockRequest struct {
	ProductID   string          `json:"product_id"`
	LocationID  string          `json:"location_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	BatchNumber *string         `json:"batch_number,omitempty"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	Shelf       *string         `json:"shelf,omitempty"`
	Compartment *string         `json:"compartment,omitempty"`
}

// PickStockRequest confirmación de picking: salida FIFO de stock.
// location_id vacío = consumir de cualquier ubicación.
type PickStockRequest struct {
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	LocationID string          `json:"location_id,omitempty"`
}

// RestockLotRequest reposición sobre un lote existente (devoluciones).
type RestockLotRequest struct {
	Quantity    decimal.Decimal `json:"quantity"`
	BatchNumber *string         `json:"batch_number,omitempty"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	Shelf       *string         `json:"shelf,omitempty"`
	Compartment *string         `json:"compartment,omitempty"`
}

// LotDTO representación de un lote para vistas administrativas.
type LotDTO struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	LocationID  string          `json:"location_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	ReceivedAt  time.Time       `json:"received_at"`
	BatchNumber *string         `json:"batch_number,omitempty"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	Shelf       *string         `json:"shelf,omitempty"`
	Compartment *string         `json:"compartment,omitempty"`
}

// LotFromEntity convierte la entidad a su DTO.
func LotFromEntity(lot *entity.InventoryLot) LotDTO {
	return LotDTO{
		ID:          lot.ID,
		ProductID:   lot.ProductID,
		LocationID:  lot.LocationID,
		Quantity:    lot.Quantity,
		ReceivedAt:  lot.ReceivedAt,
		BatchNumber: lot.BatchNumber,
		ExpiresAt:   lot.ExpiresAt,
		Shelf:       lot.Shelf,
		Compartment: lot.Compartment,
	}
}

// AutoOrderCheckResponse resultado del diagnóstico de auto-orden
// (solo lectura, no vinculante).
type AutoOrderCheckResponse struct {
	ProductID      string `json:"product_id"`
	Permitted      bool   `json:"permitted"`
	Reason         string `json:"reason,omitempty"`
	RetryInSeconds int64  `json:"retry_in_seconds,omitempty"`
}
