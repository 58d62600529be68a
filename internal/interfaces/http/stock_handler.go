package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
)

// StockHandler maneja las peticiones HTTP del libro de stock: recepción,
// picking y reposición sobre lote. Glue fino: toda la lógica vive en el
// paquete stock.
type StockHandler struct {
	ledger   *stock.Ledger
	pipeline *stock.Pipeline
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.Ledger, pipeline *stock.Pipeline) *StockHandler {
	return &StockHandler{ledger: ledger, pipeline: pipeline}
}

// Receive registra la recepción de un lote (POST /api/stock/receive).
func (h *StockHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lot, err := h.ledger.AddStock(c.Context(), stock.AddStockInput{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		Metadata: stock.LotMetadata{
			BatchNumber: in.BatchNumber,
			ExpiresAt:   in.ExpiresAt,
			Shelf:       in.Shelf,
			Compartment: in.Compartment,
		},
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.LotFromEntity(lot))
}

// Pick confirma un picking (POST /api/stock/pick): salida FIFO y, tras el
// commit, drenaje del outbox de reposición. El resultado de la
// reposición nunca afecta la respuesta del picking.
func (h *StockHandler) Pick(c *fiber.Ctx) error {
	var in dto.PickStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ob := stock.NewOutbox()
	err := h.ledger.RemoveStock(c.Context(), ob, stock.RemoveStockInput{
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		LocationID: in.LocationID,
	})
	if err != nil {
		// La transacción hizo rollback: limpiar la intención antes de responder
		h.pipeline.Discard(ob, in.ProductID)
		return writeDomainError(c, err)
	}
	// Commit confirmado: ejecutar las intenciones en transacciones nuevas
	h.pipeline.Process(c.Context(), ob)
	return c.JSON(fiber.Map{"message": "salida registrada"})
}

// RestockLot suma cantidad a un lote existente (POST /api/stock/lots/:id/restock).
func (h *StockHandler) RestockLot(c *fiber.Ctx) error {
	lotID := c.Params("id")
	var in dto.RestockLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.ledger.IncreaseLotQuantity(c.Context(), lotID, in.Quantity, stock.LotMetadata{
		BatchNumber: in.BatchNumber,
		ExpiresAt:   in.ExpiresAt,
		Shelf:       in.Shelf,
		Compartment: in.Compartment,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "lote repuesto"})
}

// ListLots lista los lotes vivos de un producto en orden FIFO
// (GET /api/stock/:productId/lots).
func (h *StockHandler) ListLots(c *fiber.Ctx) error {
	lots, err := h.ledger.ListLots(c.Context(), c.Params("productId"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.LotDTO, 0, len(lots))
	for _, lot := range lots {
		out = append(out, dto.LotFromEntity(lot))
	}
	return c.JSON(fiber.Map{"total": len(out), "lots": out})
}

// writeDomainError traduce errores de dominio a códigos HTTP.
func writeDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrLotNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "LOT_NOT_FOUND", Message: "lote no encontrado"})
	case errors.Is(err, domain.ErrLocationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "LOCATION_NOT_FOUND", Message: "ubicación no encontrada o inactiva"})
	case errors.Is(err, domain.ErrInsufficientStockAtLocation):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK_AT_LOCATION", Message: "stock insuficiente en la ubicación indicada"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
