package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
)

// ReplenishmentHandler expone el diagnóstico de auto-órdenes.
type ReplenishmentHandler struct {
	guard *stock.Guard
}

// NewReplenishmentHandler construye el handler.
func NewReplenishmentHandler(guard *stock.Guard) *ReplenishmentHandler {
	return &ReplenishmentHandler{guard: guard}
}

// Check responde si hoy podría colocarse una auto-orden para el producto
// (GET /api/replenishment/:productId/check). Solo lectura, sin bloqueo:
// no reclama el cupo ni avanza last_auto_order_at.
func (h *ReplenishmentHandler) Check(c *fiber.Ctx) error {
	productID := c.Params("productId")
	decision, err := h.guard.CanPlaceAutoOrder(c.Context(), productID, h.guard.MinInterval())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.AutoOrderCheckResponse{
		ProductID:      productID,
		Permitted:      decision.Permitted,
		Reason:         decision.Reason,
		RetryInSeconds: int64(decision.RetryIn.Seconds()),
	})
}
