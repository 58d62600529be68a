package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger   *stock.Ledger
	Pipeline *stock.Pipeline
	Guard    *stock.Guard
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Stock: recepción, picking, reposición sobre lote, vista de lotes
	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Ledger, deps.Pipeline)
	stockGroup.Post("/receive", stockHandler.Receive)
	stockGroup.Post("/pick", stockHandler.Pick)
	stockGroup.Post("/lots/:id/restock", stockHandler.RestockLot)
	stockGroup.Get("/:productId/lots", stockHandler.ListLots)

	// Replenishment: diagnóstico de auto-órdenes
	replenishment := api.Group("/replenishment")
	replenishmentHandler := NewReplenishmentHandler(deps.Guard)
	replenishment.Get("/:productId/check", replenishmentHandler.Check)
}
