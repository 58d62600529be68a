package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput                = errors.New("entrada inválida")
	ErrProductNotFound             = errors.New("producto no encontrado")
	ErrLotNotFound                 = errors.New("lote no encontrado")
	ErrLocationNotFound            = errors.New("ubicación no encontrada o inactiva")
	ErrDuplicate                   = errors.New("recurso duplicado")
	ErrInsufficientStock           = errors.New("stock insuficiente")
	ErrInsufficientStockAtLocation = errors.New("stock insuficiente en la ubicación indicada")
)
