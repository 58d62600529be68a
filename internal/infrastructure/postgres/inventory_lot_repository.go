package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.InventoryLotRepository = (*InventoryLotRepo)(nil)

// InventoryLotRepo implementación de InventoryLotRepository sobre
// PostgreSQL (usable con pool o tx).
type InventoryLotRepo struct {
	q Querier
}

// NewInventoryLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryLotRepository(q Querier) *InventoryLotRepo {
	return &InventoryLotRepo{q: q}
}

const lotColumns = `id, product_id, location_id, quantity, received_at, batch_number, expires_at, shelf, compartment, created_at, updated_at`

// Create persiste un lote nuevo.
func (r *InventoryLotRepo) Create(ctx context.Context, lot *entity.InventoryLot) error {
	query := `
		INSERT INTO inventory_lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.ProductID, lot.LocationID, lot.Quantity, lot.ReceivedAt,
		lot.BatchNumber, lot.ExpiresAt, lot.Shelf, lot.Compartment,
		lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. Devuelve nil si no existe.
func (r *InventoryLotRepo) GetByID(ctx context.Context, lotID string) (*entity.InventoryLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM inventory_lots WHERE id = $1`
	var l entity.InventoryLot
	err := r.q.QueryRow(ctx, query, lotID).Scan(
		&l.ID, &l.ProductID, &l.LocationID, &l.Quantity, &l.ReceivedAt,
		&l.BatchNumber, &l.ExpiresAt, &l.Shelf, &l.Compartment,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return &l, nil
}

// ListFIFO devuelve los lotes vivos del producto en orden FIFO
// (received_at ASC, id ASC; el id desempata timestamps iguales).
// locationID vacío = todas las ubicaciones.
func (r *InventoryLotRepo) ListFIFO(ctx context.Context, productID, locationID string) ([]*entity.InventoryLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM inventory_lots
		WHERE product_id = $1 AND ($2 = '' OR location_id = $2)
		ORDER BY received_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, productID, locationID)
	if err != nil {
		return nil, fmt.Errorf("list lots fifo: %w", err)
	}
	defer rows.Close()

	var lots []*entity.InventoryLot
	for rows.Next() {
		var l entity.InventoryLot
		if err := rows.Scan(
			&l.ID, &l.ProductID, &l.LocationID, &l.Quantity, &l.ReceivedAt,
			&l.BatchNumber, &l.ExpiresAt, &l.Shelf, &l.Compartment,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lots = append(lots, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lots fifo: %w", err)
	}
	return lots, nil
}

// SumQuantity suma las cantidades de los lotes vivos del producto.
// locationID vacío = todas las ubicaciones.
func (r *InventoryLotRepo) SumQuantity(ctx context.Context, productID, locationID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM inventory_lots
		WHERE product_id = $1 AND ($2 = '' OR location_id = $2)`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, productID, locationID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum lot quantity: %w", err)
	}
	return sum, nil
}

// Update actualiza cantidad y metadatos de un lote.
func (r *InventoryLotRepo) Update(ctx context.Context, lot *entity.InventoryLot) error {
	query := `
		UPDATE inventory_lots
		SET quantity = $2, batch_number = $3, expires_at = $4, shelf = $5, compartment = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.Quantity, lot.BatchNumber, lot.ExpiresAt, lot.Shelf, lot.Compartment, lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	return nil
}

// Delete elimina un lote (lote agotado por consumo FIFO).
func (r *InventoryLotRepo) Delete(ctx context.Context, lotID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_lots WHERE id = $1`, lotID); err != nil {
		return fmt.Errorf("delete lot: %w", err)
	}
	return nil
}
