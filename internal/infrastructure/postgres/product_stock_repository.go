package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ProductStockRepository = (*ProductStockRepo)(nil)

// ProductStockRepo implementación de ProductStockRepository sobre
// PostgreSQL (usable con pool o tx).
type ProductStockRepo struct {
	q Querier
}

// NewProductStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductStockRepository(q Querier) *ProductStockRepo {
	return &ProductStockRepo{q: q}
}

const productStockColumns = `id, sku, name, quantity, min_stock_level, min_order_quantity, auto_order_enabled, seller_id, last_auto_order_at, updated_at`

// GetByID obtiene la ficha de stock de un producto. Devuelve nil si no existe.
func (r *ProductStockRepo) GetByID(ctx context.Context, productID string) (*entity.ProductStock, error) {
	query := `
		SELECT ` + productStockColumns + `
		FROM product_stock WHERE id = $1`
	s, err := r.scanOne(r.q.QueryRow(ctx, query, productID))
	if err != nil {
		return nil, fmt.Errorf("get product stock: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene la ficha y bloquea la fila (SELECT FOR UPDATE).
// Devuelve nil si el producto no existe.
func (r *ProductStockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.ProductStock, error) {
	query := `
		SELECT ` + productStockColumns + `
		FROM product_stock WHERE id = $1
		FOR UPDATE`
	s, err := r.scanOne(r.q.QueryRow(ctx, query, productID))
	if err != nil {
		return nil, fmt.Errorf("get product stock for update: %w", err)
	}
	return s, nil
}

// UpdateQuantity rehace el agregado materializado del producto.
func (r *ProductStockRepo) UpdateQuantity(ctx context.Context, productID string, quantity decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE product_stock SET quantity = $2, updated_at = now() WHERE id = $1`,
		productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update product stock quantity: %w", err)
	}
	return nil
}

// UpdateLastAutoOrder avanza last_auto_order_at. El GREATEST mantiene la
// monotonía aunque dos transacciones reclamen con timestamps desordenados.
func (r *ProductStockRepo) UpdateLastAutoOrder(ctx context.Context, productID string, at time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE product_stock
		 SET last_auto_order_at = GREATEST(COALESCE(last_auto_order_at, $2), $2), updated_at = now()
		 WHERE id = $1`,
		productID, at,
	)
	if err != nil {
		return fmt.Errorf("update last auto order: %w", err)
	}
	return nil
}

func (r *ProductStockRepo) scanOne(row pgx.Row) (*entity.ProductStock, error) {
	var s entity.ProductStock
	err := row.Scan(
		&s.ID, &s.SKU, &s.Name, &s.Quantity, &s.MinStockLevel, &s.MinOrderQuantity,
		&s.AutoOrderEnabled, &s.SellerID, &s.LastAutoOrderAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
