package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// claim ejecuta ClaimAutoOrderSlot dentro de una transacción fake, como lo
// hace el pipeline.
func claim(t *testing.T, env *testEnv, productID string) (permitted bool, reason string) {
	t.Helper()
	runner := &fakeTxRunner{s: env.store}
	err := runner.Run(context.Background(), func(
		_ repository.InventoryLotRepository,
		stockRepo repository.ProductStockRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		decision, err := env.guard.ClaimAutoOrderSlot(context.Background(), stockRepo, productID, env.guard.MinInterval())
		if err != nil {
			return err
		}
		permitted = decision.Permitted
		reason = decision.Reason
		return nil
	})
	require.NoError(t, err)
	return permitted, reason
}

func TestCanPlaceAutoOrder_SinOrdenPreviaPermite(t *testing.T) {
	env := newTestEnv(60*time.Minute, testLocation)
	env.store.addProduct(newProduct("10", "20", true))

	decision, err := env.guard.CanPlaceAutoOrder(context.Background(), testProduct, env.guard.MinInterval())
	require.NoError(t, err)
	assert.True(t, decision.Permitted)
	assert.Empty(t, decision.Reason)
}

func TestCanPlaceAutoOrder_ProductoInexistente(t *testing.T) {
	env := newTestEnv(60*time.Minute, testLocation)

	_, err := env.guard.CanPlaceAutoOrder(context.Background(), "fantasma", env.guard.MinInterval())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

// CanPlaceAutoOrder es diagnóstico: nunca reclama el cupo.
func TestCanPlaceAutoOrder_NoAvanzaTimestamp(t *testing.T) {
	env := newTestEnv(60*time.Minute, testLocation)
	env.store.addProduct(newProduct("10", "20", true))

	_, err := env.guard.CanPlaceAutoOrder(context.Background(), testProduct, env.guard.MinInterval())
	require.NoError(t, err)
	assert.Nil(t, env.store.stocks[testProduct].LastAutoOrderAt)
}

// Tras reclamar el cupo, un segundo intento dentro del intervalo queda
// negado con una razón no vacía.
func TestClaim_SegundoIntentoDentroDelIntervaloNegado(t *testing.T) {
	env := newTestEnv(60*time.Minute, testLocation)
	env.store.addProduct(newProduct("10", "20", true))

	permitted, _ := claim(t, env, testProduct)
	require.True(t, permitted)
	require.NotNil(t, env.store.stocks[testProduct].LastAutoOrderAt, "el claim permitido avanza last_auto_order_at")

	env.clock.Advance(10 * time.Minute)
	permitted, reason := claim(t, env, testProduct)
	assert.False(t, permitted)
	assert.NotEmpty(t, reason)
}

func TestClaim_PermitidoTrasElIntervalo(t *testing.T) {
	env := newTestEnv(60*time.Minute, testLocation)
	env.store.addProduct(newProduct("10", "20", true))

	permitted, _ := claim(t, env, testProduct)
	require.True(t, permitted)

	env.clock.Advance(61 * time.Minute)
	permitted, _ = claim(t, env, testProduct)
	assert.True(t, permitted, "cumplido el intervalo, el cupo vuelve a estar disponible")
}

func TestClaim_RespetaLastAutoOrderExistente(t *testing.T) {
	env := newTestEnv(60*time.Minute, testLocation)
	p := newProduct("10", "20", true)
	p.LastAutoOrderAt = timep(env.clock.Now().Add(-30 * time.Minute))
	env.store.addProduct(p)

	permitted, reason := claim(t, env, testProduct)
	assert.False(t, permitted)
	assert.Contains(t, reason, "faltan")

	decision, err := env.guard.CanPlaceAutoOrder(context.Background(), testProduct, env.guard.MinInterval())
	require.NoError(t, err)
	assert.False(t, decision.Permitted)
	assert.Equal(t, 30*time.Minute, decision.RetryIn)
}
