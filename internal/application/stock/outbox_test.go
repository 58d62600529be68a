package stock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/almacen-api/internal/application/stock"
)

func intent(productID, deficit string) stock.ReplenishmentIntent {
	return stock.ReplenishmentIntent{
		ProductID:  productID,
		SellerID:   "seller-1",
		Deficit:    dec(deficit),
		DetectedAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestOutbox_RecordSobrescribePorProducto(t *testing.T) {
	ob := stock.NewOutbox()
	ob.Record(intent("p1", "3"))
	ob.Record(intent("p1", "8"))

	require.Equal(t, 1, ob.Pending())
	drained := ob.Drain()
	require.Len(t, drained, 1)
	assert.True(t, drained[0].Deficit.Equal(dec("8")), "la segunda detección sobrescribe a la primera")
}

func TestOutbox_DrainConservaOrdenDeRegistro(t *testing.T) {
	ob := stock.NewOutbox()
	ob.Record(intent("p2", "1"))
	ob.Record(intent("p1", "2"))
	ob.Record(intent("p3", "3"))
	ob.Record(intent("p1", "4")) // sobrescribe, no cambia la posición

	drained := ob.Drain()
	require.Len(t, drained, 3)
	assert.Equal(t, "p2", drained[0].ProductID)
	assert.Equal(t, "p1", drained[1].ProductID)
	assert.Equal(t, "p3", drained[2].ProductID)
}

func TestOutbox_DrainVaciaExactamenteUnaVez(t *testing.T) {
	ob := stock.NewOutbox()
	ob.Record(intent("p1", "3"))

	require.Len(t, ob.Drain(), 1)
	assert.Empty(t, ob.Drain(), "un segundo drenaje no repite intenciones")
	assert.Zero(t, ob.Pending())
}

func TestOutbox_Discard(t *testing.T) {
	ob := stock.NewOutbox()
	ob.Record(intent("p1", "3"))
	ob.Record(intent("p2", "5"))

	ob.Discard("p1")
	ob.Discard("no-registrado") // sin efecto

	drained := ob.Drain()
	require.Len(t, drained, 1)
	assert.Equal(t, "p2", drained[0].ProductID)
}
