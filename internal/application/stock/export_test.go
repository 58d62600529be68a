package stock

import "time"

// Hooks de reloj para tests deterministas.

// SetLedgerClock reemplaza el reloj del libro de stock.
func SetLedgerClock(l *Ledger, now func() time.Time) { l.now = now }

// SetGuardClock reemplaza el reloj del guard.
func SetGuardClock(g *Guard, now func() time.Time) { g.now = now }

// SetPipelineClock reemplaza el reloj del pipeline.
func SetPipelineClock(p *Pipeline, now func() time.Time) { p.now = now }
