package engine

// The ledger derives score deltas, combo streak, difficulty multiplier and
// life loss from hit and miss events. The speed factor is purely
// combo-driven: a miss resets the combo and the factor follows on the next
// recompute, it is never reset directly.

// applyHit updates the ledger for a successful hit and returns the score
// delta. Decoy hits score their own base value - the reference behavior
// rewards any tap that lands. Callers must hold e.mu.
func (e *Engine) applyHit(t *Tile) int {
	e.combo++
	if e.combo > e.maxCombo {
		e.maxCombo = e.combo
	}

	base := e.cfg.ActivePoints
	if t.Kind == KindDecoy {
		base = e.cfg.DecoyPoints
	}
	delta := base + (e.combo/e.cfg.ComboBonusEvery)*e.cfg.ComboBonusPoints

	e.score += delta
	e.stats.TotalHit++
	e.speedFactor = e.currentSpeedFactor()
	return delta
}

// applyMiss updates the ledger for an active tile that exited the field
// unresolved. Callers must hold e.mu.
func (e *Engine) applyMiss() {
	e.combo = 0
	e.lives--
	e.stats.TotalMissed++
}

// currentSpeedFactor derives the difficulty multiplier from the combo
// streak, capped at the configured ceiling.
func (e *Engine) currentSpeedFactor() float64 {
	factor := 1.0 + float64(e.combo)/e.cfg.SpeedComboDivisor
	if factor > e.cfg.MaxSpeedFactor {
		factor = e.cfg.MaxSpeedFactor
	}
	return factor
}
