package engine

// The spawn scheduler owns the inter-arrival gap. The gap shrinks by a fixed
// step per spawn until the configured floor, independent of score; past the
// floor the cadence is governed only by the speed factor.

// maybeSpawn spawns one tile if the effective gap has elapsed since the last
// spawn. The effective gap is the current interval divided by the speed
// factor, so a hot combo also quickens arrivals. Callers must hold e.mu.
func (e *Engine) maybeSpawn() {
	gap := e.spawnInterval / e.speedFactor
	if e.now-e.lastSpawnAt < gap {
		return
	}
	e.lastSpawnAt = e.now
	e.spawnTile()
	e.shrinkInterval()
}

// shrinkInterval ramps difficulty by one step, clamped at the floor.
func (e *Engine) shrinkInterval() {
	e.spawnInterval -= e.cfg.SpawnStep
	if e.spawnInterval < e.cfg.SpawnFloor {
		e.spawnInterval = e.cfg.SpawnFloor
	}
}
