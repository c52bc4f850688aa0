package engine

import (
	"math"
	"math/rand"
	"sync"
)

// BestStore is the persistence collaborator for the best score. The engine
// calls SaveBest at most once per run, at the Running -> Over transition,
// and only when the run beat the stored best. Storage failures never affect
// in-memory run state.
type BestStore interface {
	LoadBest(key string) (int, error)
	SaveBest(key string, score int) error
}

// Engine is the authoritative game simulation. All public operations are
// serialized behind a single lock, so ticks and asynchronous hits from an
// input-handling goroutine never interleave mid-mutation. Every operation is
// synchronous and bounded; the only side effects are run-state mutation and
// sink events.
type Engine struct {
	mu   sync.Mutex
	cfg  Config
	rng  *rand.Rand
	best BestStore
	sink Sink

	phase Phase
	now   float64 // elapsed engine time in ms, advanced only by Advance

	// Tile registry, ordered by spawn.
	tiles  []*Tile
	nextID uint64

	// Spawn scheduler state. Engine-owned so concurrent runs (tests) never
	// interfere through shared globals.
	lastSpawnAt   float64
	spawnInterval float64

	// Ledger.
	score       int
	combo       int
	maxCombo    int
	lives       int
	speedFactor float64

	stats     RunStats
	queue     delayedQueue
	bestSaved bool
}

// New creates an engine with the given tuning. store and sink may be nil;
// a nil store skips best-score persistence, a nil sink drops events.
func New(cfg Config, store BestStore, sink Sink) *Engine {
	cfg = cfg.normalize()
	e := &Engine{
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(cfg.Seed)),
		best: store,
		sink: sink,
	}
	e.clearRun()
	return e
}

// Config returns the engine tuning.
func (e *Engine) Config() Config {
	return e.cfg
}

// Start begins a run: Idle|Over -> Running. Counters and the registry are
// cleared and one initial tile is seeded. Starting mid-run is a no-op.
func (e *Engine) Start() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseIdle && e.phase != PhaseOver {
		return e.snapshotLocked()
	}

	e.clearRun()
	e.phase = PhaseRunning
	e.spawnTile()
	return e.snapshotLocked()
}

// Advance moves the simulation forward by dtMillis of engine time. Order
// within a tick: drain due delayed events, motion & expiry (miss detection),
// then the spawn check, so life loss is attributed to the tick in which the
// tile actually exits. Non-positive or non-finite dt is rejected and the
// snapshot returned unchanged. While Paused or Idle, ticks are dropped.
func (e *Engine) Advance(dtMillis float64) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if dtMillis <= 0 || math.IsNaN(dtMillis) || math.IsInf(dtMillis, 0) {
		return e.snapshotLocked()
	}

	switch e.phase {
	case PhaseRunning:
		e.now += dtMillis
		e.drainDue()
		e.speedFactor = e.currentSpeedFactor()
		e.stepTiles(dtMillis)
		if e.phase == PhaseRunning {
			e.maybeSpawn()
		}
	case PhaseOver:
		// Keep time and the delayed queue moving so the deferred game-over
		// event still fires under the external tick driver.
		e.now += dtMillis
		e.drainDue()
	}

	return e.snapshotLocked()
}

// Hit resolves a player tap against the tile with the given id. Unknown or
// already-resolved ids are a silent no-op: a late tap racing against the
// expiry pass must never double-count or corrupt the ledger. While not
// Running (notably while Paused) hits are accepted but have no effect.
func (e *Engine) Hit(id string) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseRunning {
		return e.snapshotLocked()
	}

	t := e.find(id)
	if t == nil || t.Outcome != OutcomePending {
		return e.snapshotLocked()
	}

	t.Outcome = OutcomeHit
	t.resolvedAt = e.now
	delta := e.applyHit(t)
	e.emit(HitEvent{Tile: *t, ScoreDelta: delta})

	if e.combo > 0 && e.combo%e.cfg.ComboBonusEvery == 0 {
		e.queue.push(e.now, ComboReachedEvent{Combo: e.combo})
	}

	return e.snapshotLocked()
}

// Pause suspends tick processing: Running -> Paused.
func (e *Engine) Pause() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == PhaseRunning {
		e.phase = PhasePaused
	}
	return e.snapshotLocked()
}

// Resume continues a paused run: Paused -> Running.
func (e *Engine) Resume() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == PhasePaused {
		e.phase = PhaseRunning
	}
	return e.snapshotLocked()
}

// Reset hard-cancels the run from any phase back to Idle, clearing the
// registry, all counters and any pending delayed events.
func (e *Engine) Reset() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clearRun()
	return e.snapshotLocked()
}

// Snapshot returns the current read-only run state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Stats returns the run statistics. Valid at any time: it reflects the
// in-progress run while Running/Paused and the frozen record once Over.
func (e *Engine) Stats() RunStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statsLocked()
}

// clearRun resets all run state to the Idle baseline.
func (e *Engine) clearRun() {
	e.phase = PhaseIdle
	e.now = 0
	e.tiles = nil
	e.lastSpawnAt = 0
	e.spawnInterval = e.cfg.SpawnInterval
	e.score = 0
	e.combo = 0
	e.maxCombo = 0
	e.lives = e.cfg.Lives
	e.speedFactor = 1.0
	e.stats = RunStats{}
	e.queue.clear()
	e.bestSaved = false
}

// stepTiles is the motion & expiry pass: advance every live tile, detect
// tiles leaving the field, apply miss penalties for unresolved active tiles
// and drop hit tiles whose animation grace has elapsed.
func (e *Engine) stepTiles(dt float64) {
	step := e.cfg.BaseSpeed * e.speedFactor * dt
	for _, t := range e.tiles {
		t.Position += step
	}

	e.removeTiles(func(t *Tile) bool {
		if t.Position > e.cfg.FieldLength {
			if t.Outcome == OutcomePending && t.Kind == KindActive && e.phase == PhaseRunning {
				t.Outcome = OutcomeMissed
				t.resolvedAt = e.now
				e.applyMiss()
				e.emit(MissedEvent{Tile: *t})
				if e.lives <= 0 {
					e.gameOver()
				}
			}
			return false
		}
		if t.Outcome == OutcomeHit && e.now-t.resolvedAt >= e.cfg.HitGrace {
			return false
		}
		return true
	})
}

// gameOver performs the Running -> Over transition: counters freeze into the
// run statistics, the best score is persisted, and the GameOver event is
// queued to fire after the configured delay so the final miss can animate.
func (e *Engine) gameOver() {
	e.phase = PhaseOver
	e.stats.FinalScore = e.score
	e.stats.MaxCombo = e.maxCombo
	e.persistBest()
	e.queue.push(e.now+e.cfg.OverDelay, GameOverEvent{Stats: e.statsLocked()})
}

// persistBest writes the final score through the BestStore collaborator,
// exactly once per run and only on improvement. A load or save failure is
// swallowed here: a best-score write must never fail or roll back the run.
// The storage layer is responsible for reporting its own errors.
func (e *Engine) persistBest() {
	if e.best == nil || e.bestSaved {
		return
	}
	e.bestSaved = true

	prev, err := e.best.LoadBest(e.cfg.BestKey)
	if err != nil {
		prev = 0
	}
	if e.score > prev {
		//nolint:errcheck // Best-effort save, the run record stands regardless
		e.best.SaveBest(e.cfg.BestKey, e.score)
	}
}

// drainDue delivers every delayed event whose time has come, in order.
func (e *Engine) drainDue() {
	for {
		ev := e.queue.popDue(e.now)
		if ev == nil {
			return
		}
		e.emit(ev)
	}
}
