package engine

// Phase is the run lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
	PhaseOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable read-only view of the run state, returned by
// every engine operation. Tiles are copies in spawn order; mutating a
// snapshot never affects the engine.
type Snapshot struct {
	Phase         Phase
	Now           float64 // engine time in ms since Start
	Score         int
	Combo         int
	MaxCombo      int
	Lives         int
	SpeedFactor   float64
	SpawnInterval float64
	Tiles         []Tile
}

// FindTile returns the snapshot tile with the given id, and whether it is
// present.
func (s Snapshot) FindTile(id string) (Tile, bool) {
	for _, t := range s.Tiles {
		if t.ID == id {
			return t, true
		}
	}
	return Tile{}, false
}

// FrontPending returns the id of the pending tile farthest along the given
// lane - the tile a lane tap should resolve. ok is false if the lane holds
// no pending tile.
func (s Snapshot) FrontPending(lane int) (id string, ok bool) {
	best := -1.0
	for _, t := range s.Tiles {
		if t.Lane != lane || t.Outcome != OutcomePending {
			continue
		}
		if t.Position > best {
			best = t.Position
			id = t.ID
			ok = true
		}
	}
	return id, ok
}

// RunStats is the accumulated run record, kept separate from the live run
// state so a finished run retains an immutable summary.
type RunStats struct {
	TotalSpawned int
	TotalHit     int
	TotalMissed  int
	Accuracy     float64 // percent in [0, 100]; 0 when nothing spawned
	FinalScore   int
	MaxCombo     int
}

// accuracyPercent derives hit accuracy from the raw counters.
func accuracyPercent(hit, spawned int) float64 {
	if spawned == 0 {
		return 0
	}
	return float64(hit) / float64(spawned) * 100
}

// snapshotLocked builds a Snapshot of the current state.
// Callers must hold e.mu.
func (e *Engine) snapshotLocked() Snapshot {
	tiles := make([]Tile, len(e.tiles))
	for i, t := range e.tiles {
		tiles[i] = *t
	}
	return Snapshot{
		Phase:         e.phase,
		Now:           e.now,
		Score:         e.score,
		Combo:         e.combo,
		MaxCombo:      e.maxCombo,
		Lives:         e.lives,
		SpeedFactor:   e.speedFactor,
		SpawnInterval: e.spawnInterval,
		Tiles:         tiles,
	}
}

// statsLocked builds the RunStats view for the current (or finished) run.
// Callers must hold e.mu.
func (e *Engine) statsLocked() RunStats {
	s := e.stats
	s.Accuracy = accuracyPercent(s.TotalHit, s.TotalSpawned)
	if e.phase != PhaseOver {
		// In-progress runs report live counters.
		s.FinalScore = e.score
		s.MaxCombo = e.maxCombo
	}
	return s
}
