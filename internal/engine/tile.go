// Package engine implements the authoritative tilefall game simulation:
// tile lifecycle (spawn, move, hit-test, expire), scoring/combo/lives
// arithmetic, the difficulty ramp, and end-of-run statistics.
//
// The engine is time-driven purely by externally supplied dt values - it
// never reads a wall clock - so runs are deterministic for a given seed and
// tick schedule.
package engine

import "fmt"

// Kind classifies a tile. Only active ("black") tiles are required hits;
// decoy ("white") tiles are visual noise and carry no miss penalty.
type Kind int

const (
	KindActive Kind = iota
	KindDecoy
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindActive:
		return "active"
	case KindDecoy:
		return "decoy"
	default:
		return "unknown"
	}
}

// Outcome is the resolution state of a tile. It starts Pending and
// transitions exactly once to Hit or Missed, after which it is immutable.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeHit
	OutcomeMissed
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeHit:
		return "hit"
	case OutcomeMissed:
		return "missed"
	default:
		return "unknown"
	}
}

// Tile is one fallable unit. Position is the distance traveled along the
// fall axis since spawn, in abstract field units; it is monotonically
// non-decreasing while the tile is live.
type Tile struct {
	ID        string
	Lane      int
	Kind      Kind
	Outcome   Outcome
	Position  float64
	Note      int     // MIDI-style pitch derived from the lane
	SpawnedAt float64 // engine time (ms) at spawn

	resolvedAt float64 // engine time (ms) when the outcome left Pending
}

// pentatonic holds the note offsets tiles cycle through across lanes.
var pentatonic = [...]int{0, 2, 4, 7, 9}

// middleC is the base pitch for lane 0.
const middleC = 60

// NoteForLane derives the abstract pitch for a lane. The mapping is a pure
// function of the lane: pentatonic steps within an octave, one octave up per
// scale cycle.
func NoteForLane(lane int) int {
	if lane < 0 {
		lane = 0
	}
	return middleC + pentatonic[lane%len(pentatonic)] + 12*(lane/len(pentatonic))
}

// find returns the live tile with the given id, or nil.
func (e *Engine) find(id string) *Tile {
	for _, t := range e.tiles {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// spawnTile creates a new tile and adds it to the registry. Lane is uniform
// over [0, lanes); kind is active with the configured probability. IDs are a
// monotonically incrementing counter, unique for the lifetime of the run.
func (e *Engine) spawnTile() *Tile {
	e.nextID++
	lane := e.rng.Intn(e.cfg.Lanes)

	kind := KindDecoy
	if e.rng.Float64() < e.cfg.ActiveProbability {
		kind = KindActive
	}

	t := &Tile{
		ID:        fmt.Sprintf("tile-%d", e.nextID),
		Lane:      lane,
		Kind:      kind,
		Outcome:   OutcomePending,
		Position:  0,
		Note:      NoteForLane(lane),
		SpawnedAt: e.now,
	}
	e.tiles = append(e.tiles, t)
	e.stats.TotalSpawned++
	e.emit(SpawnedEvent{Tile: *t})
	return t
}

// removeTiles compacts the registry in place, dropping every tile for which
// keep returns false. Registry order (spawn order) is preserved.
func (e *Engine) removeTiles(keep func(*Tile) bool) {
	live := e.tiles[:0]
	for _, t := range e.tiles {
		if keep(t) {
			live = append(live, t)
		}
	}
	// Zero the tail so removed tiles can be collected.
	for i := len(live); i < len(e.tiles); i++ {
		e.tiles[i] = nil
	}
	e.tiles = live
}
