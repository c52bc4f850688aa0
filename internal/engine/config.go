package engine

// Config is the engine tuning. The yaml-facing config package produces one
// of these; tests build them directly. All durations are in milliseconds of
// engine time, all distances in abstract field units.
type Config struct {
	// Field geometry and motion.
	Lanes       int     // number of vertical lanes
	FieldLength float64 // far boundary; a tile past this has left the field
	BaseSpeed   float64 // units per millisecond at speed factor 1.0

	// Spawn scheduling.
	SpawnInterval     float64 // initial inter-arrival gap
	SpawnFloor        float64 // gap never shrinks below this
	SpawnStep         float64 // gap reduction per spawn until the floor
	ActiveProbability float64 // p(active) for each spawned tile

	// Run rules.
	Lives     int     // starting life pool
	HitGrace  float64 // how long a Hit tile lingers for its animation
	OverDelay float64 // delay before the GameOver event fires

	// Scoring.
	ActivePoints      int     // base points for hitting an active tile
	DecoyPoints       int     // base points for hitting a decoy tile
	ComboBonusEvery   int     // combo streak length per bonus step
	ComboBonusPoints  int     // points added per bonus step
	SpeedComboDivisor float64 // combo/divisor drives the speed factor
	MaxSpeedFactor    float64 // speed factor ceiling

	// Persistence.
	BestKey string // well-known key for the persisted best score

	// Determinism.
	Seed int64 // RNG seed for lane and kind selection
}

// DefaultConfig returns the engine tuning used when no yaml config is found.
func DefaultConfig() Config {
	return Config{
		Lanes:       4,
		FieldLength: 100.0,
		BaseSpeed:   0.03, // ~3.3s from spawn to boundary at factor 1.0

		SpawnInterval:     1500,
		SpawnFloor:        800,
		SpawnStep:         20,
		ActiveProbability: 0.7,

		Lives:     3,
		HitGrace:  250,
		OverDelay: 400,

		ActivePoints:      100,
		DecoyPoints:       50,
		ComboBonusEvery:   10,
		ComboBonusPoints:  25,
		SpeedComboDivisor: 50,
		MaxSpeedFactor:    3.0,

		BestKey: "tilefall",
	}
}

// normalize clamps nonsense values back to playable ones so a hand-edited
// config can't wedge the simulation.
func (c Config) normalize() Config {
	if c.Lanes < 1 {
		c.Lanes = 1
	}
	if c.FieldLength <= 0 {
		c.FieldLength = 100.0
	}
	if c.BaseSpeed <= 0 {
		c.BaseSpeed = 0.03
	}
	if c.SpawnFloor <= 0 {
		c.SpawnFloor = 800
	}
	if c.SpawnInterval < c.SpawnFloor {
		c.SpawnInterval = c.SpawnFloor
	}
	if c.SpawnStep < 0 {
		c.SpawnStep = 0
	}
	if c.ActiveProbability < 0 || c.ActiveProbability > 1 {
		c.ActiveProbability = 0.7
	}
	if c.Lives < 1 {
		c.Lives = 3
	}
	if c.HitGrace < 0 {
		c.HitGrace = 0
	}
	if c.OverDelay < 0 {
		c.OverDelay = 0
	}
	if c.ComboBonusEvery < 1 {
		c.ComboBonusEvery = 10
	}
	if c.SpeedComboDivisor <= 0 {
		c.SpeedComboDivisor = 50
	}
	if c.MaxSpeedFactor < 1 {
		c.MaxSpeedFactor = 1
	}
	if c.BestKey == "" {
		c.BestKey = "tilefall"
	}
	return c
}
