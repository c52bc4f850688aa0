package engine

// Event is an observable engine occurrence. Consumers (audio, UI) subscribe
// via a Sink but cannot block or alter engine state from within a handler:
// events are emitted synchronously while the engine lock is held, so a
// handler calling back into the engine would deadlock.
type Event interface {
	engineEvent()
}

// SpawnedEvent is emitted when a tile enters the field.
type SpawnedEvent struct {
	Tile Tile
}

func (SpawnedEvent) engineEvent() {}

// HitEvent is emitted when a hit resolves against a tile. ScoreDelta is the
// points awarded for this hit, combo bonus included. The tile carries the
// note the audio layer should trigger.
type HitEvent struct {
	Tile       Tile
	ScoreDelta int
}

func (HitEvent) engineEvent() {}

// MissedEvent is emitted when an active tile exits the field unresolved.
type MissedEvent struct {
	Tile Tile
}

func (MissedEvent) engineEvent() {}

// ComboReachedEvent is emitted when the combo streak crosses a milestone
// (every scoring bonus step). Delivery is deferred to the next Advance drain
// so celebration effects stay deterministic under supplied dt.
type ComboReachedEvent struct {
	Combo int
}

func (ComboReachedEvent) engineEvent() {}

// GameOverEvent is emitted a short, configurable delay after the run ends,
// giving the final miss time to animate. Stats is the frozen run record.
type GameOverEvent struct {
	Stats RunStats
}

func (GameOverEvent) engineEvent() {}

// Sink receives engine events in order.
type Sink interface {
	HandleEvent(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// HandleEvent calls f(ev).
func (f SinkFunc) HandleEvent(ev Event) {
	f(ev)
}

// emit delivers an event to the sink, if any.
func (e *Engine) emit(ev Event) {
	if e.sink != nil {
		e.sink.HandleEvent(ev)
	}
}
