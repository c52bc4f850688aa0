package core

// MaxLanes is the largest number of tile lanes the input layer can address.
// The engine config may use fewer; it never uses more.
const MaxLanes = 6

// Action represents a semantic game action, abstracted from physical key
// presses. This allows the platform to work with high-level intents rather
// than raw input.
type Action int

const (
	ActionNone  Action = iota
	ActionLane1        // 1, a - tap lane 0
	ActionLane2        // 2, s - tap lane 1
	ActionLane3        // 3, d - tap lane 2
	ActionLane4        // 4, f - tap lane 3
	ActionLane5        // 5, g - tap lane 4
	ActionLane6        // 6, h - tap lane 5
	ActionConfirm      // Enter - confirm selection
	ActionBack         // B, Escape - go back
	ActionRestart      // R key - restart run after game over
	ActionQuit         // Q, Ctrl+C - exit game/session
	ActionPause        // P - pause/resume run
)

// LaneAction returns the tap action for the given lane index.
// Returns ActionNone for lanes outside [0, MaxLanes).
func LaneAction(lane int) Action {
	if lane < 0 || lane >= MaxLanes {
		return ActionNone
	}
	return ActionLane1 + Action(lane)
}

// Lane returns the lane index a tap action addresses, and whether the action
// is a lane tap at all.
func (a Action) Lane() (int, bool) {
	if a < ActionLane1 || a > ActionLane6 {
		return 0, false
	}
	return int(a - ActionLane1), true
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if lane, ok := a.Lane(); ok {
		return "Lane" + string(rune('1'+lane))
	}
	switch a {
	case ActionNone:
		return "None"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state during one simulation tick.
// It contains all actions that were triggered since the previous tick.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Lanes returns the lane indices tapped this frame, in ascending order.
func (f InputFrame) Lanes() []int {
	var lanes []int
	for lane := 0; lane < MaxLanes; lane++ {
		if f.Has(LaneAction(lane)) {
			lanes = append(lanes, lane)
		}
	}
	return lanes
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
