package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tuitiles/tilefall/internal/core"
)

// laneKeys maps physical keys to lane indices. Number row and home row both
// work, so the player can keep one hand on each.
var laneKeys = map[string]int{
	"1": 0, "2": 1, "3": 2, "4": 3, "5": 4, "6": 5,
	"a": 0, "s": 1, "d": 2, "f": 3, "g": 4, "h": 5,
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	// Global quit keys
	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	if lane, ok := laneKeys[key]; ok {
		return core.LaneAction(lane), false
	}

	switch key {
	case "enter", " ":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}

	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}
