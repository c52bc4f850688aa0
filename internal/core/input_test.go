package core

import "testing"

func TestLaneActionRoundTrip(t *testing.T) {
	for lane := 0; lane < MaxLanes; lane++ {
		a := LaneAction(lane)
		got, ok := a.Lane()
		if !ok || got != lane {
			t.Errorf("LaneAction(%d).Lane() = (%d, %v)", lane, got, ok)
		}
	}

	if LaneAction(-1) != ActionNone || LaneAction(MaxLanes) != ActionNone {
		t.Error("Out of range lanes should map to ActionNone")
	}
	if _, ok := ActionPause.Lane(); ok {
		t.Error("Non-lane action should not report a lane")
	}
}

func TestInputFrameSetHasClear(t *testing.T) {
	frame := NewInputFrame()

	if frame.Has(ActionPause) {
		t.Error("New frame should be empty")
	}

	frame.Set(ActionPause)
	frame.Set(LaneAction(2))

	if !frame.Has(ActionPause) || !frame.Has(ActionLane3) {
		t.Error("Set actions should be reported by Has")
	}

	frame.Clear()
	if frame.Has(ActionPause) || frame.Has(ActionLane3) {
		t.Error("Clear should remove all actions")
	}
}

func TestInputFrameLanes(t *testing.T) {
	frame := NewInputFrame()
	frame.Set(LaneAction(3))
	frame.Set(LaneAction(0))
	frame.Set(ActionConfirm)

	lanes := frame.Lanes()
	if len(lanes) != 2 || lanes[0] != 0 || lanes[1] != 3 {
		t.Errorf("Lanes() = %v, expected [0 3]", lanes)
	}
}

func TestInputFrameSetOnZeroValue(t *testing.T) {
	var frame InputFrame

	// Set on a zero-value frame must allocate, not panic
	frame.Set(ActionRestart)
	if !frame.Has(ActionRestart) {
		t.Error("Set on zero-value frame lost the action")
	}
}

func TestInputFrameClone(t *testing.T) {
	frame := NewInputFrame()
	frame.Set(ActionQuit)

	clone := frame.Clone()
	frame.Clear()

	if !clone.Has(ActionQuit) {
		t.Error("Clone should be independent of the original")
	}
}
