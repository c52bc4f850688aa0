package tui

import (
	"fmt"
	"strings"

	"github.com/tuitiles/tilefall/internal/core"
	"github.com/tuitiles/tilefall/internal/engine"
)

// Layout constants for the play field.
const (
	hudRows       = 2 // score line plus separator
	footerRows    = 1 // help line at the bottom
	laneGlyphSpan = 4 // width of a tile glyph within a lane
	feedTTLMillis = 1500
)

// laneColors assigns a stable color per lane so tiles read at a glance.
var laneColors = []core.Color{
	core.ColorBrightCyan,
	core.ColorBrightMagenta,
	core.ColorBrightYellow,
	core.ColorBrightGreen,
	core.ColorBrightBlue,
	core.ColorOrange,
}

// laneColor returns the color for a lane index.
func laneColor(lane int) core.Color {
	if lane < 0 || lane >= len(laneColors) {
		return core.ColorWhite
	}
	return laneColors[lane]
}

// draw renders the full frame into the screen buffer.
func (m *Model) draw() {
	s := m.screen
	s.Clear()

	m.drawHUD()
	m.drawField()
	m.drawFooter()

	switch m.snap.Phase {
	case engine.PhaseIdle:
		m.drawIdleOverlay()
	case engine.PhasePaused:
		m.drawPausedOverlay()
	case engine.PhaseOver:
		m.drawOverOverlay()
	}
}

// drawHUD renders the score line and its separator.
func (m *Model) drawHUD() {
	s := m.screen
	snap := m.snap

	hearts := strings.Repeat("♥", core.Max(snap.Lives, 0))
	left := fmt.Sprintf(" SCORE %6d   COMBO x%-3d   LIVES %s", snap.Score, snap.Combo, hearts)
	s.DrawTextColored(0, 0, left, core.ColorBrightWhite)

	right := fmt.Sprintf("SPD %.1fx   BEST %d ", snap.SpeedFactor, m.bestScore)
	s.DrawTextColored(s.Width()-len(right), 0, right, core.ColorGray)

	if msg, ok := m.feed.current(); ok {
		s.DrawTextColored((s.Width()-len(msg))/2, 0, msg, core.ColorBrightYellow)
	}

	s.DrawHLine(0, 1, s.Width(), '─')
}

// fieldRows returns the number of screen rows the fall zone occupies.
func (m *Model) fieldRows() int {
	return m.screen.Height() - hudRows - footerRows - 1 // hit line takes one row
}

// drawField renders the lanes, the falling tiles and the hit line.
func (m *Model) drawField() {
	s := m.screen
	cfg := m.eng.Config()
	rows := m.fieldRows()
	if rows < 3 || cfg.Lanes < 1 {
		return
	}

	laneW := s.Width() / cfg.Lanes
	hitRow := hudRows + rows

	// Lane separators
	for lane := 1; lane < cfg.Lanes; lane++ {
		s.DrawVLine(lane*laneW, hudRows, rows, '│')
	}

	// Hit line with per-lane key hints
	s.DrawHLine(0, hitRow, s.Width(), '═')
	for lane := 0; lane < cfg.Lanes; lane++ {
		hint := fmt.Sprintf("[%d]", lane+1)
		x := lane*laneW + (laneW-len(hint))/2
		s.DrawTextColored(x, hitRow, hint, laneColor(lane))
	}

	for _, t := range m.snap.Tiles {
		m.drawTile(t, laneW, rows)
	}
}

// drawTile renders a single tile at its current field position.
func (m *Model) drawTile(t engine.Tile, laneW, rows int) {
	cfg := m.eng.Config()

	// Map the field position onto the fall zone. Tiles past the end keep
	// drawing on the hit line row so a resolved tile's flash stays visible.
	frac := t.Position / cfg.FieldLength
	row := hudRows + int(frac*float64(rows))
	row = core.Clamp(row, hudRows, hudRows+rows)

	span := core.Min(laneGlyphSpan, laneW-2)
	if span < 1 {
		span = 1
	}
	x := t.Lane*laneW + (laneW-span)/2

	glyph, color := tileGlyph(t)
	for i := 0; i < span; i++ {
		m.screen.SetCell(x+i, row, glyph, color)
	}
}

// tileGlyph picks the rune and color for a tile based on kind and outcome.
func tileGlyph(t engine.Tile) (rune, core.Color) {
	switch t.Outcome {
	case engine.OutcomeHit:
		return '✧', core.ColorBrightWhite
	case engine.OutcomeMissed:
		return '▓', core.ColorBrightRed
	}
	if t.Kind == engine.KindDecoy {
		return '░', core.ColorGray
	}
	return '█', laneColor(t.Lane)
}

// drawFooter renders the key help line.
func (m *Model) drawFooter() {
	s := m.screen
	help := " 1-4/asdf tap · p pause · r restart · q quit"
	s.DrawTextColored(0, s.Height()-1, help, core.ColorGray)
}

// overlayBox draws a bordered box centered on the field and returns the
// top-left inner coordinates for the caller to fill.
func (m *Model) overlayBox(w, h int) (x, y int) {
	s := m.screen
	r := core.NewRect((s.Width()-w)/2, (s.Height()-h)/2, w, h)
	m.screen.DrawRect(core.NewRect(r.X+1, r.Y+1, r.W-2, r.H-2), ' ')
	s.DrawBox(r)
	return r.X + 2, r.Y + 1
}

// drawIdleOverlay shows the title card before a run starts.
func (m *Model) drawIdleOverlay() {
	x, y := m.overlayBox(36, 7)
	s := m.screen
	s.DrawTextColored(x+7, y, "T I L E F A L L", core.ColorBrightCyan)
	s.DrawText(x, y+2, "Tap tiles before they reach")
	s.DrawText(x, y+3, "the bottom. Decoys still score.")
	s.DrawTextColored(x+3, y+5, "press enter to start", core.ColorBrightYellow)
}

// drawPausedOverlay shows the pause card.
func (m *Model) drawPausedOverlay() {
	x, y := m.overlayBox(26, 4)
	s := m.screen
	s.DrawTextColored(x+7, y, "PAUSED", core.ColorBrightYellow)
	s.DrawText(x+2, y+2, "press p to resume")
}

// drawOverOverlay shows the final run record.
func (m *Model) drawOverOverlay() {
	stats := m.eng.Stats()
	x, y := m.overlayBox(36, 9)
	s := m.screen

	s.DrawTextColored(x+8, y, "G A M E  O V E R", core.ColorBrightRed)
	s.DrawText(x, y+2, fmt.Sprintf("Score      %d", stats.FinalScore))
	s.DrawText(x, y+3, fmt.Sprintf("Max combo  x%d", stats.MaxCombo))
	s.DrawText(x, y+4, fmt.Sprintf("Accuracy   %.1f%% (%d/%d)",
		stats.Accuracy, stats.TotalHit, stats.TotalSpawned))
	if stats.FinalScore > m.bestAtStart {
		s.DrawTextColored(x, y+5, "New best!", core.ColorBrightGreen)
	}
	s.DrawTextColored(x, y+7, "r restart · q quit", core.ColorBrightYellow)
}
