package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tuitiles/tilefall/internal/core"
	"github.com/tuitiles/tilefall/internal/engine"
	"github.com/tuitiles/tilefall/internal/storage"
)

// eventFeed holds the latest transient HUD message derived from engine
// events. Engine calls happen on the Update goroutine, so no locking is
// needed; the pointer lets the sink outlive Bubble Tea's model copies.
// Expiry uses wall time since this is purely presentation state.
type eventFeed struct {
	msg     string
	shownAt time.Time
}

func (f *eventFeed) set(msg string) {
	f.msg = msg
	f.shownAt = time.Now()
}

// current returns the active message, if it has not expired yet.
func (f *eventFeed) current() (string, bool) {
	if f.msg == "" || time.Since(f.shownAt) > feedTTLMillis*time.Millisecond {
		return "", false
	}
	return f.msg, true
}

// Model is the Bubble Tea model for a tilefall session.
type Model struct {
	eng     *engine.Engine
	screen  *core.Screen
	store   *storage.Store
	runtime core.RuntimeConfig
	keys    *KeyMapper
	frame   core.InputFrame
	feed    *eventFeed
	snap    engine.Snapshot

	bestScore   int // shown in the HUD, refreshed after each run
	bestAtStart int // best before the current run, for the "new best" banner
	runSaved    bool
	quitting    bool
}

// NewModel creates a Bubble Tea model wrapping a fresh engine.
func NewModel(cfg engine.Config, store *storage.Store, rt core.RuntimeConfig) Model {
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}
	cfg.Seed = rt.Seed

	feed := &eventFeed{}
	var best engine.BestStore
	if store != nil {
		best = store
	}
	eng := engine.New(cfg, best, sinkFor(feed))

	m := Model{
		eng:     eng,
		screen:  core.NewScreen(rt.ScreenW, rt.ScreenH),
		store:   store,
		runtime: rt,
		keys:    NewKeyMapper(),
		frame:   core.NewInputFrame(),
		feed:    feed,
	}
	m.snap = eng.Snapshot()
	m.refreshBest()
	return m
}

// sinkFor builds the engine event sink that feeds HUD flashes.
// Only milestone and terminal events surface; per-tile events would flicker
// at play speed.
func sinkFor(feed *eventFeed) engine.SinkFunc {
	return func(ev engine.Event) {
		switch ev := ev.(type) {
		case engine.ComboReachedEvent:
			feed.set(fmt.Sprintf("COMBO x%d!", ev.Combo))
		case engine.GameOverEvent:
			feed.msg = ""
		}
	}
}

// refreshBest reloads the stored best score for the HUD.
func (m *Model) refreshBest() {
	if m.store == nil {
		return
	}
	if best, err := m.store.LoadBest(m.eng.Config().BestKey); err == nil {
		m.bestScore = best
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keys.MapKeyToFrame(msg, &m.frame) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize processes window resize events. The simulation keeps running;
// only the presentation buffer changes size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.runtime.ScreenW = msg.Width
	m.runtime.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick applies buffered input, advances the simulation one fixed step
// and schedules the next tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.applyInput()

	m.snap = m.eng.Advance(m.runtime.DtMillis())

	if m.snap.Phase == engine.PhaseOver && !m.runSaved {
		m.runSaved = true
		if m.store != nil {
			//nolint:errcheck // Best-effort save, the session continues regardless
			m.store.SaveRun(m.eng.Config().BestKey, m.eng.Stats())
		}
		m.refreshBest()
	}

	m.frame.Clear()
	return m, tickCmd(m.runtime.TickRate)
}

// applyInput translates the buffered input frame into engine operations.
func (m *Model) applyInput() {
	snap := m.eng.Snapshot()

	switch snap.Phase {
	case engine.PhaseIdle:
		if m.frame.Has(core.ActionConfirm) || m.frame.Has(core.ActionRestart) {
			m.startRun()
		}
		return
	case engine.PhaseOver:
		if m.frame.Has(core.ActionRestart) || m.frame.Has(core.ActionConfirm) {
			m.startRun()
		}
		return
	case engine.PhasePaused:
		if m.frame.Has(core.ActionPause) {
			m.snap = m.eng.Resume()
		}
		return
	}

	// Running
	if m.frame.Has(core.ActionPause) {
		m.snap = m.eng.Pause()
		return
	}
	for _, lane := range m.frame.Lanes() {
		if id, ok := snap.FrontPending(lane); ok {
			m.eng.Hit(id)
		}
	}
}

// startRun begins a fresh run and resets per-run presentation state.
func (m *Model) startRun() {
	m.bestAtStart = m.bestScore
	m.runSaved = false
	m.feed.msg = ""
	m.snap = m.eng.Start()
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.draw()
	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program for a local session.
func Run(cfg engine.Config, store *storage.Store, rt core.RuntimeConfig) error {
	model := NewModel(cfg, store, rt)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
