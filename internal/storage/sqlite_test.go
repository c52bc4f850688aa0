package storage

import (
	"path/filepath"
	"testing"

	"github.com/tuitiles/tilefall/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadBestEmpty(t *testing.T) {
	store := openTestStore(t)

	best, err := store.LoadBest("tilefall")
	if err != nil {
		t.Fatalf("LoadBest() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("LoadBest() on empty store = %d, want 0", best)
	}
}

func TestSaveBestUpserts(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveBest("tilefall", 1200); err != nil {
		t.Fatalf("SaveBest() failed: %v", err)
	}
	if err := store.SaveBest("tilefall", 2500); err != nil {
		t.Fatalf("SaveBest() overwrite failed: %v", err)
	}

	best, err := store.LoadBest("tilefall")
	if err != nil {
		t.Fatalf("LoadBest() failed: %v", err)
	}
	if best != 2500 {
		t.Errorf("LoadBest() = %d, want 2500", best)
	}
}

func TestBestsAreKeyedIndependently(t *testing.T) {
	store := openTestStore(t)

	store.SaveBest("tilefall", 500)
	store.SaveBest("tilefall-hard", 900)

	best, _ := store.LoadBest("tilefall")
	if best != 500 {
		t.Errorf("LoadBest(tilefall) = %d, want 500", best)
	}
	best, _ = store.LoadBest("tilefall-hard")
	if best != 900 {
		t.Errorf("LoadBest(tilefall-hard) = %d, want 900", best)
	}
}

func TestSaveAndQueryRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []engine.RunStats{
		{TotalSpawned: 20, TotalHit: 15, TotalMissed: 5, Accuracy: 75, FinalScore: 1500, MaxCombo: 8},
		{TotalSpawned: 40, TotalHit: 38, TotalMissed: 2, Accuracy: 95, FinalScore: 4200, MaxCombo: 22},
		{TotalSpawned: 10, TotalHit: 4, TotalMissed: 6, Accuracy: 40, FinalScore: 300, MaxCombo: 3},
	}
	for _, r := range runs {
		if _, err := store.SaveRun("tilefall", r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns("tilefall", 2)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("TopRuns() returned %d entries, want 2", len(top))
	}
	if top[0].FinalScore != 4200 || top[1].FinalScore != 1500 {
		t.Errorf("TopRuns() order wrong: %d, %d", top[0].FinalScore, top[1].FinalScore)
	}
	if top[0].MaxCombo != 22 || top[0].TotalHit != 38 {
		t.Errorf("TopRuns() lost run detail: %+v", top[0])
	}

	recent, err := store.RecentRuns("tilefall", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("RecentRuns() returned %d entries, want 3", len(recent))
	}
	// Inserted in order, so the last insert comes back first.
	if recent[0].FinalScore != 300 {
		t.Errorf("RecentRuns() first = %d, want 300", recent[0].FinalScore)
	}
}

func TestRunsAreKeyedIndependently(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun("tilefall", engine.RunStats{FinalScore: 100})
	store.SaveRun("other", engine.RunStats{FinalScore: 200})

	top, err := store.TopRuns("tilefall", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 1 || top[0].FinalScore != 100 {
		t.Errorf("TopRuns(tilefall) = %+v, want single 100 entry", top)
	}
}

func TestClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveBest("tilefall", 777)
	store.SaveRun("tilefall", engine.RunStats{FinalScore: 777})

	if err := store.ClearRuns("tilefall"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	best, _ := store.LoadBest("tilefall")
	if best != 0 {
		t.Errorf("best survived clear: %d", best)
	}
	runs, _ := store.RecentRuns("tilefall", 10)
	if len(runs) != 0 {
		t.Errorf("runs survived clear: %d entries", len(runs))
	}
}

func TestEngineWritesBestThroughStore(t *testing.T) {
	store := openTestStore(t)

	cfg := engine.DefaultConfig()
	cfg.Lives = 1
	cfg.ActiveProbability = 1.0
	eng := engine.New(cfg, store, nil)

	eng.Start()
	snap := eng.Snapshot()
	if id, ok := snap.FrontPending(snap.Tiles[0].Lane); ok {
		eng.Hit(id)
	}
	// Let the remaining tiles run off the field until the run ends.
	for i := 0; i < 10000 && eng.Snapshot().Phase != engine.PhaseOver; i++ {
		eng.Advance(16)
	}

	if eng.Snapshot().Phase != engine.PhaseOver {
		t.Fatal("run never ended")
	}
	best, err := store.LoadBest("tilefall")
	if err != nil {
		t.Fatalf("LoadBest() failed: %v", err)
	}
	if best != eng.Stats().FinalScore {
		t.Errorf("persisted best = %d, want %d", best, eng.Stats().FinalScore)
	}
}
