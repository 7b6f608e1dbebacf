package netio

import (
	"testing"

	"github.com/jacogrande/high-noon-sub002/internal/ecs"
	"github.com/jacogrande/high-noon-sub002/internal/run"
	"github.com/jacogrande/high-noon-sub002/internal/world"
)

func TestNewMatchConstructsPlayableWorld(t *testing.T) {
	m := NewMatch(DefaultMatchConfig(7))

	id := m.AddPlayer("gunslinger")
	if !m.w.Store.IsAlive(id) {
		t.Fatalf("expected player entity alive after AddPlayer")
	}

	snap := m.Snapshot()
	if len(snap.Players) != 1 {
		t.Fatalf("expected 1 player in snapshot, got %d", len(snap.Players))
	}
	if snap.Players[0].ID != id {
		t.Fatalf("expected snapshot player id %d, got %d", id, snap.Players[0].ID)
	}
}

func TestSubmitInputAndTickAdvancesSimulation(t *testing.T) {
	m := NewMatch(DefaultMatchConfig(11))
	id := m.AddPlayer("gunslinger")

	m.SubmitInput(id, world.InputState{Seq: 1, MoveDirX: 1})
	m.tick()

	if m.w.Tick != 1 {
		t.Fatalf("expected tick counter at 1, got %d", m.w.Tick)
	}
}

func TestDebugStateSatisfiesStateProvider(t *testing.T) {
	m := NewMatch(DefaultMatchConfig(3))
	state, ok := m.DebugState().(world.DebugState)
	if !ok {
		t.Fatalf("expected world.DebugState, got %T", m.DebugState())
	}
	if state.Tick != 0 {
		t.Fatalf("expected tick 0 before any Start/tick call, got %d", state.Tick)
	}
}

func TestHandlePhaseTransitionRegeneratesCampMap(t *testing.T) {
	cfg := DefaultMatchConfig(9)
	m := NewMatch(cfg)
	m.AddPlayer("gunslinger")

	m.prevPhase = run.PhaseActive
	m.w.Run.Phase = run.PhaseCamp
	m.handlePhaseTransition()

	wantW := cfg.CampMap.Width * cfg.CampMap.TileSize
	if m.w.Tilemap.Width*m.w.Tilemap.TileSize != wantW {
		t.Fatalf("expected camp-sized tilemap width %d, got %d", wantW, m.w.Tilemap.Width*m.w.Tilemap.TileSize)
	}
	if m.prevPhase != run.PhaseCamp {
		t.Fatalf("expected prevPhase updated to PhaseCamp")
	}
}

// TestHandlePhaseTransitionDespawnsSurvivingEnemies covers the bug a
// threatClearRatio below 1.0 exposes: a wave can advance (and the run
// eventually reach Camp) while threats are still alive. Camp is a safe
// area, so entering it must sweep any enemy the wave left standing.
func TestHandlePhaseTransitionDespawnsSurvivingEnemies(t *testing.T) {
	cfg := DefaultMatchConfig(9)
	m := NewMatch(cfg)
	m.AddPlayer("gunslinger")

	enemy := m.w.Store.Create()
	m.w.Store.Add(enemy, ecs.CEnemy|ecs.CPosition)
	m.w.Store.Position[enemy] = ecs.Position{X: 64, Y: 64}

	m.prevPhase = run.PhaseActive
	m.w.Run.Phase = run.PhaseCamp
	m.handlePhaseTransition()

	if m.w.Store.IsAlive(enemy) {
		t.Fatalf("expected surviving enemy despawned on the clearing-to-camp transition")
	}
}

func TestPlayerGoldShovelsReportsRuntimeState(t *testing.T) {
	m := NewMatch(DefaultMatchConfig(5))
	id := m.AddPlayer("gunslinger")

	gold, shovels, _ := m.PlayerGoldShovels(id)
	if gold != 0 || shovels != 0 {
		t.Fatalf("expected fresh player to start with 0 gold/shovels, got %d/%d", gold, shovels)
	}
}
