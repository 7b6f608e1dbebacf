package world

import (
	"testing"

	"github.com/jacogrande/high-noon-sub002/internal/ecs"
)

// TestJumpLaunchesOnFreshPressAndLands exercises the full arc: a fresh
// BtnJump press launches the player airborne, gravity brings it back down,
// and landing sets Jump.Landed while opening the recovery window.
func TestJumpLaunchesOnFreshPressAndLands(t *testing.T) {
	w := openWorld(t, 20, 20)
	player := w.AddPlayer("gunslinger", testTree())

	w.Players[player].Input = InputState{Buttons: BtnJump}
	if err := SystemJump(w); err != nil {
		t.Fatalf("SystemJump launch: %v", err)
	}
	if w.Store.Jump[player].Landed {
		t.Fatal("expected player airborne after a fresh jump press")
	}
	if w.Store.ZPosition[player].ZVelocity <= 0 {
		t.Fatalf("expected positive launch velocity, got %v", w.Store.ZPosition[player].ZVelocity)
	}

	// Holding the button across ticks must not relaunch mid-air.
	peakZ := w.Store.ZPosition[player].Z
	for i := 0; i < 200 && !w.Store.Jump[player].Landed; i++ {
		if err := SystemJump(w); err != nil {
			t.Fatalf("SystemJump tick %d: %v", i, err)
		}
		if z := w.Store.ZPosition[player].Z; z > peakZ {
			peakZ = z
		}
	}

	if !w.Store.Jump[player].Landed {
		t.Fatal("expected the player to have landed within 200 ticks")
	}
	if w.Store.ZPosition[player].Z != 0 || w.Store.ZPosition[player].ZVelocity != 0 {
		t.Fatalf("expected Z and ZVelocity reset to 0 on landing, got Z=%v ZVelocity=%v",
			w.Store.ZPosition[player].Z, w.Store.ZPosition[player].ZVelocity)
	}
	if w.Store.Jump[player].LandingTimer != LandingRecovery {
		t.Fatalf("expected landing recovery window set to %v, got %v", LandingRecovery, w.Store.Jump[player].LandingTimer)
	}
	if peakZ <= 0 {
		t.Fatal("expected the player to have gained height mid-jump")
	}
}

// TestJumpBlocksRelaunchDuringLandingRecovery checks that a jump press
// landing in the same tick as touchdown can't immediately relaunch: the
// recovery window must elapse first.
func TestJumpBlocksRelaunchDuringLandingRecovery(t *testing.T) {
	w := openWorld(t, 20, 20)
	player := w.AddPlayer("gunslinger", testTree())

	w.Store.Jump[player] = ecs.Jump{Landed: false}
	w.Store.ZPosition[player] = ecs.ZPosition{Z: 1, ZVelocity: -10000}

	w.Players[player].Input = InputState{Buttons: BtnJump}
	if err := SystemJump(w); err != nil {
		t.Fatalf("SystemJump landing tick: %v", err)
	}
	if !w.Store.Jump[player].Landed {
		t.Fatal("expected the heavy downward velocity to land the player this tick")
	}
	if w.Store.Jump[player].LandingTimer <= 0 {
		t.Fatal("expected a landing recovery window to be open")
	}

	// Same held press, next tick: still recovering, must stay grounded.
	if err := SystemJump(w); err != nil {
		t.Fatalf("SystemJump recovery tick: %v", err)
	}
	if !w.Store.Jump[player].Landed {
		t.Fatal("expected the player to remain grounded during landing recovery")
	}
}

// TestStompDamagesNearbyEnemyOnLanding checks that landing triggers an AoE
// hit against enemies within StompRadius.
func TestStompDamagesNearbyEnemyOnLanding(t *testing.T) {
	w := openWorld(t, 20, 20)
	player := w.AddPlayer("gunslinger", testTree())
	pos := w.Store.Position[player]

	enemy := w.Store.Create()
	w.Store.Add(enemy, ecs.CEnemy|ecs.CPosition|ecs.CHealth)
	w.Store.Position[enemy] = ecs.Position{X: pos.X + 10, Y: pos.Y}
	w.Store.Health[enemy] = ecs.Health{Current: 50, Max: 50}

	w.Store.Jump[player] = ecs.Jump{Landed: false}
	w.Store.ZPosition[player] = ecs.ZPosition{Z: 1, ZVelocity: -10000}
	w.Players[player].Input = InputState{}

	if err := SystemJump(w); err != nil {
		t.Fatalf("SystemJump: %v", err)
	}
	if !w.Store.Jump[player].Landed {
		t.Fatal("expected the player to land this tick")
	}
	if w.Store.Health[enemy].Current >= 50 {
		t.Fatalf("expected the stomp to damage the nearby enemy, HP still %v", w.Store.Health[enemy].Current)
	}
}
