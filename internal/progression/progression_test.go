package progression

import (
	"testing"

	"github.com/jacogrande/high-noon-sub002/internal/ecs"
)

func tinStarTree() *Tree {
	return NewTree([]Node{
		{ID: "tin_star", Branch: "defense", Tier: 0, Implemented: true,
			Modifiers: []Modifier{{Stat: StatMaxHP, Op: OpAdd, Value: 2}}},
		{ID: "quick_reload", Branch: "utility", Tier: 0, Implemented: true,
			Modifiers: []Modifier{{Stat: StatReloadTime, Op: OpMul, Value: 0.6}}},
		{ID: "iron_skin", Branch: "defense", Tier: 1, Implemented: true,
			Modifiers: []Modifier{{Stat: StatMaxHP, Op: OpAdd, Value: 5}}},
		{ID: "unimplemented", Branch: "utility", Tier: 1, Implemented: false},
	})
}

// S6: seed=1, take tin_star (maxHP +2) and quick_reload (reloadTime x0.6).
func TestScenarioS6NodeStacking(t *testing.T) {
	s := NewState(tinStarTree())
	s.PendingPoints = 2
	if !s.TakeNode("tin_star") {
		t.Fatal("expected tin_star takeable")
	}
	if !s.TakeNode("quick_reload") {
		t.Fatal("expected quick_reload takeable")
	}

	stats := s.Recompute()
	base := DefaultBaseStats()
	if stats.MaxHP != base.MaxHP+2 {
		t.Fatalf("expected maxHP = base+2 = %v, got %v", base.MaxHP+2, stats.MaxHP)
	}
	if stats.ReloadTime != base.ReloadTime*0.6 {
		t.Fatalf("expected reloadTime = base*0.6 = %v, got %v", base.ReloadTime*0.6, stats.ReloadTime)
	}

	speedLoader := &Item{ID: "speed_loader", MaxStack: 1, Stat: StatReloadTime, Op: OpMul, Stack: Unique(0.7)}
	s.AddItem(speedLoader)
	stats = s.Recompute()
	want := base.ReloadTime * 0.6 * 0.7
	if stats.ReloadTime != want {
		t.Fatalf("expected stacked reloadTime = %v, got %v", want, stats.ReloadTime)
	}
}

func TestCanTakeNodeRequiresLowerTierInBranch(t *testing.T) {
	s := NewState(tinStarTree())
	s.PendingPoints = 5
	if s.CanTakeNode("iron_skin") {
		t.Fatal("should not be able to take tier-1 node before tier-0 sibling")
	}
	s.TakeNode("tin_star")
	if !s.CanTakeNode("iron_skin") {
		t.Fatal("expected iron_skin takeable once tin_star is taken")
	}
}

func TestCanTakeNodeRejectsUnimplemented(t *testing.T) {
	s := NewState(tinStarTree())
	s.PendingPoints = 5
	if s.CanTakeNode("unimplemented") {
		t.Fatal("unimplemented node must never be takeable")
	}
}

func TestTakeNodeRequiresPendingPoint(t *testing.T) {
	s := NewState(tinStarTree())
	s.PendingPoints = 0
	if s.TakeNode("tin_star") {
		t.Fatal("should not take node without a pending point")
	}
}

func TestAddXPGrantsLevelAndPendingPoints(t *testing.T) {
	s := NewState(tinStarTree())
	s.AddXP(LevelThresholds[1])
	if s.Level != 1 || s.PendingPoints != 1 {
		t.Fatalf("expected level 1 with 1 pending point, got level=%d pending=%d", s.Level, s.PendingPoints)
	}
}

func TestWriteStatsIdempotent(t *testing.T) {
	store := ecs.New(4)
	e := store.Create()
	store.Add(e, ecs.CHealth|ecs.CWeapon|ecs.CCylinder)
	store.Health[e] = ecs.Health{Current: 100, Max: 100}
	store.Cylinder[e] = ecs.Cylinder{Rounds: 6, MaxRounds: 6}

	stats := Stats{MaxHP: 120, BulletDamage: 15, FireRate: 3, CylinderSize: 6, ReloadTime: 1.0, LastRoundMultiplier: 1.5}

	WriteStatsToECS(store, e, stats)
	first := store.Health[e]
	firstCyl := store.Cylinder[e]

	WriteStatsToECS(store, e, stats)
	second := store.Health[e]
	secondCyl := store.Cylinder[e]

	if first != second {
		t.Fatalf("expected idempotent health write: %+v vs %+v", first, second)
	}
	if firstCyl != secondCyl {
		t.Fatalf("expected idempotent cylinder write: %+v vs %+v", firstCyl, secondCyl)
	}
	if store.Health[e].Current != 120 {
		t.Fatalf("expected HP healed to new max 120, got %v", store.Health[e].Current)
	}
}

func TestHyperbolicAndAdditiveCapStacking(t *testing.T) {
	h := Hyperbolic(0.5)
	if v := h(0); v != 0 {
		t.Fatalf("hyperbolic(0 stacks) should be 0, got %v", v)
	}
	if v := h(100); v <= 0.9 || v >= 1.0 {
		t.Fatalf("hyperbolic should approach but never reach 1, got %v", v)
	}

	cap := AdditiveCap(0.3)
	if v := cap(10); v != 1.0 {
		t.Fatalf("additive cap should clamp at 1.0, got %v", v)
	}
}
