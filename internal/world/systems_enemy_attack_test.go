package world

import (
	"testing"

	"github.com/jacogrande/high-noon-sub002/internal/ecs"
)

func spawnTestEnemy(w *World, enemyType ecs.EnemyType, x, y float64) ecs.EntityID {
	id := w.Store.Create()
	w.Store.Add(id, ecs.CEnemy|ecs.CPosition|ecs.CEnemyAI|ecs.CHealth)
	profile := profileFor(enemyType)
	w.Store.Position[id] = ecs.Position{X: x, Y: y, PrevX: x, PrevY: y}
	w.Store.Health[id] = ecs.Health{Current: profile.MaxHP, Max: profile.MaxHP}
	w.Store.Enemy[id] = ecs.Enemy{Type: enemyType, Tier: ecs.TierThreat}
	return id
}

// TestAttackChargerRushHitsTargetWithinReach covers the gap the review
// flagged: a Charger used to fall through to generic melee with no rush
// payload at all.
func TestAttackChargerRushHitsTargetWithinReach(t *testing.T) {
	w := openWorld(t, 20, 20)
	player := addTestPlayer(w, 100, 100)
	enemy := spawnTestEnemy(w, ecs.EnemyCharger, 100, 115)

	profile := profileFor(ecs.EnemyCharger)
	ai := ecs.EnemyAI{TargetEID: player, ChargeDirX: 0, ChargeDirY: -1}

	attackChargerRush(w, enemy, ai, w.Store.Position[enemy], w.Store.Position[player], profile)

	if got := w.Store.Health[player].Current; got != 100-profile.AttackDamage {
		t.Fatalf("expected charger rush to deal %v damage, HP now %v", profile.AttackDamage, got)
	}
}

// TestAttackChargerRushMissesOutOfReach ensures the rush doesn't damage a
// target it never actually reached.
func TestAttackChargerRushMissesOutOfReach(t *testing.T) {
	w := openWorld(t, 40, 40)
	player := addTestPlayer(w, 100, 100)
	enemy := spawnTestEnemy(w, ecs.EnemyCharger, 100, 2000)

	profile := profileFor(ecs.EnemyCharger)
	ai := ecs.EnemyAI{TargetEID: player}

	attackChargerRush(w, enemy, ai, w.Store.Position[enemy], w.Store.Position[player], profile)

	if w.Store.Health[player].Current != 100 {
		t.Fatalf("expected a rush that never closed the distance to deal no damage, HP now %v", w.Store.Health[player].Current)
	}
}

// TestAttackBomberThrowDetonatesAndDamagesPlayer covers the dynamite
// throw-and-fuse payload: it must spawn a live bomb entity that later
// detonates and damages a player caught in its radius.
func TestAttackBomberThrowDetonatesAndDamagesPlayer(t *testing.T) {
	w := openWorld(t, 40, 40)
	player := addTestPlayer(w, 300, 300)
	bomber := spawnTestEnemy(w, ecs.EnemyBomber, 120, 300)

	profile := profileFor(ecs.EnemyBomber)
	attackBomberThrow(w, bomber, w.Store.Position[bomber], w.Store.Position[player], profile)

	if w.Store.Count(ecs.CBomb) != 1 {
		t.Fatalf("expected exactly one bomb spawned, got %d", w.Store.Count(ecs.CBomb))
	}

	var bombID ecs.EntityID
	w.Store.Each(ecs.CBomb, func(id ecs.EntityID) { bombID = id })
	w.Store.Position[bombID] = w.Store.Position[player] // land it on the player for a deterministic hit

	ticks := int(BomberFuseDuration/Dt) + 2
	for i := 0; i < ticks; i++ {
		if err := SystemBombs(w); err != nil {
			t.Fatalf("SystemBombs tick %d: %v", i, err)
		}
	}

	if w.Store.IsAlive(bombID) {
		t.Fatal("expected the bomb to detonate and be destroyed once its fuse ran out")
	}
	if w.Store.Health[player].Current >= 100 {
		t.Fatalf("expected the detonation to damage the player, HP still %v", w.Store.Health[player].Current)
	}
}

// TestSystemBossPhaseOpensIFramesAndSummonsOnThreshold covers the
// multi-phase HP-threshold transition: crossing the first threshold must
// open an invulnerability window and summon reinforcements exactly once.
func TestSystemBossPhaseOpensIFramesAndSummonsOnThreshold(t *testing.T) {
	w := openWorld(t, 20, 20)
	boss := spawnEnemy(w, ecs.EnemyBoss, ecs.TierThreat)

	h := &w.Store.Health[boss]
	h.Current = h.Max * 0.5 // below the first 0.66 threshold

	before := w.Store.Count(ecs.CEnemy)

	if err := SystemBossPhase(w); err != nil {
		t.Fatalf("SystemBossPhase: %v", err)
	}

	if w.Store.BossPhase[boss].Phase != 1 {
		t.Fatalf("expected boss phase advanced to 1, got %d", w.Store.BossPhase[boss].Phase)
	}
	if w.Store.Health[boss].IFrames != BossPhaseIFrameDuration {
		t.Fatalf("expected i-frames opened for %v, got %v", BossPhaseIFrameDuration, w.Store.Health[boss].IFrames)
	}
	if got := w.Store.Count(ecs.CEnemy) - before; got != BossPhaseSummonCount {
		t.Fatalf("expected %d fodder summoned, got %d", BossPhaseSummonCount, got)
	}

	// Running it again the same tick must not retrigger the same threshold.
	if err := SystemBossPhase(w); err != nil {
		t.Fatalf("SystemBossPhase second run: %v", err)
	}
	if w.Store.BossPhase[boss].Phase != 1 {
		t.Fatalf("expected phase to stay at 1 without crossing a new threshold, got %d", w.Store.BossPhase[boss].Phase)
	}
}
