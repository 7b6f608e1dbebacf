package world

import (
	"github.com/jacogrande/high-noon-sub002/internal/ecs"
)

// SpawnClearRadius is the minimum distance from any alive player a new
// enemy may spawn.
const SpawnClearRadius = 3 // tiles

// SystemDebugSpawn is the pipeline's reserved dev/test entity-injection
// slot (spec.md §5 lists it by name without further elaboration — it is
// out of the simulation's own behavioral scope). It is a no-op in the
// core; a harness may install a replacement System in this slot of its own
// Pipeline() copy for scripted test scenarios.
func SystemDebugSpawn(w *World) error {
	return nil
}

// SystemWaveSpawner ticks the run controller, spawns this wave's finite
// threat roster the instant it begins, tops up fodder from its weighted
// pool up to the wave's cap, and checks wave-advancement once per tick
// (spec.md §4.11, P7).
func SystemWaveSpawner(w *World) error {
	w.Run.Tick(Dt)

	for _, t := range w.Run.ThreatsToSpawn() {
		for i := 0; i < t.Count; i++ {
			spawnEnemy(w, t.Type, ecs.TierThreat)
		}
	}

	for w.Run.ShouldSpawnFodder() {
		enemyType, ok := w.Run.SampleFodder()
		if !ok {
			break
		}
		spawnEnemy(w, enemyType, ecs.TierFodder)
	}

	w.Run.MaybeAdvance()
	return nil
}

func spawnEnemy(w *World, enemyType ecs.EnemyType, tier ecs.EnemyTier) ecs.EntityID {
	profile := profileFor(enemyType)
	x, y := randomSpawnPoint(w)

	id := w.Store.Create()
	w.Store.Add(id, ecs.CPosition|ecs.CVelocity|ecs.CCollider|ecs.CHealth|ecs.CEnemy|ecs.CEnemyAI|ecs.CDetection|ecs.CSteering)
	w.Store.Position[id] = ecs.Position{X: x, Y: y, PrevX: x, PrevY: y}
	w.Store.Collider[id] = ecs.Collider{Radius: profile.Radius, Layer: ecs.LayerEnemy}
	w.Store.Health[id] = ecs.Health{Current: profile.MaxHP, Max: profile.MaxHP}
	w.Store.Enemy[id] = ecs.Enemy{Type: enemyType, Tier: tier, BudgetCost: profile.BudgetCost}
	w.Store.EnemyAI[id] = ecs.EnemyAI{State: ecs.AIIdle, TargetEID: ecs.NoEntity}
	w.Store.Detection[id] = ecs.Detection{
		AggroRange:    profile.AggroRange,
		LOSRequired:   profile.LOSRequired,
		StaggerOffset: uint8(id % 5),
	}
	w.Store.Steering[id] = ecs.Steering{
		PreferredRange: profile.PreferredRange, SeparationRadius: 32,
		SeekWeight: 1.0, SeparationWeight: 0.6,
	}
	if enemyType == ecs.EnemyBoss {
		w.Store.Add(id, ecs.CBossPhase)
		w.Store.BossPhase[id] = ecs.BossPhase{Phase: 0}
	}
	return id
}

// randomSpawnPoint samples a walkable tile outside SpawnClearRadius tiles
// of every alive player, retrying a bounded number of times before falling
// back to the tilemap's center tile (spec.md §7's deterministic-fallback
// rule for an exhausted candidate search).
func randomSpawnPoint(w *World) (float64, float64) {
	tm := w.Tilemap
	const maxAttempts = 64
	for attempt := 0; attempt < maxAttempts; attempt++ {
		col := int(w.SpawnRNG.NextInt(uint32(tm.Width)))
		row := int(w.SpawnRNG.NextInt(uint32(tm.Height)))
		if !tm.Walkable(col, row) {
			continue
		}
		if tooCloseToAnyPlayer(w, col, row) {
			continue
		}
		return tm.TileCenter(col, row)
	}
	return tm.TileCenter(tm.Width/2, tm.Height/2)
}

func tooCloseToAnyPlayer(w *World, col, row int) bool {
	clear := float64(SpawnClearRadius * w.Tilemap.TileSize)
	for id := range w.Players {
		if !w.Store.IsAlive(id) || !w.Store.Has(id, ecs.CPosition) || w.Store.Has(id, ecs.CDead) {
			continue
		}
		px, py := w.Store.Position[id].X, w.Store.Position[id].Y
		cx, cy := w.Tilemap.TileCenter(col, row)
		dx, dy := cx-px, cy-py
		if dx*dx+dy*dy < clear*clear {
			return true
		}
	}
	return false
}
