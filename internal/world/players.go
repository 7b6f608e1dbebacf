package world

import (
	"github.com/jacogrande/high-noon-sub002/internal/ecs"
	"github.com/jacogrande/high-noon-sub002/internal/progression"
)

// SpawnRadius is how far from the arena center a freshly joined player is
// placed; real placement comes from the current stage's tilemap center.
const SpawnRadius = 0

// AddPlayer creates a player entity at the tilemap's center tile, wires up
// its progression state against characterTree, and registers its
// PlayerRuntime side state. Per spec.md §3, a player's component data
// persists across stages; only camp transitions restore HP to max.
func (w *World) AddPlayer(characterID string, characterTree *progression.Tree) ecs.EntityID {
	id := w.Store.Create()
	w.Store.Add(id, ecs.CPosition|ecs.CVelocity|ecs.CCollider|ecs.CHealth|ecs.CPlayerTag|
		ecs.CWeapon|ecs.CCylinder|ecs.CPlayerState|ecs.CShowdown|ecs.CZPosition|ecs.CJump)

	col, row := w.Tilemap.Width/2, w.Tilemap.Height/2
	x, y := w.Tilemap.TileCenter(col, row)

	w.Store.Position[id] = ecs.Position{X: x, Y: y, PrevX: x, PrevY: y}
	w.Store.Collider[id] = ecs.Collider{Radius: 14, Layer: ecs.LayerPlayer}
	w.Store.PlayerTag[id] = ecs.PlayerTag{CharacterID: characterID}

	prog := progression.NewState(characterTree)
	stats := prog.Cached

	w.Store.Health[id] = ecs.Health{Current: stats.MaxHP, Max: stats.MaxHP}
	w.Store.Weapon[id] = ecs.Weapon{
		FireRate: stats.FireRate, BulletDamage: stats.BulletDamage, BulletSpeed: 600,
		Range: 500, LastRoundMultiplier: stats.LastRoundMultiplier,
		PelletCount: 1, MinFireInterval: 1.0 / stats.FireRate, HoldFireRate: stats.FireRate,
	}
	w.Store.Cylinder[id] = ecs.Cylinder{
		Rounds: uint8(stats.CylinderSize), MaxRounds: uint8(stats.CylinderSize),
		ReloadTime: stats.ReloadTime,
	}
	w.Store.Showdown[id] = ecs.Showdown{TargetEID: ecs.NoEntity}
	w.Store.Jump[id] = ecs.Jump{Landed: true}

	w.Players[id] = &PlayerRuntime{Progression: prog}
	return id
}

// RemovePlayer destroys a player's entity and purges its runtime state.
// Per spec.md §3, components persist "across stages" only while the
// player remains connected; on leave, every piece of world state keyed by
// the player's id is released in one pass.
func (w *World) RemovePlayer(id ecs.EntityID) {
	delete(w.Players, id)
	w.purgeEntitySideTables(id)
	if w.Store.IsAlive(id) {
		w.Store.Destroy(id)
	}
}

// SubmitInput buffers the latest input sample for a connected player. Per
// spec.md §6, seq is monotonically non-decreasing; an out-of-order or
// stale sample (seq less than one already buffered this tick) is dropped
// rather than applied, since the input system only ever reads the most
// recent sample buffered before its slot in the pipeline runs.
func (w *World) SubmitInput(id ecs.EntityID, in InputState) {
	pr, ok := w.Players[id]
	if !ok {
		return
	}
	if in.Seq != 0 && in.Seq < pr.Input.Seq {
		return
	}
	pr.Input = in
	if w.Store.Has(id, ecs.CPlayerTag) {
		tag := &w.Store.PlayerTag[id]
		tag.LastAckedInputSeq = in.Seq
	}
}

// HealAllPlayers restores every connected player's HP to max, the camp-
// transition effect spec.md §4.11 requires.
func (w *World) HealAllPlayers() {
	w.Store.Each(ecs.CPlayerTag|ecs.CHealth, func(id ecs.EntityID) {
		h := &w.Store.Health[id]
		h.Current = h.Max
	})
}
