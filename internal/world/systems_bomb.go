package world

import "github.com/jacogrande/high-noon-sub002/internal/ecs"

// BombRadius is the collider radius a thrown dynamite stick occupies while
// its fuse burns.
const BombRadius = 6.0

func spawnBomb(w *World, owner ecs.EntityID, x, y, fuse, radius, damage float64) ecs.EntityID {
	id := w.Store.Create()
	w.Store.Add(id, ecs.CPosition|ecs.CCollider|ecs.CBomb)
	w.Store.Position[id] = ecs.Position{X: x, Y: y, PrevX: x, PrevY: y}
	w.Store.Collider[id] = ecs.Collider{Radius: BombRadius, Layer: ecs.LayerNeutral}
	w.Store.Bomb[id] = ecs.Bomb{Timer: fuse, Radius: radius, Damage: damage, OwnerEID: owner}
	return id
}

// SystemBombs burns down every thrown dynamite's fuse and detonates it in a
// single AoE burst against players caught in its radius when the fuse
// reaches zero (spec.md §4.9's bomber payload).
func SystemBombs(w *World) error {
	var detonating []ecs.EntityID
	w.Store.Each(ecs.CBomb|ecs.CPosition, func(id ecs.EntityID) {
		b := &w.Store.Bomb[id]
		b.Timer -= Dt
		if b.Timer <= 0 {
			detonating = append(detonating, id)
		}
	})

	for _, id := range detonating {
		b := w.Store.Bomb[id]
		pos := w.Store.Position[id]
		w.Store.Each(ecs.CPlayerTag|ecs.CPosition, func(pid ecs.EntityID) {
			if w.Store.Has(pid, ecs.CDead) {
				return
			}
			pp := w.Store.Position[pid]
			if dist2(pos.X, pos.Y, pp.X, pp.Y) > b.Radius*b.Radius {
				return
			}
			ApplyDamage(w, pid, DamageParams{
				Amount: b.Damage, AttackerEID: b.OwnerEID, SetIframes: true,
				OwnerPlayerEID: b.OwnerEID, FireHealthChanged: true, TrackAttribution: true, ClampToZero: true,
			})
		})
		w.Store.Destroy(id)
	}
	return nil
}
