package world

import (
	"math"

	"github.com/jacogrande/high-noon-sub002/internal/ecs"
	"github.com/jacogrande/high-noon-sub002/internal/hooks"
	"github.com/jacogrande/high-noon-sub002/internal/tilemap"
)

// LavaDPS is the exact hit-points-per-second dealt by standing on a lava
// tile (spec.md S4: 60 ticks of lava standing costs exactly LavaDPS HP).
const LavaDPS = 10.0

// SystemMovement applies velocity to position after recording the tick's
// starting position, honoring client-prediction scope (spec.md §4.6).
func SystemMovement(w *World) error {
	w.Store.Each(ecs.CPosition|ecs.CVelocity, func(id ecs.EntityID) {
		if w.Scope == ScopeLocalPlayer && !movableInLocalScope(w, id) {
			return
		}
		pos := &w.Store.Position[id]
		pos.PrevX, pos.PrevY = pos.X, pos.Y
		v := w.Store.Velocity[id]
		pos.X += v.X * Dt
		pos.Y += v.Y * Dt
	})
	return nil
}

func movableInLocalScope(w *World, id ecs.EntityID) bool {
	if id == w.LocalPlayer {
		return true
	}
	if w.Store.Has(id, ecs.CBullet) && w.Store.Bullet[id].OwnerID == w.LocalPlayer {
		return true
	}
	return false
}

// SystemHealth decays i-frame timers, then processes every entity whose HP
// has crossed to zero or below exactly once: it tags Dead, fires onKill
// with attribution from the world's kill-attribution side table, purges
// that table entry, and (for enemies) destroys the entity and reports the
// kill to the run controller (spec.md §3 lifecycle notes, P1).
func SystemHealth(w *World) error {
	w.Store.Each(ecs.CHealth, func(id ecs.EntityID) {
		h := &w.Store.Health[id]
		if h.IFrames > 0 {
			h.IFrames -= Dt
			if h.IFrames < 0 {
				h.IFrames = 0
			}
		}
	})

	var dying []ecs.EntityID
	w.Store.Each(ecs.CHealth, func(id ecs.EntityID) {
		if w.Store.Has(id, ecs.CDead) {
			return
		}
		if w.Store.Health[id].Current <= 0 {
			dying = append(dying, id)
		}
	})

	for _, id := range dying {
		w.Store.Add(id, ecs.CDead)
		attacker := w.lastAttacker[id]
		w.Hooks.FireKill(hooks.KillEvent{KillerEID: uint32(attacker), VictimEID: uint32(id)})
		w.purgeEntitySideTables(id)

		switch {
		case w.Store.Has(id, ecs.CEnemy):
			if w.Store.Enemy[id].Tier == ecs.TierFodder {
				w.Run.ReportFodderDeath()
			} else {
				w.Run.ReportThreatKilled()
			}
			w.Store.Destroy(id)
		case w.Store.Has(id, ecs.CPlayerTag):
			w.Store.Velocity[id] = ecs.Velocity{}
			if w.Store.Has(id, ecs.CPlayerState) {
				w.Store.PlayerState[id] = ecs.PlayerState{State: ecs.PlayerDead}
			}
		}
	}
	return nil
}

// SystemBuffSlowHazard expires timed slow debuffs and applies continuous
// lava damage to anything standing on a lava tile (spec.md S4).
func SystemBuffSlowHazard(w *World) error {
	w.Store.Each(ecs.CSlowDebuff, func(id ecs.EntityID) {
		sd := &w.Store.SlowDebuff[id]
		sd.Duration -= Dt
		if sd.Duration <= 0 {
			w.Store.Remove(id, ecs.CSlowDebuff)
			w.Hooks.FireBuffEnd(hooks.BuffEndEvent{EntityID: uint32(id), BuffID: "slow"})
		}
	})

	w.Store.Each(ecs.CPosition|ecs.CHealth, func(id ecs.EntityID) {
		if w.Store.Has(id, ecs.CDead) {
			return
		}
		pos := w.Store.Position[id]
		col, row := w.Tilemap.WorldToTile(pos.X, pos.Y)
		if w.Tilemap.FloorAt(col, row) == tilemap.Lava {
			ApplyDamage(w, id, DamageParams{Amount: LavaDPS * Dt, ClampToZero: true, FireHealthChanged: true})
		}
	})
	return nil
}

func isAirborne(w *World, id ecs.EntityID) bool {
	if !w.Store.Has(id, ecs.CZPosition) {
		return false
	}
	return w.Store.ZPosition[id].Z > ecs.AirborneThreshold
}

// SystemCollision resolves tilemap push-out (up to 4 iterations) and then
// entity-entity push-out for every non-bullet collidable (spec.md §4.5).
func SystemCollision(w *World) error {
	resolveTilemapCollisions(w)
	resolveEntityCollisions(w)
	return nil
}

func collidableIDs(w *World, excludeBullets bool) []ecs.EntityID {
	var ids []ecs.EntityID
	w.Store.Each(ecs.CPosition|ecs.CCollider, func(id ecs.EntityID) {
		if excludeBullets && w.Store.Has(id, ecs.CBullet) {
			return
		}
		if w.Store.Has(id, ecs.CDead) {
			return
		}
		ids = append(ids, id)
	})
	return ids
}

func resolveTilemapCollisions(w *World) {
	ids := collidableIDs(w, true)
	ts := float64(w.Tilemap.TileSize)

	for iter := 0; iter < 4; iter++ {
		anyCollision := false
		for _, id := range ids {
			pos := &w.Store.Position[id]
			radius := w.Store.Collider[id].Radius
			airborne := isAirborne(w, id)

			minCol, _ := w.Tilemap.WorldToTile(pos.X-radius, pos.Y-radius)
			maxCol, _ := w.Tilemap.WorldToTile(pos.X+radius, pos.Y+radius)
			_, minRow := w.Tilemap.WorldToTile(pos.X-radius, pos.Y-radius)
			_, maxRow := w.Tilemap.WorldToTile(pos.X+radius, pos.Y+radius)

			var pushX, pushY float64
			count := 0
			for row := minRow; row <= maxRow; row++ {
				for col := minCol; col <= maxCol; col++ {
					if !w.Tilemap.SolidAt(col, row) {
						continue
					}
					if airborne && w.Tilemap.HalfWallAt(col, row) {
						continue
					}
					tileMinX, tileMinY := float64(col)*ts, float64(row)*ts
					tileMaxX, tileMaxY := tileMinX+ts, tileMinY+ts
					closestX := clampF(pos.X, tileMinX, tileMaxX)
					closestY := clampF(pos.Y, tileMinY, tileMaxY)
					dx, dy := pos.X-closestX, pos.Y-closestY

					var nx, ny, pen float64
					if dx == 0 && dy == 0 {
						nx, ny, pen = nearestEdgePush(pos.X, pos.Y, tileMinX, tileMinY, tileMaxX, tileMaxY)
					} else {
						d := math.Hypot(dx, dy)
						if d >= radius {
							continue
						}
						nx, ny = dx/d, dy/d
						pen = radius - d
					}
					pushX += nx * pen
					pushY += ny * pen
					count++
				}
			}
			if count > 0 {
				pos.X += pushX / float64(count)
				pos.Y += pushY / float64(count)
				anyCollision = true
			}
		}
		if !anyCollision {
			break
		}
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// nearestEdgePush pushes a circle whose center lies inside a tile's AABB
// toward the closest edge.
func nearestEdgePush(x, y, minX, minY, maxX, maxY float64) (nx, ny, pen float64) {
	left, right := x-minX, maxX-x
	top, bottom := y-minY, maxY-y
	pen = left
	nx, ny = -1, 0
	if right < pen {
		pen, nx, ny = right, 1, 0
	}
	if top < pen {
		pen, nx, ny = top, 0, -1
	}
	if bottom < pen {
		pen, nx, ny = bottom, 0, 1
	}
	return nx, ny, pen
}

func isBulletLayer(l ecs.ColliderLayer) bool {
	return l == ecs.LayerPlayerBullet || l == ecs.LayerEnemyBullet
}

func pushOutPermitted(a, b ecs.ColliderLayer) bool {
	if a == b {
		return false
	}
	if isBulletLayer(a) || isBulletLayer(b) {
		return false
	}
	return true
}

func resolveEntityCollisions(w *World) {
	ids := collidableIDs(w, true)
	for _, id := range ids {
		if !w.Store.Has(id, ecs.CVelocity) {
			continue // only "moving collidables" broad-phase outward (spec.md §4.5)
		}
		if isAirborne(w, id) {
			continue
		}
		pos := w.Store.Position[id]
		radius := w.Store.Collider[id].Radius
		layer := w.Store.Collider[id].Layer

		w.Grid.ForEachInRadius(pos.X, pos.Y, radius+MaxColliderRadius, func(candidate uint32) {
			other := ecs.EntityID(candidate)
			if other == id || !w.Store.Has(other, ecs.CCollider|ecs.CPosition) || w.Store.Has(other, ecs.CDead) {
				return
			}
			otherLayer := w.Store.Collider[other].Layer
			if !pushOutPermitted(layer, otherLayer) {
				return
			}
			if isAirborne(w, other) {
				return
			}
			op := w.Store.Position[other]
			otherRadius := w.Store.Collider[other].Radius
			dx, dy := w.Store.Position[id].X-op.X, w.Store.Position[id].Y-op.Y
			d := math.Hypot(dx, dy)
			sum := radius + otherRadius
			if d >= sum || d < 1e-9 {
				return
			}
			pen := sum - d
			nx, ny := dx/d, dy/d

			if w.Store.Has(other, ecs.CVelocity) {
				w.Store.Position[id].X += nx * pen * 0.5
				w.Store.Position[id].Y += ny * pen * 0.5
				w.Store.Position[other].X -= nx * pen * 0.5
				w.Store.Position[other].Y -= ny * pen * 0.5
			} else {
				w.Store.Position[id].X += nx * pen
				w.Store.Position[id].Y += ny * pen
			}
		})
	}
}
