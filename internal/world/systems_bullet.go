package world

import (
	"math"

	"github.com/jacogrande/high-noon-sub002/internal/ecs"
	"github.com/jacogrande/high-noon-sub002/internal/hooks"
)

// MaxColliderRadius bounds the broad-phase query radius bullet collision
// adds to its own travel distance (spec.md §4.7); it is a static upper
// bound on any collider in the enemy/player tables rather than a tracked
// running maximum, since every radius in enemyProfiles and the player
// collider is known at compile time.
const MaxColliderRadius = 32.0

// SystemBullet advances each bullet's traveled distance and lifetime,
// removing it once either exceeds its bound (spec.md §4.7, P4).
func SystemBullet(w *World) error {
	var expired []ecs.EntityID
	var results []HitResult

	w.Store.Each(ecs.CBullet|ecs.CVelocity|ecs.CPosition, func(id ecs.EntityID) {
		b := &w.Store.Bullet[id]
		v := w.Store.Velocity[id]
		b.DistanceTraveled += math.Hypot(v.X, v.Y) * Dt
		b.Lifetime -= Dt

		pos := w.Store.Position[id]
		switch {
		case b.DistanceTraveled >= b.MaxRange:
			expired = append(expired, id)
			results = append(results, HitResult{Kind: HitRangeExpired, X: pos.X, Y: pos.Y})
		case b.Lifetime <= 0:
			expired = append(expired, id)
			results = append(results, HitResult{Kind: HitLifetimeExpired, X: pos.X, Y: pos.Y})
		}
	})

	for i, id := range expired {
		w.removeBullet(id, results[i])
	}
	return nil
}

func bulletLayerCanDamage(bulletLayer, targetLayer ecs.ColliderLayer) bool {
	switch bulletLayer {
	case ecs.LayerPlayerBullet:
		return targetLayer == ecs.LayerEnemy
	case ecs.LayerEnemyBullet:
		return targetLayer == ecs.LayerPlayer
	}
	return false
}

// closestPointOnSegmentDist2 returns the squared distance from point p to
// the closest point on segment a-b (parametric t clamped to [0,1]).
func closestPointOnSegmentDist2(ax, ay, bx, by, px, py float64) float64 {
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	var t float64
	if lenSq > 1e-12 {
		t = ((px-ax)*dx + (py-ay)*dy) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	cx, cy := ax+dx*t, ay+dy*t
	ddx, ddy := px-cx, py-cy
	return ddx*ddx + ddy*ddy
}

// SystemBulletCollision resolves each surviving bullet's swept-circle test
// against entity candidates (layer-gated, pierce-aware, Showdown-boosted)
// and then against the tilemap, per spec.md §4.7.
func SystemBulletCollision(w *World) error {
	var toRemove []ecs.EntityID
	var removeResults []HitResult

	w.Store.Each(ecs.CBullet|ecs.CPosition|ecs.CCollider, func(bulletID ecs.EntityID) {
		bullet := w.Store.Bullet[bulletID]
		pos := w.Store.Position[bulletID]
		bulletRadius := w.Store.Collider[bulletID].Radius

		travel := math.Hypot(pos.X-pos.PrevX, pos.Y-pos.PrevY)
		queryRadius := bulletRadius + MaxColliderRadius + travel

		var hitTarget ecs.EntityID
		var hitDamage float64

		w.Grid.ForEachInRadius(pos.X, pos.Y, queryRadius, func(candidate uint32) {
			if hitTarget != ecs.NoEntity {
				return
			}
			target := ecs.EntityID(candidate)
			if target == bulletID || target == bullet.OwnerID {
				return
			}
			if !w.Store.Has(target, ecs.CHealth|ecs.CCollider) {
				return
			}
			if w.Store.Has(target, ecs.CInvincible) || w.Store.Health[target].IFrames > 0 {
				return
			}
			if !bulletLayerCanDamage(bullet.Layer, w.Store.Collider[target].Layer) {
				return
			}
			if w.hasPierced(bulletID, target) {
				return
			}

			tp := w.Store.Position[target]
			radiusSum := bulletRadius + w.Store.Collider[target].Radius
			if closestPointOnSegmentDist2(pos.PrevX, pos.PrevY, pos.X, pos.Y, tp.X, tp.Y) > radiusSum*radiusSum {
				return
			}

			damage := bullet.Damage
			forcePierce := false
			if w.Store.Has(bullet.OwnerID, ecs.CShowdown) {
				sd := w.Store.Showdown[bullet.OwnerID]
				if sd.Active {
					if target == sd.TargetEID {
						damage *= ShowdownDamageMul
					} else {
						forcePierce = true
					}
				}
			}

			ev := w.Hooks.FireBulletHit(hooks.BulletHitEvent{
				BulletOwnerEID: uint32(bullet.OwnerID), TargetEID: uint32(target),
				Damage: damage, Pierce: forcePierce,
			})

			ApplyDamage(w, target, DamageParams{
				Amount: ev.Damage, AttackerEID: bullet.OwnerID, SetIframes: true,
				OwnerPlayerEID: bullet.OwnerID, FireHealthChanged: true,
				TrackAttribution: true, ClampToZero: true,
			})

			if ev.Pierce {
				w.addPierce(bulletID, target)
				return
			}
			hitTarget = target
			hitDamage = ev.Damage
		})

		if hitTarget != ecs.NoEntity {
			_ = hitDamage
			toRemove = append(toRemove, bulletID)
			removeResults = append(removeResults, HitResult{Kind: HitEntity, X: pos.X, Y: pos.Y, HitEntity: hitTarget})
			return
		}

		if bulletHitsWall(w, pos.X, pos.Y, bulletRadius) {
			toRemove = append(toRemove, bulletID)
			removeResults = append(removeResults, HitResult{Kind: HitWall, X: pos.X, Y: pos.Y})
		}
	})

	for i, id := range toRemove {
		w.removeBullet(id, removeResults[i])
	}
	return nil
}

// bulletHitsWall tests the bullet's center and four radius-offset probe
// points against the solid layer (spec.md §4.7).
func bulletHitsWall(w *World, x, y, radius float64) bool {
	probes := [][2]float64{
		{x, y}, {x + radius, y}, {x - radius, y}, {x, y + radius}, {x, y - radius},
	}
	for _, p := range probes {
		col, row := w.Tilemap.WorldToTile(p[0], p[1])
		if w.Tilemap.SolidAt(col, row) {
			return true
		}
	}
	return false
}
