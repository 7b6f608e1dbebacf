package world

import (
	"math"

	"github.com/jacogrande/high-noon-sub002/internal/ecs"
)

// BulletRadius is the collider radius every spawned bullet carries.
const BulletRadius = 4.0

// SystemCylinder advances the revolver reload/fire-cooldown state machine
// for every player (spec.md §4.8, P6).
func SystemCylinder(w *World) error {
	for id, pr := range w.Players {
		if !w.Store.IsAlive(id) || !w.Store.Has(id, ecs.CCylinder) {
			continue
		}
		c := &w.Store.Cylinder[id]
		if c.FireCooldown > 0 {
			c.FireCooldown -= Dt
			if c.FireCooldown < 0 {
				c.FireCooldown = 0
			}
		}

		if w.Store.Has(id, ecs.CRoll) {
			c.Reloading = false
			c.ReloadTimer = 0
			continue
		}

		if c.Reloading {
			c.ReloadTimer += Dt
			if c.ReloadTimer >= c.ReloadTime {
				c.Rounds = c.MaxRounds
				c.FirstShotAfterReload = true
				c.Reloading = false
				c.ReloadTimer = 0
			}
			continue
		}

		wantsReload := pr.Input.Held(BtnReload) && c.Rounds < c.MaxRounds
		if wantsReload || c.Rounds == 0 {
			c.Reloading = true
			c.ReloadTimer = 0
		}
	}
	return nil
}

// HoldFireThreshold is how long BtnFire must be continuously held before a
// weapon switches from tap cadence (MinFireInterval) to sustained hold
// cadence (HoldFireRate); spec.md §4.8 ties this to character tuning, so a
// short single tap never benefits from (or is slowed by) the hold rate.
const HoldFireThreshold = 0.2

// SystemWeapon fires a player's weapon on a fresh FIRE press, or
// continuously once FIRE has been held past HoldFireThreshold, spawning one
// bullet (or a pellet spread for shotgun-style weapons) and applying the
// last-round damage multiplier (spec.md §4.8). A tap is capped at
// MinFireInterval between shots; a sustained hold is capped at
// HoldFireRate, which character tuning may set faster or slower than the
// tap rate.
func SystemWeapon(w *World) error {
	for id, pr := range w.Players {
		if !w.Store.IsAlive(id) || w.Store.Has(id, ecs.CDead) {
			continue
		}
		in := pr.Input
		tapEdge := in.Held(BtnFire) && pr.PrevButtons&BtnFire == 0
		pr.PrevButtons = in.Buttons

		if !w.Store.Has(id, ecs.CWeapon|ecs.CCylinder|ecs.CPosition) {
			continue
		}
		if !in.Held(BtnFire) {
			pr.FireHeldTime = 0
			continue
		}
		pr.FireHeldTime += Dt
		holding := pr.FireHeldTime > HoldFireThreshold

		c := &w.Store.Cylinder[id]
		if c.Reloading || c.Rounds == 0 {
			continue
		}
		if c.FireCooldown > 0 {
			continue
		}
		if !tapEdge && !holding {
			continue
		}

		wp := &w.Store.Weapon[id]
		pos := w.Store.Position[id]

		damage := wp.BulletDamage
		if c.Rounds == 1 {
			damage *= wp.LastRoundMultiplier
		}

		pellets := wp.PelletCount
		if pellets < 1 {
			pellets = 1
		}
		baseAngle := pr.Input.AimAngle
		for i := 0; i < pellets; i++ {
			angle := baseAngle
			if pellets > 1 {
				spread := wp.SpreadAngle
				t := float64(i)/float64(pellets-1) - 0.5
				angle += spread * t
			}
			spawnBullet(w, id, pos.X, pos.Y, angle, wp.BulletSpeed, damage, wp.Range, ecs.LayerPlayerBullet)
		}

		c.Rounds--
		c.FirstShotAfterReload = false

		var cooldown float64
		switch {
		case holding && wp.HoldFireRate > 0:
			cooldown = 1.0 / wp.HoldFireRate
		case !holding && wp.MinFireInterval > 0:
			cooldown = wp.MinFireInterval
		default:
			cooldown = 1.0 / wp.FireRate
		}
		if cooldown <= 0 {
			cooldown = 1.0
		}
		c.FireCooldown = cooldown
		wp.LastFireTime = w.Time
	}
	return nil
}

func spawnBullet(w *World, owner ecs.EntityID, x, y, angle, speed, damage, maxRange float64, layer ecs.ColliderLayer) ecs.EntityID {
	id := w.Store.Create()
	w.Store.Add(id, ecs.CPosition|ecs.CVelocity|ecs.CCollider|ecs.CBullet)
	w.Store.Position[id] = ecs.Position{X: x, Y: y, PrevX: x, PrevY: y}
	w.Store.Velocity[id] = ecs.Velocity{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}
	w.Store.Collider[id] = ecs.Collider{Radius: BulletRadius, Layer: layer}
	w.Store.Bullet[id] = ecs.Bullet{OwnerID: owner, Damage: damage, MaxRange: maxRange, Lifetime: 5.0, Layer: layer}
	return id
}
