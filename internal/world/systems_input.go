package world

import (
	"math"

	"github.com/jacogrande/high-noon-sub002/internal/ecs"
	"github.com/jacogrande/high-noon-sub002/internal/hooks"
)

// RollSpeed and RollDuration parameterize the dodge roll; they are not
// character-modifiable in this pass (spec.md leaves per-character roll
// tuning as an open surface, not a named requirement).
const (
	RollSpeed           = 420.0
	RollDuration        = 0.28
	RollIFrameDuration  = 0.28
	ShowdownDuration    = 3.0
	ShowdownCooldown    = 18.0
	ShowdownDamageMul   = 2.0
)

// SystemPlayerInput copies each connected player's buffered InputState into
// velocity/intent for the rest of the pipeline to consume. Movement speed
// comes from the player's cached progression stats.
func SystemPlayerInput(w *World) error {
	for id, pr := range w.Players {
		if !w.Store.IsAlive(id) || !w.Store.Has(id, ecs.CPosition|ecs.CVelocity) {
			continue
		}
		if w.Store.Has(id, ecs.CDead) {
			w.Store.Velocity[id] = ecs.Velocity{}
			continue
		}
		if w.Store.Has(id, ecs.CRoll) {
			// Roll system owns velocity while a roll is active.
			continue
		}

		in := pr.Input
		speed := 220.0
		if pr.Progression != nil {
			speed = pr.Progression.Cached.Speed
		}
		if mult := slowMultiplier(w, id); mult != 1 {
			speed *= mult
		}

		mag := math.Hypot(in.MoveDirX, in.MoveDirY)
		vx, vy := 0.0, 0.0
		if mag > 1e-9 {
			nx, ny := in.MoveDirX/mag, in.MoveDirY/mag
			if mag > 1 {
				mag = 1
			}
			vx, vy = nx*speed*mag, ny*speed*mag
		}
		w.Store.Velocity[id] = ecs.Velocity{X: vx, Y: vy}

		if w.Store.Has(id, ecs.CPlayerState) {
			st := PlayerIdleState(vx, vy)
			w.Store.PlayerState[id] = ecs.PlayerState{State: st}
		}
	}
	return nil
}

// PlayerIdleState classifies coarse locomotion state from velocity.
func PlayerIdleState(vx, vy float64) ecs.PlayerMotionState {
	if vx == 0 && vy == 0 {
		return ecs.PlayerIdle
	}
	return ecs.PlayerMoving
}

func slowMultiplier(w *World, id ecs.EntityID) float64 {
	if !w.Store.Has(id, ecs.CSlowDebuff) {
		return 1
	}
	return w.Store.SlowDebuff[id].Multiplier
}

// pr.PrevButtons holds the button state as of the start of this tick for
// every edge-triggered read in the pipeline (roll, Showdown, tap-fire); it
// is committed to the current tick's buttons exactly once, in SystemWeapon,
// after the last such read has run. A system in this chain must never
// write pr.PrevButtons itself.

// SystemRoll starts a roll on a fresh ROLL button press (not held over from
// the previous tick) when no roll is already active, and advances active
// rolls, removing Roll and Invincible when the timer expires; from the
// next tick SystemPlayerInput drives velocity again. Beginning a roll
// cancels any in-progress reload (spec.md P6).
func SystemRoll(w *World) error {
	for id, pr := range w.Players {
		if !w.Store.IsAlive(id) || w.Store.Has(id, ecs.CDead) {
			continue
		}
		in := pr.Input
		pressed := in.Held(BtnRoll) && pr.PrevButtons&BtnRoll == 0

		if w.Store.Has(id, ecs.CRoll) {
			r := &w.Store.Roll[id]
			r.Timer -= Dt
			if r.Timer <= 0 {
				w.Store.Remove(id, ecs.CRoll|ecs.CInvincible)
				continue
			}
			w.Store.Velocity[id] = ecs.Velocity{X: r.DirX * RollSpeed, Y: r.DirY * RollSpeed}
			continue
		}

		if !pressed {
			continue
		}

		dirX, dirY := in.MoveDirX, in.MoveDirY
		mag := math.Hypot(dirX, dirY)
		if mag < 1e-9 {
			dirX, dirY = math.Cos(in.AimAngle), math.Sin(in.AimAngle)
		} else {
			dirX, dirY = dirX/mag, dirY/mag
		}

		if w.Store.Has(id, ecs.CCylinder) {
			c := &w.Store.Cylinder[id]
			c.Reloading = false
			c.ReloadTimer = 0
		}

		w.Store.Add(id, ecs.CRoll|ecs.CInvincible)
		w.Store.Roll[id] = ecs.Roll{Timer: RollDuration, Duration: RollDuration, DirX: dirX, DirY: dirY}
		if w.Store.Has(id, ecs.CHealth) {
			w.Store.Health[id].IFrameDuration = RollIFrameDuration
		}
		if w.Store.Has(id, ecs.CPlayerState) {
			w.Store.PlayerState[id] = ecs.PlayerState{State: ecs.PlayerRolling}
		}
		w.Hooks.FireRoll(hooks.RollEvent{PlayerEID: uint32(id)})
	}
	return nil
}

// SystemShowdown starts or advances a player's marked-target burst ability.
// While active, bullets the player fires at the marked target deal
// ShowdownDamageMul damage; any other hit during the window pierces
// (spec.md §4.7).
func SystemShowdown(w *World) error {
	for id, pr := range w.Players {
		if !w.Store.IsAlive(id) || w.Store.Has(id, ecs.CDead) {
			continue
		}
		in := pr.Input
		abilityPressed := in.Held(BtnAbility) && pr.PrevButtons&BtnAbility == 0

		if !w.Store.Has(id, ecs.CShowdown) {
			continue
		}
		sd := &w.Store.Showdown[id]

		if sd.Active {
			sd.Timer -= Dt
			if sd.Timer <= 0 {
				sd.Active = false
				sd.TargetEID = ecs.NoEntity
				sd.Marked = nil
			}
			continue
		}

		if sd.Cooldown > 0 {
			sd.Cooldown -= Dt
			continue
		}

		if !abilityPressed {
			continue
		}

		target := nearestEnemy(w, id)
		if target == ecs.NoEntity {
			continue
		}
		sd.Active = true
		sd.Timer = ShowdownDuration
		sd.Duration = ShowdownDuration
		sd.Cooldown = ShowdownCooldown
		sd.TargetEID = target
		sd.Marked = map[ecs.EntityID]struct{}{target: {}}
	}
	return nil
}

func nearestEnemy(w *World, from ecs.EntityID) ecs.EntityID {
	if !w.Store.Has(from, ecs.CPosition) {
		return ecs.NoEntity
	}
	px, py := w.Store.Position[from].X, w.Store.Position[from].Y
	best := ecs.NoEntity
	bestDist := math.MaxFloat64
	w.Store.Each(ecs.CEnemy|ecs.CPosition, func(id ecs.EntityID) {
		if w.Store.Has(id, ecs.CDead) {
			return
		}
		dx := w.Store.Position[id].X - px
		dy := w.Store.Position[id].Y - py
		d := dx*dx + dy*dy
		if d < bestDist {
			bestDist = d
			best = id
		}
	})
	return best
}
