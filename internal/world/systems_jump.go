package world

import "github.com/jacogrande/high-noon-sub002/internal/ecs"

// JumpVelocity is the Z launch speed a fresh JUMP press grants; JumpGravity
// pulls it back down every tick until the entity lands. Landing opens a
// brief recovery window (Jump.LandingTimer, during which a new jump is
// refused) and triggers a stomp shockwave against nearby enemies — the
// jump/stomp sub-system spec.md §1 names.
const (
	JumpVelocity    = 260.0
	JumpGravity     = 900.0
	LandingRecovery = 0.15
	StompRadius     = 70.0
	StompDamage     = 15.0
)

// SystemJump launches a player into the air on a fresh JUMP press, integrates
// Z under gravity, and fires a stomp the tick it lands. It reads
// pr.PrevButtons before SystemWeapon commits this tick's snapshot, so it
// must stay scheduled ahead of SystemWeapon in Pipeline().
func SystemJump(w *World) error {
	for id, pr := range w.Players {
		if !w.Store.IsAlive(id) || w.Store.Has(id, ecs.CDead) {
			continue
		}
		if !w.Store.Has(id, ecs.CZPosition|ecs.CJump) {
			continue
		}
		in := pr.Input
		jumpPressed := in.Held(BtnJump) && pr.PrevButtons&BtnJump == 0

		zp := &w.Store.ZPosition[id]
		jp := &w.Store.Jump[id]

		if jp.LandingTimer > 0 {
			jp.LandingTimer -= Dt
			if jp.LandingTimer < 0 {
				jp.LandingTimer = 0
			}
		}

		if jp.Landed && jp.LandingTimer <= 0 && jumpPressed {
			jp.Landed = false
			zp.ZVelocity = JumpVelocity
			if w.Store.Has(id, ecs.CPlayerState) {
				w.Store.PlayerState[id] = ecs.PlayerState{State: ecs.PlayerMoving}
			}
		}

		if jp.Landed {
			continue
		}

		zp.ZVelocity -= JumpGravity * Dt
		zp.Z += zp.ZVelocity * Dt
		if zp.Z > 0 {
			continue
		}

		zp.Z = 0
		zp.ZVelocity = 0
		jp.Landed = true
		jp.LandingTimer = LandingRecovery
		if w.Store.Has(id, ecs.CPlayerState) {
			w.Store.PlayerState[id] = ecs.PlayerState{State: ecs.PlayerLanding}
		}
		stompEnemies(w, id)
	}
	return nil
}

// stompEnemies applies StompDamage to every enemy within StompRadius of a
// player's landing position.
func stompEnemies(w *World, from ecs.EntityID) {
	if !w.Store.Has(from, ecs.CPosition) {
		return
	}
	pos := w.Store.Position[from]
	w.Store.Each(ecs.CEnemy|ecs.CPosition, func(id ecs.EntityID) {
		if w.Store.Has(id, ecs.CDead) {
			return
		}
		ep := w.Store.Position[id]
		if dist2(pos.X, pos.Y, ep.X, ep.Y) > StompRadius*StompRadius {
			return
		}
		ApplyDamage(w, id, DamageParams{
			Amount: StompDamage, AttackerEID: from, SetIframes: true,
			OwnerPlayerEID: from, FireHealthChanged: true, TrackAttribution: true, ClampToZero: true,
		})
	})
}
