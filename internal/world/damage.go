package world

import (
	"github.com/jacogrande/high-noon-sub002/internal/ecs"
	"github.com/jacogrande/high-noon-sub002/internal/hooks"
)

// DamageParams mirrors spec.md §4.7's shared applyDamage arguments.
type DamageParams struct {
	Amount            float64
	AttackerEID       ecs.EntityID
	SetIframes        bool
	OwnerPlayerEID    ecs.EntityID
	FireHealthChanged bool
	TrackAttribution  bool
	ClampToZero       bool
}

// ApplyDamage is the single shared function every damage source (bullets,
// melee, hazards) must route through (spec.md §4.7). It respects i-frame
// immunity, clamps HP, sets i-frames, fires hooks, and records kill
// attribution; it never touches entity lifecycle (the health system decides
// what happens to HP<=0 entities).
func ApplyDamage(w *World, target ecs.EntityID, p DamageParams) {
	if !w.Store.IsAlive(target) || !w.Store.Has(target, ecs.CHealth) {
		return
	}
	if w.Store.Has(target, ecs.CInvincible) {
		return
	}
	h := &w.Store.Health[target]
	if h.IFrames > 0 {
		return
	}

	prev := h.Current
	h.Current -= p.Amount
	if p.ClampToZero && h.Current < 0 {
		h.Current = 0
	}

	if p.SetIframes {
		h.IFrames = h.IFrameDuration
	}

	if p.TrackAttribution && p.AttackerEID != ecs.NoEntity {
		w.lastAttacker[target] = p.AttackerEID
	}

	if p.FireHealthChanged {
		w.Hooks.FireHealthChanged(hooks.HealthChangedEvent{
			EntityID: uint32(target), Previous: prev, Current: h.Current,
		})
	}

	if p.OwnerPlayerEID != ecs.NoEntity && w.Store.Has(target, ecs.CPlayerTag) {
		w.Hooks.FirePlayerDamaged(hooks.PlayerDamagedEvent{
			PlayerEID: uint32(target), AttackerEID: uint32(p.OwnerPlayerEID), Amount: p.Amount,
		})
	}
}
