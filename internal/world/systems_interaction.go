package world

import (
	"github.com/jacogrande/high-noon-sub002/internal/ecs"
	"github.com/jacogrande/high-noon-sub002/internal/economy"
	"github.com/jacogrande/high-noon-sub002/internal/progression"
	"github.com/jacogrande/high-noon-sub002/internal/rng"
)

// SystemInteraction runs the salesman/stash interaction and economy
// resolution for every alive player (spec.md §4.12). It is not named in
// spec.md §5's normative 19-step list; it is appended last since it never
// reads or writes position/velocity/collider state and so cannot disturb
// the determinism that ordering among the other 19 protects (see
// DESIGN.md).
func SystemInteraction(w *World) error {
	w.Store.Each(ecs.CPlayerTag, func(id ecs.EntityID) {
		if w.Store.Has(id, ecs.CDead) {
			return
		}
		pr, ok := w.Players[id]
		if !ok || !w.Store.Has(id, ecs.CPosition) {
			return
		}

		pos := w.Store.Position[id]
		kind, stashIdx := w.Econ.Nearest(pos.X, pos.Y)

		in := pr.Input
		held := in.Held(BtnInteract)
		newSeqButtonUp := in.Seq != pr.lastInteractSeqSeen && !held
		pr.lastInteractSeqSeen = in.Seq

		released := pr.Interaction.Update(kind, stashIdx, held, in.Seq, newSeqButtonUp)
		if !released || !pr.Interaction.Ready() {
			return
		}

		switch pr.Interaction.Target {
		case economy.TargetSalesman:
			if economy.BuyShovel(&pr.Gold, &pr.Shovels, w.Run.StageIndex) {
				pr.Interaction.SetFeedback("Shovel purchased", 1.5)
			} else {
				pr.Interaction.SetFeedback("Not enough gold", 1.5)
			}
		case economy.TargetStash:
			stashID := uint32(w.Run.StageIndex)<<16 | uint32(pr.Interaction.StashIndex)
			roll, ok := w.Econ.OpenStash(pr.Interaction.StashIndex, &pr.Shovels, w.stashRNG(), stashID, 25)
			if !ok {
				pr.Interaction.SetFeedback("No shovels left", 1.5)
				return
			}
			pr.Gold += roll.Gold
			if roll.HasItem && pr.Progression != nil {
				if item := w.sampleItem(roll.ItemRarity, stashID); item != nil {
					pr.Progression.AddItem(item)
					progression.WriteStatsToECS(w.Store, id, pr.Progression.Cached)
				}
			}
			pr.Interaction.SetFeedback("Stash opened", 1.5)
		}
		pr.Interaction.HoldTicks = 0
	})
	return nil
}

// sampleItem picks one item from the rarity's table, deterministically
// derived from stashID so P10 (stash economy is a pure function of
// (seed, stageIndex, stashId)) extends to which item is granted.
func (w *World) sampleItem(rarity economy.ItemRarity, stashID uint32) *progression.Item {
	items := w.ItemTable[rarity]
	if len(items) == 0 {
		return nil
	}
	roll := w.stashRNG().Derive(stashID).DeriveString("item")
	idx := roll.NextInt(uint32(len(items)))
	return items[idx]
}

// stashRNG is a fresh stage substream built from the initial seed and the
// current stage index alone, so no other system's draws can shift it.
func (w *World) stashRNG() *rng.PRNG {
	return rng.New(w.InitialSeed).Derive(uint32(w.Run.StageIndex)).DeriveString("stash")
}
