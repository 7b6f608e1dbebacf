// Package economy implements the interaction/economy layer: the shovel
// salesman and stash digging (spec.md §4.12).
package economy

import "github.com/jacogrande/high-noon-sub002/internal/rng"

const (
	SalesmanInteractRadius = 48.0
	StashInteractRadius    = 40.0
	InteractHoldTicks      = 45 // 0.75s at 60Hz
	ShovelBasePrice        = 10
	ShovelPriceStep        = 5
	MaxShovels             = 5
)

// InteractableKind discriminates what a player is currently interacting
// with.
type InteractableKind int

const (
	TargetNone InteractableKind = iota
	TargetSalesman
	TargetStash
)

// Stash is one dig site; Opened is sticky once a reward has been rolled.
type Stash struct {
	X, Y   float64
	Opened bool
}

// State is the world-owned interactable layout for the current stage.
type State struct {
	SalesmanX, SalesmanY float64
	Stashes              []Stash
}

// New creates an empty economy state (no salesman/stashes placed yet).
func New() *State { return &State{} }

// SetLayout installs a fresh salesman position and stash list, called at
// stage/camp transitions.
func (s *State) SetLayout(salesmanX, salesmanY float64, stashXY [][2]float64) {
	s.SalesmanX, s.SalesmanY = salesmanX, salesmanY
	s.Stashes = make([]Stash, len(stashXY))
	for i, xy := range stashXY {
		s.Stashes[i] = Stash{X: xy[0], Y: xy[1]}
	}
}

// PlayerInteraction is one player's per-tick interaction bookkeeping.
type PlayerInteraction struct {
	Target            InteractableKind
	StashIndex        int
	HoldTicks         int
	FeedbackText      string
	FeedbackTimer     float64
	LastSeenInputSeq  uint32
	ButtonWasHeld     bool
}

func dist2(x1, y1, x2, y2 float64) float64 {
	dx, dy := x1-x2, y1-y2
	return dx*dx + dy*dy
}

// Nearest finds the nearest interactable within its own radius of
// (px, py), preferring the salesman on an exact tie.
func (s *State) Nearest(px, py float64) (kind InteractableKind, stashIndex int) {
	if dist2(px, py, s.SalesmanX, s.SalesmanY) <= SalesmanInteractRadius*SalesmanInteractRadius {
		return TargetSalesman, -1
	}
	best := -1
	bestDist := StashInteractRadius * StashInteractRadius
	for i, st := range s.Stashes {
		if st.Opened {
			continue
		}
		d := dist2(px, py, st.X, st.Y)
		if d <= bestDist {
			bestDist = d
			best = i
		}
	}
	if best >= 0 {
		return TargetStash, best
	}
	return TargetNone, -1
}

// Update advances a player's interaction hold state for one tick. seq is
// the input's sequence number; buttonHeld is whether INTERACT is held this
// sample; newSeqButtonUp reports the network-boundary case of a fresh
// sequence number arriving with the button already released, which counts
// as a release even if no local "button==up" tick was observed (spec.md
// §4.12's network-input note, guarding against lost-input re-triggers).
func (pi *PlayerInteraction) Update(target InteractableKind, stashIndex int, buttonHeld bool, seq uint32, newSeqButtonUp bool) (released bool) {
	if target != pi.Target || (target == TargetStash && stashIndex != pi.StashIndex) {
		pi.Target = target
		pi.StashIndex = stashIndex
		pi.HoldTicks = 0
	}

	wasHeld := pi.ButtonWasHeld
	pi.ButtonWasHeld = buttonHeld

	if pi.FeedbackTimer > 0 {
		pi.FeedbackTimer -= 1.0 / 60.0
	}

	if target == TargetNone {
		pi.HoldTicks = 0
		return false
	}

	if buttonHeld {
		pi.HoldTicks++
		return false
	}

	released = wasHeld || newSeqButtonUp
	pi.LastSeenInputSeq = seq
	return released
}

// Ready reports whether the hold duration threshold has been met.
func (pi *PlayerInteraction) Ready() bool {
	return pi.Target != TargetNone && pi.HoldTicks >= InteractHoldTicks
}

// SetFeedback records player-visible feedback text with a display timer.
func (pi *PlayerInteraction) SetFeedback(text string, seconds float64) {
	pi.FeedbackText = text
	pi.FeedbackTimer = seconds
}

// ShovelPrice returns the price of the next shovel at the given stage.
func ShovelPrice(stageIndex int) int {
	return ShovelBasePrice + stageIndex*ShovelPriceStep
}

// BuyShovel attempts to buy one shovel, returning whether the purchase
// succeeded.
func BuyShovel(gold, shovels *int, stageIndex int) bool {
	if *shovels >= MaxShovels {
		return false
	}
	price := ShovelPrice(stageIndex)
	if *gold < price {
		return false
	}
	*gold -= price
	*shovels++
	return true
}

// RewardRoll is a resolved stash payout.
type RewardRoll struct {
	Gold     int
	ItemRarity ItemRarity
	HasItem  bool
}

// ItemRarity enumerates the item tiers a stash can grant.
type ItemRarity int

const (
	RarityNone ItemRarity = iota
	RarityBrass
	RaritySilver
)

// OpenStash deducts one shovel, marks the stash opened, and samples a
// reward from the rarity table using rng derived per-stash (spec.md P10:
// the outcome is a deterministic function of (seed, stageIndex, stashId)).
func (s *State) OpenStash(index int, shovels *int, stageRNG *rng.PRNG, stashID uint32, baseGold int) (RewardRoll, bool) {
	if index < 0 || index >= len(s.Stashes) || s.Stashes[index].Opened {
		return RewardRoll{}, false
	}
	if *shovels <= 0 {
		return RewardRoll{}, false
	}
	*shovels--
	s.Stashes[index].Opened = true

	stashRNG := stageRNG.Derive(stashID)
	roll := stashRNG.Next()

	var out RewardRoll
	switch {
	case roll < 0.55:
		out = RewardRoll{Gold: baseGold}
	case roll < 0.80:
		out = RewardRoll{Gold: baseGold, ItemRarity: RarityBrass, HasItem: true}
	case roll < 0.88:
		out = RewardRoll{Gold: baseGold, ItemRarity: RaritySilver, HasItem: true}
	case roll < 0.90:
		out = RewardRoll{ItemRarity: RaritySilver, HasItem: true}
	default:
		out = RewardRoll{Gold: baseGold * 3}
	}
	return out, true
}
