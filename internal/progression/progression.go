// Package progression implements the per-player XP/skill-tree/item layer
// (spec.md §4.13): XP accumulation and leveling, skill-tree prerequisite
// checking, and stat-modifier recomputation pushed back into the ECS.
package progression

import "github.com/jacogrande/high-noon-sub002/internal/ecs"

// Stat is a recomputed, player-facing attribute that a node or item
// modifier can adjust.
type Stat int

const (
	StatMaxHP Stat = iota
	StatSpeed
	StatBulletDamage
	StatFireRate
	StatReloadTime
	StatCylinderSize
	StatLastRoundMultiplier
)

// Op is how a modifier combines with the running total for its stat.
type Op int

const (
	OpAdd Op = iota
	OpMul
)

// Modifier is one node or item's effect on a single stat.
type Modifier struct {
	Stat  Stat
	Op    Op
	Value float64
}

// Node is one skill-tree node. Branch groups nodes whose Tier ordering is
// enforced by canTake; a node with Implemented=false is always unavailable
// without ever causing an error (spec.md §7's "content not yet
// implemented" category).
type Node struct {
	ID          string
	Branch      string
	Tier        int
	Modifiers   []Modifier
	EffectID    string
	Implemented bool
}

// Tree is a character's full skill tree, keyed by node id.
type Tree struct {
	Nodes map[string]Node
}

// NewTree builds a Tree from a flat node list.
func NewTree(nodes []Node) *Tree {
	t := &Tree{Nodes: make(map[string]Node, len(nodes))}
	for _, n := range nodes {
		t.Nodes[n.ID] = n
	}
	return t
}

// LevelThresholds are the cumulative XP totals required to reach each
// level; level i requires totalXP >= LevelThresholds[i].
var LevelThresholds = []int{0, 100, 250, 500, 900, 1500, 2400, 3800, 6000, 9500, 15000}

// BaseStats are the pre-modifier stat values every player starts from.
type BaseStats struct {
	MaxHP               float64
	Speed               float64
	BulletDamage        float64
	FireRate            float64
	ReloadTime          float64
	CylinderSize        float64
	LastRoundMultiplier float64
}

// DefaultBaseStats returns the default starting stat block.
func DefaultBaseStats() BaseStats {
	return BaseStats{
		MaxHP:               100,
		Speed:               220,
		BulletDamage:        12,
		FireRate:            3,
		ReloadTime:          1.2,
		CylinderSize:        6,
		LastRoundMultiplier: 1.5,
	}
}

// StackFunc computes an item's effective modifier value as a function of
// how many copies of it the player has stacked.
type StackFunc func(stacks int) float64

// Linear returns coef * stacks.
func Linear(coef float64) StackFunc {
	return func(stacks int) float64 { return coef * float64(stacks) }
}

// Hyperbolic returns 1 - 1/(1 + coef*stacks), an asymptotically
// diminishing-returns curve.
func Hyperbolic(coef float64) StackFunc {
	return func(stacks int) float64 { return 1 - 1/(1+coef*float64(stacks)) }
}

// AdditiveCap returns min(1, coef*stacks).
func AdditiveCap(coef float64) StackFunc {
	return func(stacks int) float64 {
		v := coef * float64(stacks)
		if v > 1 {
			return 1
		}
		return v
	}
}

// Unique returns value for any stacks >= 1 and ignores further stacking;
// callers must also cap MaxStack at 1 on the Item itself.
func Unique(value float64) StackFunc {
	return func(stacks int) float64 {
		if stacks <= 0 {
			return 0
		}
		return value
	}
}

// Item is a stackable modifier source dropped by stashes or bought from
// the salesman.
type Item struct {
	ID        string
	MaxStack  int
	Stat      Stat
	Op        Op
	Stack     StackFunc
}

// ItemStack is one item the player holds, with its current stack count.
type ItemStack struct {
	Item   *Item
	Stacks int
}

// State is a single player's progression data.
type State struct {
	XP            int
	Level         int
	PendingPoints int
	NodesTaken    map[string]struct{}
	Inventory     map[string]*ItemStack
	Tree          *Tree
	Base          BaseStats
	Cached        Stats // last Recompute() result; movement reads Cached.Speed directly
}

// NewState creates a fresh progression state for a character's tree.
func NewState(tree *Tree) *State {
	s := &State{
		NodesTaken: make(map[string]struct{}),
		Inventory:  make(map[string]*ItemStack),
		Tree:       tree,
		Base:       DefaultBaseStats(),
	}
	s.Cached = s.Recompute()
	return s
}

// AddXP accumulates XP and grants one pending point per level gained.
func (s *State) AddXP(amount int) {
	s.XP += amount
	newLevel := s.Level
	for newLevel+1 < len(LevelThresholds) && s.XP >= LevelThresholds[newLevel+1] {
		newLevel++
	}
	if newLevel > s.Level {
		s.PendingPoints += newLevel - s.Level
		s.Level = newLevel
	}
}

// CanTakeNode reports whether id is takeable right now: a pending point is
// available, the node isn't already taken, the node is implemented, and
// every lower-tier node in the same branch has been taken.
func (s *State) CanTakeNode(id string) bool {
	node, ok := s.Tree.Nodes[id]
	if !ok || !node.Implemented {
		return false
	}
	if s.PendingPoints <= 0 {
		return false
	}
	if _, taken := s.NodesTaken[id]; taken {
		return false
	}
	for _, other := range s.Tree.Nodes {
		if other.Branch == node.Branch && other.Tier < node.Tier {
			if _, taken := s.NodesTaken[other.ID]; !taken {
				return false
			}
		}
	}
	return true
}

// TakeNode takes node id iff CanTakeNode(id), spending one pending point.
func (s *State) TakeNode(id string) bool {
	if !s.CanTakeNode(id) {
		return false
	}
	s.NodesTaken[id] = struct{}{}
	s.PendingPoints--
	s.Cached = s.Recompute()
	return true
}

// AddItem stacks one more copy of item, capped at its MaxStack.
func (s *State) AddItem(item *Item) {
	entry, ok := s.Inventory[item.ID]
	if !ok {
		entry = &ItemStack{Item: item}
		s.Inventory[item.ID] = entry
	}
	if entry.Stacks < item.MaxStack {
		entry.Stacks++
	}
	s.Cached = s.Recompute()
}

// Stats is the fully recomputed, ECS-ready stat block.
type Stats struct {
	MaxHP               float64
	Speed               float64
	BulletDamage        float64
	FireRate            float64
	ReloadTime          float64
	CylinderSize        float64
	LastRoundMultiplier float64
}

// Recompute folds the base stats, every taken node's modifiers, and every
// held item's stacked modifier into a final Stats block: additive
// modifiers sum first, then the result is scaled by the product of
// multiplicative modifiers (spec.md §4.13).
func (s *State) Recompute() Stats {
	adds := map[Stat]float64{}
	muls := map[Stat]float64{
		StatMaxHP: 1, StatSpeed: 1, StatBulletDamage: 1, StatFireRate: 1,
		StatReloadTime: 1, StatCylinderSize: 1, StatLastRoundMultiplier: 1,
	}

	apply := func(m Modifier) {
		switch m.Op {
		case OpAdd:
			adds[m.Stat] += m.Value
		case OpMul:
			muls[m.Stat] *= m.Value
		}
	}

	for id := range s.NodesTaken {
		node, ok := s.Tree.Nodes[id]
		if !ok {
			continue
		}
		for _, m := range node.Modifiers {
			apply(m)
		}
	}

	for _, stack := range s.Inventory {
		if stack.Stacks <= 0 {
			continue
		}
		v := stack.Item.Stack(stack.Stacks)
		apply(Modifier{Stat: stack.Item.Stat, Op: stack.Item.Op, Value: v})
	}

	base := s.Base
	combine := func(stat Stat, baseVal float64) float64 {
		return (baseVal + adds[stat]) * muls[stat]
	}

	return Stats{
		MaxHP:               combine(StatMaxHP, base.MaxHP),
		Speed:               combine(StatSpeed, base.Speed),
		BulletDamage:        combine(StatBulletDamage, base.BulletDamage),
		FireRate:            combine(StatFireRate, base.FireRate),
		ReloadTime:          combine(StatReloadTime, base.ReloadTime),
		CylinderSize:        combine(StatCylinderSize, base.CylinderSize),
		LastRoundMultiplier: combine(StatLastRoundMultiplier, base.LastRoundMultiplier),
	}
}

// WriteStatsToECS pushes a recomputed Stats block into the player's Health,
// Weapon, and Cylinder components. HP is healed by the delta when max
// increases and clamped to the new max; writing the same Stats twice is
// idempotent (spec.md P8).
func WriteStatsToECS(store *ecs.Store, id ecs.EntityID, stats Stats) {
	if store.Has(id, ecs.CHealth) {
		h := &store.Health[id]
		delta := stats.MaxHP - h.Max
		if delta > 0 {
			h.Current += delta
		}
		h.Max = stats.MaxHP
		if h.Current > h.Max {
			h.Current = h.Max
		}
	}
	if store.Has(id, ecs.CWeapon) {
		w := &store.Weapon[id]
		w.BulletDamage = stats.BulletDamage
		w.FireRate = stats.FireRate
		w.LastRoundMultiplier = stats.LastRoundMultiplier
	}
	if store.Has(id, ecs.CCylinder) {
		c := &store.Cylinder[id]
		newMax := uint8(stats.CylinderSize)
		if c.MaxRounds != newMax {
			if c.Rounds == c.MaxRounds {
				c.Rounds = newMax
			}
			c.MaxRounds = newMax
		}
		c.ReloadTime = stats.ReloadTime
	}
}
