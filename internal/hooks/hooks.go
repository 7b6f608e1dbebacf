// Package hooks implements the simulation's in-process publish/subscribe
// bus for gameplay events (onKill, onBulletHit, onHealthChanged, onRoll,
// onPlayerDamaged, onBuffEnd). Handlers register at world init based on
// which skill nodes or items a player has taken, and run synchronously in
// registration order — this is deliberately not dynamic dispatch or heap
// indirection through an interface hierarchy, just an ordered slice of
// function values per event kind, per spec.md's design notes.
package hooks

// Kind identifies a gameplay event type a handler can subscribe to.
type Kind int

const (
	OnKill Kind = iota
	OnBulletHit
	OnHealthChanged
	OnRoll
	OnPlayerDamaged
	OnBuffEnd
)

// KillEvent fires once per kill, after death has been fully processed.
type KillEvent struct {
	KillerEID, VictimEID uint32
	WeaponID             string
}

// BulletHitEvent fires when a bullet's entity-collision check finds a
// valid target, before the hit is finalized; handlers may adjust Damage
// and set Pierce to force a pierce regardless of the default rule.
type BulletHitEvent struct {
	BulletOwnerEID, TargetEID uint32
	Damage                    float64
	Pierce                    bool
}

// HealthChangedEvent fires whenever an entity's Health.Current changes.
type HealthChangedEvent struct {
	EntityID       uint32
	Previous, Current float64
}

// RollEvent fires when a player begins a dodge roll.
type RollEvent struct {
	PlayerEID uint32
}

// PlayerDamagedEvent fires when a player specifically takes damage
// (distinct from HealthChanged, which covers all entities including
// enemies).
type PlayerDamagedEvent struct {
	PlayerEID, AttackerEID uint32
	Amount                 float64
}

// BuffEndEvent fires when a timed buff (e.g. a SlowDebuff or Last Stand
// multiplier) expires.
type BuffEndEvent struct {
	EntityID uint32
	BuffID   string
}

// BulletHitHandler may mutate the event's Damage/Pierce fields before the
// bullet system applies them.
type BulletHitHandler func(*BulletHitEvent)

// Bus is the world-owned registry of handlers per event kind. It has no
// concurrency protection: per spec.md §5 the simulation is single-threaded
// cooperative within a world, and handlers always run synchronously within
// the system that fires them.
type Bus struct {
	onKill           []func(KillEvent)
	onBulletHit      []BulletHitHandler
	onHealthChanged  []func(HealthChangedEvent)
	onRoll           []func(RollEvent)
	onPlayerDamaged  []func(PlayerDamagedEvent)
	onBuffEnd        []func(BuffEndEvent)
}

// New creates an empty hook bus.
func New() *Bus { return &Bus{} }

func (b *Bus) OnKill(fn func(KillEvent))                     { b.onKill = append(b.onKill, fn) }
func (b *Bus) OnBulletHit(fn BulletHitHandler)                { b.onBulletHit = append(b.onBulletHit, fn) }
func (b *Bus) OnHealthChanged(fn func(HealthChangedEvent))    { b.onHealthChanged = append(b.onHealthChanged, fn) }
func (b *Bus) OnRoll(fn func(RollEvent))                      { b.onRoll = append(b.onRoll, fn) }
func (b *Bus) OnPlayerDamaged(fn func(PlayerDamagedEvent))    { b.onPlayerDamaged = append(b.onPlayerDamaged, fn) }
func (b *Bus) OnBuffEnd(fn func(BuffEndEvent))                { b.onBuffEnd = append(b.onBuffEnd, fn) }

func (b *Bus) FireKill(e KillEvent) {
	for _, fn := range b.onKill {
		fn(e)
	}
}

// FireBulletHit runs every registered handler in order, letting each see
// and adjust the mutations of the ones before it, then returns the final
// event state for the bullet system to act on.
func (b *Bus) FireBulletHit(e BulletHitEvent) BulletHitEvent {
	for _, fn := range b.onBulletHit {
		fn(&e)
	}
	return e
}

func (b *Bus) FireHealthChanged(e HealthChangedEvent) {
	for _, fn := range b.onHealthChanged {
		fn(e)
	}
}

func (b *Bus) FireRoll(e RollEvent) {
	for _, fn := range b.onRoll {
		fn(e)
	}
}

func (b *Bus) FirePlayerDamaged(e PlayerDamagedEvent) {
	for _, fn := range b.onPlayerDamaged {
		fn(e)
	}
}

func (b *Bus) FireBuffEnd(e BuffEndEvent) {
	for _, fn := range b.onBuffEnd {
		fn(e)
	}
}

// Reset drops every registered handler, leaving the bus as empty as a
// freshly constructed one.
func (b *Bus) Reset() {
	*b = Bus{}
}
