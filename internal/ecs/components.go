package ecs

// ColliderLayer discriminates which entity-entity and bullet-entity pairs
// may interact during collision resolution.
type ColliderLayer uint8

const (
	LayerPlayer ColliderLayer = iota
	LayerEnemy
	LayerPlayerBullet
	LayerEnemyBullet
	LayerNeutral
)

// Position holds current and tick-start coordinates; PrevX/PrevY are used
// for render interpolation and swept bullet collision.
type Position struct {
	X, Y         float64
	PrevX, PrevY float64
}

// Velocity is the entity's per-second linear velocity.
type Velocity struct {
	X, Y float64
}

// ZPosition tracks airborne height above the ground plane.
type ZPosition struct {
	Z, ZVelocity float64
}

// AirborneThreshold is the Z height above which an entity is considered
// airborne for collision and half-wall purposes.
const AirborneThreshold = 0.5

// Collider is the circular collision volume and its interaction layer.
type Collider struct {
	Radius float64
	Layer  ColliderLayer
}

// Health tracks hit points and the post-hit invulnerability window.
type Health struct {
	Current, Max            float64
	IFrames, IFrameDuration float64
}

// EnemyTier distinguishes continuously-replenished fodder from
// wave-tracked, finite-count threats.
type EnemyTier uint8

const (
	TierFodder EnemyTier = iota
	TierThreat
)

// EnemyType is a tagged-variant discriminator into the static per-type
// behavior tables (attack parameters, steering parameters, ...).
type EnemyType uint8

const (
	EnemySwarmer EnemyType = iota
	EnemyRanged
	EnemyCharger
	EnemyBomber
	EnemyBoss
)

// Enemy marks an entity as a hostile combatant of a given type/tier.
type Enemy struct {
	Type       EnemyType
	Tier       EnemyTier
	BudgetCost uint8
}

// NoEntity is used as a sentinel for "no entity" in optional entity-id
// fields; real ids start at 1 so the zero value is unambiguous.
const NoEntity EntityID = 0

// Bullet is a spawned projectile's per-tick bookkeeping. Its pierce-hit set
// and collision callback are NOT stored here: per spec.md's design notes,
// side tables keyed by entity id live on the world, not on the component,
// so a single removal helper can purge them without this struct ever
// owning heap structures of its own.
type Bullet struct {
	OwnerID          EntityID
	Damage           float64
	DistanceTraveled float64
	MaxRange         float64
	Lifetime         float64 // seconds remaining before the 5s failsafe despawn
	Layer            ColliderLayer
}

// Weapon is the computed-from-progression firing profile copied onto a
// player-owning entity each recompute.
type Weapon struct {
	FireRate      float64
	BulletDamage  float64
	BulletSpeed   float64
	Range         float64
	LastFireTime  float64
	PelletCount   int
	SpreadAngle   float64
	HoldFireRate  float64
	MinFireInterval float64
	LastRoundMultiplier float64
}

// Cylinder is the revolver reload/fire state machine.
type Cylinder struct {
	Rounds, MaxRounds         uint8
	ReloadTime, ReloadTimer   float64
	FireCooldown              float64
	Reloading                 bool
	FirstShotAfterReload      bool
}

// Roll is an active dodge-roll's remaining timer and fixed direction.
type Roll struct {
	Timer, Duration float64
	DirX, DirY      float64
}

// Invincible is a tag component added while an i-frame window (e.g. a roll)
// is open; its presence blocks all damage regardless of Health.IFrames.
type Invincible struct{}

// Showdown is the player's marked-target burst-damage ability.
type Showdown struct {
	Active          bool
	Timer, Cooldown float64
	Duration        float64
	TargetEID       EntityID
	Marked          map[EntityID]struct{}
}

// EnemyAIState enumerates the per-enemy behavior state machine (spec §4.9).
type EnemyAIState uint8

const (
	AIIdle EnemyAIState = iota
	AIChase
	AITelegraph
	AIAttack
	AIRecover
	AICooldown
)

// EnemyAI is the per-enemy state-machine cursor. ChargeDirX/Y freezes a
// charger's rush heading at telegraph time so the attack and steering
// systems agree on one direction for the whole attack window.
type EnemyAI struct {
	State                EnemyAIState
	Timer                float64
	Cooldown             float64
	TargetEID            EntityID
	ChargeDirX, ChargeDirY float64
}

// Bomb is a bomber's thrown dynamite: it sits at its landing point until
// Timer expires, then detonates in a single AoE burst (spec.md §4.9).
type Bomb struct {
	Timer      float64
	Radius     float64
	Damage     float64
	OwnerEID   EntityID
}

// BossPhase tracks how many HP-threshold phase transitions a boss has
// already crossed, so each one triggers its i-frame window and summon
// exactly once (spec.md §4.9).
type BossPhase struct {
	Phase uint8
}

// Detection parameterizes aggro acquisition for an enemy.
type Detection struct {
	AggroRange    float64
	LOSRequired   bool
	StaggerOffset uint8
}

// Steering parameterizes the flocking/seek blend used by CHASE-state
// enemies (spec §4.10).
type Steering struct {
	PreferredRange     float64
	SeparationRadius   float64
	SeekWeight         float64
	SeparationWeight   float64
}

// PlayerMotionState is the coarse animation/locomotion state of a player.
type PlayerMotionState uint8

const (
	PlayerIdle PlayerMotionState = iota
	PlayerMoving
	PlayerRolling
	PlayerLanding
	PlayerDead
)

// PlayerState wraps the player's current locomotion state.
type PlayerState struct {
	State PlayerMotionState
}

// Jump tracks airborne landing recovery.
type Jump struct {
	Landed      bool
	LandingTimer float64
}

// Dead tags an entity past its death animation, pending removal.
type Dead struct{}

// SlowDebuff is a timed movement-speed multiplier.
type SlowDebuff struct {
	Multiplier float64
	Duration   float64
}

// PlayerTag marks an entity as a player and carries the per-player fields
// that don't fit the spec's component list verbatim (character id, input
// sequencing).
type PlayerTag struct {
	CharacterID       string
	LastAckedInputSeq uint32
}
