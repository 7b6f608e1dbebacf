// Package world is the simulation core: the fixed-timestep step driver, the
// normative system pipeline, and the world-owned state every system reads
// and mutates (spec.md §2, §5). One World is one deterministic simulator;
// nothing in this package performs I/O or suspends mid-tick.
package world

import (
	"github.com/jacogrande/high-noon-sub002/internal/config"
	"github.com/jacogrande/high-noon-sub002/internal/ecs"
	"github.com/jacogrande/high-noon-sub002/internal/economy"
	"github.com/jacogrande/high-noon-sub002/internal/hooks"
	"github.com/jacogrande/high-noon-sub002/internal/progression"
	"github.com/jacogrande/high-noon-sub002/internal/rng"
	"github.com/jacogrande/high-noon-sub002/internal/run"
	"github.com/jacogrande/high-noon-sub002/internal/simerr"
	"github.com/jacogrande/high-noon-sub002/internal/spatial"
	"github.com/jacogrande/high-noon-sub002/internal/tilemap"
)

// Dt is the fixed timestep, 1/60 of a second per spec.md §4.1.
const Dt = 1.0 / 60.0

// BulletHitCallback is invoked exactly once when a bullet is removed.
type BulletHitCallback func(HitResult)

// HitKind distinguishes why a bullet was removed.
type HitKind int

const (
	HitEntity HitKind = iota
	HitWall
	HitRangeExpired
	HitLifetimeExpired
)

// HitResult is passed to a bullet's registered callback exactly once.
type HitResult struct {
	Kind      HitKind
	X, Y      float64
	HitEntity ecs.EntityID
}

// PlayerRuntime is the per-player side state that does not fit the
// spec.md component list verbatim: pending input, last-acked sequence,
// progression, and interaction bookkeeping.
type PlayerRuntime struct {
	Input        InputState
	PrevButtons  Buttons // for edge-triggered (tap vs hold, button-up) detection
	FireHeldTime float64 // seconds BtnFire has been continuously held, for tap/hold fire-mode
	LastHitDirX  float64
	LastHitDirY  float64
	Progression  *progression.State
	Interaction  economy.PlayerInteraction
	Gold         int
	Shovels      int

	lastInteractSeqSeen uint32
}

// World owns every component column (via Store), every side table, and
// the run/progression/economy/hook subsystems. Scope controls how the
// movement and bullet-collision systems treat non-local entities for
// client-side prediction (spec.md §4.6, §5).
type Scope int

const (
	ScopeAuthoritative Scope = iota
	ScopeLocalPlayer
)

type World struct {
	Store *ecs.Store

	Tick        uint64
	Time        float64
	InitialSeed uint32
	RNG         *rng.PRNG
	SpawnRNG    *rng.PRNG

	Tilemap   *tilemap.Tilemap
	FlowField *spatial.FlowField
	Grid      *spatial.Grid

	Hooks *hooks.Bus
	Run   *run.Controller
	Econ  *economy.State

	// ItemTable maps a stash rarity tier to the items it may grant; supplied
	// at construction per spec.md §9's content-table design note.
	ItemTable map[economy.ItemRarity][]*progression.Item

	Limits config.ResourceLimits

	Scope       Scope
	LocalPlayer ecs.EntityID

	Players map[ecs.EntityID]*PlayerRuntime

	bulletCallbacks map[ecs.EntityID]BulletHitCallback
	pierceHits      map[ecs.EntityID]map[ecs.EntityID]struct{}
	lastAttacker    map[ecs.EntityID]ecs.EntityID

	LastError error
}

// Config bundles everything New needs to construct a fresh world: tick
// rate is implied fixed at 60Hz by Dt, so the parameters are the spatial
// extents, resource limits, initial tilemap/seed, stage position, and the
// stash item table.
type Config struct {
	WorldWidth, WorldHeight int
	TileSize                int
	Limits                  config.ResourceLimits
	Tilemap                 *tilemap.Tilemap
	Seed                    uint32
	StageIndex              int
	TotalStages             int
	ItemTable               map[economy.ItemRarity][]*progression.Item
}

// New constructs a world ready to step. A nil cfg.Tilemap is not an error:
// spec.md §7 treats a missing tilemap at init as transient, so New falls
// back to a 1x1 clear map.
func New(cfg Config) *World {
	tm := cfg.Tilemap
	if tm == nil {
		tm = tilemap.New(1, 1, cfg.TileSize)
		tm.SetFloor(0, 0, tilemap.Floor)
	}

	cellSize := float64(cfg.TileSize)
	w := &World{
		Store:           ecs.New(int(cfg.Limits.MaxTotalPlayers) + int(cfg.Limits.MaxEnemiesAlive) + int(cfg.Limits.MaxBulletsAlive) + 16),
		InitialSeed:     cfg.Seed,
		RNG:             rng.New(cfg.Seed),
		SpawnRNG:        rng.New(cfg.Seed).Derive(uint32(cfg.StageIndex)).DeriveString("spawn"),
		Tilemap:         tm,
		FlowField:       spatial.NewFlowField(tm),
		Grid:            spatial.NewGrid(float64(cfg.WorldWidth), float64(cfg.WorldHeight), cellSize, cfg.Limits.MaxTotalPlayers+cfg.Limits.MaxEnemiesAlive+cfg.Limits.MaxBulletsAlive),
		Hooks:           hooks.New(),
		Run:             run.NewController(cfg.StageIndex, cfg.TotalStages),
		Econ:            economy.New(),
		ItemTable:       cfg.ItemTable,
		Limits:          cfg.Limits,
		Scope:           ScopeAuthoritative,
		Players:         make(map[ecs.EntityID]*PlayerRuntime),
		bulletCallbacks: make(map[ecs.EntityID]BulletHitCallback),
		pierceHits:      make(map[ecs.EntityID]map[ecs.EntityID]struct{}),
		lastAttacker:    make(map[ecs.EntityID]ecs.EntityID),
	}
	return w
}

// System is one stage of the fixed per-tick pipeline; it receives the
// world, uses the fixed Dt constant, and may return an invariant-violation
// error.
type System func(w *World) error

// Pipeline is the normative, ordered system list from spec.md §5. Both the
// server and any client-side predictor MUST register exactly this order.
func Pipeline() []System {
	return []System{
		SystemPlayerInput,
		SystemRoll,
		SystemShowdown,
		SystemJump,
		SystemCylinder,
		SystemWeapon,
		SystemDebugSpawn,
		SystemWaveSpawner,
		SystemBullet,
		SystemFlowField,
		SystemEnemyDetection,
		SystemEnemyAI,
		SystemSpatialHashRebuild,
		SystemEnemySteering,
		SystemEnemyAttack,
		SystemMovement,
		SystemBulletCollision,
		SystemBombs,
		SystemHealth,
		SystemBossPhase,
		SystemBuffSlowHazard,
		SystemCollision,
		SystemInteraction,
	}
}

// Step advances the world by exactly one tick of Dt, running systems in
// order. It has no other behavior: frame-rate independence and catch-up
// logic live in the external loop that calls Step, not here.
func Step(w *World, systems []System) error {
	for _, sys := range systems {
		if err := sys(w); err != nil {
			w.LastError = err
			return err
		}
	}
	w.Tick++
	w.Time += Dt
	return nil
}

// SetTilemap swaps in a freshly generated tilemap and the flow field/grid
// sized for it, the step a stage or camp transition requires (spec.md
// §4.11). It does not touch any entity's position; callers relocate
// players themselves if the new arena's bounds require it.
func (w *World) SetTilemap(tm *tilemap.Tilemap, worldWidth, worldHeight float64) {
	w.Tilemap = tm
	w.FlowField = spatial.NewFlowField(tm)
	cellSize := float64(tm.TileSize)
	entityCap := int(w.Limits.MaxTotalPlayers) + int(w.Limits.MaxEnemiesAlive) + int(w.Limits.MaxBulletsAlive)
	w.Grid = spatial.NewGrid(worldWidth, worldHeight, cellSize, entityCap)
}

// RelocatePlayersToCenter snaps every connected player's position to the
// current tilemap's center tile, used after a camp/stage tilemap swap so
// players don't spawn inside the previous arena's geometry.
func (w *World) RelocatePlayersToCenter() {
	col, row := w.Tilemap.Width/2, w.Tilemap.Height/2
	x, y := w.Tilemap.TileCenter(col, row)
	for id := range w.Players {
		if w.Store.Has(id, ecs.CPosition) {
			w.Store.Position[id] = ecs.Position{X: x, Y: y, PrevX: x, PrevY: y}
		}
	}
}

// DespawnAllEnemies destroys every live enemy entity, purging its side
// tables first. It is the clearing-to-camp transition's job per spec.md
// §4.11: camp is a safe area, so no enemy may survive into it or into the
// next stage's regenerated map.
func (w *World) DespawnAllEnemies() {
	var ids []ecs.EntityID
	w.Store.Each(ecs.CEnemy, func(id ecs.EntityID) {
		ids = append(ids, id)
	})
	for _, id := range ids {
		w.purgeEntitySideTables(id)
		w.Store.Destroy(id)
	}
}

// RegisterBulletCallback installs the one-shot collision callback for a
// bullet; it is invoked and purged exactly once when the bullet is
// removed (spec.md P4).
func (w *World) RegisterBulletCallback(bullet ecs.EntityID, cb BulletHitCallback) {
	w.bulletCallbacks[bullet] = cb
}

// purgeBulletSideTables removes every side-table entry for an entity id in
// a single pass, the collection point spec.md's design notes require to
// prevent leaks.
func (w *World) purgeBulletSideTables(bullet ecs.EntityID) {
	delete(w.bulletCallbacks, bullet)
	delete(w.pierceHits, bullet)
}

// purgeEntitySideTables purges every side-table entry keyed by a destroyed
// non-bullet entity (currently just kill-attribution), per spec.md §9's
// single-collection-pass-per-removal rule.
func (w *World) purgeEntitySideTables(id ecs.EntityID) {
	delete(w.lastAttacker, id)
}

// hasPierced reports whether bullet has already pierced target.
func (w *World) hasPierced(bullet, target ecs.EntityID) bool {
	set, ok := w.pierceHits[bullet]
	if !ok {
		return false
	}
	_, hit := set[target]
	return hit
}

func (w *World) addPierce(bullet, target ecs.EntityID) {
	set, ok := w.pierceHits[bullet]
	if !ok {
		set = make(map[ecs.EntityID]struct{})
		w.pierceHits[bullet] = set
	}
	set[target] = struct{}{}
}

// removeBullet fires the bullet's callback exactly once, purges its side
// tables, and destroys the entity.
func (w *World) removeBullet(id ecs.EntityID, result HitResult) {
	if cb, ok := w.bulletCallbacks[id]; ok {
		cb(result)
	}
	w.purgeBulletSideTables(id)
	w.Store.Destroy(id)
}

// invariant is a small helper so systems can fail fast consistently.
func invariant(format string, args ...interface{}) error {
	return simerr.Invariant(format, args...)
}
