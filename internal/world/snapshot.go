package world

import "github.com/jacogrande/high-noon-sub002/internal/ecs"

// PlayerView is the observable slice of a player entity exposed to the
// network layer (spec.md §6: the server transmits the authoritative tick
// and per-player lastAckedSeq, never internal side-table state).
type PlayerView struct {
	ID           ecs.EntityID
	X, Y         float64
	VX, VY       float64
	HP, MaxHP    float64
	Rounds       byte
	Reloading    bool
	State        ecs.PlayerMotionState
	LastAckedSeq uint32
}

// EnemyView is the observable slice of an enemy entity.
type EnemyView struct {
	ID      ecs.EntityID
	X, Y    float64
	HP      float64
	Type    ecs.EnemyType
	Tier    ecs.EnemyTier
	AIState ecs.EnemyAIState
}

// BulletView is the observable slice of a bullet entity.
type BulletView struct {
	ID      ecs.EntityID
	X, Y    float64
	OwnerID ecs.EntityID
	Layer   ecs.ColliderLayer
}

// Snapshot is the full read-only view of one tick's observable state.
type Snapshot struct {
	Tick    uint64
	Time    float64
	Players []PlayerView
	Enemies []EnemyView
	Bullets []BulletView
}

// BuildSnapshot copies every observable component column into a plain
// value that is safe to serialize without holding the world lock any
// longer than the copy itself (spec.md §6's snapshot/delta wire format).
func (w *World) BuildSnapshot() Snapshot {
	snap := Snapshot{Tick: w.Tick, Time: w.Time}

	w.Store.Each(ecs.CPlayerTag, func(id ecs.EntityID) {
		if w.Store.Has(id, ecs.CDead) {
			return
		}
		pos := w.Store.Position[id]
		vel := w.Store.Velocity[id]
		hp := w.Store.Health[id]
		cyl := w.Store.Cylinder[id]
		var state ecs.PlayerMotionState
		if w.Store.Has(id, ecs.CPlayerState) {
			state = w.Store.PlayerState[id].State
		}
		snap.Players = append(snap.Players, PlayerView{
			ID:           id,
			X:            pos.X,
			Y:            pos.Y,
			VX:           vel.X,
			VY:           vel.Y,
			HP:           hp.Current,
			MaxHP:        hp.Max,
			Rounds:       cyl.Rounds,
			Reloading:    cyl.Reloading,
			State:        state,
			LastAckedSeq: w.Store.PlayerTag[id].LastAckedInputSeq,
		})
	})

	w.Store.Each(ecs.CEnemy, func(id ecs.EntityID) {
		if w.Store.Has(id, ecs.CDead) {
			return
		}
		pos := w.Store.Position[id]
		enemy := w.Store.Enemy[id]
		var ai ecs.EnemyAIState
		if w.Store.Has(id, ecs.CEnemyAI) {
			ai = w.Store.EnemyAI[id].State
		}
		snap.Enemies = append(snap.Enemies, EnemyView{
			ID:      id,
			X:       pos.X,
			Y:       pos.Y,
			HP:      w.Store.Health[id].Current,
			Type:    enemy.Type,
			Tier:    enemy.Tier,
			AIState: ai,
		})
	})

	w.Store.Each(ecs.CBullet, func(id ecs.EntityID) {
		pos := w.Store.Position[id]
		b := w.Store.Bullet[id]
		snap.Bullets = append(snap.Bullets, BulletView{
			ID:      id,
			X:       pos.X,
			Y:       pos.Y,
			OwnerID: b.OwnerID,
			Layer:   b.Layer,
		})
	})

	return snap
}

// DebugState is a coarser, human-readable summary used by the debug HTTP
// surface rather than the per-tick network push.
type DebugState struct {
	Tick        uint64  `json:"tick"`
	Time        float64 `json:"time"`
	PlayerCount int     `json:"playerCount"`
	EnemyCount  int     `json:"enemyCount"`
	BulletCount int     `json:"bulletCount"`
	RunPhase    int     `json:"runPhase"`
	StateHash   uint64  `json:"stateHash"`
}

func (w *World) DebugState() DebugState {
	return DebugState{
		Tick:        w.Tick,
		Time:        w.Time,
		PlayerCount: w.Store.Count(ecs.CPlayerTag),
		EnemyCount:  w.Store.Count(ecs.CEnemy),
		BulletCount: w.Store.Count(ecs.CBullet),
		RunPhase:    int(w.Run.Phase),
		StateHash:   w.StateHash(),
	}
}
