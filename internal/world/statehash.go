package world

import (
	"hash/fnv"
	"math"

	"github.com/jacogrande/high-noon-sub002/internal/ecs"
)

// StateHash returns a per-tick digest of the tick, the time, and the core
// component columns (position, velocity, health, cylinder, enemy AI state,
// bullet distance), each visited in ascending entity-id order so it is a
// pure function of world
// state (spec.md §7's desync-detection contract, P1). It intentionally
// ignores side tables (bullet callbacks, pierce sets) and RNG internals,
// since those are not part of the state two peers compare for agreement.
func (w *World) StateHash() uint64 {
	h := fnv.New64a()
	writeU64(h, w.Tick)
	writeF64(h, w.Time)

	w.Store.Each(ecs.CPosition, func(id ecs.EntityID) {
		p := w.Store.Position[id]
		writeU32(h, uint32(id))
		writeF64(h, p.X)
		writeF64(h, p.Y)
	})
	w.Store.Each(ecs.CVelocity, func(id ecs.EntityID) {
		v := w.Store.Velocity[id]
		writeU32(h, uint32(id))
		writeF64(h, v.X)
		writeF64(h, v.Y)
	})
	w.Store.Each(ecs.CHealth, func(id ecs.EntityID) {
		hp := w.Store.Health[id]
		writeU32(h, uint32(id))
		writeF64(h, hp.Current)
		writeF64(h, hp.IFrames)
	})
	w.Store.Each(ecs.CCylinder, func(id ecs.EntityID) {
		c := w.Store.Cylinder[id]
		writeU32(h, uint32(id))
		h.Write([]byte{c.Rounds})
		writeF64(h, c.ReloadTimer)
	})
	w.Store.Each(ecs.CEnemyAI, func(id ecs.EntityID) {
		ai := w.Store.EnemyAI[id]
		writeU32(h, uint32(id))
		h.Write([]byte{byte(ai.State)})
		writeF64(h, ai.Timer)
	})
	w.Store.Each(ecs.CBullet, func(id ecs.EntityID) {
		b := w.Store.Bullet[id]
		writeU32(h, uint32(id))
		writeF64(h, b.DistanceTraveled)
	})

	return h.Sum64()
}

func writeU64(h interface{ Write([]byte) (int, error) }, v uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
}

func writeU32(h interface{ Write([]byte) (int, error) }, v uint32) {
	var buf [4]byte
	for i := 0; i < 4; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
}

func writeF64(h interface{ Write([]byte) (int, error) }, v float64) {
	writeU64(h, math.Float64bits(v))
}
