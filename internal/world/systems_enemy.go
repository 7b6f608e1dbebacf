package world

import (
	"math"

	"github.com/jacogrande/high-noon-sub002/internal/ecs"
	"github.com/jacogrande/high-noon-sub002/internal/spatial"
	"github.com/jacogrande/high-noon-sub002/internal/tilemap"
)

// goldenAngle breaks ties deterministically among coincident entities during
// separation steering (spec.md §4.10).
const goldenAngle = 2.399963229728653

// SystemFlowField recomputes the shared pathfinding field whenever the set
// of alive players' tile coordinates changes (spec.md §4.4).
func SystemFlowField(w *World) error {
	var seeds [][2]int
	w.Store.Each(ecs.CPlayerTag|ecs.CPosition, func(id ecs.EntityID) {
		if w.Store.Has(id, ecs.CDead) {
			return
		}
		pos := w.Store.Position[id]
		col, row := w.Tilemap.WorldToTile(pos.X, pos.Y)
		seeds = append(seeds, [2]int{col, row})
	})
	w.FlowField.MaybeRegenerate(seeds)
	return nil
}

func dist2(x1, y1, x2, y2 float64) float64 {
	dx, dy := x1-x2, y1-y2
	return dx*dx + dy*dy
}

// SystemEnemyDetection acquires, retains, or loses each enemy's AI target.
// Direct-aggro range is checked every tick; line-of-sight confirmation for
// enemies that require it is only evaluated on the enemy's staggered tick
// (entity id % 5), per spec.md §4.9.
func SystemEnemyDetection(w *World) error {
	tickPhase := uint8(w.Tick % 5)

	w.Store.Each(ecs.CEnemy|ecs.CDetection|ecs.CPosition|ecs.CEnemyAI, func(id ecs.EntityID) {
		if w.Store.Has(id, ecs.CDead) {
			return
		}
		ai := &w.Store.EnemyAI[id]
		det := w.Store.Detection[id]
		pos := w.Store.Position[id]

		if ai.TargetEID != ecs.NoEntity {
			if !w.Store.IsAlive(ai.TargetEID) || w.Store.Has(ai.TargetEID, ecs.CDead) {
				ai.TargetEID = ecs.NoEntity
			} else {
				tp := w.Store.Position[ai.TargetEID]
				leash := LeashMultiple * det.AggroRange
				if dist2(pos.X, pos.Y, tp.X, tp.Y) > leash*leash {
					ai.TargetEID = ecs.NoEntity
				}
			}
		}

		if ai.TargetEID != ecs.NoEntity {
			return
		}
		if det.LOSRequired && det.StaggerOffset != tickPhase {
			return
		}

		var best ecs.EntityID
		bestDist := det.AggroRange * det.AggroRange
		w.Store.Each(ecs.CPlayerTag|ecs.CPosition, func(pid ecs.EntityID) {
			if w.Store.Has(pid, ecs.CDead) {
				return
			}
			tp := w.Store.Position[pid]
			d := dist2(pos.X, pos.Y, tp.X, tp.Y)
			if d > bestDist {
				return
			}
			if det.LOSRequired && !hasLineOfSight(w, pos.X, pos.Y, tp.X, tp.Y) {
				return
			}
			bestDist = d
			best = pid
		})
		if best != ecs.NoEntity {
			ai.TargetEID = best
		}
	})
	return nil
}

// hasLineOfSight walks a Bresenham line between the two world points over
// tile coordinates. A diagonal step is blocked only when both tiles beside
// it are solid; the flow field is stricter and needs both of them open.
func hasLineOfSight(w *World, x0, y0, x1, y1 float64) bool {
	c0, r0 := w.Tilemap.WorldToTile(x0, y0)
	c1, r1 := w.Tilemap.WorldToTile(x1, y1)

	dc := int(math.Abs(float64(c1 - c0)))
	dr := -int(math.Abs(float64(r1 - r0)))
	sc, sr := 1, 1
	if c0 > c1 {
		sc = -1
	}
	if r0 > r1 {
		sr = -1
	}
	err := dc + dr

	col, row := c0, r0
	for {
		if col == c1 && row == r1 {
			return true
		}
		e2 := 2 * err
		stepC, stepR := 0, 0
		if e2 >= dr {
			err += dr
			col += sc
			stepC = sc
		}
		if e2 <= dc {
			err += dc
			row += sr
			stepR = sr
		}
		if stepC != 0 && stepR != 0 {
			if w.Tilemap.SolidAt(col-stepC, row) && w.Tilemap.SolidAt(col, row-stepR) {
				return false
			}
		}
		if w.Tilemap.SolidAt(col, row) {
			return false
		}
	}
}

// SystemEnemyAI advances each enemy's behavior state machine (spec.md §4.9).
func SystemEnemyAI(w *World) error {
	w.Store.Each(ecs.CEnemyAI|ecs.CEnemy|ecs.CPosition, func(id ecs.EntityID) {
		if w.Store.Has(id, ecs.CDead) {
			return
		}
		ai := &w.Store.EnemyAI[id]
		profile := profileFor(w.Store.Enemy[id].Type)

		switch ai.State {
		case ecs.AIIdle:
			if ai.TargetEID != ecs.NoEntity {
				ai.State = ecs.AIChase
			}
		case ecs.AIChase:
			if ai.TargetEID == ecs.NoEntity {
				ai.State = ecs.AIIdle
				return
			}
			pos := w.Store.Position[id]
			tp := w.Store.Position[ai.TargetEID]
			if dist2(pos.X, pos.Y, tp.X, tp.Y) <= profile.AttackRange*profile.AttackRange {
				ai.State = ecs.AITelegraph
				ai.Timer = profile.TelegraphDuration
				if w.Store.Enemy[id].Type == ecs.EnemyCharger {
					dx, dy := tp.X-pos.X, tp.Y-pos.Y
					if d := math.Hypot(dx, dy); d > 1e-9 {
						ai.ChargeDirX, ai.ChargeDirY = dx/d, dy/d
					}
				}
			}
		case ecs.AITelegraph:
			ai.Timer -= Dt
			if ai.Timer <= 0 {
				ai.State = ecs.AIAttack
				ai.Timer = profile.AttackDuration
			}
		case ecs.AIAttack:
			ai.Timer -= Dt
			if ai.Timer <= 0 {
				ai.State = ecs.AIRecover
				ai.Timer = profile.RecoveryDuration
			}
		case ecs.AIRecover:
			ai.Timer -= Dt
			if ai.Timer <= 0 {
				ai.State = ecs.AICooldown
				ai.Timer = profile.CooldownDuration
			}
		case ecs.AICooldown:
			ai.Timer -= Dt
			if ai.Timer <= 0 {
				ai.State = ecs.AIChase
			}
		}
	})
	return nil
}

// SystemSpatialHashRebuild rebuilds the broad-phase grid from every entity
// with a collider, in ascending entity-id order (spec.md §4.3).
func SystemSpatialHashRebuild(w *World) error {
	var ids []uint32
	var xs, ys []float64
	w.Store.Each(ecs.CCollider|ecs.CPosition, func(id ecs.EntityID) {
		ids = append(ids, uint32(id))
		pos := w.Store.Position[id]
		xs = append(xs, pos.X)
		ys = append(ys, pos.Y)
	})
	w.Grid.Rebuild(ids, xs, ys)
	return nil
}

// ChargeSpeedMultiplier scales a charger's rush velocity over its base
// Speed for the duration of its ATTACK state (spec.md §4.9).
const ChargeSpeedMultiplier = 2.75

// SystemEnemySteering computes CHASE-state velocities from the flow field,
// preferred-range orbiting, separation, and lava avoidance; a charging
// Charger rushes its frozen ChargeDir through its ATTACK state instead;
// every other state holds still (spec.md §4.10).
func SystemEnemySteering(w *World) error {
	w.Store.Each(ecs.CEnemyAI|ecs.CSteering|ecs.CVelocity|ecs.CPosition|ecs.CEnemy, func(id ecs.EntityID) {
		if w.Store.Has(id, ecs.CDead) {
			return
		}
		ai := w.Store.EnemyAI[id]
		profile := profileFor(w.Store.Enemy[id].Type)
		if ai.State == ecs.AIAttack && w.Store.Enemy[id].Type == ecs.EnemyCharger {
			w.Store.Velocity[id] = ecs.Velocity{
				X: ai.ChargeDirX * profile.Speed * ChargeSpeedMultiplier,
				Y: ai.ChargeDirY * profile.Speed * ChargeSpeedMultiplier,
			}
			return
		}
		if ai.State != ecs.AIChase {
			w.Store.Velocity[id] = ecs.Velocity{}
			return
		}

		pos := w.Store.Position[id]
		steer := w.Store.Steering[id]

		seekX, seekY := flowSeek(w, pos.X, pos.Y, ai.TargetEID)

		if steer.PreferredRange > 0 && ai.TargetEID != ecs.NoEntity {
			tp := w.Store.Position[ai.TargetEID]
			d := math.Hypot(tp.X-pos.X, tp.Y-pos.Y)
			switch {
			case d < steer.PreferredRange-30:
				seekX, seekY = -seekX, -seekY
			case math.Abs(d-steer.PreferredRange) <= 30:
				seekX, seekY = -seekY, seekX
			}
		}

		sepX, sepY := separationForce(w, id, pos.X, pos.Y, steer.SeparationRadius)

		desiredX := seekX*steer.SeekWeight + sepX*steer.SeparationWeight
		desiredY := seekY*steer.SeekWeight + sepY*steer.SeparationWeight
		desiredX, desiredY = avoidLava(w, pos.X, pos.Y, desiredX, desiredY)

		mag := math.Hypot(desiredX, desiredY)
		if mag < 1e-9 {
			w.Store.Velocity[id] = ecs.Velocity{}
			return
		}
		w.Store.Velocity[id] = ecs.Velocity{X: desiredX / mag * profile.Speed, Y: desiredY / mag * profile.Speed}
	})
	return nil
}

func flowSeek(w *World, x, y float64, target ecs.EntityID) (float64, float64) {
	col, row := w.Tilemap.WorldToTile(x, y)
	dist, dx, dy := w.FlowField.Lookup(col, row)
	if dist != spatial.Unreachable && (dx != 0 || dy != 0) {
		return float64(dx), float64(dy)
	}
	if target != ecs.NoEntity && w.Store.IsAlive(target) {
		tp := w.Store.Position[target]
		vx, vy := tp.X-x, tp.Y-y
		mag := math.Hypot(vx, vy)
		if mag > 1e-9 {
			return vx / mag, vy / mag
		}
	}
	return 0, 0
}

func separationForce(w *World, self ecs.EntityID, x, y, radius float64) (float64, float64) {
	if radius <= 0 {
		return 0, 0
	}
	var fx, fy float64
	w.Grid.ForEachInRadius(x, y, radius, func(candidate uint32) {
		other := ecs.EntityID(candidate)
		if other == self || !w.Store.Has(other, ecs.CEnemy|ecs.CPosition) {
			return
		}
		op := w.Store.Position[other]
		dx, dy := x-op.X, y-op.Y
		d := math.Hypot(dx, dy)
		if d > radius {
			return
		}
		if d < 1e-9 {
			angle := goldenAngle * float64(self)
			dx, dy, d = math.Cos(angle), math.Sin(angle), 1
		}
		weight := (radius - d) / radius
		fx += weight * dx / d
		fy += weight * dy / d
	})
	return fx, fy
}

func avoidLava(w *World, x, y, dirX, dirY float64) (float64, float64) {
	mag := math.Hypot(dirX, dirY)
	if mag < 1e-9 {
		return dirX, dirY
	}
	aheadX := x + dirX/mag*float64(w.Tilemap.TileSize)
	aheadY := y + dirY/mag*float64(w.Tilemap.TileSize)
	col, row := w.Tilemap.WorldToTile(aheadX, aheadY)
	if w.Tilemap.FloorAt(col, row) != tilemap.Lava {
		return dirX, dirY
	}

	bestDist := spatial.Unreachable
	bestCol, bestRow := col, row
	found := false
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			nc, nr := col+dc, row+dr
			if !w.Tilemap.Walkable(nc, nr) || w.Tilemap.FloorAt(nc, nr) == tilemap.Lava {
				continue
			}
			d, _, _ := w.FlowField.Lookup(nc, nr)
			if d < bestDist {
				bestDist = d
				bestCol, bestRow = nc, nr
				found = true
			}
		}
	}
	if !found {
		return dirX, dirY
	}
	cx, cy := w.Tilemap.TileCenter(bestCol, bestRow)
	nx, ny := cx-x, cy-y
	nmag := math.Hypot(nx, ny)
	if nmag < 1e-9 {
		return dirX, dirY
	}
	return nx / nmag, ny / nmag
}

// SystemEnemyAttack executes the type-specific attack payload exactly once,
// on the first tick an enemy enters the ATTACK state (spec.md §4.9).
func SystemEnemyAttack(w *World) error {
	w.Store.Each(ecs.CEnemyAI|ecs.CEnemy|ecs.CPosition, func(id ecs.EntityID) {
		if w.Store.Has(id, ecs.CDead) {
			return
		}
		ai := w.Store.EnemyAI[id]
		if ai.State != ecs.AIAttack {
			return
		}
		profile := profileFor(w.Store.Enemy[id].Type)
		if ai.Timer != profile.AttackDuration {
			return
		}
		if ai.TargetEID == ecs.NoEntity || !w.Store.IsAlive(ai.TargetEID) {
			return
		}

		pos := w.Store.Position[id]
		tp := w.Store.Position[ai.TargetEID]
		switch w.Store.Enemy[id].Type {
		case ecs.EnemyRanged:
			attackRangedFan(w, id, pos, tp, profile)
		case ecs.EnemyCharger:
			attackChargerRush(w, id, ai, pos, tp, profile)
		case ecs.EnemyBomber:
			attackBomberThrow(w, id, pos, tp, profile)
		case ecs.EnemyBoss:
			attackBossPound(w, id, pos, profile)
		default:
			attackMelee(w, id, ai.TargetEID, pos, tp, profile)
		}
	})
	return nil
}

// RangedFanPellets and RangedFanSpread shape a ranged enemy's attack into a
// spread of bullets rather than one aimed shot (spec.md §4.9).
const (
	RangedFanPellets = 3
	RangedFanSpread  = 0.28 // radians, full spread
)

func attackRangedFan(w *World, id ecs.EntityID, pos, target ecs.Position, profile EnemyProfile) {
	baseAngle := math.Atan2(target.Y-pos.Y, target.X-pos.X)
	for i := 0; i < RangedFanPellets; i++ {
		t := float64(i)/float64(RangedFanPellets-1) - 0.5
		angle := baseAngle + RangedFanSpread*t
		spawnBullet(w, id, pos.X, pos.Y, angle, 260, profile.AttackDamage, 600, ecs.LayerEnemyBullet)
	}
}

// ChargeHitReach extends a charger's melee hit test to cover the ground it
// closes during its rush, since the payload fires once at the start of the
// ATTACK window while SystemEnemySteering keeps moving it (spec.md §4.9).
const ChargeHitReach = 3.0

func attackChargerRush(w *World, id ecs.EntityID, ai ecs.EnemyAI, pos, target ecs.Position, profile EnemyProfile) {
	reach := profile.AttackRange * ChargeHitReach
	if dist2(pos.X, pos.Y, target.X, target.Y) > reach*reach {
		return
	}
	ApplyDamage(w, ai.TargetEID, DamageParams{
		Amount: profile.AttackDamage, AttackerEID: id, SetIframes: true,
		OwnerPlayerEID: id, FireHealthChanged: true, TrackAttribution: true, ClampToZero: true,
	})
}

// BomberFuseDuration, BomberThrowRange, and BomberBombRadius parameterize a
// bomber's dynamite throw: it lands at most BomberThrowRange from the
// bomber, toward the target, then detonates after BomberFuseDuration
// (spec.md §4.9).
const (
	BomberFuseDuration = 0.9
	BomberThrowRange   = 220.0
	BomberBombRadius   = 80.0
)

func attackBomberThrow(w *World, id ecs.EntityID, pos, target ecs.Position, profile EnemyProfile) {
	dx, dy := target.X-pos.X, target.Y-pos.Y
	d := math.Hypot(dx, dy)
	throwDist := math.Min(d, BomberThrowRange)
	var lx, ly float64
	if d > 1e-9 {
		lx, ly = pos.X+dx/d*throwDist, pos.Y+dy/d*throwDist
	} else {
		lx, ly = pos.X, pos.Y
	}
	spawnBomb(w, id, lx, ly, BomberFuseDuration, BomberBombRadius, profile.AttackDamage*1.2)
}

// BossPoundRadiusMultiplier widens a boss's ground-pound over its listed
// single-target AttackRange so the payload reads as an AoE slam hitting
// every player in range, not a single-target hit (spec.md §4.9).
const BossPoundRadiusMultiplier = 2.0

func attackBossPound(w *World, id ecs.EntityID, pos ecs.Position, profile EnemyProfile) {
	radius := profile.AttackRange * BossPoundRadiusMultiplier
	w.Store.Each(ecs.CPlayerTag|ecs.CPosition, func(pid ecs.EntityID) {
		if w.Store.Has(pid, ecs.CDead) {
			return
		}
		pp := w.Store.Position[pid]
		if dist2(pos.X, pos.Y, pp.X, pp.Y) > radius*radius {
			return
		}
		ApplyDamage(w, pid, DamageParams{
			Amount: profile.AttackDamage, AttackerEID: id, SetIframes: true,
			OwnerPlayerEID: id, FireHealthChanged: true, TrackAttribution: true, ClampToZero: true,
		})
	})
}

func attackMelee(w *World, id, target ecs.EntityID, pos, targetPos ecs.Position, profile EnemyProfile) {
	if dist2(pos.X, pos.Y, targetPos.X, targetPos.Y) > profile.AttackRange*profile.AttackRange*1.5 {
		return
	}
	ApplyDamage(w, target, DamageParams{
		Amount: profile.AttackDamage, AttackerEID: id, SetIframes: true,
		OwnerPlayerEID: id, FireHealthChanged: true, TrackAttribution: true, ClampToZero: true,
	})
}

// bossPhaseThresholds are the fraction-of-max-HP points at which a boss
// opens a brief invulnerability window and summons reinforcements; crossing
// index i advances BossPhase.Phase from i to i+1 so the transition fires
// exactly once (spec.md §4.9).
var bossPhaseThresholds = []float64{0.66, 0.33}

// BossPhaseIFrameDuration is the invulnerability window a boss opens on
// each phase transition.
const BossPhaseIFrameDuration = 1.5

// BossPhaseSummonCount is how many fodder adds a boss phase transition
// summons.
const BossPhaseSummonCount = 2

// SystemBossPhase advances a boss's multi-phase HP-threshold state machine:
// the first tick its HP fraction drops at or below the next threshold, it
// opens BossPhaseIFrameDuration of invulnerability and summons
// BossPhaseSummonCount fodder once (spec.md §4.9).
func SystemBossPhase(w *World) error {
	w.Store.Each(ecs.CBossPhase|ecs.CHealth|ecs.CEnemy, func(id ecs.EntityID) {
		if w.Store.Has(id, ecs.CDead) {
			return
		}
		bp := &w.Store.BossPhase[id]
		if int(bp.Phase) >= len(bossPhaseThresholds) {
			return
		}
		h := w.Store.Health[id]
		if h.Max <= 0 {
			return
		}
		frac := h.Current / h.Max
		if frac > bossPhaseThresholds[bp.Phase] {
			return
		}
		bp.Phase++
		w.Store.Health[id].IFrames = BossPhaseIFrameDuration
		for i := 0; i < BossPhaseSummonCount; i++ {
			spawnEnemy(w, ecs.EnemySwarmer, ecs.TierFodder)
		}
	})
	return nil
}
