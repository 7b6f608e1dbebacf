package world

import (
	"testing"

	"github.com/jacogrande/high-noon-sub002/internal/config"
	"github.com/jacogrande/high-noon-sub002/internal/ecs"
	"github.com/jacogrande/high-noon-sub002/internal/run"
	"github.com/jacogrande/high-noon-sub002/internal/tilemap"
)

func openWorld(t *testing.T, w, h int) *World {
	t.Helper()
	tm := tilemap.New(w, h, 32)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			tm.SetFloor(col, row, tilemap.Floor)
		}
	}
	cfg := Config{
		WorldWidth: w * 32, WorldHeight: h * 32, TileSize: 32,
		Limits: config.DefaultLimits(), Tilemap: tm, Seed: 42,
		StageIndex: 0, TotalStages: 1,
	}
	return New(cfg)
}

func addTestPlayer(w *World, x, y float64) ecs.EntityID {
	id := w.Store.Create()
	w.Store.Add(id, ecs.CPosition|ecs.CVelocity|ecs.CCollider|ecs.CHealth|ecs.CPlayerTag|ecs.CWeapon|ecs.CCylinder|ecs.CPlayerState)
	w.Store.Position[id] = ecs.Position{X: x, Y: y, PrevX: x, PrevY: y}
	w.Store.Collider[id] = ecs.Collider{Radius: 14, Layer: ecs.LayerPlayer}
	w.Store.Health[id] = ecs.Health{Current: 100, Max: 100}
	w.Store.Weapon[id] = ecs.Weapon{FireRate: 3, BulletDamage: 12, BulletSpeed: 600, Range: 500, LastRoundMultiplier: 1.5}
	w.Store.Cylinder[id] = ecs.Cylinder{Rounds: 6, MaxRounds: 6, ReloadTime: 1.2}
	w.Players[id] = &PlayerRuntime{}
	return id
}

// S1: seed=42, player at arena center, 600 ticks of zero input → stationary,
// HP unchanged, no bullets, flow-field distance at the player's tile is 0.
func TestScenarioS1StationaryWithZeroInput(t *testing.T) {
	w := openWorld(t, 20, 20)
	player := addTestPlayer(w, 320, 320)

	pipeline := Pipeline()
	for i := 0; i < 600; i++ {
		if err := Step(w, pipeline); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	pos := w.Store.Position[player]
	if pos.X != 320 || pos.Y != 320 {
		t.Fatalf("expected player stationary at (320,320), got (%v,%v)", pos.X, pos.Y)
	}
	if w.Store.Health[player].Current != 100 {
		t.Fatalf("expected HP unchanged at 100, got %v", w.Store.Health[player].Current)
	}
	if w.Store.Count(ecs.CBullet) != 0 {
		t.Fatalf("expected no bullets, got %d", w.Store.Count(ecs.CBullet))
	}

	col, row := w.Tilemap.WorldToTile(pos.X, pos.Y)
	dist, _, _ := w.FlowField.Lookup(col, row)
	if dist != 0 {
		t.Fatalf("expected flow-field distance 0 at player's own tile, got %d", dist)
	}
}

// S4: seed=42, player stands on a lava tile for 60 ticks (one second) →
// HP decreases by exactly LavaDPS.
func TestScenarioS4LavaDamagePerSecond(t *testing.T) {
	w := openWorld(t, 10, 10)
	w.Tilemap.SetFloor(5, 5, tilemap.Lava)
	x, y := w.Tilemap.TileCenter(5, 5)
	player := addTestPlayer(w, x, y)

	pipeline := Pipeline()
	for i := 0; i < 60; i++ {
		if err := Step(w, pipeline); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	got := 100 - w.Store.Health[player].Current
	if diff := got - LavaDPS; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("expected HP loss of exactly %v after 60 ticks, got %v", LavaDPS, got)
	}
}

func TestApplyDamageRespectsIFrameImmunity(t *testing.T) {
	w := openWorld(t, 4, 4)
	player := addTestPlayer(w, 64, 64)
	w.Store.Health[player].IFrames = 0.5

	ApplyDamage(w, player, DamageParams{Amount: 50, ClampToZero: true})
	if w.Store.Health[player].Current != 100 {
		t.Fatalf("expected HP unchanged while iframes active, got %v", w.Store.Health[player].Current)
	}

	w.Store.Add(player, ecs.CInvincible)
	w.Store.Health[player].IFrames = 0
	ApplyDamage(w, player, DamageParams{Amount: 50, ClampToZero: true})
	if w.Store.Health[player].Current != 100 {
		t.Fatalf("expected HP unchanged while Invincible, got %v", w.Store.Health[player].Current)
	}
}

func TestApplyDamageReducesHPAndSetsIFrames(t *testing.T) {
	w := openWorld(t, 4, 4)
	player := addTestPlayer(w, 64, 64)
	w.Store.Health[player].IFrameDuration = 0.2

	ApplyDamage(w, player, DamageParams{Amount: 30, SetIframes: true, ClampToZero: true})
	if w.Store.Health[player].Current != 70 {
		t.Fatalf("expected HP 70, got %v", w.Store.Health[player].Current)
	}
	if w.Store.Health[player].IFrames != 0.2 {
		t.Fatalf("expected iframes set to 0.2, got %v", w.Store.Health[player].IFrames)
	}
}

// P4: a bullet removed for range expiry invokes its callback exactly once
// with the expired reason, and purges its side tables.
func TestBulletRemovedOnRangeExpiryInvokesCallbackOnce(t *testing.T) {
	w := openWorld(t, 20, 20)
	shooter := addTestPlayer(w, 100, 100)

	bullet := spawnBullet(w, shooter, 100, 100, 0, 600, 10, 50, ecs.LayerPlayerBullet)

	calls := 0
	var lastKind HitKind
	w.RegisterBulletCallback(bullet, func(r HitResult) {
		calls++
		lastKind = r.Kind
	})

	for i := 0; i < 10 && w.Store.IsAlive(bullet); i++ {
		if err := SystemBullet(w); err != nil {
			t.Fatalf("SystemBullet: %v", err)
		}
	}

	if w.Store.IsAlive(bullet) {
		t.Fatal("expected bullet to be destroyed once its range expired")
	}
	if calls != 1 {
		t.Fatalf("expected exactly one callback invocation, got %d", calls)
	}
	if lastKind != HitRangeExpired {
		t.Fatalf("expected HitRangeExpired, got %v", lastKind)
	}
}

func TestRollCancelsInProgressReload(t *testing.T) {
	w := openWorld(t, 10, 10)
	player := addTestPlayer(w, 64, 64)
	c := &w.Store.Cylinder[player]
	c.Reloading = true
	c.ReloadTimer = 0.5

	w.Players[player].Input = InputState{Buttons: BtnRoll, MoveDirX: 1}
	if err := SystemRoll(w); err != nil {
		t.Fatalf("SystemRoll: %v", err)
	}
	if err := SystemCylinder(w); err != nil {
		t.Fatalf("SystemCylinder: %v", err)
	}

	if c.Reloading || c.ReloadTimer != 0 {
		t.Fatalf("expected roll to clear reload state, got reloading=%v timer=%v", c.Reloading, c.ReloadTimer)
	}
	if !w.Store.Has(player, ecs.CRoll|ecs.CInvincible) {
		t.Fatal("expected Roll and Invincible components after a fresh ROLL press")
	}
}

func TestEmptyCylinderAutoReloads(t *testing.T) {
	w := openWorld(t, 10, 10)
	player := addTestPlayer(w, 64, 64)
	w.Store.Cylinder[player].Rounds = 0

	if err := SystemCylinder(w); err != nil {
		t.Fatalf("SystemCylinder: %v", err)
	}
	if !w.Store.Cylinder[player].Reloading {
		t.Fatal("expected automatic reload to begin when rounds reach zero")
	}
}

func TestWeaponFiresAndConsumesRoundWithLastRoundBonus(t *testing.T) {
	w := openWorld(t, 20, 20)
	player := addTestPlayer(w, 100, 100)
	w.Store.Cylinder[player].Rounds = 1
	w.Players[player].Input = InputState{Buttons: BtnFire}

	if err := SystemWeapon(w); err != nil {
		t.Fatalf("SystemWeapon: %v", err)
	}

	if w.Store.Cylinder[player].Rounds != 0 {
		t.Fatalf("expected round consumed, got %d remaining", w.Store.Cylinder[player].Rounds)
	}
	if w.Store.Count(ecs.CBullet) != 1 {
		t.Fatalf("expected exactly one bullet spawned, got %d", w.Store.Count(ecs.CBullet))
	}
	var dmg float64
	w.Store.Each(ecs.CBullet, func(id ecs.EntityID) { dmg = w.Store.Bullet[id].Damage })
	want := 12.0 * 1.5
	if dmg != want {
		t.Fatalf("expected last-round damage %v, got %v", want, dmg)
	}
}

func TestEnemyDetectionAcquiresWithinAggroRange(t *testing.T) {
	w := openWorld(t, 20, 20)
	_ = addTestPlayer(w, 320, 320)

	enemy := w.Store.Create()
	w.Store.Add(enemy, ecs.CEnemy|ecs.CPosition|ecs.CEnemyAI|ecs.CDetection)
	w.Store.Position[enemy] = ecs.Position{X: 330, Y: 330}
	w.Store.Enemy[enemy] = ecs.Enemy{Type: ecs.EnemySwarmer, Tier: ecs.TierFodder}
	w.Store.EnemyAI[enemy] = ecs.EnemyAI{State: ecs.AIIdle, TargetEID: ecs.NoEntity}
	w.Store.Detection[enemy] = ecs.Detection{AggroRange: 400}

	if err := SystemEnemyDetection(w); err != nil {
		t.Fatalf("SystemEnemyDetection: %v", err)
	}
	if w.Store.EnemyAI[enemy].TargetEID == ecs.NoEntity {
		t.Fatal("expected enemy to acquire the nearby player as a target")
	}
}

func TestWaveSpawnerSpawnsThreatsImmediately(t *testing.T) {
	w := openWorld(t, 20, 20)
	_ = addTestPlayer(w, 320, 320)
	w.Run.SetStages([]run.StageConfig{
		{Waves: []run.WaveConfig{
			{
				FodderBudget:     0,
				MaxFodderAlive:   0,
				Threats:          []run.ThreatEntry{{Type: ecs.EnemySwarmer, Count: 2}},
				SpawnDelay:       0,
				ThreatClearRatio: 1.0,
			},
		}},
	}, 7)

	if err := SystemWaveSpawner(w); err != nil {
		t.Fatalf("SystemWaveSpawner: %v", err)
	}
	if w.Store.Count(ecs.CEnemy) != 2 {
		t.Fatalf("expected the wave's 2 threats to spawn immediately, got %d", w.Store.Count(ecs.CEnemy))
	}
}

// P1: replaying the same seed and input stream through two independent
// worlds must yield identical state hashes at every tick.
func TestDeterminismAcrossIndependentWorlds(t *testing.T) {
	build := func() *World {
		w := openWorld(t, 16, 16)
		player := addTestPlayer(w, 200, 200)
		w.Players[player].Input = InputState{Buttons: BtnFire, MoveDirX: 0.6, MoveDirY: -0.3, AimAngle: 0.4}
		enemy := spawnEnemy(w, ecs.EnemySwarmer, ecs.TierThreat)
		_ = enemy
		return w
	}

	a, b := build(), build()
	pipeline := Pipeline()
	for i := 0; i < 120; i++ {
		if err := Step(a, pipeline); err != nil {
			t.Fatalf("world a step %d: %v", i, err)
		}
		if err := Step(b, pipeline); err != nil {
			t.Fatalf("world b step %d: %v", i, err)
		}
		if a.StateHash() != b.StateHash() {
			t.Fatalf("state hash diverged at tick %d", i)
		}
	}
}
