// Package run implements the stage/wave/camp state machine that drives
// tilemap regeneration, POI layout, and wave progression (spec.md §4.11).
package run

import (
	"github.com/jacogrande/high-noon-sub002/internal/ecs"
	"github.com/jacogrande/high-noon-sub002/internal/rng"
)

// Phase is the run controller's top-level state.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseActive
	PhaseClearing
	PhaseCamp
	PhaseCompleted
)

// FodderEntry is one weighted option in a wave's fodder pool.
type FodderEntry struct {
	Type   ecs.EnemyType
	Weight int
	Cost   uint8
}

// ThreatEntry is a finite, wave-advancement-tracked enemy spawn.
type ThreatEntry struct {
	Type  ecs.EnemyType
	Count int
}

// WaveConfig is one wave's spawn parameters (spec.md §4.11).
type WaveConfig struct {
	FodderBudget      int
	FodderPool        []FodderEntry
	MaxFodderAlive    int
	Threats           []ThreatEntry
	SpawnDelay        float64
	ThreatClearRatio  float64
}

func (w WaveConfig) totalThreats() int {
	n := 0
	for _, t := range w.Threats {
		n += t.Count
	}
	return n
}

// StageConfig is one stage's list of waves.
type StageConfig struct {
	Waves []WaveConfig
}

// Controller is the world-owned run state machine. It holds no reference
// to the ECS store or tilemap directly: the world's waveSpawner system
// reads Controller's current command surface and performs the actual
// entity creation, then reports counts back via the Report* methods. This
// keeps run ignorant of ecs/spatial and free of import cycles.
type Controller struct {
	Stages      []StageConfig
	StageIndex  int
	TotalStages int

	Phase Phase

	WaveIndex             int
	WaveTimer             float64
	waveStarted           bool
	FodderBudgetRemaining int
	FodderAlive           int
	ThreatsAlive          int
	ThreatKillCount       int

	ClearingTimer float64

	rng *rng.PRNG
}

// NewController creates a controller at the given stage, with no waves
// loaded yet; call SetStages before ticking.
func NewController(stageIndex, totalStages int) *Controller {
	return &Controller{StageIndex: stageIndex, TotalStages: totalStages, Phase: PhaseNone}
}

// SetStages installs the stage/wave data and begins stage StageIndex's
// first wave.
func (c *Controller) SetStages(stages []StageConfig, baseSeed uint32) {
	c.Stages = stages
	c.rng = rng.New(baseSeed).Derive(uint32(c.StageIndex))
	c.beginStage()
}

func (c *Controller) beginStage() {
	c.Phase = PhaseActive
	c.WaveIndex = 0
	c.waveStarted = false
	c.ThreatKillCount = 0
	c.FodderAlive = 0
	if c.currentStage() != nil && len(c.currentStage().Waves) > 0 {
		c.WaveTimer = c.currentWave().SpawnDelay
	}
}

func (c *Controller) currentStage() *StageConfig {
	if c.StageIndex < 0 || c.StageIndex >= len(c.Stages) {
		return nil
	}
	return &c.Stages[c.StageIndex]
}

func (c *Controller) currentWave() *WaveConfig {
	stage := c.currentStage()
	if stage == nil || c.WaveIndex < 0 || c.WaveIndex >= len(stage.Waves) {
		return nil
	}
	return &stage.Waves[c.WaveIndex]
}

// CurrentWave exposes the active wave's config, or nil if none.
func (c *Controller) CurrentWave() *WaveConfig { return c.currentWave() }

// Tick decrements timers. It performs no entity mutation.
func (c *Controller) Tick(dt float64) {
	switch c.Phase {
	case PhaseActive:
		if !c.waveStarted {
			c.WaveTimer -= dt
			if c.WaveTimer <= 0 {
				c.waveStarted = true
				if w := c.currentWave(); w != nil {
					c.FodderBudgetRemaining = w.FodderBudget
				}
			}
		}
	case PhaseClearing:
		c.ClearingTimer -= dt
		if c.ClearingTimer <= 0 {
			c.enterCamp()
		}
	}
}

// ThreatsToSpawn returns the wave's threat spawn list exactly once, the
// tick spawning begins; subsequent calls return nil until the next wave
// starts.
func (c *Controller) ThreatsToSpawn() []ThreatEntry {
	if c.Phase != PhaseActive || !c.waveStarted {
		return nil
	}
	w := c.currentWave()
	if w == nil {
		return nil
	}
	if c.ThreatsAlive > 0 || c.ThreatKillCount > 0 {
		return nil // already spawned this wave
	}
	c.ThreatsAlive = w.totalThreats()
	return w.Threats
}

// ShouldSpawnFodder reports whether the wave spawner should spawn another
// fodder enemy this tick.
func (c *Controller) ShouldSpawnFodder() bool {
	if c.Phase != PhaseActive || !c.waveStarted {
		return false
	}
	w := c.currentWave()
	if w == nil {
		return false
	}
	return c.FodderAlive < w.MaxFodderAlive && c.FodderBudgetRemaining > 0
}

// SampleFodder weighted-samples a fodder type from the current wave's pool
// using the controller's derived RNG, decrementing the remaining budget by
// the chosen entry's cost and incrementing FodderAlive.
func (c *Controller) SampleFodder() (ecs.EnemyType, bool) {
	w := c.currentWave()
	if w == nil || len(w.FodderPool) == 0 {
		return 0, false
	}
	total := 0
	for _, e := range w.FodderPool {
		total += e.Weight
	}
	if total <= 0 {
		return 0, false
	}
	roll := int(c.rng.NextInt(uint32(total)))
	for _, e := range w.FodderPool {
		roll -= e.Weight
		if roll < 0 {
			c.FodderBudgetRemaining -= int(e.Cost)
			c.FodderAlive++
			return e.Type, true
		}
	}
	return 0, false
}

// ReportFodderDeath decrements the live fodder count.
func (c *Controller) ReportFodderDeath() {
	if c.FodderAlive > 0 {
		c.FodderAlive--
	}
}

// ReportThreatKilled increments the kill counter that gates wave
// advancement.
func (c *Controller) ReportThreatKilled() {
	c.ThreatKillCount++
	if c.ThreatsAlive > 0 {
		c.ThreatsAlive--
	}
}

// MaybeAdvance checks the wave-advancement condition (spec.md P7): threat
// kills >= ceil(total * threatClearRatio) AND fodderAlive == 0. A
// threatClearRatio below 1.0 intentionally lets a wave advance with some
// threats still alive; those survivors aren't despawned here (run knows
// nothing about the ECS store) but are swept by the caller's
// DespawnAllEnemies step on the clearing-to-camp transition, so none ever
// reach the camp's safe area. On satisfaction this either starts the next
// wave's delay timer or, if no waves remain, transitions to clearing.
func (c *Controller) MaybeAdvance() bool {
	if c.Phase != PhaseActive || !c.waveStarted {
		return false
	}
	w := c.currentWave()
	if w == nil {
		return false
	}
	total := w.totalThreats()
	required := ceilDivFraction(total, w.ThreatClearRatio)
	if c.ThreatKillCount < required || c.FodderAlive != 0 {
		return false
	}

	stage := c.currentStage()
	if c.WaveIndex+1 < len(stage.Waves) {
		c.WaveIndex++
		c.waveStarted = false
		c.ThreatKillCount = 0
		c.ThreatsAlive = 0
		c.WaveTimer = c.currentWave().SpawnDelay
		return true
	}

	c.Phase = PhaseClearing
	c.ClearingTimer = 2.0
	return true
}

func ceilDivFraction(total int, ratio float64) int {
	need := float64(total) * ratio
	whole := int(need)
	if float64(whole) < need {
		whole++
	}
	return whole
}

func (c *Controller) enterCamp() {
	c.Phase = PhaseCamp
	c.FodderAlive = 0
}

// ConfirmRideOut is called when any player confirms leaving camp; it
// advances to the next stage or to Completed if this was the last one.
func (c *Controller) ConfirmRideOut() {
	if c.Phase != PhaseCamp {
		return
	}
	c.StageIndex++
	if c.StageIndex >= c.TotalStages {
		c.Phase = PhaseCompleted
		return
	}
	c.beginStage()
}
