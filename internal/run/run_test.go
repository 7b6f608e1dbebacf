package run

import (
	"testing"

	"github.com/jacogrande/high-noon-sub002/internal/ecs"
)

func sampleStage() StageConfig {
	return StageConfig{
		Waves: []WaveConfig{
			{
				FodderBudget:     10,
				FodderPool:       []FodderEntry{{Type: ecs.EnemySwarmer, Weight: 1, Cost: 1}},
				MaxFodderAlive:   5,
				Threats:          []ThreatEntry{{Type: ecs.EnemyRanged, Count: 2}},
				SpawnDelay:       0,
				ThreatClearRatio: 1.0,
			},
			{
				FodderBudget:     5,
				FodderPool:       []FodderEntry{{Type: ecs.EnemySwarmer, Weight: 1, Cost: 1}},
				MaxFodderAlive:   3,
				Threats:          []ThreatEntry{{Type: ecs.EnemyCharger, Count: 1}},
				SpawnDelay:       1.0,
				ThreatClearRatio: 1.0,
			},
		},
	}
}

func TestWaveAdvancesOnlyWhenClearedAndFodderGone(t *testing.T) {
	c := NewController(0, 1)
	c.SetStages([]StageConfig{sampleStage()}, 1)

	c.Tick(1.0 / 60) // SpawnDelay 0 so wave starts immediately
	threats := c.ThreatsToSpawn()
	if len(threats) != 1 || threats[0].Count != 2 {
		t.Fatalf("expected 2 ranged threats, got %+v", threats)
	}

	if c.MaybeAdvance() {
		t.Fatal("must not advance before any kills")
	}

	c.ReportThreatKilled()
	if c.MaybeAdvance() {
		t.Fatal("must not advance with only one of two threats killed")
	}

	c.FodderAlive = 1
	c.ReportThreatKilled()
	if c.MaybeAdvance() {
		t.Fatal("must not advance with fodder still alive")
	}

	c.FodderAlive = 0
	if !c.MaybeAdvance() {
		t.Fatal("expected advancement once threats cleared and fodder empty")
	}
	if c.WaveIndex != 1 {
		t.Fatalf("expected wave index 1, got %d", c.WaveIndex)
	}
}

func TestClearingTransitionsToCamp(t *testing.T) {
	stage := StageConfig{Waves: []WaveConfig{{
		Threats: []ThreatEntry{{Type: ecs.EnemySwarmer, Count: 1}}, ThreatClearRatio: 1.0,
	}}}
	c := NewController(0, 2)
	c.SetStages([]StageConfig{stage}, 1)
	c.Tick(0)
	c.ThreatsToSpawn()
	c.ReportThreatKilled()
	c.MaybeAdvance()

	if c.Phase != PhaseClearing {
		t.Fatalf("expected clearing phase, got %v", c.Phase)
	}

	for i := 0; i < 200; i++ {
		c.Tick(1.0 / 60)
	}
	if c.Phase != PhaseCamp {
		t.Fatalf("expected camp phase after clearing timer elapses, got %v", c.Phase)
	}
}

func TestConfirmRideOutAdvancesStageThenCompletes(t *testing.T) {
	c := NewController(0, 1)
	c.Phase = PhaseCamp
	c.ConfirmRideOut()
	if c.Phase != PhaseCompleted {
		t.Fatalf("single-stage run should complete on ride-out, got %v", c.Phase)
	}
}

func TestSampleFodderDecrementsBudget(t *testing.T) {
	c := NewController(0, 1)
	c.SetStages([]StageConfig{sampleStage()}, 2)
	c.Tick(0)
	c.ThreatsToSpawn()

	before := c.FodderBudgetRemaining
	_, ok := c.SampleFodder()
	if !ok {
		t.Fatal("expected a sampled fodder type")
	}
	if c.FodderBudgetRemaining != before-1 {
		t.Fatalf("expected budget to decrement by cost 1, got %d -> %d", before, c.FodderBudgetRemaining)
	}
	if c.FodderAlive != 1 {
		t.Fatalf("expected FodderAlive=1, got %d", c.FodderAlive)
	}
}
