// Package content holds the default configuration structs a running server
// passes into world.New / run.Controller at construction: skill trees,
// items, and stage/wave rosters. Per spec.md §9's design notes these are
// deliberately kept outside the simulation core (no AssetLoader-style
// singleton registry lives in internal/world) so the core only ever
// consumes plain configuration values supplied by its caller.
package content

import (
	"github.com/jacogrande/high-noon-sub002/internal/ecs"
	"github.com/jacogrande/high-noon-sub002/internal/progression"
	"github.com/jacogrande/high-noon-sub002/internal/run"
	"github.com/jacogrande/high-noon-sub002/internal/tilemap"
)

// DefaultSkillTree returns the Gunslinger skill tree used by every
// character until per-character trees are content-authored. Node ids and
// modifier values match spec.md §8's S6 worked example (tin_star,
// quick_reload) plus a gated iron_skin tier-1 follow-up.
func DefaultSkillTree() *progression.Tree {
	return progression.NewTree([]progression.Node{
		{
			ID: "tin_star", Branch: "defense", Tier: 0, Implemented: true,
			Modifiers: []progression.Modifier{{Stat: progression.StatMaxHP, Op: progression.OpAdd, Value: 2}},
		},
		{
			ID: "iron_skin", Branch: "defense", Tier: 1, Implemented: true,
			Modifiers: []progression.Modifier{{Stat: progression.StatMaxHP, Op: progression.OpAdd, Value: 10}},
		},
		{
			ID: "quick_reload", Branch: "utility", Tier: 0, Implemented: true,
			Modifiers: []progression.Modifier{{Stat: progression.StatReloadTime, Op: progression.OpMul, Value: 0.6}},
		},
		{
			ID: "hot_loads", Branch: "offense", Tier: 0, Implemented: true,
			Modifiers: []progression.Modifier{{Stat: progression.StatBulletDamage, Op: progression.OpMul, Value: 1.15}},
		},
		{
			ID: "fanning", Branch: "offense", Tier: 1, Implemented: true,
			Modifiers: []progression.Modifier{{Stat: progression.StatFireRate, Op: progression.OpMul, Value: 1.2}},
		},
		// deadeye's behavioral effect (bonus crit on marked targets) has no
		// hook handler yet; it stays unavailable without erroring per
		// spec.md §7's content-not-yet-implemented category.
		{ID: "deadeye", Branch: "offense", Tier: 2, Implemented: false, EffectID: "deadeye_crit"},
	})
}

// SpeedLoader is the brass-tier stash item referenced in spec.md §8's S6
// stacking example: reloadTime *0.7, unique (does not stack further).
var SpeedLoader = &progression.Item{
	ID: "speed_loader", MaxStack: 1,
	Stat: progression.StatReloadTime, Op: progression.OpMul, Stack: progression.Unique(0.7),
}

// LuckyRabbitFoot is a silver-tier item that stacks with diminishing
// returns on fire rate.
var LuckyRabbitFoot = &progression.Item{
	ID: "lucky_rabbit_foot", MaxStack: 5,
	Stat: progression.StatFireRate, Op: progression.OpMul, Stack: progression.Hyperbolic(0.25),
}

// ItemsByRarity groups the default item table for the economy's
// stash-reward roll (spec.md §4.12's rarity table).
func ItemsByRarity() map[string][]*progression.Item {
	return map[string][]*progression.Item{
		"brass":  {SpeedLoader},
		"silver": {LuckyRabbitFoot},
	}
}

// DefaultMapConfig is the procedural map config shared by every arena
// stage (spec.md §6 "Procedural map generation").
func DefaultMapConfig() tilemap.MapConfig {
	cfg := tilemap.MapConfig{
		Width: 60, Height: 40, TileSize: 32,
		CenterClearRadius: 4,
		Hazards: []tilemap.HazardRule{
			{TileType: tilemap.Lava, NoiseThreshold: 0.72, NoiseCellSize: 6, MaxCoverage: 0.05},
			{TileType: tilemap.Bramble, NoiseThreshold: 0.6, NoiseCellSize: 5, MaxCoverage: 0.08},
			{TileType: tilemap.Mud, NoiseThreshold: 0.55, NoiseCellSize: 4, MaxCoverage: 0.1},
		},
	}
	cfg.Obstacles.Count = 40
	cfg.Obstacles.MinSpacing = 3
	cfg.Obstacles.Templates = []tilemap.ObstacleTemplate{
		{Width: 1, Height: 1}, {Width: 2, Height: 1}, {Width: 1, Height: 2}, {Width: 2, Height: 2},
	}
	return cfg
}

// CampMapConfig is the small, hazard-free layout generated at camp
// transitions (spec.md §4.11): a single clearing with no hazard scatter.
func CampMapConfig() tilemap.MapConfig {
	cfg := tilemap.MapConfig{
		Width: 24, Height: 16, TileSize: 32,
		CenterClearRadius: 6,
	}
	cfg.Obstacles.Count = 6
	cfg.Obstacles.MinSpacing = 3
	cfg.Obstacles.Templates = []tilemap.ObstacleTemplate{{Width: 1, Height: 1}}
	return cfg
}

// DefaultRun builds a three-stage run with an escalating fodder/threat
// roster, the shape spec.md §4.11 describes as "finite counts" of threats
// per wave and a weighted fodder pool per wave.
func DefaultRun() []run.StageConfig {
	swarmerPool := []run.FodderEntry{
		{Type: ecs.EnemySwarmer, Weight: 6, Cost: 1},
		{Type: ecs.EnemyRanged, Weight: 3, Cost: 2},
		{Type: ecs.EnemyCharger, Weight: 1, Cost: 3},
	}
	wave := func(budget, maxAlive int, threats []run.ThreatEntry, delay float64) run.WaveConfig {
		return run.WaveConfig{
			FodderBudget: budget, FodderPool: swarmerPool, MaxFodderAlive: maxAlive,
			Threats: threats, SpawnDelay: delay, ThreatClearRatio: 0.8,
		}
	}
	return []run.StageConfig{
		{Waves: []run.WaveConfig{
			wave(20, 6, []run.ThreatEntry{{Type: ecs.EnemyCharger, Count: 1}}, 0),
			wave(30, 8, []run.ThreatEntry{{Type: ecs.EnemyCharger, Count: 2}}, 3),
		}},
		{Waves: []run.WaveConfig{
			wave(40, 10, []run.ThreatEntry{{Type: ecs.EnemyRanged, Count: 2}}, 0),
			wave(55, 12, []run.ThreatEntry{{Type: ecs.EnemyBomber, Count: 1}, {Type: ecs.EnemyCharger, Count: 2}}, 3),
		}},
		{Waves: []run.WaveConfig{
			wave(70, 14, []run.ThreatEntry{{Type: ecs.EnemyBoss, Count: 1}}, 2),
		}},
	}
}
