package world

import "github.com/jacogrande/high-noon-sub002/internal/ecs"

// EnemyProfile is one enemy type's static behavior parameters. Per spec.md's
// design notes, per-type tables live in arrays indexed by the type enum
// rather than a polymorphic hierarchy.
type EnemyProfile struct {
	MaxHP             float64
	Speed             float64
	Radius            float64
	AggroRange        float64
	AttackRange       float64
	TelegraphDuration float64
	RecoveryDuration  float64
	CooldownDuration  float64
	AttackDuration    float64
	AttackDamage      float64
	PreferredRange    float64 // ranged-orbit behavior; 0 disables orbiting
	LOSRequired       bool
	BudgetCost        uint8
}

// enemyProfiles is indexed by ecs.EnemyType.
var enemyProfiles = [...]EnemyProfile{
	ecs.EnemySwarmer: {
		MaxHP: 20, Speed: 140, Radius: 12,
		AggroRange: 320, AttackRange: 28,
		TelegraphDuration: 0.25, AttackDuration: 0.15, RecoveryDuration: 0.35, CooldownDuration: 0.4,
		AttackDamage: 8, BudgetCost: 1,
	},
	ecs.EnemyRanged: {
		MaxHP: 16, Speed: 110, Radius: 12,
		AggroRange: 420, AttackRange: 260,
		TelegraphDuration: 0.4, AttackDuration: 0.2, RecoveryDuration: 0.3, CooldownDuration: 0.9,
		AttackDamage: 10, PreferredRange: 220, LOSRequired: true, BudgetCost: 2,
	},
	ecs.EnemyCharger: {
		MaxHP: 35, Speed: 95, Radius: 16,
		AggroRange: 360, AttackRange: 40,
		TelegraphDuration: 0.6, AttackDuration: 0.3, RecoveryDuration: 0.8, CooldownDuration: 0.6,
		AttackDamage: 18, BudgetCost: 3,
	},
	ecs.EnemyBomber: {
		MaxHP: 22, Speed: 100, Radius: 14,
		AggroRange: 300, AttackRange: 60,
		TelegraphDuration: 0.8, AttackDuration: 0.25, RecoveryDuration: 0.2, CooldownDuration: 1.2,
		AttackDamage: 30, BudgetCost: 3,
	},
	ecs.EnemyBoss: {
		MaxHP: 800, Speed: 80, Radius: 32,
		AggroRange: 600, AttackRange: 80,
		TelegraphDuration: 0.5, AttackDuration: 0.3, RecoveryDuration: 0.5, CooldownDuration: 0.5,
		AttackDamage: 25, BudgetCost: 0,
	},
}

func profileFor(t ecs.EnemyType) EnemyProfile {
	if int(t) < 0 || int(t) >= len(enemyProfiles) {
		return enemyProfiles[ecs.EnemySwarmer]
	}
	return enemyProfiles[t]
}

// LeashMultiple is how many times aggroRange an enemy will chase before
// losing its target (spec.md §4.9, glossary "Leash").
const LeashMultiple = 2.0
