package content

import "testing"

func TestDefaultSkillTreeHasReferencedNodes(t *testing.T) {
	tree := DefaultSkillTree()
	for _, id := range []string{"tin_star", "quick_reload", "iron_skin", "hot_loads", "fanning"} {
		node, ok := tree.Nodes[id]
		if !ok {
			t.Fatalf("expected node %q in default tree", id)
		}
		if !node.Implemented {
			t.Fatalf("expected node %q implemented", id)
		}
	}
	if tree.Nodes["deadeye"].Implemented {
		t.Fatalf("expected deadeye to stay unimplemented until its effect hook exists")
	}
}

func TestItemsByRarityCoversBothTiers(t *testing.T) {
	items := ItemsByRarity()
	if len(items["brass"]) == 0 {
		t.Fatalf("expected at least one brass item")
	}
	if len(items["silver"]) == 0 {
		t.Fatalf("expected at least one silver item")
	}
}

func TestDefaultMapConfigHasObstaclesAndHazards(t *testing.T) {
	cfg := DefaultMapConfig()
	if cfg.Obstacles.Count == 0 {
		t.Fatalf("expected obstacles configured")
	}
	if len(cfg.Obstacles.Templates) == 0 {
		t.Fatalf("expected obstacle templates")
	}
	if len(cfg.Hazards) == 0 {
		t.Fatalf("expected hazard rules")
	}
}

func TestCampMapConfigHasNoHazards(t *testing.T) {
	cfg := CampMapConfig()
	if len(cfg.Hazards) != 0 {
		t.Fatalf("expected camp map to be hazard-free, got %d rules", len(cfg.Hazards))
	}
}

func TestDefaultRunEscalatesAcrossStages(t *testing.T) {
	stages := DefaultRun()
	if len(stages) < 3 {
		t.Fatalf("expected at least 3 stages, got %d", len(stages))
	}
	first := stages[0].Waves[0].FodderBudget
	last := stages[len(stages)-1].Waves[0].FodderBudget
	if last <= first {
		t.Fatalf("expected fodder budget to escalate across stages, first=%d last=%d", first, last)
	}
}
