package tilemap

import (
	"math"
	"testing"
)

func TestBorderIsSolid(t *testing.T) {
	tm := New(10, 10, 32)
	for c := 0; c < 10; c++ {
		tm.SetSolid(c, 0, Wall)
		tm.SetSolid(c, 9, Wall)
	}
	if !tm.SolidAt(0, 0) {
		t.Fatal("corner should be solid")
	}
	if tm.SolidAt(5, 5) {
		t.Fatal("interior should not be solid by default")
	}
}

func TestOutOfBoundsIsSolid(t *testing.T) {
	tm := New(5, 5, 32)
	if !tm.SolidAt(-1, 0) || !tm.SolidAt(5, 0) {
		t.Fatal("out of bounds must report solid")
	}
}

func TestTileCost(t *testing.T) {
	tm := New(3, 3, 32)
	tm.SetFloor(1, 1, Lava)
	if tm.TileCost(1, 1) != LavaPathfindCost {
		t.Fatalf("expected lava cost %d, got %d", LavaPathfindCost, tm.TileCost(1, 1))
	}
	if tm.TileCost(0, 0) != FloorCost {
		t.Fatalf("expected floor cost %d, got %d", FloorCost, tm.TileCost(0, 0))
	}
}

func TestGenerateMapDeterministic(t *testing.T) {
	cfg := MapConfig{
		Width: 40, Height: 40, TileSize: 32, CenterClearRadius: 4,
	}
	cfg.Obstacles.Count = 10
	cfg.Obstacles.MinSpacing = 3
	cfg.Obstacles.Templates = []ObstacleTemplate{{Width: 2, Height: 2}, {Width: 3, Height: 1}}
	cfg.Hazards = []HazardRule{{TileType: Lava, NoiseThreshold: 0.8, NoiseCellSize: 4, MaxCoverage: 0.1}}

	a := GenerateMap(cfg, 42, 0)
	b := GenerateMap(cfg, 42, 0)

	for c := 0; c < cfg.Width; c++ {
		for r := 0; r < cfg.Height; r++ {
			if a.SolidAt(c, r) != b.SolidAt(c, r) {
				t.Fatalf("solid layer diverged at (%d,%d)", c, r)
			}
			if a.FloorAt(c, r) != b.FloorAt(c, r) {
				t.Fatalf("floor layer diverged at (%d,%d)", c, r)
			}
		}
	}

	centerCol, centerRow := cfg.Width/2, cfg.Height/2
	if a.SolidAt(centerCol, centerRow) {
		t.Fatal("center must remain clear")
	}
}

func TestGeneratePOIRespectsSpacing(t *testing.T) {
	cfg := MapConfig{Width: 30, Height: 30, TileSize: 32, CenterClearRadius: 3}
	tm := GenerateMap(cfg, 1, 0)
	layout := GeneratePOI(tm, 1, 0, 3)

	if layout.SalesmanX == 0 && layout.SalesmanY == 0 {
		t.Fatal("salesman should be placed on a walkable tile")
	}

	// Every stash tier requires at least 2 tiles to every POI placed before
	// it, so no two POIs may sit closer than that.
	points := append([][2]float64{{layout.SalesmanX, layout.SalesmanY}}, layout.Stashes...)
	minDist := 2.0 * float64(cfg.TileSize)
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			if d := math.Hypot(points[i][0]-points[j][0], points[i][1]-points[j][1]); d < minDist {
				t.Fatalf("POIs %d and %d are %v apart, closer than %v", i, j, d, minDist)
			}
		}
	}
}
