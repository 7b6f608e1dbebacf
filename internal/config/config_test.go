package config

import (
	"os"
	"testing"
)

func TestDefaultAppConfigTickRateIs60(t *testing.T) {
	cfg := DefaultAppConfig()
	if cfg.World.TickRate != 60 {
		t.Fatalf("spec.md mandates a 60Hz tick rate, got %d", cfg.World.TickRate)
	}
}

func TestSpatialCellSizeDefaultsToTileSize(t *testing.T) {
	cfg := DefaultAppConfig()
	if cfg.Spatial.GridCellSize != cfg.World.TileSize {
		t.Fatalf("grid cell size should default to tile size: %d != %d", cfg.Spatial.GridCellSize, cfg.World.TileSize)
	}
}

func TestWorldFromEnvOverride(t *testing.T) {
	os.Setenv("TICK_RATE", "30")
	defer os.Unsetenv("TICK_RATE")

	cfg := WorldFromEnv()
	if cfg.TickRate != 30 {
		t.Fatalf("expected env override to set TickRate=30, got %d", cfg.TickRate)
	}
}

func TestWorldFromEnvIgnoresInvalid(t *testing.T) {
	os.Setenv("WORLD_WIDTH", "not-a-number")
	defer os.Unsetenv("WORLD_WIDTH")

	cfg := WorldFromEnv()
	if cfg.WorldWidth != DefaultWorld().WorldWidth {
		t.Fatal("invalid env value should fall back to default")
	}
}
