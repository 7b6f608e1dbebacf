// Package config provides the world, resource-limit, and server settings,
// with environment-variable overrides. Gameplay tuning constants (enemy
// tables, weapon, movement, and economy values) are defined in the
// packages that use them, not here.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// WORLD CONFIGURATION
// =============================================================================

// WorldConfig holds the simulation's tick rate and arena dimensions.
type WorldConfig struct {
	TickRate    int // simulation steps per second; spec.md mandates 60
	WorldWidth  int // pixels
	WorldHeight int // pixels
	TileSize    int // pixels per tile
}

// DefaultWorld returns the default world configuration.
func DefaultWorld() WorldConfig {
	return WorldConfig{
		TickRate:    60,
		WorldWidth:  2560,
		WorldHeight: 1440,
		TileSize:    32,
	}
}

// WorldFromEnv returns world configuration with environment variable
// overrides.
func WorldFromEnv() WorldConfig {
	cfg := DefaultWorld()

	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if w := getEnvInt("WORLD_WIDTH", 0); w > 0 {
		cfg.WorldWidth = w
	}
	if h := getEnvInt("WORLD_HEIGHT", 0); h > 0 {
		cfg.WorldHeight = h
	}
	if ts := getEnvInt("TILE_SIZE", 0); ts > 0 {
		cfg.TileSize = ts
	}

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits holds sizing limits for world-owned collections. The world
// uses MaxTotalPlayers, MaxEnemiesAlive, and MaxBulletsAlive only to size
// its entity store and spatial grid; no join, spawn, or shot is refused
// when a live count reaches them. MaxStashesPerRun, MaxSkillNodes, and
// MaxPendingInputs are not read by any package.
type ResourceLimits struct {
	MaxTotalPlayers  int // connected players
	MaxEnemiesAlive  int // live enemy entities
	MaxBulletsAlive  int // live bullet entities
	MaxStashesPerRun int // interactable stash points per stage
	MaxSkillNodes    int // nodes per character's skill tree
	MaxPendingInputs int // buffered-but-unprocessed inputs per player
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxTotalPlayers:  64,
		MaxEnemiesAlive:  400,
		MaxBulletsAlive:  2000,
		MaxStashesPerRun: 12,
		MaxSkillNodes:    64,
		MaxPendingInputs: 32,
	}
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP/debug server settings.
type ServerConfig struct {
	Port       int
	MaxPlayers int
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:       3000,
		MaxPlayers: 64,
	}
}

// ServerFromEnv returns server configuration with environment variable
// overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if mp := getEnvInt("MAX_PLAYERS", 0); mp > 0 {
		cfg.MaxPlayers = mp
	}

	return cfg
}

// =============================================================================
// SPATIAL CONFIGURATION
// =============================================================================

// SpatialConfig holds spatial indexing settings.
type SpatialConfig struct {
	GridCellSize int // spatial grid cell size for collision broad-phase, pixels
}

// DefaultSpatial returns the default spatial configuration. Per spec.md
// §4.3 the grid's cell size defaults to the tilemap's tile size.
func DefaultSpatial(tileSize int) SpatialConfig {
	return SpatialConfig{GridCellSize: tileSize}
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	World   WorldConfig
	Server  ServerConfig
	Limits  ResourceLimits
	Spatial SpatialConfig
}

// DefaultAppConfig returns the complete default configuration, with no
// environment overlay — used by tests that need reproducible config.
func DefaultAppConfig() AppConfig {
	world := DefaultWorld()
	return AppConfig{
		World:   world,
		Server:  DefaultServer(),
		Limits:  DefaultLimits(),
		Spatial: DefaultSpatial(world.TileSize),
	}
}

// LoadAppConfig returns the complete configuration with environment
// overrides layered on top of the defaults.
func LoadAppConfig() AppConfig {
	world := WorldFromEnv()
	return AppConfig{
		World:   world,
		Server:  ServerFromEnv(),
		Limits:  DefaultLimits(),
		Spatial: DefaultSpatial(world.TileSize),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
