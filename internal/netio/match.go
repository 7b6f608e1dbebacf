// Package netio is the per-match driver that owns one world.World, runs
// its fixed-timestep loop on a ticker, and exposes the thread-safe surface
// the HTTP/WebSocket layer needs: player join/leave, input submission, and
// read-only snapshots. Grounded on the teacher's internal/game/engine.go
// (Engine.Start/Stop/tick under a single mutex, ticker-driven), generalized
// to also watch the run controller's phase and regenerate the tilemap/POI
// layout on stage and camp transitions, since that orchestration sits
// above the simulation core by spec.md §9's design notes.
package netio

import (
	"log"
	"sync"
	"time"

	"github.com/jacogrande/high-noon-sub002/internal/config"
	"github.com/jacogrande/high-noon-sub002/internal/content"
	"github.com/jacogrande/high-noon-sub002/internal/ecs"
	"github.com/jacogrande/high-noon-sub002/internal/economy"
	"github.com/jacogrande/high-noon-sub002/internal/progression"
	"github.com/jacogrande/high-noon-sub002/internal/run"
	"github.com/jacogrande/high-noon-sub002/internal/tilemap"
	"github.com/jacogrande/high-noon-sub002/internal/world"
)

// MatchConfig bundles everything needed to start a fresh run.
type MatchConfig struct {
	Seed        uint32
	Limits      config.ResourceLimits
	StageMap    tilemap.MapConfig
	CampMap     tilemap.MapConfig
	Stages      []run.StageConfig
	StashCounts []int // per-stage stash count passed to tilemap.GeneratePOI
}

// DefaultMatchConfig wires the content package's default stage roster,
// map config, and item table, the configuration a freshly started server
// uses absent any content-authoring override.
func DefaultMatchConfig(seed uint32) MatchConfig {
	stages := content.DefaultRun()
	stashCounts := make([]int, len(stages))
	for i := range stashCounts {
		stashCounts[i] = 3
	}
	return MatchConfig{
		Seed:        seed,
		Limits:      config.DefaultLimits(),
		StageMap:    content.DefaultMapConfig(),
		CampMap:     content.CampMapConfig(),
		Stages:      stages,
		StashCounts: stashCounts,
	}
}

// Match owns a world, its system pipeline, and the tick loop.
type Match struct {
	mu       sync.RWMutex
	w        *world.World
	pipeline []world.System
	cfg      MatchConfig
	tree     *progression.Tree

	prevPhase run.Phase

	ticker   *time.Ticker
	stopChan chan struct{}
	running  bool
}

// NewMatch builds stage 0's tilemap and POI layout and constructs a world
// ready to step.
func NewMatch(cfg MatchConfig) *Match {
	tm := tilemap.GenerateMap(cfg.StageMap, cfg.Seed, 0)

	w := world.New(world.Config{
		WorldWidth:  tm.Width * tm.TileSize,
		WorldHeight: tm.Height * tm.TileSize,
		TileSize:    tm.TileSize,
		Limits:      cfg.Limits,
		Tilemap:     tm,
		Seed:        cfg.Seed,
		StageIndex:  0,
		TotalStages: len(cfg.Stages),
		ItemTable:   itemTableFromContent(),
	})
	w.Run.SetStages(cfg.Stages, cfg.Seed)
	applyPOI(w, tm, cfg, 0)

	m := &Match{
		w:         w,
		pipeline:  world.Pipeline(),
		cfg:       cfg,
		tree:      content.DefaultSkillTree(),
		prevPhase: w.Run.Phase,
		stopChan:  make(chan struct{}),
	}
	return m
}

func itemTableFromContent() map[economy.ItemRarity][]*progression.Item {
	byName := content.ItemsByRarity()
	return map[economy.ItemRarity][]*progression.Item{
		economy.RarityBrass:  byName["brass"],
		economy.RaritySilver: byName["silver"],
	}
}

// Start begins the tick loop at 60Hz. It is safe to call once per Match.
func (m *Match) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.ticker = time.NewTicker(time.Second / 60)
	m.mu.Unlock()

	go func() {
		for {
			select {
			case <-m.ticker.C:
				m.tick()
			case <-m.stopChan:
				return
			}
		}
	}()
	log.Println("match started at 60 ticks/sec")
}

// Stop halts the tick loop.
func (m *Match) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	m.ticker.Stop()
	close(m.stopChan)
}

func (m *Match) tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := world.Step(m.w, m.pipeline); err != nil {
		log.Printf("simulation invariant violation: %v", err)
		return
	}
	m.handlePhaseTransition()
}

// handlePhaseTransition regenerates the tilemap and POI layout whenever
// the run controller's phase crosses into Camp (end of stage) or back into
// Active (ride-out to the next stage), per spec.md §4.11. Entering Camp
// also despawns every surviving enemy: a threatClearRatio below 1.0 can
// leave threats alive when a wave advances, and camp is defined as a safe
// area no enemy may occupy.
func (m *Match) handlePhaseTransition() {
	phase := m.w.Run.Phase
	if phase == m.prevPhase {
		return
	}
	switch phase {
	case run.PhaseCamp:
		m.w.DespawnAllEnemies()
		tm := tilemap.GenerateMap(m.cfg.CampMap, m.cfg.Seed, m.w.Run.StageIndex)
		m.w.SetTilemap(tm, float64(tm.Width*tm.TileSize), float64(tm.Height*tm.TileSize))
		m.w.RelocatePlayersToCenter()
		poi := tilemap.GeneratePOI(tm, m.cfg.Seed, m.w.Run.StageIndex, 0)
		m.w.Econ.SetLayout(poi.SalesmanX, poi.SalesmanY, poi.Stashes)
		m.w.HealAllPlayers()
	case run.PhaseActive:
		if m.prevPhase == run.PhaseCamp {
			applyPOI(m.w, nil, m.cfg, m.w.Run.StageIndex)
		}
	}
	m.prevPhase = phase
}

// applyPOI regenerates (or reuses, for stage 0, the already-generated tm)
// the stage's tilemap and installs its salesman/stash layout.
func applyPOI(w *world.World, tm *tilemap.Tilemap, cfg MatchConfig, stageIndex int) {
	if tm == nil {
		tm = tilemap.GenerateMap(cfg.StageMap, cfg.Seed, stageIndex)
		w.SetTilemap(tm, float64(tm.Width*tm.TileSize), float64(tm.Height*tm.TileSize))
		w.RelocatePlayersToCenter()
	}
	stashCount := 3
	if stageIndex < len(cfg.StashCounts) {
		stashCount = cfg.StashCounts[stageIndex]
	}
	poi := tilemap.GeneratePOI(tm, cfg.Seed, stageIndex, stashCount)
	w.Econ.SetLayout(poi.SalesmanX, poi.SalesmanY, poi.Stashes)
}

// AddPlayer joins a new player at the current tilemap's center.
func (m *Match) AddPlayer(characterID string) ecs.EntityID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.w.AddPlayer(characterID, m.tree)
}

// RemovePlayer removes a connected player.
func (m *Match) RemovePlayer(id ecs.EntityID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.w.RemovePlayer(id)
}

// SubmitInput buffers a player's latest input sample.
func (m *Match) SubmitInput(id ecs.EntityID, in world.InputState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.w.SubmitInput(id, in)
}

// ConfirmRideOut is called when a connected player confirms leaving camp.
func (m *Match) ConfirmRideOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.w.Run.ConfirmRideOut()
}

// Snapshot returns a copy of the current tick's observable state.
func (m *Match) Snapshot() world.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.w.BuildSnapshot()
}

// DebugState returns the human-readable debug summary; it satisfies
// api.StateProvider.
func (m *Match) DebugState() interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.w.DebugState()
}

// PlayerGoldShovels reports a player's economy bookkeeping, used by the
// HUD exposure surface (spec.md §6).
func (m *Match) PlayerGoldShovels(id ecs.EntityID) (gold, shovels int, feedback string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pr, ok := m.w.Players[id]
	if !ok {
		return 0, 0, ""
	}
	return pr.Gold, pr.Shovels, pr.Interaction.FeedbackText
}
