package tilemap

import (
	"math"

	"github.com/jacogrande/high-noon-sub002/internal/rng"
)

// ObstacleTemplate is a rectangular block of wall tiles stamped onto the
// map during generation.
type ObstacleTemplate struct {
	Width, Height int
}

// HazardRule scatters a single hazard tile type via thresholded value noise.
type HazardRule struct {
	TileType      TileType
	NoiseThreshold float64
	NoiseCellSize  int
	MaxCoverage    float64 // fraction of floor tiles this rule may claim
}

// MapConfig parameterizes procedural stage generation (spec.md §6).
type MapConfig struct {
	Width, Height     int
	TileSize          int
	CenterClearRadius int
	Obstacles         struct {
		Count       int
		MinSpacing  int
		Templates   []ObstacleTemplate
	}
	Hazards []HazardRule
}

// GenerateMap builds a stage's tilemap deterministically from (cfg, baseSeed,
// stageIndex): border walls, Poisson-like obstacle placement rejecting
// center clearance and mutual spacing, bilinear value-noise hazard scatter,
// then iterative flood-fill from center pruning unreachable pockets.
func GenerateMap(cfg MapConfig, baseSeed uint32, stageIndex int) *Tilemap {
	seed := rng.New(baseSeed).Derive(uint32(stageIndex)).DeriveString("map")
	tm := New(cfg.Width, cfg.Height, cfg.TileSize)

	for c := 0; c < cfg.Width; c++ {
		for r := 0; r < cfg.Height; r++ {
			tm.SetFloor(c, r, Floor)
		}
	}
	for c := 0; c < cfg.Width; c++ {
		tm.SetSolid(c, 0, Wall)
		tm.SetSolid(c, cfg.Height-1, Wall)
	}
	for r := 0; r < cfg.Height; r++ {
		tm.SetSolid(0, r, Wall)
		tm.SetSolid(cfg.Width-1, r, Wall)
	}

	centerX, centerY := cfg.Width/2, cfg.Height/2
	placed := make([][2]int, 0, cfg.Obstacles.Count)

	placeObstacle := func(col, row int, tpl ObstacleTemplate) {
		for dc := 0; dc < tpl.Width; dc++ {
			for dr := 0; dr < tpl.Height; dr++ {
				tm.SetSolid(col+dc, row+dr, Wall)
			}
		}
	}

	for i := 0; i < cfg.Obstacles.Count && len(cfg.Obstacles.Templates) > 0; i++ {
		const maxAttempts = 30
		for attempt := 0; attempt < maxAttempts; attempt++ {
			tplIdx := int(seed.NextInt(uint32(len(cfg.Obstacles.Templates))))
			tpl := cfg.Obstacles.Templates[tplIdx]
			col := 1 + int(seed.NextInt(uint32(maxInt(1, cfg.Width-tpl.Width-2))))
			row := 1 + int(seed.NextInt(uint32(maxInt(1, cfg.Height-tpl.Height-2))))

			cx, cy := float64(col+tpl.Width/2), float64(row+tpl.Height/2)
			distToCenter := math.Hypot(cx-float64(centerX), cy-float64(centerY))
			if int(distToCenter) < cfg.CenterClearRadius {
				continue
			}

			tooClose := false
			for _, p := range placed {
				if math.Hypot(float64(p[0])-cx, float64(p[1])-cy) < float64(cfg.Obstacles.MinSpacing) {
					tooClose = true
					break
				}
			}
			if tooClose {
				continue
			}

			placeObstacle(col, row, tpl)
			placed = append(placed, [2]int{col, row})
			break
		}
	}

	scatterHazards(tm, cfg, seed.DeriveString("hazards"))
	floodFillPrune(tm, centerX, centerY)

	return tm
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// scatterHazards lays hazard tiles via bilinear value-noise thresholding,
// one pass per rule, each capped at MaxCoverage of the walkable floor.
func scatterHazards(tm *Tilemap, cfg MapConfig, seed *rng.PRNG) {
	totalFloor := 0
	for c := 1; c < cfg.Width-1; c++ {
		for r := 1; r < cfg.Height-1; r++ {
			if !tm.SolidAt(c, r) {
				totalFloor++
			}
		}
	}
	if totalFloor == 0 {
		return
	}

	for _, rule := range cfg.Hazards {
		cellSize := rule.NoiseCellSize
		if cellSize < 1 {
			cellSize = 1
		}
		latticeW := cfg.Width/cellSize + 2
		latticeH := cfg.Height/cellSize + 2
		lattice := make([]float64, latticeW*latticeH)
		for i := range lattice {
			lattice[i] = seed.Next()
		}

		maxClaim := int(rule.MaxCoverage * float64(totalFloor))
		claimed := 0

		for c := 1; c < cfg.Width-1 && claimed < maxClaim; c++ {
			for r := 1; r < cfg.Height-1 && claimed < maxClaim; r++ {
				if tm.SolidAt(c, r) {
					continue
				}
				n := bilinearNoise(lattice, latticeW, latticeH, float64(c)/float64(cellSize), float64(r)/float64(cellSize))
				if n >= rule.NoiseThreshold {
					tm.SetFloor(c, r, rule.TileType)
					claimed++
				}
			}
		}
	}
}

func bilinearNoise(lattice []float64, w, h int, x, y float64) float64 {
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := x0+1, y0+1
	fx, fy := x-float64(x0), y-float64(y0)

	at := func(cx, cy int) float64 {
		if cx < 0 {
			cx = 0
		}
		if cx >= w {
			cx = w - 1
		}
		if cy < 0 {
			cy = 0
		}
		if cy >= h {
			cy = h - 1
		}
		return lattice[cy*w+cx]
	}

	top := at(x0, y0)*(1-fx) + at(x1, y0)*fx
	bottom := at(x0, y1)*(1-fx) + at(x1, y1)*fx
	return top*(1-fy) + bottom*fy
}

// floodFillPrune removes walls adjacent to pockets unreachable from the
// center tile, iterating up to 10 times or until the map stops changing.
func floodFillPrune(tm *Tilemap, centerCol, centerRow int) {
	for iter := 0; iter < 10; iter++ {
		reachable := floodReachable(tm, centerCol, centerRow)
		changed := false

		for c := 1; c < tm.Width-1; c++ {
			for r := 1; r < tm.Height-1; r++ {
				if tm.SolidAt(c, r) || reachable[r*tm.Width+c] {
					continue
				}
				// This floor tile is unreachable; open the first solid
				// neighbor found in +x, -x, +y, -y order.
				for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nc, nr := c+d[0], r+d[1]
					if tm.SolidAt(nc, nr) {
						tm.SetSolid(nc, nr, Floor)
						changed = true
						break
					}
				}
			}
		}

		if !changed {
			break
		}
	}
}

func floodReachable(tm *Tilemap, startCol, startRow int) []bool {
	reachable := make([]bool, tm.Width*tm.Height)
	if tm.SolidAt(startCol, startRow) {
		return reachable
	}
	queue := []int{startRow*tm.Width + startCol}
	reachable[startRow*tm.Width+startCol] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		col, row := cur%tm.Width, cur/tm.Width
		for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nc, nr := col+d[0], row+d[1]
			if nc < 0 || nc >= tm.Width || nr < 0 || nr >= tm.Height {
				continue
			}
			idx := nr*tm.Width + nc
			if reachable[idx] || tm.SolidAt(nc, nr) {
				continue
			}
			reachable[idx] = true
			queue = append(queue, idx)
		}
	}
	return reachable
}

// POILayout is the salesman/stash placement the run controller consumes.
type POILayout struct {
	SalesmanX, SalesmanY float64
	Stashes              [][2]float64
}

// GeneratePOI places a salesman and a tiered set of stashes on walkable
// tiles of tm, using a PRNG independent from the map generator's.
func GeneratePOI(tm *Tilemap, baseSeed uint32, stageIndex int, stashCount int) POILayout {
	seed := rng.New(baseSeed).Derive(uint32(stageIndex)).DeriveString("poi")

	walkable := make([][2]int, 0, tm.Width*tm.Height)
	for c := 1; c < tm.Width-1; c++ {
		for r := 1; r < tm.Height-1; r++ {
			if tm.Walkable(c, r) {
				walkable = append(walkable, [2]int{c, r})
			}
		}
	}
	if len(walkable) == 0 {
		cx, cy := tm.TileCenter(tm.Width/2, tm.Height/2)
		return POILayout{SalesmanX: cx, SalesmanY: cy}
	}

	pick := func() (int, int) {
		idx := seed.NextInt(uint32(len(walkable)))
		p := walkable[idx]
		return p[0], p[1]
	}

	sc, sr := pick()
	sx, sy := tm.TileCenter(sc, sr)
	layout := POILayout{SalesmanX: sx, SalesmanY: sy}

	spacingTiers := []int{6, 4, 2}
	placed := [][2]int{{sc, sr}}

	for i := 0; i < stashCount; i++ {
		tier := i
		if tier >= len(spacingTiers) {
			tier = len(spacingTiers) - 1
		}
		minSpacing := spacingTiers[tier]

		const maxAttempts = 40
		for attempt := 0; attempt < maxAttempts; attempt++ {
			c, r := pick()
			ok := true
			for _, p := range placed {
				d := math.Hypot(float64(p[0]-c), float64(p[1]-r))
				if d < float64(minSpacing) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			x, y := tm.TileCenter(c, r)
			layout.Stashes = append(layout.Stashes, [2]float64{x, y})
			placed = append(placed, [2]int{c, r})
			break
		}
	}

	return layout
}
