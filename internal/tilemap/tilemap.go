// Package tilemap implements the multi-layer 2-D grid the simulation walks,
// collides against, and pathfinds over: a solid layer and a floor layer
// (with hazard variants), queried by integer tile coordinate.
package tilemap

// TileType is a fixed numeric tile id shared verbatim between the solid and
// floor layers; callers interpret a given value according to which layer
// they read it from.
type TileType uint8

const (
	Empty    TileType = 0
	Wall     TileType = 1
	Floor    TileType = 2
	HalfWall TileType = 3
	Lava     TileType = 4
	Mud      TileType = 5
	Bramble  TileType = 6
)

// LavaPathfindCost, BrambleCost and MudCost are the flow-field transition
// costs per step onto a tile of that type; Floor costs 1.
const (
	FloorCost   = 1
	LavaPathfindCost = 10
	BrambleCost = 5
	MudCost     = 3
)

// Layer is one plane of tile data: layer 0 is the solid layer, layer 1 is
// the floor layer, per the wire-format contract in spec.md §6.
type Layer struct {
	Solid bool
	Data  []uint8
}

// Tilemap is a width×height grid of tiles addressed by (col, row). It owns
// its own backing layers; every Tilemap the match driver hands to the
// world is a fresh value from generation, never mutated by simulation
// systems in place (tiles only change between stages).
type Tilemap struct {
	Width, Height int
	TileSize      int
	Layers        []Layer
}

// New allocates a blank tilemap of the given tile dimensions with a solid
// layer (layer 0) and a floor layer (layer 1), both initialized to Empty.
func New(width, height, tileSize int) *Tilemap {
	solid := Layer{Solid: true, Data: make([]uint8, width*height)}
	floor := Layer{Solid: false, Data: make([]uint8, width*height)}
	return &Tilemap{Width: width, Height: height, TileSize: tileSize, Layers: []Layer{solid, floor}}
}

func (t *Tilemap) inBounds(col, row int) bool {
	return col >= 0 && col < t.Width && row >= 0 && row < t.Height
}

func (t *Tilemap) idx(col, row int) int { return row*t.Width + col }

// SolidAt reports whether the solid layer blocks the given tile. Out-of-
// bounds tiles are solid (the world is walled on all sides by construction,
// but this guards against degenerate generator output).
func (t *Tilemap) SolidAt(col, row int) bool {
	if !t.inBounds(col, row) {
		return true
	}
	v := TileType(t.Layers[0].Data[t.idx(col, row)])
	return v == Wall || v == HalfWall
}

// HalfWallAt reports whether the tile is specifically a half-wall, which is
// solid on the ground but passable to airborne entities.
func (t *Tilemap) HalfWallAt(col, row int) bool {
	if !t.inBounds(col, row) {
		return false
	}
	return TileType(t.Layers[0].Data[t.idx(col, row)]) == HalfWall
}

// FloorAt returns the floor-layer tile type at (col, row), or Wall if out
// of bounds (treated as impassable by callers that only check SolidAt for
// walkability anyway).
func (t *Tilemap) FloorAt(col, row int) TileType {
	if !t.inBounds(col, row) {
		return Wall
	}
	return TileType(t.Layers[1].Data[t.idx(col, row)])
}

// SetSolid writes the solid-layer tile type at (col, row).
func (t *Tilemap) SetSolid(col, row int, v TileType) {
	if !t.inBounds(col, row) {
		return
	}
	t.Layers[0].Data[t.idx(col, row)] = uint8(v)
}

// SetFloor writes the floor-layer tile type at (col, row).
func (t *Tilemap) SetFloor(col, row int, v TileType) {
	if !t.inBounds(col, row) {
		return
	}
	t.Layers[1].Data[t.idx(col, row)] = uint8(v)
}

// Walkable reports whether a tile can be entered by a grounded entity: not
// solid (walls/half-walls block ground movement alike for pathfinding
// purposes, since the flow field is a ground-agent aid).
func (t *Tilemap) Walkable(col, row int) bool {
	if !t.inBounds(col, row) {
		return false
	}
	return !t.SolidAt(col, row)
}

// TileCost returns the flow-field transition cost of stepping onto
// (col, row), used by the BFS in package spatial. The cost comes from the
// floor layer only, so a solid tile still reports its floor's cost (1 when
// the floor is plain); callers filter solid tiles via Walkable first.
func (t *Tilemap) TileCost(col, row int) int {
	switch t.FloorAt(col, row) {
	case Lava:
		return LavaPathfindCost
	case Bramble:
		return BrambleCost
	case Mud:
		return MudCost
	default:
		return FloorCost
	}
}

// WorldToTile converts a world-space coordinate to the tile it falls in.
func (t *Tilemap) WorldToTile(x, y float64) (col, row int) {
	return int(x) / t.TileSize, int(y) / t.TileSize
}

// TileCenter returns the world-space center of a tile.
func (t *Tilemap) TileCenter(col, row int) (x, y float64) {
	half := float64(t.TileSize) / 2
	return float64(col*t.TileSize) + half, float64(row*t.TileSize) + half
}
