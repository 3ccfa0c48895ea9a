package component

import "time"

// Position is a tile-grid coordinate. Tile entities never move; dynamic
// entities (players, NPCs) update X/Y in place and are re-indexed each tick.
type Position struct {
	X     int32
	Y     int32
	MapID int16
}

// Sprite describes what to draw for one entity: which tileset texture, the
// source rectangle within it, the render layer, and Tiled-style flip flags.
type Sprite struct {
	TilesetID string // texture identifier, resolved by the asset manager
	SrcX      int32
	SrcY      int32
	SrcW      int32
	SrcH      int32
	Layer     int16
	FlipH     bool // horizontal flip
	FlipV     bool // vertical flip
	FlipD     bool // anti-diagonal flip (rotation)
}

// Solid marks a tile entity as blocking. Walkability queries go through the
// per-map collision grid, not this component; Solid exists for gameplay
// systems that inspect individual entities.
type Solid struct{}

// Dynamic marks an entity as moving, so the spatial reindex pass re-adds it
// every tick instead of indexing it once with the static tiles.
type Dynamic struct{}

// AnimationState is the per-entity slice of a shared animation definition:
// a reference to the definition plus this instance's progress. Frame data
// itself lives in the animation registry, never here.
type AnimationState struct {
	AnimationID uint32
	FrameIndex  int
	Elapsed     time.Duration
}
