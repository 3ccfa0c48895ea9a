package world

import "github.com/tilemud/server/internal/data"

// CollisionTable answers walkability queries over per-map collision grids.
// Grids are registered at map load and dropped at unload; queries are pure
// and safe to call at any frequency from the simulation goroutine.
type CollisionTable struct {
	grids map[int16]*data.CollisionGrid

	// defaultWalkable decides maps with no registered grid. The inherited
	// behavior is true (everything walkable); configurable because that
	// default silently permits movement anywhere on a map whose collision
	// data failed to ship.
	defaultWalkable bool
}

func NewCollisionTable(defaultWalkable bool) *CollisionTable {
	return &CollisionTable{
		grids:           make(map[int16]*data.CollisionGrid, 8),
		defaultWalkable: defaultWalkable,
	}
}

// Register installs a map's grid. The grid must not be mutated afterwards.
func (t *CollisionTable) Register(mapID int16, grid *data.CollisionGrid) {
	if grid == nil {
		return
	}
	t.grids[mapID] = grid
}

// Remove drops a map's grid on unload.
func (t *CollisionTable) Remove(mapID int16) {
	delete(t.grids, mapID)
}

// Has reports whether a grid is registered for the map.
func (t *CollisionTable) Has(mapID int16) bool {
	_, ok := t.grids[mapID]
	return ok
}

// IsWalkable reports whether (x, y) on the map permits movement.
// Out-of-bounds coordinates are false, never an error. A map with no grid
// at all answers the configured default.
func (t *CollisionTable) IsWalkable(mapID int16, x, y int32) bool {
	grid, ok := t.grids[mapID]
	if !ok {
		return t.defaultWalkable
	}
	if x < 0 || y < 0 || x >= grid.Width || y >= grid.Height {
		return false
	}
	return !grid.Solid(x, y)
}
