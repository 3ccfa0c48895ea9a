package world

import (
	"iter"

	"github.com/tilemud/server/internal/core/ecs"
)

// SpatialIndex maps (mapID, x, y) grid cells to the entities occupying them.
// Cells are keyed directly by tile coordinates — query granularity equals
// storage granularity, so no coarser hashing is needed.
//
// Two populations are kept apart: static tiles, indexed once per map load
// and rebuilt only on explicit invalidation, and dynamic entities, cleared
// and re-added wholesale every tick. Between reindex passes a dynamic
// entity's bucket may be one tick stale; dynamic counts are tiny next to
// static tile counts, so that staleness is bounded and cheap.
//
// Accessed only from the simulation goroutine — no locks.
type SpatialIndex struct {
	static  map[cellKey][]ecs.EntityID
	dynamic map[cellKey][]ecs.EntityID

	staticDirty bool
	staticCount int
	dynCount    int
}

type cellKey struct {
	mapID int16
	x     int32
	y     int32
}

// Rect is an inclusive tile-coordinate rectangle.
type Rect struct {
	MinX, MinY int32
	MaxX, MaxY int32
}

func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{
		static:  make(map[cellKey][]ecs.EntityID, 4096),
		dynamic: make(map[cellKey][]ecs.EntityID, 64),
	}
}

// AddStatic registers a tile entity at its cell. Called only by the static
// indexing pass.
func (si *SpatialIndex) AddStatic(id ecs.EntityID, mapID int16, x, y int32) {
	k := cellKey{mapID: mapID, x: x, y: y}
	si.static[k] = append(si.static[k], id)
	si.staticCount++
}

// AddDynamic registers a moving entity at its current cell for this tick.
func (si *SpatialIndex) AddDynamic(id ecs.EntityID, mapID int16, x, y int32) {
	k := cellKey{mapID: mapID, x: x, y: y}
	si.dynamic[k] = append(si.dynamic[k], id)
	si.dynCount++
}

// ClearDynamic resets the dynamic population at the start of a reindex pass.
func (si *SpatialIndex) ClearDynamic() {
	clear(si.dynamic)
	si.dynCount = 0
}

// InvalidateStatic marks the static population dirty. The next indexing
// pass rebuilds it from scratch. Must be called whenever tiles appear or
// disappear outside the normal load path.
func (si *SpatialIndex) InvalidateStatic() {
	si.staticDirty = true
}

// StaticDirty reports whether a rebuild is pending.
func (si *SpatialIndex) StaticDirty() bool {
	return si.staticDirty
}

// RebuildStatic clears all static buckets and repopulates them through the
// supplied fill callback, then clears the dirty flag.
func (si *SpatialIndex) RebuildStatic(fill func(add func(ecs.EntityID, int16, int32, int32))) {
	clear(si.static)
	si.staticCount = 0
	fill(si.AddStatic)
	si.staticDirty = false
}

// DropMap removes every bucket belonging to the map, both populations.
// Used on unload so stale buckets never survive the map they indexed.
func (si *SpatialIndex) DropMap(mapID int16) {
	for k, ids := range si.static {
		if k.mapID == mapID {
			si.staticCount -= len(ids)
			delete(si.static, k)
		}
	}
	for k, ids := range si.dynamic {
		if k.mapID == mapID {
			si.dynCount -= len(ids)
			delete(si.dynamic, k)
		}
	}
}

// QueryPoint returns a lazy, restartable sequence of the entities registered
// at exactly (mapID, x, y): static tiles first, then dynamic entities.
func (si *SpatialIndex) QueryPoint(mapID int16, x, y int32) iter.Seq[ecs.EntityID] {
	k := cellKey{mapID: mapID, x: x, y: y}
	return func(yield func(ecs.EntityID) bool) {
		for _, id := range si.static[k] {
			if !yield(id) {
				return
			}
		}
		for _, id := range si.dynamic[k] {
			if !yield(id) {
				return
			}
		}
	}
}

// QueryRect returns a lazy sequence over every cell intersecting bounds.
func (si *SpatialIndex) QueryRect(mapID int16, bounds Rect) iter.Seq[ecs.EntityID] {
	return func(yield func(ecs.EntityID) bool) {
		for y := bounds.MinY; y <= bounds.MaxY; y++ {
			for x := bounds.MinX; x <= bounds.MaxX; x++ {
				k := cellKey{mapID: mapID, x: x, y: y}
				for _, id := range si.static[k] {
					if !yield(id) {
						return
					}
				}
				for _, id := range si.dynamic[k] {
					if !yield(id) {
						return
					}
				}
			}
		}
	}
}

// Diagnostics returns the total indexed entity count and the number of
// occupied cells across both populations.
func (si *SpatialIndex) Diagnostics() (entityCount, occupiedCellCount int) {
	return si.staticCount + si.dynCount, len(si.static) + len(si.dynamic)
}
