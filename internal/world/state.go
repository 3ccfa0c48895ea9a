package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tilemud/server/internal/component"
	"github.com/tilemud/server/internal/core/ecs"
	"github.com/tilemud/server/internal/core/event"
	"github.com/tilemud/server/internal/data"
)

// AssetCatalog is the read side of the external asset manager. The loader
// only needs existence checks; loading and freeing texture data happens
// outside this core.
type AssetCatalog interface {
	Has(textureID string) bool
}

// MapRuntime is the live record for one loaded map: its entities and the
// counts reported by the load completion event.
type MapRuntime struct {
	MapID         int16
	Name          string
	Entities      []ecs.EntityID
	TileCount     int
	AnimatedCount int
	ObjectCount   int
	Textures      []string
}

// State owns the entity store, component stores, spatial index, collision
// table, animation registry, and the per-map runtime records. All lookup
// tables that would otherwise be package globals live here, scoped to one
// load/unload lifecycle. Accessed only from the simulation goroutine.
type State struct {
	world *ecs.World

	positions  *ecs.PtrComponentStore[component.Position]
	sprites    *ecs.PtrComponentStore[component.Sprite]
	solids     *ecs.PtrComponentStore[component.Solid]
	animStates *ecs.PtrComponentStore[component.AnimationState]
	dynamics   *ecs.PtrComponentStore[component.Dynamic]

	posPool    *ecs.SlotPool[component.Position]
	spritePool *ecs.SlotPool[component.Sprite]
	animPool   *ecs.SlotPool[component.AnimationState]

	spatial    *SpatialIndex
	collision  *CollisionTable
	animations *AnimationRegistry
	resources  *ResourceTracker
	bus        *event.Bus
	assets     AssetCatalog
	log        *zap.Logger

	mapDir       string
	collisionDir string

	maps map[int16]*MapRuntime
}

// Options configures a State. Directories point at the parsed map documents
// and collision grids; DefaultWalkable decides maps with no collision data.
type Options struct {
	MapDir          string
	CollisionDir    string
	DefaultWalkable bool
}

func NewState(opts Options, assets AssetCatalog, bus *event.Bus, log *zap.Logger) *State {
	s := &State{
		world:        ecs.NewWorld(),
		positions:    ecs.NewPtrComponentStore[component.Position](),
		sprites:      ecs.NewPtrComponentStore[component.Sprite](),
		solids:       ecs.NewPtrComponentStore[component.Solid](),
		animStates:   ecs.NewPtrComponentStore[component.AnimationState](),
		dynamics:     ecs.NewPtrComponentStore[component.Dynamic](),
		posPool:      ecs.NewSlotPool[component.Position](1024),
		spritePool:   ecs.NewSlotPool[component.Sprite](1024),
		animPool:     ecs.NewSlotPool[component.AnimationState](256),
		spatial:      NewSpatialIndex(),
		collision:    NewCollisionTable(opts.DefaultWalkable),
		animations:   NewAnimationRegistry(),
		resources:    NewResourceTracker(),
		bus:          bus,
		assets:       assets,
		log:          log,
		mapDir:       opts.MapDir,
		collisionDir: opts.CollisionDir,
		maps:         make(map[int16]*MapRuntime, 8),
	}
	s.world.Registry().Register(s.positions)
	s.world.Registry().Register(s.sprites)
	s.world.Registry().Register(s.solids)
	s.world.Registry().Register(s.animStates)
	s.world.Registry().Register(s.dynamics)
	return s
}

func (s *State) World() *ecs.World              { return s.world }
func (s *State) Spatial() *SpatialIndex         { return s.spatial }
func (s *State) Collision() *CollisionTable     { return s.collision }
func (s *State) Animations() *AnimationRegistry { return s.animations }
func (s *State) Resources() *ResourceTracker    { return s.resources }

func (s *State) Positions() *ecs.PtrComponentStore[component.Position] { return s.positions }
func (s *State) Sprites() *ecs.PtrComponentStore[component.Sprite]     { return s.sprites }
func (s *State) Solids() *ecs.PtrComponentStore[component.Solid]       { return s.solids }
func (s *State) AnimationStates() *ecs.PtrComponentStore[component.AnimationState] {
	return s.animStates
}
func (s *State) Dynamics() *ecs.PtrComponentStore[component.Dynamic] { return s.dynamics }

// Map returns the runtime record for a loaded map, or nil.
func (s *State) Map(mapID int16) *MapRuntime {
	return s.maps[mapID]
}

// MapCount returns the number of currently loaded maps.
func (s *State) MapCount() int {
	return len(s.maps)
}

// IsWalkable delegates to the collision table.
func (s *State) IsWalkable(mapID int16, x, y int32) bool {
	return s.collision.IsWalkable(mapID, x, y)
}

// LoadMap reads the map document and collision grid for mapID, runs the
// instantiation pipeline, and commits the result. Commit-or-fail: any error
// leaves no entities, no collision grid, and no resource references behind.
func (s *State) LoadMap(mapID int16) (*MapRuntime, error) {
	if _, loaded := s.maps[mapID]; loaded {
		return nil, fmt.Errorf("map %d already loaded", mapID)
	}

	doc, err := data.LoadMapDocument(s.mapDir, mapID)
	if err != nil {
		return nil, err
	}

	grid, err := data.LoadCollisionGrid(s.collisionDir, mapID, doc.Width, doc.Height)
	if err != nil {
		return nil, fmt.Errorf("map %d collision grid: %w", mapID, err)
	}

	rt, err := s.instantiate(doc)
	if err != nil {
		return nil, err
	}

	// Commit. Nothing before this point registered anything visible.
	s.maps[mapID] = rt
	s.collision.Register(mapID, grid)
	s.resources.Acquire(mapID, rt.Textures)
	s.spatial.InvalidateStatic()

	event.Emit(s.bus, event.MapLoaded{
		MapID:         mapID,
		TileCount:     rt.TileCount,
		AnimatedCount: rt.AnimatedCount,
		ObjectCount:   rt.ObjectCount,
	})
	s.log.Info("map loaded",
		zap.Int16("map", mapID),
		zap.String("name", rt.Name),
		zap.Int("tiles", rt.TileCount),
		zap.Int("animated", rt.AnimatedCount),
		zap.Int("objects", rt.ObjectCount),
	)
	return rt, nil
}

// UnloadMap bulk-destroys the map's entities — tiles and any dynamic
// entities still standing on it — recycling their component slots, drops
// its spatial buckets and collision grid, and releases its texture
// references. Entities die at the next cleanup flush.
func (s *State) UnloadMap(mapID int16) error {
	rt, ok := s.maps[mapID]
	if !ok {
		return fmt.Errorf("map %d not loaded", mapID)
	}

	for _, id := range rt.Entities {
		s.recycleComponents(id)
	}
	s.world.MarkAllForDestruction(rt.Entities)

	// Dynamic entities are not in rt.Entities; sweep them by position so
	// the reindex pass cannot resurrect them in buckets DropMap removes.
	var dynamic []ecs.EntityID
	s.positions.Each(func(id ecs.EntityID, pos *component.Position) {
		if pos.MapID == mapID && s.dynamics.Has(id) {
			dynamic = append(dynamic, id)
		}
	})
	for _, id := range dynamic {
		s.recycleComponents(id)
		s.dynamics.Remove(id)
	}
	s.world.MarkAllForDestruction(dynamic)

	s.spatial.DropMap(mapID)
	s.spatial.InvalidateStatic()
	s.collision.Remove(mapID)
	freed := s.resources.Release(mapID)
	delete(s.maps, mapID)

	event.Emit(s.bus, event.MapUnloaded{
		MapID:            mapID,
		TileCount:        rt.TileCount,
		ReleasedTextures: freed,
	})
	s.log.Info("map unloaded",
		zap.Int16("map", mapID),
		zap.Int("tiles", rt.TileCount),
		zap.Strings("freed_textures", freed),
	)
	return nil
}

// recycleComponents detaches an entity's pooled components and returns their
// slots for reuse. The entity itself dies at the next cleanup flush.
func (s *State) recycleComponents(id ecs.EntityID) {
	if pos, ok := s.positions.Get(id); ok {
		s.positions.Remove(id)
		s.posPool.Return(pos)
	}
	if spr, ok := s.sprites.Get(id); ok {
		s.sprites.Remove(id)
		s.spritePool.Return(spr)
	}
	if st, ok := s.animStates.Get(id); ok {
		s.animStates.Remove(id)
		s.animPool.Return(st)
	}
	s.solids.Remove(id)
}

// SpawnDynamic creates a moving entity at the given cell. Dynamic entities
// are re-indexed by the spatial pass every tick and are destroyed with
// their map on unload.
func (s *State) SpawnDynamic(mapID int16, x, y int32) ecs.EntityID {
	id := s.world.CreateEntity()
	pos := s.posPool.Rent()
	pos.MapID, pos.X, pos.Y = mapID, x, y
	s.positions.Set(id, pos)
	s.dynamics.Set(id, &component.Dynamic{})
	return id
}

// IndexStatic rebuilds the static spatial population if it is dirty. Every
// positioned entity without the Dynamic marker is (re)indexed; the pass is
// a no-op when nothing invalidated the population.
func (s *State) IndexStatic() {
	if !s.spatial.StaticDirty() {
		return
	}
	s.spatial.RebuildStatic(func(add func(ecs.EntityID, int16, int32, int32)) {
		s.positions.Each(func(id ecs.EntityID, pos *component.Position) {
			if !s.dynamics.Has(id) {
				add(id, pos.MapID, pos.X, pos.Y)
			}
		})
	})
}
