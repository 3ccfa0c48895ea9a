package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tilemud/server/internal/component"
	"github.com/tilemud/server/internal/core/ecs"
	"github.com/tilemud/server/internal/core/event"
	coresys "github.com/tilemud/server/internal/core/system"
	"github.com/tilemud/server/internal/data"
	"github.com/tilemud/server/internal/world"
)

type openCatalog struct{}

func (openCatalog) Has(string) bool { return true }

func loadedState(t *testing.T) (*world.State, *event.Bus) {
	t.Helper()
	mapDir := t.TempDir()

	doc := &data.MapDocument{
		MapID:      1,
		Name:       "pond",
		Width:      3,
		Height:     3,
		TileWidth:  16,
		TileHeight: 16,
		Tilesets: []data.TilesetDef{
			{
				FirstGID:  1,
				Texture:   "pond.png",
				TileWidth: 16, TileHeight: 16,
				Columns:   4,
				TileCount: 16,
				Animations: []data.TileAnimation{
					{TileID: 0, Frames: []data.FrameDef{
						{TileID: 0, DurationMS: 100},
						{TileID: 1, DurationMS: 100},
					}},
				},
			},
		},
		Layers: []data.Layer{
			{Name: "water", Data: []uint32{1, 1, 1, 1, 1, 1, 1, 1, 1}},
		},
	}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(mapDir, "1.yaml"), raw, 0o644); err != nil {
		t.Fatal(err)
	}

	bus := event.NewBus()
	state := world.NewState(world.Options{
		MapDir:          mapDir,
		CollisionDir:    t.TempDir(),
		DefaultWalkable: true,
	}, openCatalog{}, bus, zap.NewNop())
	if _, err := state.LoadMap(1); err != nil {
		t.Fatalf("load: %v", err)
	}
	return state, bus
}

func newRunner(state *world.State, bus *event.Bus) *coresys.Runner {
	r := coresys.NewRunner()
	r.Register(NewDispatchSystem(bus))
	r.Register(NewAnimationSystem(state.Animations(), state.AnimationStates()))
	r.Register(NewSpatialReindexSystem(state))
	r.Register(NewCleanupSystem(state.World()))
	return r
}

func TestTickAdvancesAnimations(t *testing.T) {
	state, bus := loadedState(t)
	r := newRunner(state, bus)

	// Two 60ms ticks cross the 100ms frame boundary.
	r.Tick(60 * time.Millisecond)
	r.Tick(60 * time.Millisecond)

	checked := 0
	state.AnimationStates().Each(func(_ ecs.EntityID, st *component.AnimationState) {
		checked++
		if st.FrameIndex != 1 {
			t.Errorf("expected frame 1 after 120ms, got %d", st.FrameIndex)
		}
		if st.Elapsed != 20*time.Millisecond {
			t.Errorf("expected 20ms carry-over, got %v", st.Elapsed)
		}
	})
	if checked != 9 {
		t.Errorf("expected 9 animated tiles checked, got %d", checked)
	}
}

func TestTickIndexesStaticAndDynamic(t *testing.T) {
	state, bus := loadedState(t)
	r := newRunner(state, bus)

	mob := state.SpawnDynamic(1, 1, 1)
	r.Tick(50 * time.Millisecond)

	// (1,1) holds the static tile plus the dynamic entity.
	var at11 []ecs.EntityID
	for id := range state.Spatial().QueryPoint(1, 1, 1) {
		at11 = append(at11, id)
	}
	if len(at11) != 2 {
		t.Fatalf("expected tile + mob at (1,1), got %d entities", len(at11))
	}

	// Move the mob; the next tick must re-index it at the new cell.
	pos, _ := state.Positions().Get(mob)
	pos.X, pos.Y = 2, 2
	r.Tick(50 * time.Millisecond)

	for id := range state.Spatial().QueryPoint(1, 1, 1) {
		if id == mob {
			t.Error("mob must leave its old cell after the reindex pass")
		}
	}
	found := false
	for id := range state.Spatial().QueryPoint(1, 2, 2) {
		if id == mob {
			found = true
		}
	}
	if !found {
		t.Error("mob must be indexed at its new cell")
	}
}

func TestUnloadDespawnsDynamics(t *testing.T) {
	state, bus := loadedState(t)
	r := newRunner(state, bus)

	mob := state.SpawnDynamic(1, 1, 1)
	r.Tick(50 * time.Millisecond)

	if err := state.UnloadMap(1); err != nil {
		t.Fatal(err)
	}
	r.Tick(50 * time.Millisecond)

	if state.World().Alive(mob) {
		t.Error("dynamic entity must be destroyed with its map")
	}
	entities, cells := state.Spatial().Diagnostics()
	if entities != 0 || cells != 0 {
		t.Errorf("reindex must not resurrect unloaded dynamics, got (%d,%d)", entities, cells)
	}
}

func TestTickFlushesUnloadedEntities(t *testing.T) {
	state, bus := loadedState(t)
	r := newRunner(state, bus)
	r.Tick(50 * time.Millisecond)

	rt := state.Map(1)
	if err := state.UnloadMap(1); err != nil {
		t.Fatal(err)
	}
	r.Tick(50 * time.Millisecond)

	for _, id := range rt.Entities {
		if state.World().Alive(id) {
			t.Fatal("cleanup phase must destroy unloaded entities")
		}
	}
	entities, cells := state.Spatial().Diagnostics()
	if entities != 0 || cells != 0 {
		t.Errorf("spatial index must be empty after unload tick, got (%d,%d)", entities, cells)
	}
}
