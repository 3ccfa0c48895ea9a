package world

import (
	"fmt"
	"sort"

	"github.com/tilemud/server/internal/component"
	"github.com/tilemud/server/internal/core/ecs"
	"github.com/tilemud/server/internal/data"
)

// tileDescriptor is one non-empty cell gathered by the layer pass, carrying
// everything needed to build the entity without touching the document again.
type tileDescriptor struct {
	x, y    int32
	layer   int16
	gid     uint32
	tileset *data.TilesetDef
	flipH   bool
	flipV   bool
	flipD   bool
}

// instantiate turns a validated map document into entities. The pipeline is
// strictly ordered so that every failure happens before the first entity is
// created — commit-or-fail needs no rollback:
//
//  1. check every tileset texture against the asset catalog,
//  2. one pass over all layers building flat tile descriptors,
//  3. one bulk entity creation for the whole descriptor list,
//  4. bulk position/sprite attachment from pooled slots,
//  5. per-tileset animation registration, then one collection pass pairing
//     entities with animation ids, then one bulk animation-state attach.
//
// The collection pass runs over the descriptor list, never over a component
// store that is being appended to — attaching while matching is how the
// store ends up iterated mid-mutation.
func (s *State) instantiate(doc *data.MapDocument) (*MapRuntime, error) {
	for i := range doc.Tilesets {
		ts := &doc.Tilesets[i]
		if !s.assets.Has(ts.Texture) {
			return nil, fmt.Errorf("map %d tileset %q: %w", doc.MapID, ts.Texture, data.ErrMissingTileset)
		}
	}

	descs, err := collectDescriptors(doc)
	if err != nil {
		return nil, err
	}

	ids := s.world.CreateEntities(len(descs))

	posSlots := s.posPool.RentBatch(len(descs))
	spriteSlots := s.spritePool.RentBatch(len(descs))
	usedTextures := make(map[string]struct{}, len(doc.Tilesets))
	for i, d := range descs {
		pos := posSlots[i]
		pos.MapID, pos.X, pos.Y = doc.MapID, d.x, d.y

		local := d.gid - d.tileset.FirstGID
		sx, sy, sw, sh := d.tileset.SourceRect(local)
		spr := spriteSlots[i]
		spr.TilesetID = d.tileset.Texture
		spr.SrcX, spr.SrcY, spr.SrcW, spr.SrcH = sx, sy, sw, sh
		spr.Layer = d.layer
		spr.FlipH, spr.FlipV, spr.FlipD = d.flipH, d.flipV, d.flipD

		usedTextures[d.tileset.Texture] = struct{}{}
	}
	s.positions.SetBatch(ids, posSlots)
	s.sprites.SetBatch(ids, spriteSlots)

	for i, d := range descs {
		if d.tileset.IsSolidTile(d.gid - d.tileset.FirstGID) {
			s.solids.Set(ids[i], &component.Solid{})
		}
	}

	// Animation mapping: each distinct animated tile registers exactly once
	// per tileset, then the already-created entities are matched in O(tiles)
	// against the gid map.
	animByGID := make(map[uint32]uint32)
	for i := range doc.Tilesets {
		ts := &doc.Tilesets[i]
		for _, anim := range ts.Animations {
			animByGID[ts.FirstGID+anim.TileID] = s.animations.Register(ts, anim)
		}
	}

	type animMatch struct {
		idx  int
		anim uint32
	}
	var matches []animMatch
	for i, d := range descs {
		if aid, ok := animByGID[d.gid]; ok {
			matches = append(matches, animMatch{idx: i, anim: aid})
		}
	}

	// Collection finished; only now attach, as one bulk operation.
	if len(matches) > 0 {
		targetIDs := make([]ecs.EntityID, len(matches))
		animSlots := s.animPool.RentBatch(len(matches))
		for j, m := range matches {
			targetIDs[j] = ids[m.idx]
			slot := animSlots[j]
			slot.AnimationID = m.anim
			slot.FrameIndex = 0
			slot.Elapsed = 0
		}
		s.animStates.SetBatch(targetIDs, animSlots)
	}

	runtime := &MapRuntime{
		MapID:         doc.MapID,
		Name:          doc.Name,
		Entities:      ids,
		TileCount:     len(descs),
		AnimatedCount: len(matches),
		ObjectCount:   len(doc.Objects),
		Textures:      sortedKeys(usedTextures),
	}
	return runtime, nil
}

// collectDescriptors performs the single O(width × height × layers) pass.
// Empty cells are skipped; every kept cell resolves its tileset here so the
// later stages cannot fail.
func collectDescriptors(doc *data.MapDocument) ([]tileDescriptor, error) {
	descs := make([]tileDescriptor, 0, int(doc.Width)*int(doc.Height))
	for li := range doc.Layers {
		layer := &doc.Layers[li]
		for y := int32(0); y < doc.Height; y++ {
			rowBase := int(y) * int(doc.Width)
			for x := int32(0); x < doc.Width; x++ {
				raw := layer.Data[rowBase+int(x)]
				gid, fh, fv, fd := data.DecodeGID(raw)
				if gid == 0 {
					continue
				}
				ts, ok := doc.TilesetFor(gid)
				if !ok {
					return nil, fmt.Errorf("map %d layer %q tile id %d: %w",
						doc.MapID, layer.Name, gid, data.ErrTileOutOfRange)
				}
				descs = append(descs, tileDescriptor{
					x: x, y: y,
					layer:   int16(li),
					gid:     gid,
					tileset: ts,
					flipH:   fh, flipV: fv, flipD: fd,
				})
			}
		}
	}
	return descs, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
