package world

import (
	"time"

	"github.com/tilemud/server/internal/component"
	"github.com/tilemud/server/internal/data"
)

// AnimationFrame is one precomputed frame: source rectangle and duration.
type AnimationFrame struct {
	TileID   uint32 // local tile id of the frame's source
	Duration time.Duration
	SrcX     int32
	SrcY     int32
	SrcW     int32
	SrcH     int32
}

// AnimationDefinition is the shared, immutable record for one animated
// tile. Every tile entity using the same (tileset, local tile id) holds a
// reference to the same definition — frame data is never copied per tile.
type AnimationDefinition struct {
	ID      uint32
	Texture string // tileset texture the frames draw from
	Frames  []AnimationFrame
	total   time.Duration
}

// FrameCount returns the number of frames in the loop.
func (d *AnimationDefinition) FrameCount() int {
	return len(d.Frames)
}

type animKey struct {
	texture string
	localID uint32
}

// AnimationRegistry owns every animation definition, keyed by
// (tileset texture, local tile id). Registration is idempotent: the second
// registration of the same key returns the first id. Definition ids start
// at 1; zero means "no animation".
type AnimationRegistry struct {
	byKey map[animKey]uint32
	defs  []*AnimationDefinition
}

func NewAnimationRegistry() *AnimationRegistry {
	return &AnimationRegistry{
		byKey: make(map[animKey]uint32, 64),
		defs:  make([]*AnimationDefinition, 0, 64),
	}
}

// Register creates (or finds) the definition for one animated tile of the
// tileset, precomputing each frame's source rectangle once.
func (r *AnimationRegistry) Register(ts *data.TilesetDef, anim data.TileAnimation) uint32 {
	key := animKey{texture: ts.Texture, localID: anim.TileID}
	if id, ok := r.byKey[key]; ok {
		return id
	}

	def := &AnimationDefinition{
		ID:      uint32(len(r.defs) + 1),
		Texture: ts.Texture,
		Frames:  make([]AnimationFrame, 0, len(anim.Frames)),
	}
	for _, f := range anim.Frames {
		x, y, w, h := ts.SourceRect(f.TileID)
		d := time.Duration(f.DurationMS) * time.Millisecond
		def.Frames = append(def.Frames, AnimationFrame{
			TileID:   f.TileID,
			Duration: d,
			SrcX:     x,
			SrcY:     y,
			SrcW:     w,
			SrcH:     h,
		})
		def.total += d
	}

	r.defs = append(r.defs, def)
	r.byKey[key] = def.ID
	return def.ID
}

// Lookup returns the immutable definition for an id, or false for zero or
// unknown ids.
func (r *AnimationRegistry) Lookup(id uint32) (*AnimationDefinition, bool) {
	if id == 0 || int(id) > len(r.defs) {
		return nil, false
	}
	return r.defs[id-1], true
}

// Count returns the number of distinct definitions registered.
func (r *AnimationRegistry) Count() int {
	return len(r.defs)
}

// Advance accumulates dt into the state and steps the frame index, looping
// modulo the frame count. Returns the new frame index. States referencing
// unknown definitions or zero-duration loops are left untouched.
func (r *AnimationRegistry) Advance(state *component.AnimationState, dt time.Duration) int {
	def, ok := r.Lookup(state.AnimationID)
	if !ok || len(def.Frames) == 0 || def.total <= 0 {
		return state.FrameIndex
	}

	state.Elapsed += dt
	for state.Elapsed >= def.Frames[state.FrameIndex].Duration {
		state.Elapsed -= def.Frames[state.FrameIndex].Duration
		state.FrameIndex = (state.FrameIndex + 1) % len(def.Frames)
	}
	return state.FrameIndex
}
