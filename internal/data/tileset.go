package data

// Flip flags carried in the top bits of a raw layer tile id, matching the
// common map-editor encoding. The low 29 bits are the global tile id.
const (
	FlipHorizontalFlag uint32 = 0x80000000
	FlipVerticalFlag   uint32 = 0x40000000
	FlipDiagonalFlag   uint32 = 0x20000000

	gidMask uint32 = 0x1FFFFFFF
)

// DecodeGID splits a raw layer cell value into the global tile id and its
// three flip flags.
func DecodeGID(raw uint32) (gid uint32, flipH, flipV, flipD bool) {
	return raw & gidMask,
		raw&FlipHorizontalFlag != 0,
		raw&FlipVerticalFlag != 0,
		raw&FlipDiagonalFlag != 0
}

// TilesetDef is the metadata for one tileset: which texture it draws from,
// the geometry needed to compute source rectangles in closed form, and the
// per-tile animation and solidity annotations.
type TilesetDef struct {
	FirstGID   uint32 `yaml:"first_gid"`
	Texture    string `yaml:"texture"` // asset-manager identifier
	TileWidth  int32  `yaml:"tile_width"`
	TileHeight int32  `yaml:"tile_height"`
	Columns    int32  `yaml:"columns"`
	Margin     int32  `yaml:"margin"`
	Spacing    int32  `yaml:"spacing"`
	TileCount  uint32 `yaml:"tile_count"`

	Animations []TileAnimation `yaml:"animations"`
	SolidTiles []uint32        `yaml:"solid_tiles"` // local tile ids
}

// TileAnimation declares one animated local tile: its frame sequence and
// per-frame durations in milliseconds.
type TileAnimation struct {
	TileID uint32     `yaml:"tile_id"` // local id of the animated tile
	Frames []FrameDef `yaml:"frames"`
}

// FrameDef is one frame of a tile animation.
type FrameDef struct {
	TileID     uint32 `yaml:"tile_id"` // local id of the frame's source tile
	DurationMS int64  `yaml:"duration_ms"`
}

// SourceRect computes the pixel rectangle of a local tile id within the
// tileset texture. Closed form from columns, margin, and spacing — no
// per-tile lookup table.
func (t *TilesetDef) SourceRect(localID uint32) (x, y, w, h int32) {
	col := int32(localID) % t.Columns
	row := int32(localID) / t.Columns
	x = t.Margin + col*(t.TileWidth+t.Spacing)
	y = t.Margin + row*(t.TileHeight+t.Spacing)
	return x, y, t.TileWidth, t.TileHeight
}

// IsSolidTile reports whether the local tile id carries the solid annotation.
func (t *TilesetDef) IsSolidTile(localID uint32) bool {
	for _, id := range t.SolidTiles {
		if id == localID {
			return true
		}
	}
	return false
}
