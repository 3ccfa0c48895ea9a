package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MapDocument is the parsed form of one map file: per-layer tile-id grids,
// tileset metadata, and object placements. Producing it from the on-disk
// editor format is the parser's job; this package only reads the YAML
// interchange form and validates it.
type MapDocument struct {
	MapID      int16        `yaml:"map_id"`
	Name       string       `yaml:"name"`
	Width      int32        `yaml:"width"`
	Height     int32        `yaml:"height"`
	TileWidth  int32        `yaml:"tile_width"`
	TileHeight int32        `yaml:"tile_height"`
	Tilesets   []TilesetDef `yaml:"tilesets"`
	Layers     []Layer      `yaml:"layers"`
	Objects    []Object     `yaml:"objects"`
}

// Layer is one grid of global tile ids, row-major, length Width*Height.
// A zero id means the cell is empty on this layer.
type Layer struct {
	Name string   `yaml:"name"`
	Data []uint32 `yaml:"data"`
}

// Object is a non-tile placement: spawn markers, portals, triggers.
// Interpreted by gameplay collaborators; the loader only counts and
// forwards them.
type Object struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	X    int32  `yaml:"x"`
	Y    int32  `yaml:"y"`
}

// LoadMapDocument reads {mapID}.yaml from dir and validates layer
// dimensions and tileset ranges. A missing file is ErrMapNotFound; a layer
// whose data length differs from width*height is ErrMalformedLayerData.
func LoadMapDocument(dir string, mapID int16) (*MapDocument, error) {
	path := filepath.Join(dir, strconv.Itoa(int(mapID))+".yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("map %d: %w", mapID, ErrMapNotFound)
		}
		return nil, fmt.Errorf("read map document %s: %w", path, err)
	}

	var doc MapDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse map document %s: %w", path, err)
	}
	if doc.MapID == 0 {
		doc.MapID = mapID
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("map %d: %w", mapID, err)
	}
	return &doc, nil
}

// Validate checks structural integrity: positive dimensions, every layer's
// data length equal to width*height, sane tileset geometry, animation frames
// inside their tileset, and every non-empty tile id resolvable to a tileset.
// Everything SourceRect divides by is rejected here, so the loader never
// reaches a tileset it could panic on.
func (d *MapDocument) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("dimensions %dx%d: %w", d.Width, d.Height, ErrMalformedLayerData)
	}
	want := int(d.Width) * int(d.Height)
	for _, layer := range d.Layers {
		if len(layer.Data) != want {
			return fmt.Errorf("layer %q has %d cells, want %d: %w",
				layer.Name, len(layer.Data), want, ErrMalformedLayerData)
		}
	}
	for i := range d.Tilesets {
		ts := &d.Tilesets[i]
		if ts.Columns <= 0 || ts.TileWidth <= 0 || ts.TileHeight <= 0 || ts.TileCount == 0 {
			return fmt.Errorf("tileset %q: %dx%d tiles, columns=%d, tile_count=%d: %w",
				ts.Texture, ts.TileWidth, ts.TileHeight, ts.Columns, ts.TileCount, ErrMalformedTileset)
		}
		for _, anim := range ts.Animations {
			if anim.TileID >= ts.TileCount {
				return fmt.Errorf("tileset %q animated tile %d: %w", ts.Texture, anim.TileID, ErrTileOutOfRange)
			}
			for _, f := range anim.Frames {
				if f.TileID >= ts.TileCount {
					return fmt.Errorf("tileset %q animation %d frame tile %d: %w",
						ts.Texture, anim.TileID, f.TileID, ErrTileOutOfRange)
				}
			}
		}
	}
	for _, layer := range d.Layers {
		for _, raw := range layer.Data {
			gid, _, _, _ := DecodeGID(raw)
			if gid == 0 {
				continue
			}
			if _, ok := d.TilesetFor(gid); !ok {
				return fmt.Errorf("layer %q tile id %d: %w", layer.Name, gid, ErrTileOutOfRange)
			}
		}
	}
	return nil
}

// TilesetFor resolves a global tile id to its tileset: the tileset with the
// largest FirstGID not exceeding gid, provided gid falls inside its tile
// count. Tilesets are expected sorted by FirstGID ascending.
func (d *MapDocument) TilesetFor(gid uint32) (*TilesetDef, bool) {
	for i := len(d.Tilesets) - 1; i >= 0; i-- {
		ts := &d.Tilesets[i]
		if gid >= ts.FirstGID {
			if gid-ts.FirstGID < ts.TileCount {
				return ts, true
			}
			return nil, false
		}
	}
	return nil, false
}
