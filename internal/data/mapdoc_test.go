package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func writeDoc(t *testing.T, dir string, doc *MapDocument) {
	t.Helper()
	raw, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal doc: %v", err)
	}
	path := filepath.Join(dir, "1.yaml")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
}

func smallDoc() *MapDocument {
	return &MapDocument{
		MapID:      1,
		Name:       "test",
		Width:      2,
		Height:     2,
		TileWidth:  32,
		TileHeight: 32,
		Tilesets: []TilesetDef{
			{FirstGID: 1, Texture: "terrain.png", TileWidth: 32, TileHeight: 32, Columns: 4, TileCount: 16},
		},
		Layers: []Layer{
			{Name: "ground", Data: []uint32{1, 2, 0, 3}},
		},
	}
}

func TestLoadMapDocument(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, smallDoc())

	doc, err := LoadMapDocument(dir, 1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Width != 2 || doc.Height != 2 {
		t.Errorf("expected 2x2, got %dx%d", doc.Width, doc.Height)
	}
	if len(doc.Layers) != 1 || len(doc.Layers[0].Data) != 4 {
		t.Error("layer data not loaded")
	}
}

func TestLoadMapDocumentNotFound(t *testing.T) {
	_, err := LoadMapDocument(t.TempDir(), 99)
	if !errors.Is(err, ErrMapNotFound) {
		t.Errorf("expected ErrMapNotFound, got %v", err)
	}
}

func TestValidateMalformedLayer(t *testing.T) {
	doc := smallDoc()
	doc.Layers[0].Data = []uint32{1, 2, 3} // 3 cells for a 2x2 map
	if err := doc.Validate(); !errors.Is(err, ErrMalformedLayerData) {
		t.Errorf("expected ErrMalformedLayerData, got %v", err)
	}
}

func TestValidateMalformedTileset(t *testing.T) {
	// Zero columns would divide-by-zero in SourceRect; validation must
	// reject the document before the loader ever computes a rectangle.
	doc := smallDoc()
	doc.Tilesets[0].Columns = 0
	if err := doc.Validate(); !errors.Is(err, ErrMalformedTileset) {
		t.Errorf("zero columns: expected ErrMalformedTileset, got %v", err)
	}

	doc = smallDoc()
	doc.Tilesets[0].TileWidth = 0
	if err := doc.Validate(); !errors.Is(err, ErrMalformedTileset) {
		t.Errorf("zero tile width: expected ErrMalformedTileset, got %v", err)
	}

	doc = smallDoc()
	doc.Tilesets[0].TileCount = 0
	if err := doc.Validate(); !errors.Is(err, ErrMalformedTileset) {
		t.Errorf("zero tile count: expected ErrMalformedTileset, got %v", err)
	}
}

func TestValidateAnimationFrameOutOfRange(t *testing.T) {
	doc := smallDoc()
	doc.Tilesets[0].Animations = []TileAnimation{
		{TileID: 2, Frames: []FrameDef{
			{TileID: 2, DurationMS: 100},
			{TileID: 16, DurationMS: 100}, // tileset holds tiles 0..15
		}},
	}
	if err := doc.Validate(); !errors.Is(err, ErrTileOutOfRange) {
		t.Errorf("frame past tile_count: expected ErrTileOutOfRange, got %v", err)
	}

	doc = smallDoc()
	doc.Tilesets[0].Animations = []TileAnimation{
		{TileID: 16, Frames: []FrameDef{{TileID: 2, DurationMS: 100}}},
	}
	if err := doc.Validate(); !errors.Is(err, ErrTileOutOfRange) {
		t.Errorf("animated tile past tile_count: expected ErrTileOutOfRange, got %v", err)
	}
}

func TestValidateOutOfRangeTile(t *testing.T) {
	doc := smallDoc()
	doc.Layers[0].Data = []uint32{1, 2, 0, 999} // beyond tile_count
	if err := doc.Validate(); !errors.Is(err, ErrTileOutOfRange) {
		t.Errorf("expected ErrTileOutOfRange, got %v", err)
	}
}

func TestTilesetFor(t *testing.T) {
	doc := &MapDocument{
		Tilesets: []TilesetDef{
			{FirstGID: 1, Texture: "a.png", TileCount: 16},
			{FirstGID: 17, Texture: "b.png", TileCount: 8},
		},
	}

	ts, ok := doc.TilesetFor(5)
	if !ok || ts.Texture != "a.png" {
		t.Error("gid 5 should resolve to the first tileset")
	}
	ts, ok = doc.TilesetFor(17)
	if !ok || ts.Texture != "b.png" {
		t.Error("gid 17 should resolve to the second tileset")
	}
	if _, ok := doc.TilesetFor(25); ok {
		t.Error("gid 25 is past the last tileset's range")
	}
	if _, ok := doc.TilesetFor(0); ok {
		t.Error("gid 0 is the empty cell, not a tile")
	}
}
