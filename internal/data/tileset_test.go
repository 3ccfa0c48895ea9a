package data

import "testing"

func TestSourceRectClosedForm(t *testing.T) {
	ts := &TilesetDef{
		TileWidth:  32,
		TileHeight: 32,
		Columns:    8,
		Margin:     2,
		Spacing:    1,
		TileCount:  64,
	}

	// Tile 0: top-left corner offset by margin only.
	x, y, w, h := ts.SourceRect(0)
	if x != 2 || y != 2 || w != 32 || h != 32 {
		t.Errorf("tile 0: got (%d,%d,%d,%d)", x, y, w, h)
	}

	// Tile 9: column 1, row 1.
	x, y, _, _ = ts.SourceRect(9)
	wantX := int32(2 + 1*(32+1))
	wantY := int32(2 + 1*(32+1))
	if x != wantX || y != wantY {
		t.Errorf("tile 9: expected (%d,%d), got (%d,%d)", wantX, wantY, x, y)
	}

	// Last tile of the first row vs first of the second.
	x7, y7, _, _ := ts.SourceRect(7)
	x8, y8, _, _ := ts.SourceRect(8)
	if y7 != 2 || x8 != 2 {
		t.Errorf("row wrap: tile 7 at (%d,%d), tile 8 at (%d,%d)", x7, y7, x8, y8)
	}
	if y8 <= y7 {
		t.Error("tile 8 must start a new row")
	}
}

func TestDecodeGID(t *testing.T) {
	gid, fh, fv, fd := DecodeGID(12)
	if gid != 12 || fh || fv || fd {
		t.Errorf("plain gid: got %d %v %v %v", gid, fh, fv, fd)
	}

	raw := uint32(12) | FlipHorizontalFlag | FlipDiagonalFlag
	gid, fh, fv, fd = DecodeGID(raw)
	if gid != 12 {
		t.Errorf("expected gid 12 with flags stripped, got %d", gid)
	}
	if !fh || fv || !fd {
		t.Errorf("expected H and D flips, got %v %v %v", fh, fv, fd)
	}
}

func TestIsSolidTile(t *testing.T) {
	ts := &TilesetDef{SolidTiles: []uint32{3, 7}}
	if !ts.IsSolidTile(3) || !ts.IsSolidTile(7) {
		t.Error("expected annotated tiles solid")
	}
	if ts.IsSolidTile(4) {
		t.Error("expected unannotated tile not solid")
	}
}
