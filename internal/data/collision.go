package data

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CollisionGrid is one map's walkability data: bounds plus one solid flag
// per cell. Loaded once per map, immutable afterwards.
type CollisionGrid struct {
	Width  int32
	Height int32
	solid  []bool // flat, row-major [y*Width + x]
}

// NewCollisionGrid builds an all-walkable grid; used by tests and by tools
// that synthesize collision data.
func NewCollisionGrid(width, height int32) *CollisionGrid {
	return &CollisionGrid{
		Width:  width,
		Height: height,
		solid:  make([]bool, int(width)*int(height)),
	}
}

// SetSolid marks a cell solid. Only valid before the grid is handed to the
// collision table; the grid is immutable once registered.
func (g *CollisionGrid) SetSolid(x, y int32) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return
	}
	g.solid[int(y)*int(g.Width)+int(x)] = true
}

// Solid reports whether the cell is marked solid. Out-of-bounds cells are
// not solid — bounds checks are the caller's concern.
func (g *CollisionGrid) Solid(x, y int32) bool {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return false
	}
	return g.solid[int(y)*int(g.Width)+int(x)]
}

// LoadCollisionGrid reads {mapID}.txt from dir: one CSV line per row, one
// value per cell, non-zero meaning solid. Lines starting with '#' are
// comments. Missing file returns (nil, nil) — maps without collision data
// are legal and fall back to the configured default.
func LoadCollisionGrid(dir string, mapID int16, width, height int32) (*CollisionGrid, error) {
	path := filepath.Join(dir, strconv.Itoa(int(mapID))+".txt")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	grid := NewCollisionGrid(width, height)

	scanner := bufio.NewScanner(f)
	// Large maps produce long lines; grow the scanner buffer past the default.
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)

	y := int32(0)
	for scanner.Scan() && y < height {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		x := int32(0)
		for _, tok := range strings.Split(line, ",") {
			if x >= width {
				break
			}
			val, err := strconv.Atoi(strings.TrimSpace(tok))
			if err != nil {
				val = 0
			}
			if val != 0 {
				grid.SetSolid(x, y)
			}
			x++
		}
		y++
	}

	return grid, scanner.Err()
}
