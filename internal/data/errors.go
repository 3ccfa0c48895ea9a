package data

import "errors"

// Load-time failures. All four abort the entire map load with no partial
// registration; callers wrap them with map/layer context.
var (
	ErrMapNotFound        = errors.New("map document not found")
	ErrMalformedLayerData = errors.New("layer data does not match declared dimensions")
	ErrMalformedTileset   = errors.New("tileset metadata malformed")
	ErrMissingTileset     = errors.New("referenced tileset resource missing")
	ErrTileOutOfRange     = errors.New("tile id out of tileset range")
)
