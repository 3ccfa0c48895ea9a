package event

// MapLoaded is emitted after a map's entities have been committed to the
// world. Consumed by telemetry logging and by the spatial index, which
// schedules a static indexing pass for the new map.
type MapLoaded struct {
	MapID         int16
	TileCount     int
	AnimatedCount int
	ObjectCount   int
}

// MapUnloaded is emitted after a map's entities have been queued for
// destruction and its resources released.
type MapUnloaded struct {
	MapID            int16
	TileCount        int
	ReleasedTextures []string
}
