package world

import "sort"

// ResourceTracker reference-counts texture identifiers across loaded maps.
// A texture shared by several maps is only reported releasable when the
// last map referencing it unloads. The actual load/free of texture data is
// the external asset manager's job; this only tracks ownership.
type ResourceTracker struct {
	refs  map[string]int
	byMap map[int16][]string
}

func NewResourceTracker() *ResourceTracker {
	return &ResourceTracker{
		refs:  make(map[string]int, 32),
		byMap: make(map[int16][]string, 8),
	}
}

// Acquire records that the map references the given textures. Duplicate
// identifiers within one call count once.
func (rt *ResourceTracker) Acquire(mapID int16, textures []string) {
	seen := make(map[string]struct{}, len(textures))
	for _, id := range textures {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rt.refs[id]++
		rt.byMap[mapID] = append(rt.byMap[mapID], id)
	}
}

// Release drops the map's references and returns the textures whose count
// reached zero, sorted for deterministic telemetry.
func (rt *ResourceTracker) Release(mapID int16) []string {
	var freed []string
	for _, id := range rt.byMap[mapID] {
		rt.refs[id]--
		if rt.refs[id] <= 0 {
			delete(rt.refs, id)
			freed = append(freed, id)
		}
	}
	delete(rt.byMap, mapID)
	sort.Strings(freed)
	return freed
}

// RefCount returns the current reference count for a texture.
func (rt *ResourceTracker) RefCount(textureID string) int {
	return rt.refs[textureID]
}
