package systems

// Neighbor holds a spatial query result with its precomputed squared
// distance. Keeping DistSq avoids recomputing it in the density and force
// passes (and avoids sqrt when only comparison is needed).
type Neighbor struct {
	Index  int32
	DistSq float32
}

// cellKey identifies a grid cell by the floor-divided integer coordinates of
// a position.
type cellKey struct {
	X, Y, Z int32
}

// SpatialHash is a uniform-grid index over 3D positions. The hash is rebuilt
// from scratch every step (Clear + Insert); particles move every step anyway,
// so incremental maintenance would buy nothing.
//
// The cell size must be at least 2x the radius callers query with, so that a
// query only needs to inspect the 27 cells centered on the query point.
type SpatialHash struct {
	cellSize float32
	invCell  float32
	buckets  map[cellKey][]int32
}

// NewSpatialHash creates a hash with the given cell size.
func NewSpatialHash(cellSize float32) *SpatialHash {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialHash{
		cellSize: cellSize,
		invCell:  1.0 / cellSize,
		buckets:  make(map[cellKey][]int32, 256),
	}
}

// CellSize returns the configured cell edge length.
func (h *SpatialHash) CellSize() float32 {
	return h.cellSize
}

// Clear empties all buckets without deallocating their backing arrays, so
// bucket capacity amortizes across frames.
func (h *SpatialHash) Clear() {
	for k := range h.buckets {
		h.buckets[k] = h.buckets[k][:0]
	}
}

// Insert places an item index into the bucket for the cell containing pos.
func (h *SpatialHash) Insert(idx int32, pos Vec3) {
	key := h.keyFor(pos)
	h.buckets[key] = append(h.buckets[key], idx)
}

// QueryInto finds items within radius of pos and appends them to dst,
// returning the updated slice. Reuse dst across calls to avoid allocations.
// Pass exclude >= 0 to omit an item (a particle querying its own
// neighborhood), or a negative value to keep everything.
//
// Bucket membership is necessary but not sufficient: corner-adjacent cells
// contain candidates outside the radius, so every candidate is checked
// against the true squared distance before inclusion.
func (h *SpatialHash) QueryInto(dst []Neighbor, pos Vec3, radius float32, exclude int32, positions []Vec3) []Neighbor {
	center := h.keyFor(pos)
	radiusSq := radius * radius

	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				key := cellKey{center.X + dx, center.Y + dy, center.Z + dz}
				bucket, ok := h.buckets[key]
				if !ok {
					continue
				}
				for _, idx := range bucket {
					if idx == exclude {
						continue
					}
					d := positions[idx].Sub(pos)
					distSq := d.LengthSq()
					if distSq <= radiusSq {
						dst = append(dst, Neighbor{Index: idx, DistSq: distSq})
					}
				}
			}
		}
	}

	return dst
}

// keyFor returns the cell coordinates for a world position.
func (h *SpatialHash) keyFor(pos Vec3) cellKey {
	return cellKey{
		X: floorf(pos.X * h.invCell),
		Y: floorf(pos.Y * h.invCell),
		Z: floorf(pos.Z * h.invCell),
	}
}
