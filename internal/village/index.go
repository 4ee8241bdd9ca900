package village

import (
	"math"
	"slices"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
	"github.com/dhconnelly/rtreego"
)

const (
	minChildren = 4
	maxChildren = 16
	dimensions  = 2
	tolerance   = 1e-9
)

// spatialItem wraps a village position for R-tree indexing.
type spatialItem struct {
	pos  int
	rect rtreego.Rect
}

func (si *spatialItem) Bounds() rtreego.Rect {
	return si.rect
}

// index is an R-tree over village coordinates in (lat, lon) degrees. It
// only narrows candidates; exact distances come from the correlator.
type index struct {
	tree *rtreego.Rtree
	size int
}

func newIndex(villages []domain.Village) *index {
	items := make([]rtreego.Spatial, 0, len(villages))
	for i, v := range villages {
		if v.Coords.Validate() != nil {
			continue
		}
		p := rtreego.Point{v.Coords.Lat, v.Coords.Lon}
		items = append(items, &spatialItem{pos: i, rect: p.ToRect(tolerance)})
	}
	return &index{
		tree: rtreego.NewTree(dimensions, minChildren, maxChildren, items...),
		size: len(villages),
	}
}

// candidates returns, in ascending order, the positions of every village
// that may lie within radiusKm of center. Queries whose bounding box would
// cross a pole or the antimeridian fall back to all positions.
func (ix *index) candidates(center domain.GeoPoint, radiusKm float64) []int {
	latMin, latMax, lonMin, lonMax, ok := boundingBox(center, radiusKm)
	if !ok {
		return ix.all()
	}

	bounds, err := rtreego.NewRect(
		rtreego.Point{latMin, lonMin},
		[]float64{math.Max(latMax-latMin, tolerance), math.Max(lonMax-lonMin, tolerance)},
	)
	if err != nil {
		return ix.all()
	}

	results := ix.tree.SearchIntersect(bounds)
	out := make([]int, 0, len(results))
	for _, r := range results {
		if item, ok := r.(*spatialItem); ok {
			out = append(out, item.pos)
		}
	}
	slices.Sort(out)
	return out
}

func (ix *index) all() []int {
	out := make([]int, ix.size)
	for i := range out {
		out[i] = i
	}
	return out
}

// boundingBox returns the lat/lon box enclosing the spherical cap of
// radiusKm around center. ok is false when that box would wrap.
func boundingBox(center domain.GeoPoint, radiusKm float64) (latMin, latMax, lonMin, lonMax float64, ok bool) {
	angular := radiusKm / domain.EarthRadiusKm
	dLat := angular * 180 / math.Pi
	latMin, latMax = center.Lat-dLat, center.Lat+dLat
	if latMin <= -90 || latMax >= 90 {
		return 0, 0, 0, 0, false
	}

	ratio := math.Sin(angular) / math.Cos(center.Lat*math.Pi/180)
	if angular >= math.Pi/2 || ratio >= 1 {
		return 0, 0, 0, 0, false
	}
	dLon := math.Asin(ratio) * 180 / math.Pi
	lonMin, lonMax = center.Lon-dLon, center.Lon+dLon
	if lonMin < -180 || lonMax > 180 {
		return 0, 0, 0, 0, false
	}
	return latMin, latMax, lonMin, lonMax, true
}
