package spatial

import "github.com/golang/geo/s2"

// DefaultCellLevel gives cells roughly 1 km across, about the footprint of an urban site
const DefaultCellLevel = 13

// CellToken returns the S2 cell token containing p at the given level
func CellToken(p Point, level int) string {
	if level < 0 {
		level = 0
	}
	if level > s2.MaxLevel {
		level = s2.MaxLevel
	}
	ll := s2.LatLngFromDegrees(p.Lat, p.Lon)
	return s2.CellIDFromLatLng(ll).Parent(level).ToToken()
}
