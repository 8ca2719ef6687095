package spatial

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// ParseWKTPoint parses geometry text such as "POINT (121.05 14.52)" into a validated Point.
// Any geometry other than a point is rejected.
func ParseWKTPoint(text string) (Point, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Point{}, fmt.Errorf("%w: empty geometry text", ErrInvalidCoordinate)
	}

	geom, err := wkt.Unmarshal(text)
	if err != nil {
		return Point{}, fmt.Errorf("%w: failed to parse %q: %v", ErrInvalidCoordinate, text, err)
	}

	pt, ok := geom.(orb.Point)
	if !ok {
		return Point{}, fmt.Errorf("%w: expected POINT, got %s", ErrInvalidCoordinate, geom.GeoJSONType())
	}

	p := Point{Lon: pt.Lon(), Lat: pt.Lat()}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// FormatWKT renders p as WKT point text
func FormatWKT(p Point) string {
	return wkt.MarshalString(orb.Point{p.Lon, p.Lat})
}
