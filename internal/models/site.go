package models

import "github.com/jengzang/telco-sightings-go/internal/spatial"

// Site represents a cell-tower site. Sites are created once per dataset and never mutated.
type Site struct {
	ID        string  `json:"id" db:"id"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	CellToken string  `json:"cellToken,omitempty" db:"cell_token"` // S2 cell containing the site
}

// Point returns the site coordinate
func (s Site) Point() spatial.Point {
	return spatial.Point{Lon: s.Longitude, Lat: s.Latitude}
}

// NewSite builds a site at p and fills its cell token
func NewSite(id string, p spatial.Point) Site {
	return Site{
		ID:        id,
		Longitude: p.Lon,
		Latitude:  p.Lat,
		CellToken: spatial.CellToken(p, spatial.DefaultCellLevel),
	}
}

// SiteFilter represents filter parameters for querying sites
type SiteFilter struct {
	CellToken string `form:"cellToken"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}
