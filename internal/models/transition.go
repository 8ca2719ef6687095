package models

// TransitionEdge is a directed hop between two sites in the transition graph
type TransitionEdge struct {
	Origin         string  `json:"origin" db:"origin"`
	Destination    string  `json:"destination" db:"destination"`
	DistanceMeters float64 `json:"distanceMeters" db:"distance_m"`
	Rank           int     `json:"rank" db:"rank"` // 1 = nearest, ties share the lowest rank
	Probability    float64 `json:"probability" db:"probability"`
}
