package models

// TrajectorySummary describes one subscriber-day trajectory
type TrajectorySummary struct {
	SubscriberID   string  `json:"subscriberId"`
	Date           string  `json:"date"`
	Sightings      int     `json:"sightings"`
	DistinctSites  int     `json:"distinctSites"`
	TravelMeters   float64 `json:"travelMeters"`   // great-circle length, including the hop from the previous day's last site
	GyrationMeters float64 `json:"gyrationMeters"` // radius of gyration of the day's sightings
}
