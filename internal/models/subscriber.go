package models

// Subscriber is a simulated mobile subscriber
type Subscriber struct {
	ID              string  `json:"id" db:"id"`
	StayProbability float64 `json:"stayProbability" db:"stay_probability"` // per-hour probability of not moving
}
