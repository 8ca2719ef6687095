package models

// GenerationRun describes one execution of the generation pipeline
type GenerationRun struct {
	ID           string `json:"id" db:"id"` // uuid
	Seed         uint64 `json:"seed" db:"seed"`
	K            int    `json:"k" db:"k_nearest_neighbor"`
	CapStartHour int    `json:"capStartHour" db:"cap_start_hr"`
	StartDate    string `json:"startDate" db:"start_date"`
	NumDays      int    `json:"numDays" db:"num_days"`
	Sites        int    `json:"sites" db:"site_count"`
	Subscribers  int    `json:"subscribers" db:"subscriber_count"`
	Records      int    `json:"records" db:"record_count"`
	ParamsJSON   string `json:"params,omitempty" db:"params_json"`
	CreatedAt    string `json:"createdAt,omitempty" db:"created_at"`
}
