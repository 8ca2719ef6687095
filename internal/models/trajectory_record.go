package models

import "time"

// DateLayout is the calendar date format used by records
const DateLayout = "2006-01-02"

// TrajectoryRecord is one sighting of a subscriber at a site during an hour
type TrajectoryRecord struct {
	ID           int64  `json:"id" db:"id"`   // sequential, assigned in emission order
	UID          string `json:"uid" db:"uid"` // formatted id, e.g. glo-txn-00001
	SubscriberID string `json:"subscriberId" db:"subscriber_id"`
	SiteID       string `json:"siteId" db:"site_id"`
	Date         string `json:"date" db:"date"` // YYYY-MM-DD
	Hour         int    `json:"hour" db:"hour"` // 0-23
}

// Time returns the start of the record's hour in UTC
func (r TrajectoryRecord) Time() (time.Time, error) {
	day, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(r.Hour) * time.Hour), nil
}

// RecordFilter represents filter parameters for querying trajectory records
type RecordFilter struct {
	SubscriberID string `form:"subscriberId"`
	SiteID       string `form:"siteId"`
	Date         string `form:"date"`
	Hour         *int   `form:"hour"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
}

// RecordsResponse represents a paginated response of records
type RecordsResponse struct {
	Data       []TrajectoryRecord `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}
