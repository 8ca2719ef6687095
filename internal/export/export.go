// Package export delivers generated sightings to downstream systems.
package export

import (
	"context"

	"github.com/jengzang/telco-sightings-go/internal/models"
)

// Sink receives the finalized record set of a run in emission order
type Sink interface {
	Name() string
	Export(ctx context.Context, records []models.TrajectoryRecord) error
	Close() error
}

// Sighting is the event published for each record
type Sighting struct {
	RecordID     string  `json:"recordId"`
	SubscriberID string  `json:"subscriberId"`
	SiteID       string  `json:"siteId"`
	Date         string  `json:"date"`
	Hour         int     `json:"hour"`
	Timestamp    string  `json:"timestamp"`
	Longitude    float64 `json:"longitude,omitempty"`
	Latitude     float64 `json:"latitude,omitempty"`
}

func batches(n, size int, fn func(lo, hi int) error) error {
	if size < 1 {
		size = n
	}
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		if err := fn(lo, hi); err != nil {
			return err
		}
	}
	return nil
}
