package service

import (
	"github.com/jengzang/telco-sightings-go/internal/models"
	"github.com/jengzang/telco-sightings-go/internal/spatial"
)

// SummarizeTrajectories condenses time-ordered records into one summary per
// subscriber-day. Records must be grouped by subscriber and ordered by date and
// hour within a subscriber, as the simulator emits them. Travel includes the hop
// from the subscriber's last site of the previous day; unknown sites add no
// distance and are left out of the gyration radius.
func SummarizeTrajectories(records []models.TrajectoryRecord, sites map[string]models.Site) []models.TrajectorySummary {
	var summaries []models.TrajectorySummary
	var distinct map[string]struct{}
	var points []spatial.Point
	var prev *models.TrajectoryRecord

	closeDay := func() {
		if len(summaries) > 0 {
			summaries[len(summaries)-1].GyrationMeters = spatial.RadiusOfGyration(points)
		}
	}

	for i := range records {
		rec := &records[i]

		newSubscriber := prev == nil || prev.SubscriberID != rec.SubscriberID
		if newSubscriber || prev.Date != rec.Date {
			closeDay()
			summaries = append(summaries, models.TrajectorySummary{
				SubscriberID: rec.SubscriberID,
				Date:         rec.Date,
			})
			distinct = make(map[string]struct{})
			points = points[:0]
		}
		cur := &summaries[len(summaries)-1]

		cur.Sightings++
		distinct[rec.SiteID] = struct{}{}
		cur.DistinctSites = len(distinct)

		if site, ok := sites[rec.SiteID]; ok {
			points = append(points, site.Point())
		}
		if !newSubscriber {
			cur.TravelMeters += hop(sites, prev.SiteID, rec.SiteID)
		}
		prev = rec
	}
	closeDay()

	return summaries
}

func hop(sites map[string]models.Site, from, to string) float64 {
	if from == to {
		return 0
	}
	a, okA := sites[from]
	b, okB := sites[to]
	if !okA || !okB {
		return 0
	}
	return spatial.PathLength([]spatial.Point{a.Point(), b.Point()})
}

// TravelDistances extracts the per-day travel distances of summaries
func TravelDistances(summaries []models.TrajectorySummary) []float64 {
	out := make([]float64, len(summaries))
	for i, s := range summaries {
		out[i] = s.TravelMeters
	}
	return out
}
