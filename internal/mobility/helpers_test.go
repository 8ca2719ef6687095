package mobility

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jengzang/telco-sightings-go/internal/models"
	"github.com/jengzang/telco-sightings-go/internal/spatial"
)

// fiveSites are irregularly spaced so no origin has tied distances
func fiveSites() []models.Site {
	return []models.Site{
		models.NewSite("glo-cel-001", spatial.Point{Lon: 121.0437, Lat: 14.5176}),
		models.NewSite("glo-cel-002", spatial.Point{Lon: 121.0509, Lat: 14.5547}),
		models.NewSite("glo-cel-003", spatial.Point{Lon: 121.0791, Lat: 14.5395}),
		models.NewSite("glo-cel-004", spatial.Point{Lon: 121.0612, Lat: 14.4981}),
		models.NewSite("glo-cel-005", spatial.Point{Lon: 121.0968, Lat: 14.5122}),
	}
}

func mustGraph(t *testing.T, sites []models.Site, k int) *Graph {
	t.Helper()
	g, err := BuildGraph(context.Background(), sites, k, 2)
	require.NoError(t, err)
	return g
}

func mustStayModel(t *testing.T) *StayModel {
	t.Helper()
	m, err := NewStayModel(StayDistribution{Mean: 0.5, SD: 0.1, Low: 0.1, Upp: 0.9, RoundDecimals: 1})
	require.NoError(t, err)
	return m
}

func simConfig(seed uint64) SimulationConfig {
	return SimulationConfig{
		Seed:         seed,
		CapStartHour: 6,
		StartDate:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		NumDays:      3,
		Workers:      4,
		RecordPrefix: models.DefaultRecordPrefix,
	}
}

func subscriberIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = models.SequentialID(models.DefaultSubscriberPrefix, i+1, 3)
	}
	return ids
}
