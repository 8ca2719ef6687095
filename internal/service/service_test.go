package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/telco-sightings-go/internal/config"
	"github.com/jengzang/telco-sightings-go/internal/database"
	"github.com/jengzang/telco-sightings-go/internal/export"
	"github.com/jengzang/telco-sightings-go/internal/ingest"
	"github.com/jengzang/telco-sightings-go/internal/logging"
	"github.com/jengzang/telco-sightings-go/internal/models"
	"github.com/jengzang/telco-sightings-go/internal/repository"
	"github.com/jengzang/telco-sightings-go/internal/spatial"
)

func testSites() []models.Site {
	points := []spatial.Point{
		{Lon: 121.0437, Lat: 14.5176},
		{Lon: 121.0509, Lat: 14.5243},
		{Lon: 121.0612, Lat: 14.5301},
		{Lon: 121.0551, Lat: 14.5098},
		{Lon: 121.0703, Lat: 14.5187},
	}
	sites := make([]models.Site, len(points))
	for i, p := range points {
		sites[i] = models.NewSite(models.SequentialID(models.DefaultSitePrefix, i+1, 3), p)
	}
	return sites
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.KNearestNeighbor = 2
	cfg.CapStartHour = 6
	cfg.DateRange.NumDays = 3
	cfg.Workers = 4
	cfg.Paths.Sites = filepath.Join(t.TempDir(), "sites.csv")
	cfg.Paths.Subscribers = filepath.Join(t.TempDir(), "subscribers.csv")
	return cfg
}

func roster(t *testing.T, n int) []string {
	t.Helper()
	ids, err := NewSiteBuilder(logging.Discard()).SubscriberRoster(models.DefaultSubscriberPrefix, n)
	require.NoError(t, err)
	return ids
}

func TestGeneratePersistsAndExports(t *testing.T) {
	cfg := testConfig(t)
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "gen.db")}, logging.Discard())
	require.NoError(t, err)
	defer db.Close()

	out := filepath.Join(t.TempDir(), "records.csv")
	svc := NewGenerationService(cfg, repository.NewDatasetRepository(db), logging.Discard())

	res, err := svc.Generate(context.Background(), GenerationInput{Sites: testSites(), SubscriberIDs: roster(t, 8)}, export.NewCSVSink(out))
	require.NoError(t, err)

	assert.Equal(t, 5, res.Run.Sites)
	assert.Equal(t, 8, res.Run.Subscribers)
	assert.Equal(t, len(res.Records), res.Run.Records)
	// every subscriber is seen at least at the start hour of every day
	assert.GreaterOrEqual(t, len(res.Records), 8*3)
	assert.Equal(t, 8*3, res.Travel.Count)

	latest, err := NewRunService(repository.NewRunRepository(db)).GetLatestRun()
	require.NoError(t, err)
	assert.Equal(t, res.Run.ID, latest.ID)
	assert.Contains(t, latest.ParamsJSON, "stayProbabilityDistribution")

	stored, err := NewRecordService(repository.NewRecordRepository(db), repository.NewSubscriberRepository(db), repository.NewSiteRepository(db)).
		GetRecords(models.RecordFilter{PageSize: 1000})
	require.NoError(t, err)
	assert.EqualValues(t, len(res.Records), stored.Total)

	var buf bytes.Buffer
	require.NoError(t, export.WriteRecords(&buf, res.Records))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := testConfig(t)
	in := GenerationInput{Sites: testSites(), SubscriberIDs: roster(t, 20)}

	first, err := NewGenerationService(cfg, nil, logging.Discard()).Generate(context.Background(), in)
	require.NoError(t, err)

	cfg.Workers = 1
	second, err := NewGenerationService(cfg, nil, logging.Discard()).Generate(context.Background(), in)
	require.NoError(t, err)

	assert.NotEqual(t, first.Run.ID, second.Run.ID)
	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, first.Subscribers, second.Subscribers)
}

func TestGenerateRejectsTooFewSites(t *testing.T) {
	cfg := testConfig(t)
	_, err := NewGenerationService(cfg, nil, logging.Discard()).
		Generate(context.Background(), GenerationInput{Sites: testSites()[:1], SubscriberIDs: roster(t, 2)})
	assert.Error(t, err)
}

func TestLoadInputsSkipsMalformedRows(t *testing.T) {
	cfg := testConfig(t)

	var sites bytes.Buffer
	require.NoError(t, ingest.WriteSites(&sites, testSites()))
	sites.WriteString("glo-cel-999,POINT (oops)\n")
	require.NoError(t, os.WriteFile(cfg.Paths.Sites, sites.Bytes(), 0o644))

	var subs bytes.Buffer
	require.NoError(t, ingest.WriteSubscribers(&subs, roster(t, 3)))
	require.NoError(t, os.WriteFile(cfg.Paths.Subscribers, subs.Bytes(), 0o644))

	in, err := NewGenerationService(cfg, nil, logging.Discard()).LoadInputs()
	require.NoError(t, err)
	assert.Len(t, in.Sites, 5)
	assert.Equal(t, roster(t, 3), in.SubscriberIDs)
}

func TestSummarizeTrajectories(t *testing.T) {
	sites := map[string]models.Site{}
	for _, s := range testSites() {
		sites[s.ID] = s
	}
	d12 := spatial.HaversineDistance(sites["glo-cel-001"].Latitude, sites["glo-cel-001"].Longitude,
		sites["glo-cel-002"].Latitude, sites["glo-cel-002"].Longitude)

	records := []models.TrajectoryRecord{
		{SubscriberID: "a", SiteID: "glo-cel-001", Date: "2023-01-01", Hour: 1},
		{SubscriberID: "a", SiteID: "glo-cel-002", Date: "2023-01-01", Hour: 4},
		{SubscriberID: "a", SiteID: "glo-cel-001", Date: "2023-01-01", Hour: 6},
		{SubscriberID: "a", SiteID: "glo-cel-002", Date: "2023-01-02", Hour: 0},
		{SubscriberID: "b", SiteID: "glo-cel-002", Date: "2023-01-01", Hour: 3},
	}

	got := SummarizeTrajectories(records, sites)
	require.Len(t, got, 3)

	assert.Equal(t, 3, got[0].Sightings)
	assert.Equal(t, 2, got[0].DistinctSites)
	assert.InDelta(t, 2*d12, got[0].TravelMeters, 1e-6)

	// the overnight hop counts towards the next day
	assert.Equal(t, "2023-01-02", got[1].Date)
	assert.InDelta(t, d12, got[1].TravelMeters, 1e-6)

	// a new subscriber starts without travel
	assert.Equal(t, "b", got[2].SubscriberID)
	assert.Zero(t, got[2].TravelMeters)

	assert.Positive(t, got[0].GyrationMeters)
	assert.Less(t, got[0].GyrationMeters, d12)
	// a single sighting has no spread
	assert.Zero(t, got[1].GyrationMeters)
}

func TestBuildSitesNamesKeptPoints(t *testing.T) {
	points := []spatial.Point{
		{Lon: 121.0, Lat: 14.5},
		{Lon: 121.0001, Lat: 14.5}, // ~11 m from the first
		{Lon: 121.1, Lat: 14.5},
		{Lon: 121.2, Lat: 14.6},
	}
	sites, res, err := NewSiteBuilder(logging.Discard()).BuildSites(points, 500, "cel-")
	require.NoError(t, err)
	assert.Len(t, res.Excluded, 2)
	require.Len(t, sites, 2)
	assert.Equal(t, "cel-001", sites[0].ID)
	assert.Equal(t, "cel-002", sites[1].ID)
	assert.Equal(t, 121.1, sites[0].Longitude)
}

func TestRandomCandidatesSeeded(t *testing.T) {
	b := NewSiteBuilder(logging.Discard())
	bounds := spatial.Bounds{MinLon: 121.0, MinLat: 14.4, MaxLon: 121.1, MaxLat: 14.6}

	first, err := b.RandomCandidates(7, bounds, 50)
	require.NoError(t, err)
	second, err := b.RandomCandidates(7, bounds, 50)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	half, err := b.Subsample(7, first, 0.5)
	require.NoError(t, err)
	assert.Len(t, half, 25)

	_, err = b.SubscriberRoster("x", 0)
	assert.Error(t, err)
}
