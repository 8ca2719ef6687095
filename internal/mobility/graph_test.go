package mobility

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/telco-sightings-go/internal/models"
	"github.com/jengzang/telco-sightings-go/internal/spatial"
)

func TestBuildGraphFiveSitesK2(t *testing.T) {
	g := mustGraph(t, fiveSites(), 2)
	require.Equal(t, 5, g.Len())

	for _, site := range g.Sites() {
		edges := g.Edges(site.ID)
		require.Len(t, edges, 2, "origin %s", site.ID)

		var sum float64
		for i, e := range edges {
			assert.Equal(t, site.ID, e.Origin)
			assert.NotEqual(t, site.ID, e.Destination)
			assert.Equal(t, i+1, e.Rank)
			assert.Positive(t, e.Probability)
			sum += e.Probability
		}
		assert.InDelta(t, 1.0, sum, 1e-6)

		// nearer destination is the more likely hop
		assert.Less(t, edges[0].DistanceMeters, edges[1].DistanceMeters)
		assert.Greater(t, edges[0].Probability, edges[1].Probability)
	}
}

func TestBuildGraphProbabilitiesSumToOne(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	points, err := spatial.RandomPoints(rng, spatial.Bounds{MinLon: 121.0, MinLat: 14.45, MaxLon: 121.1, MaxLat: 14.58}, 60)
	require.NoError(t, err)

	sites := make([]models.Site, len(points))
	for i, p := range points {
		sites[i] = models.NewSite(models.SequentialID(models.DefaultSitePrefix, i+1, 3), p)
	}

	for _, k := range []int{1, 3, 7, 59, 100} {
		g := mustGraph(t, sites, k)
		for _, site := range sites {
			edges := g.Edges(site.ID)
			assert.Len(t, edges, min(k, len(sites)-1))
			var sum float64
			for _, e := range edges {
				sum += e.Probability
			}
			assert.InDelta(t, 1.0, sum, 1e-6, "k=%d origin=%s", k, site.ID)
		}
	}
}

func TestBuildGraphTiesShareRank(t *testing.T) {
	// the centre is exactly one degree from each of its four neighbours
	sites := []models.Site{
		models.NewSite("centre", spatial.Point{Lon: 0, Lat: 0}),
		models.NewSite("north", spatial.Point{Lon: 0, Lat: 1}),
		models.NewSite("east", spatial.Point{Lon: 1, Lat: 0}),
		models.NewSite("south", spatial.Point{Lon: 0, Lat: -1}),
		models.NewSite("west", spatial.Point{Lon: -1, Lat: 0}),
	}
	g := mustGraph(t, sites, 1)

	edges := g.Edges("centre")
	require.Len(t, edges, 4)
	for _, e := range edges {
		assert.Equal(t, 1, e.Rank)
		assert.InDelta(t, 0.25, e.Probability, 1e-12)
	}
}

func TestBuildGraphSingleEdgeHasProbabilityOne(t *testing.T) {
	g := mustGraph(t, fiveSites(), 1)
	for _, site := range g.Sites() {
		edges := g.Edges(site.ID)
		require.Len(t, edges, 1)
		assert.Equal(t, 1.0, edges[0].Probability)
	}
}

func TestBuildGraphDuplicateCoordinates(t *testing.T) {
	sites := []models.Site{
		models.NewSite("a", spatial.Point{Lon: 121.05, Lat: 14.55}),
		models.NewSite("b", spatial.Point{Lon: 121.05, Lat: 14.55}),
		models.NewSite("c", spatial.Point{Lon: 121.06, Lat: 14.56}),
	}
	g := mustGraph(t, sites, 2)

	for _, e := range g.AllEdges() {
		assert.False(t, math.IsNaN(e.Probability))
		assert.Positive(t, e.Probability)
	}

	edges := g.Edges("a")
	require.Len(t, edges, 2)
	assert.Equal(t, "b", edges[0].Destination)
	assert.Zero(t, edges[0].DistanceMeters)

	// two sites only: all kept distances equal, uniform fallback
	pair := mustGraph(t, sites[:2], 3)
	for _, e := range pair.AllEdges() {
		assert.Equal(t, 1.0, e.Probability)
	}
}

func TestBuildGraphErrors(t *testing.T) {
	ctx := context.Background()

	_, err := BuildGraph(ctx, fiveSites()[:1], 2, 1)
	assert.ErrorIs(t, err, ErrTooFewSites)

	_, err = BuildGraph(ctx, nil, 2, 1)
	assert.ErrorIs(t, err, ErrTooFewSites)

	_, err = BuildGraph(ctx, fiveSites(), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidK)

	dup := append(fiveSites(), fiveSites()[0])
	_, err = BuildGraph(ctx, dup, 2, 1)
	assert.ErrorIs(t, err, ErrDuplicateSite)

	bad := fiveSites()
	bad[2].Latitude = 95
	_, err = BuildGraph(ctx, bad, 2, 1)
	assert.ErrorIs(t, err, spatial.ErrInvalidCoordinate)
}

func TestBuildGraphIndependentOfWorkers(t *testing.T) {
	one, err := BuildGraph(context.Background(), fiveSites(), 3, 1)
	require.NoError(t, err)
	many, err := BuildGraph(context.Background(), fiveSites(), 3, 8)
	require.NoError(t, err)
	assert.Equal(t, one.AllEdges(), many.AllEdges())
}

func TestGraphNextFollowsProbabilities(t *testing.T) {
	g := mustGraph(t, fiveSites(), 3)
	edges := g.Edges("glo-cel-001")
	counts := make(map[string]int)
	rng := rand.New(rand.NewPCG(9, 9))
	const draws = 30000
	for i := 0; i < draws; i++ {
		next, err := g.Next("glo-cel-001", rng)
		require.NoError(t, err)
		counts[next]++
	}

	require.Len(t, counts, len(edges))
	for _, e := range edges {
		assert.InDelta(t, e.Probability, float64(counts[e.Destination])/draws, 0.02, "destination %s", e.Destination)
	}
}

func TestGraphEdgesUnknownOrigin(t *testing.T) {
	g := mustGraph(t, fiveSites(), 2)
	assert.Nil(t, g.Edges("missing"))
	_, err := g.Next("missing", rand.New(rand.NewPCG(1, 1)))
	assert.Error(t, err)
	assert.Len(t, g.AllEdges(), 10)
	assert.Equal(t, 2, g.K())
}
