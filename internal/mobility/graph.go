package mobility

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jengzang/telco-sightings-go/internal/models"
	"github.com/jengzang/telco-sightings-go/internal/spatial"
	"github.com/jengzang/telco-sightings-go/internal/stats"
)

// edge is a retained hop from an origin to the site at dest
type edge struct {
	dest       int
	distance   float64
	rank       int
	prob       float64
	cumulative float64
}

// Graph is the read-only transition graph over a fixed site set.
// Each origin keeps its retained destinations ordered by ascending distance.
// A Graph is safe for concurrent reads once built.
type Graph struct {
	sites []models.Site
	index map[string]int
	adj   [][]edge
	k     int
}

// BuildGraph builds the k-nearest transition graph over sites.
//
// For every origin the distances to all other sites are ranked with competition
// ranking and destinations with rank <= k are kept, so ties at the k-th distance
// may keep more than k. Kept distances are min-max scaled, inverted so nearer
// sites score higher, and passed through a softmax to give transition
// probabilities. When all kept distances are equal the distribution is uniform.
//
// Origins are processed concurrently by up to workers goroutines
// (runtime.NumCPU() when workers <= 0).
func BuildGraph(ctx context.Context, sites []models.Site, k int, workers int) (*Graph, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}

	index := make(map[string]int, len(sites))
	for i, s := range sites {
		if _, dup := index[s.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSite, s.ID)
		}
		if err := s.Point().Validate(); err != nil {
			return nil, fmt.Errorf("site %s: %w", s.ID, err)
		}
		index[s.ID] = i
	}
	if len(sites) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewSites, len(sites))
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g := &Graph{
		sites: append([]models.Site(nil), sites...),
		index: index,
		adj:   make([][]edge, len(sites)),
		k:     k,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for origin := range g.sites {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			g.adj[origin] = g.buildRow(origin)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build transition graph: %w", err)
	}

	return g, nil
}

// buildRow ranks every other site by distance from origin and converts the
// retained distances into a categorical distribution
func (g *Graph) buildRow(origin int) []edge {
	o := g.sites[origin]

	dests := make([]int, 0, len(g.sites)-1)
	dists := make([]float64, 0, len(g.sites)-1)
	for j, d := range g.sites {
		if j == origin {
			continue
		}
		dests = append(dests, j)
		dists = append(dists, spatial.HaversineDistance(o.Latitude, o.Longitude, d.Latitude, d.Longitude))
	}

	ranks := stats.MinRank(dists)

	row := make([]edge, 0, g.k)
	for i, r := range ranks {
		if r <= g.k {
			row = append(row, edge{dest: dests[i], distance: dists[i], rank: r})
		}
	}
	sort.SliceStable(row, func(a, b int) bool {
		return row[a].distance < row[b].distance
	})

	kept := make([]float64, len(row))
	for i, e := range row {
		kept[i] = e.distance
	}
	scaled := stats.Normalize(kept)
	for i := range scaled {
		scaled[i] = 1 - scaled[i]
	}
	probs := stats.Softmax(scaled)

	var cum float64
	for i := range row {
		row[i].prob = probs[i]
		cum += probs[i]
		row[i].cumulative = cum
	}
	// pin the last bucket so a draw just below 1 always lands
	row[len(row)-1].cumulative = 1

	return row
}

// Len returns the number of sites
func (g *Graph) Len() int {
	return len(g.sites)
}

// K returns the neighbour count the graph was built with
func (g *Graph) K() int {
	return g.k
}

// Sites returns a copy of the site set in input order
func (g *Graph) Sites() []models.Site {
	return append([]models.Site(nil), g.sites...)
}

// Edges returns the outgoing edges of origin ordered by ascending distance
func (g *Graph) Edges(origin string) []models.TransitionEdge {
	i, ok := g.index[origin]
	if !ok {
		return nil
	}
	return g.edgesOf(i)
}

// AllEdges returns every edge, grouped by origin in site order
func (g *Graph) AllEdges() []models.TransitionEdge {
	var all []models.TransitionEdge
	for i := range g.sites {
		all = append(all, g.edgesOf(i)...)
	}
	return all
}

func (g *Graph) edgesOf(i int) []models.TransitionEdge {
	out := make([]models.TransitionEdge, len(g.adj[i]))
	for j, e := range g.adj[i] {
		out[j] = models.TransitionEdge{
			Origin:         g.sites[i].ID,
			Destination:    g.sites[e.dest].ID,
			DistanceMeters: e.distance,
			Rank:           e.rank,
			Probability:    e.prob,
		}
	}
	return out
}

// next draws the destination of a hop from origin, weighted by transition probability
func (g *Graph) next(origin int, rng *rand.Rand) (int, error) {
	row := g.adj[origin]
	if len(row) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoOutgoingEdges, g.sites[origin].ID)
	}

	u := rng.Float64()
	for _, e := range row {
		if u < e.cumulative {
			return e.dest, nil
		}
	}
	return row[len(row)-1].dest, nil
}

// Next draws the destination of a hop from the site with the given id
func (g *Graph) Next(origin string, rng *rand.Rand) (string, error) {
	i, ok := g.index[origin]
	if !ok {
		return "", fmt.Errorf("unknown site %q", origin)
	}
	j, err := g.next(i, rng)
	if err != nil {
		return "", err
	}
	return g.sites[j].ID, nil
}
