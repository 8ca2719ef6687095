package service

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/jengzang/telco-sightings-go/internal/models"
	"github.com/jengzang/telco-sightings-go/internal/spatial"
)

// minIDWidth is the narrowest zero padding of generated site and subscriber ids
const minIDWidth = 3

// SiteBuilder prepares the inputs of a generation run: candidate points, the
// deduplicated site set and the subscriber roster
type SiteBuilder struct {
	logger logrus.FieldLogger
}

// NewSiteBuilder creates a new site builder
func NewSiteBuilder(logger logrus.FieldLogger) *SiteBuilder {
	return &SiteBuilder{logger: logger}
}

// RandomCandidates draws n candidate points uniformly inside bounds
func (b *SiteBuilder) RandomCandidates(seed uint64, bounds spatial.Bounds, n int) ([]spatial.Point, error) {
	points, err := spatial.RandomPoints(rand.New(rand.NewPCG(seed, 0)), bounds, n)
	if err != nil {
		return nil, fmt.Errorf("failed to sample candidates: %w", err)
	}
	return points, nil
}

// Subsample keeps a seeded random fraction of the candidates
func (b *SiteBuilder) Subsample(seed uint64, points []spatial.Point, frac float64) ([]spatial.Point, error) {
	return spatial.SampleFraction(rand.New(rand.NewPCG(seed, 1)), points, frac)
}

// BuildSites drops candidates closer than minSeparation meters to their nearest
// neighbour and names the rest prefix001, prefix002, ... in input order
func (b *SiteBuilder) BuildSites(points []spatial.Point, minSeparation float64, prefix string) ([]models.Site, spatial.DedupResult, error) {
	result, err := spatial.Dedupe(points, minSeparation)
	if err != nil {
		return nil, result, fmt.Errorf("failed to deduplicate candidates: %w", err)
	}

	width := models.IDWidth(len(result.Kept), minIDWidth)
	sites := make([]models.Site, len(result.Kept))
	for i, p := range result.Kept {
		sites[i] = models.NewSite(models.SequentialID(prefix, i+1, width), p)
	}

	b.logger.WithFields(logrus.Fields{
		"candidates":    len(points),
		"kept":          len(result.Kept),
		"excluded":      len(result.Excluded),
		"minSeparation": minSeparation,
	}).Info("deduplicated candidate sites")

	return sites, result, nil
}

// SubscriberRoster returns n sequential subscriber ids
func (b *SiteBuilder) SubscriberRoster(prefix string, n int) ([]string, error) {
	if n < 1 {
		return nil, fmt.Errorf("subscriber count must be positive, got %d", n)
	}
	width := models.IDWidth(n, minIDWidth)
	ids := make([]string, n)
	for i := range ids {
		ids[i] = models.SequentialID(prefix, i+1, width)
	}
	return ids, nil
}
