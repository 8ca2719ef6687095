package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jengzang/telco-sightings-go/internal/config"
	"github.com/jengzang/telco-sightings-go/internal/export"
	"github.com/jengzang/telco-sightings-go/internal/ingest"
	"github.com/jengzang/telco-sightings-go/internal/mobility"
	"github.com/jengzang/telco-sightings-go/internal/models"
	"github.com/jengzang/telco-sightings-go/internal/repository"
	"github.com/jengzang/telco-sightings-go/internal/stats"
)

// GenerationInput is the site set and subscriber roster of a run
type GenerationInput struct {
	Sites         []models.Site
	SubscriberIDs []string
}

// GenerationResult is everything a run produced
type GenerationResult struct {
	Run         models.GenerationRun
	Graph       *mobility.Graph
	Subscribers []models.Subscriber
	Records     []models.TrajectoryRecord
	Travel      stats.Summary // travel meters per subscriber-day
}

// GenerationService runs the generation pipeline: transition graph, simulation,
// persistence and export
type GenerationService struct {
	cfg      *config.Config
	datasets *repository.DatasetRepository
	logger   logrus.FieldLogger
}

// NewGenerationService creates a new generation service. Persistence is skipped
// when datasets is nil.
func NewGenerationService(cfg *config.Config, datasets *repository.DatasetRepository, logger logrus.FieldLogger) *GenerationService {
	return &GenerationService{
		cfg:      cfg,
		datasets: datasets,
		logger:   logger,
	}
}

// LoadInputs reads the site and subscriber files named in the configuration.
// Malformed rows are logged and skipped.
func (s *GenerationService) LoadInputs() (*GenerationInput, error) {
	sites, warnings, err := readFile(s.cfg.Paths.Sites, ingest.ReadSites)
	if err != nil {
		return nil, fmt.Errorf("failed to load sites: %w", err)
	}
	s.logWarnings(s.cfg.Paths.Sites, warnings)

	ids, warnings, err := readFile(s.cfg.Paths.Subscribers, ingest.ReadSubscribers)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscribers: %w", err)
	}
	s.logWarnings(s.cfg.Paths.Subscribers, warnings)

	return &GenerationInput{Sites: sites, SubscriberIDs: ids}, nil
}

func readFile[T any](path string, read func(io.Reader) ([]T, []ingest.RowWarning, error)) ([]T, []ingest.RowWarning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	rows, warnings, err := read(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, warnings, nil
}

func (s *GenerationService) logWarnings(path string, warnings []ingest.RowWarning) {
	for _, w := range warnings {
		s.logger.WithFields(logrus.Fields{"file": path, "line": w.Line}).Warn(w.Reason)
	}
}

// Generate builds the transition graph over the sites, simulates every subscriber
// over the configured date range, stores the dataset and hands the records to
// each sink in order. Any error aborts the run before later steps.
func (s *GenerationService) Generate(ctx context.Context, in GenerationInput, sinks ...export.Sink) (*GenerationResult, error) {
	started := time.Now()
	runID := uuid.NewString()
	log := s.logger.WithField("run", runID)

	startDate, err := s.cfg.DateRange.Start()
	if err != nil {
		return nil, err
	}

	graph, err := mobility.BuildGraph(ctx, in.Sites, s.cfg.KNearestNeighbor, s.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to build transition graph: %w", err)
	}
	log.WithFields(logrus.Fields{"sites": graph.Len(), "k": graph.K()}).Info("built transition graph")

	stay, err := mobility.NewStayModel(s.cfg.StayProbability)
	if err != nil {
		return nil, err
	}

	sim, err := mobility.NewSimulator(graph, stay, mobility.SimulationConfig{
		Seed:         s.cfg.Seed,
		CapStartHour: s.cfg.CapStartHour,
		StartDate:    startDate,
		NumDays:      s.cfg.DateRange.NumDays,
		Workers:      s.cfg.Workers,
		RecordPrefix: s.cfg.IDs.RecordPrefix,
	})
	if err != nil {
		return nil, err
	}

	out, err := sim.Run(ctx, in.SubscriberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate trajectories: %w", err)
	}
	records := out.Store.Records()

	params, err := json.Marshal(runParams{
		MinSiteSeparationMeters: s.cfg.MinSiteSeparationMeters,
		StayProbability:         s.cfg.StayProbability,
		Workers:                 s.cfg.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode run parameters: %w", err)
	}

	result := &GenerationResult{
		Run: models.GenerationRun{
			ID:           runID,
			Seed:         s.cfg.Seed,
			K:            s.cfg.KNearestNeighbor,
			CapStartHour: s.cfg.CapStartHour,
			StartDate:    s.cfg.DateRange.StartDate,
			NumDays:      s.cfg.DateRange.NumDays,
			Sites:        graph.Len(),
			Subscribers:  len(out.Subscribers),
			Records:      len(records),
			ParamsJSON:   string(params),
		},
		Graph:       graph,
		Subscribers: out.Subscribers,
		Records:     records,
	}

	siteIndex := make(map[string]models.Site, graph.Len())
	for _, site := range graph.Sites() {
		siteIndex[site.ID] = site
	}
	result.Travel = stats.Summarize(TravelDistances(SummarizeTrajectories(records, siteIndex)))

	if s.datasets != nil {
		err := s.datasets.Replace(repository.Dataset{
			Run:         result.Run,
			Sites:       graph.Sites(),
			Subscribers: out.Subscribers,
			Transitions: graph.AllEdges(),
			Records:     records,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to persist run: %w", err)
		}
		log.Info("persisted dataset")
	}

	for _, sink := range sinks {
		if err := sink.Export(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to export to %s: %w", sink.Name(), err)
		}
		log.WithField("sink", sink.Name()).Info("exported records")
	}

	log.WithFields(logrus.Fields{
		"subscribers":      result.Run.Subscribers,
		"records":          result.Run.Records,
		"meanTravelMeters": result.Travel.Mean,
		"duration":         time.Since(started).String(),
	}).Info("generation finished")

	return result, nil
}

// runParams are the settings recorded with a run beyond its dedicated columns
type runParams struct {
	MinSiteSeparationMeters float64                   `json:"minSiteSeparationMeters"`
	StayProbability         mobility.StayDistribution `json:"stayProbabilityDistribution"`
	Workers                 int                       `json:"workers,omitempty"`
}
