package mobility

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jengzang/telco-sightings-go/internal/models"
)

// HoursPerDay bounds the inner hourly walk; hour 23 is the last hour of a day
const HoursPerDay = 24

// SimulationConfig controls a simulation run
type SimulationConfig struct {
	Seed         uint64
	CapStartHour int       // start hour is drawn from [0, CapStartHour); 0 pins it to hour 0
	StartDate    time.Time // first simulated calendar date
	NumDays      int
	Workers      int    // concurrent subscriber walks, runtime.NumCPU() when <= 0
	RecordPrefix string // UID prefix of emitted records
}

// Validate checks the run parameters
func (c SimulationConfig) Validate() error {
	if c.CapStartHour < 0 || c.CapStartHour >= HoursPerDay {
		return fmt.Errorf("%w: got %d", ErrInvalidCapStartHour, c.CapStartHour)
	}
	if c.NumDays < 1 {
		return fmt.Errorf("%w: got %d days", ErrInvalidDateRange, c.NumDays)
	}
	return nil
}

// Simulator walks subscribers over a transition graph hour by hour
type Simulator struct {
	graph *Graph
	stay  *StayModel
	cfg   SimulationConfig
}

// Result is the output of a simulation run
type Result struct {
	Subscribers []models.Subscriber
	Store       *TrajectoryStore
}

// NewSimulator validates the configuration and binds it to a built graph and stay model
func NewSimulator(graph *Graph, stay *StayModel, cfg SimulationConfig) (*Simulator, error) {
	if graph == nil || graph.Len() < 2 {
		return nil, ErrTooFewSites
	}
	if stay == nil {
		return nil, fmt.Errorf("%w: no stay model", ErrInvalidStayDistribution)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Simulator{graph: graph, stay: stay, cfg: cfg}, nil
}

// Run draws a stay probability for each subscriber id and simulates every date in
// the configured range. Records come out subscriber-major in the order of ids,
// date-minor and hour-ascending, and are identical for the same seed and inputs
// regardless of scheduling.
func (s *Simulator) Run(ctx context.Context, ids []string) (*Result, error) {
	subs := make([]models.Subscriber, len(ids))
	for i, id := range ids {
		subs[i] = models.Subscriber{ID: id}
	}
	return s.run(ctx, subs, true)
}

// RunWithStay simulates subscribers whose stay probabilities are already known,
// e.g. a roster replayed from a previous run
func (s *Simulator) RunWithStay(ctx context.Context, subs []models.Subscriber) (*Result, error) {
	for _, sub := range subs {
		if math.IsNaN(sub.StayProbability) || sub.StayProbability < 0 || sub.StayProbability > 1 {
			return nil, fmt.Errorf("%w: subscriber %s has stay probability %v", ErrInvalidStayDistribution, sub.ID, sub.StayProbability)
		}
	}
	return s.run(ctx, append([]models.Subscriber(nil), subs...), false)
}

func (s *Simulator) run(ctx context.Context, subs []models.Subscriber, drawStay bool) (*Result, error) {
	if len(subs) == 0 {
		return nil, ErrNoSubscribers
	}
	seen := make(map[string]struct{}, len(subs))
	for _, sub := range subs {
		if _, dup := seen[sub.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSubscriber, sub.ID)
		}
		seen[sub.ID] = struct{}{}
	}

	// one buffer per subscriber, merged in input order afterwards
	buffers := make([][]models.TrajectoryRecord, len(subs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.Workers)
	for i := range subs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			rng := s.subscriberRand(subs[i].ID)
			if drawStay {
				subs[i].StayProbability = s.stay.Draw(rng)
			}
			records, err := s.walk(subs[i], rng)
			if err != nil {
				return fmt.Errorf("subscriber %s: %w", subs[i].ID, err)
			}
			buffers[i] = records
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	store := NewTrajectoryStore(s.cfg.RecordPrefix)
	for _, records := range buffers {
		if err := store.Append(records...); err != nil {
			return nil, err
		}
	}
	store.Finalize()

	return &Result{Subscribers: subs, Store: store}, nil
}

// subscriberRand derives an independent generator for one subscriber from the
// global seed and the subscriber id
func (s *Simulator) subscriberRand(id string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(id))
	return rand.New(rand.NewPCG(s.cfg.Seed, h.Sum64()))
}

// walk simulates one subscriber over the whole date range.
//
// The home site is drawn once and the current site carries over from the last
// hour of one day into the next. The start hour is drawn afresh every day and is
// always recorded. Every later hour moves with probability 1 - stay; only moves
// are recorded.
func (s *Simulator) walk(sub models.Subscriber, rng *rand.Rand) ([]models.TrajectoryRecord, error) {
	current := rng.IntN(s.graph.Len())
	move := 1 - sub.StayProbability

	var records []models.TrajectoryRecord
	for day := 0; day < s.cfg.NumDays; day++ {
		date := s.cfg.StartDate.AddDate(0, 0, day).Format(models.DateLayout)

		startHour := 0
		if s.cfg.CapStartHour > 0 {
			startHour = rng.IntN(s.cfg.CapStartHour)
		}
		records = append(records, s.record(sub.ID, current, date, startHour))

		for hour := startHour + 1; hour < HoursPerDay; hour++ {
			if rng.Float64() >= move {
				continue
			}
			next, err := s.graph.next(current, rng)
			if err != nil {
				return nil, err
			}
			current = next
			records = append(records, s.record(sub.ID, current, date, hour))
		}
	}

	return records, nil
}

func (s *Simulator) record(subscriberID string, site int, date string, hour int) models.TrajectoryRecord {
	return models.TrajectoryRecord{
		SubscriberID: subscriberID,
		SiteID:       s.graph.sites[site].ID,
		Date:         date,
		Hour:         hour,
	}
}
