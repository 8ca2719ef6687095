package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/telco-sightings-go/internal/database"
	"github.com/jengzang/telco-sightings-go/internal/models"
)

// Dataset is everything one generation run produces
type Dataset struct {
	Run         models.GenerationRun
	Sites       []models.Site
	Subscribers []models.Subscriber
	Transitions []models.TransitionEdge
	Records     []models.TrajectoryRecord
}

// DatasetRepository persists whole generation runs
type DatasetRepository struct {
	db          *sql.DB
	sites       *SiteRepository
	subscribers *SubscriberRepository
	transitions *TransitionRepository
	records     *RecordRepository
	runs        *RunRepository
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *sql.DB) *DatasetRepository {
	return &DatasetRepository{
		db:          db,
		sites:       NewSiteRepository(db),
		subscribers: NewSubscriberRepository(db),
		transitions: NewTransitionRepository(db),
		records:     NewRecordRepository(db),
		runs:        NewRunRepository(db),
	}
}

// Replace swaps the stored dataset for ds in one transaction. Run history is kept.
func (r *DatasetRepository) Replace(ds Dataset) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		// children first, foreign keys are enforced
		for _, table := range []string{"trajectory_records", "transitions", "subscribers", "sites"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		if err := r.sites.InsertSites(tx, ds.Sites); err != nil {
			return err
		}
		if err := r.subscribers.InsertSubscribers(tx, ds.Subscribers); err != nil {
			return err
		}
		if err := r.transitions.InsertTransitions(tx, ds.Transitions); err != nil {
			return err
		}
		if err := r.records.InsertRecords(tx, ds.Records); err != nil {
			return err
		}
		return r.runs.InsertRun(tx, ds.Run)
	})
}
