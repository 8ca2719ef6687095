package mobility

import (
	"errors"

	"github.com/jengzang/telco-sightings-go/internal/models"
)

// minRecordIDWidth matches the five digit padding of the reference dataset
const minRecordIDWidth = 5

var errStoreFinalized = errors.New("trajectory store is finalized")

// TrajectoryStore accumulates trajectory records in emission order and assigns
// their synthetic ids once the simulation is complete
type TrajectoryStore struct {
	prefix    string
	records   []models.TrajectoryRecord
	finalized bool
}

// NewTrajectoryStore creates an empty store whose record UIDs use prefix
func NewTrajectoryStore(prefix string) *TrajectoryStore {
	return &TrajectoryStore{prefix: prefix}
}

// Append adds a batch of records after those already stored
func (s *TrajectoryStore) Append(batch ...models.TrajectoryRecord) error {
	if s.finalized {
		return errStoreFinalized
	}
	s.records = append(s.records, batch...)
	return nil
}

// Finalize assigns ids 1..n and formatted UIDs in emission order. Calling it again is a no-op.
func (s *TrajectoryStore) Finalize() {
	if s.finalized {
		return
	}
	width := models.IDWidth(len(s.records), minRecordIDWidth)
	for i := range s.records {
		s.records[i].ID = int64(i + 1)
		s.records[i].UID = models.SequentialID(s.prefix, i+1, width)
	}
	s.finalized = true
}

// Records returns the stored records. Ids are only set after Finalize.
func (s *TrajectoryStore) Records() []models.TrajectoryRecord {
	return s.records
}

// Len returns the number of stored records
func (s *TrajectoryStore) Len() int {
	return len(s.records)
}
