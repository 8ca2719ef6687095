package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/telco-sightings-go/internal/models"
)

// TransitionRepository handles database operations for transition graph edges
type TransitionRepository struct {
	db *sql.DB
}

// NewTransitionRepository creates a new transition repository
func NewTransitionRepository(db *sql.DB) *TransitionRepository {
	return &TransitionRepository{db: db}
}

// GetByOrigin retrieves the outgoing edges of a site, nearest first
func (r *TransitionRepository) GetByOrigin(origin string) ([]models.TransitionEdge, error) {
	rows, err := r.db.Query(`SELECT origin, destination, distance_m, rank, probability
		FROM transitions WHERE origin = ?
		ORDER BY rank ASC, distance_m ASC, destination ASC`, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to query transitions: %w", err)
	}
	defer rows.Close()

	edges := make([]models.TransitionEdge, 0)
	for rows.Next() {
		var e models.TransitionEdge
		if err := rows.Scan(&e.Origin, &e.Destination, &e.DistanceMeters, &e.Rank, &e.Probability); err != nil {
			return nil, fmt.Errorf("failed to scan transition: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// InsertTransitions inserts edges within tx
func (r *TransitionRepository) InsertTransitions(tx *sql.Tx, edges []models.TransitionEdge) error {
	stmt, err := tx.Prepare(`INSERT INTO transitions (origin, destination, distance_m, rank, probability)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range edges {
		if _, err := stmt.Exec(e.Origin, e.Destination, e.DistanceMeters, e.Rank, e.Probability); err != nil {
			return fmt.Errorf("failed to insert transition %s->%s: %w", e.Origin, e.Destination, err)
		}
	}
	return nil
}
