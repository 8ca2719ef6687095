package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/telco-sightings-go/internal/models"
)

// SubscriberRepository handles database operations for subscribers
type SubscriberRepository struct {
	db *sql.DB
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(db *sql.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// GetSubscriberByID retrieves a subscriber, nil when it does not exist
func (r *SubscriberRepository) GetSubscriberByID(id string) (*models.Subscriber, error) {
	var s models.Subscriber
	err := r.db.QueryRow(`SELECT id, stay_probability FROM subscribers WHERE id = ?`, id).
		Scan(&s.ID, &s.StayProbability)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}
	return &s, nil
}

// InsertSubscribers inserts subscribers within tx
func (r *SubscriberRepository) InsertSubscribers(tx *sql.Tx, subscribers []models.Subscriber) error {
	stmt, err := tx.Prepare(`INSERT INTO subscribers (id, stay_probability) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range subscribers {
		if _, err := stmt.Exec(s.ID, s.StayProbability); err != nil {
			return fmt.Errorf("failed to insert subscriber %s: %w", s.ID, err)
		}
	}
	return nil
}
