package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jengzang/telco-sightings-go/internal/models"
)

// RecordRepository handles database operations for trajectory records
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

const recordColumns = `id, uid, subscriber_id, site_id, date, hour`

// GetRecords retrieves records with filtering and pagination, in emission order
func (r *RecordRepository) GetRecords(filter models.RecordFilter) ([]models.TrajectoryRecord, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.SubscriberID != "" {
		conditions = append(conditions, "subscriber_id = ?")
		args = append(args, filter.SubscriberID)
	}
	if filter.SiteID != "" {
		conditions = append(conditions, "site_id = ?")
		args = append(args, filter.SiteID)
	}
	if filter.Date != "" {
		conditions = append(conditions, "date = ?")
		args = append(args, filter.Date)
	}
	if filter.Hour != nil {
		conditions = append(conditions, "hour = ?")
		args = append(args, *filter.Hour)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM trajectory_records"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count records: %w", err)
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	query := "SELECT " + recordColumns + " FROM trajectory_records" + where + " ORDER BY id ASC LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	records, err := r.query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// GetTrajectory returns a subscriber's records in time order, limited to one date when date is set
func (r *RecordRepository) GetTrajectory(subscriberID, date string) ([]models.TrajectoryRecord, error) {
	query := "SELECT " + recordColumns + " FROM trajectory_records WHERE subscriber_id = ?"
	args := []interface{}{subscriberID}
	if date != "" {
		query += " AND date = ?"
		args = append(args, date)
	}
	query += " ORDER BY date ASC, hour ASC"

	return r.query(query, args...)
}

func (r *RecordRepository) query(query string, args ...interface{}) ([]models.TrajectoryRecord, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := make([]models.TrajectoryRecord, 0)
	for rows.Next() {
		var rec models.TrajectoryRecord
		if err := rows.Scan(&rec.ID, &rec.UID, &rec.SubscriberID, &rec.SiteID, &rec.Date, &rec.Hour); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// InsertRecords inserts records within tx
func (r *RecordRepository) InsertRecords(tx *sql.Tx, records []models.TrajectoryRecord) error {
	stmt, err := tx.Prepare(`INSERT INTO trajectory_records (` + recordColumns + `) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.ID, rec.UID, rec.SubscriberID, rec.SiteID, rec.Date, rec.Hour); err != nil {
			return fmt.Errorf("failed to insert record %s: %w", rec.UID, err)
		}
	}
	return nil
}
