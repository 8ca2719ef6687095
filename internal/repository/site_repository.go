package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jengzang/telco-sightings-go/internal/models"
)

// SiteRepository handles database operations for cell-tower sites
type SiteRepository struct {
	db *sql.DB
}

// NewSiteRepository creates a new site repository
func NewSiteRepository(db *sql.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// GetSites retrieves sites with filtering and pagination
func (r *SiteRepository) GetSites(filter models.SiteFilter) ([]models.Site, int64, error) {
	query := `SELECT id, longitude, latitude, cell_token FROM sites`

	var conditions []string
	var args []interface{}

	if filter.CellToken != "" {
		conditions = append(conditions, "cell_token = ?")
		args = append(args, filter.CellToken)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM sites"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sites: %w", err)
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	query += where + " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	sites := make([]models.Site, 0)
	for rows.Next() {
		var s models.Site
		if err := rows.Scan(&s.ID, &s.Longitude, &s.Latitude, &s.CellToken); err != nil {
			return nil, 0, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, s)
	}

	return sites, total, rows.Err()
}

// GetSiteByID retrieves a single site, nil when it does not exist
func (r *SiteRepository) GetSiteByID(id string) (*models.Site, error) {
	var s models.Site
	err := r.db.QueryRow(`SELECT id, longitude, latitude, cell_token FROM sites WHERE id = ?`, id).
		Scan(&s.ID, &s.Longitude, &s.Latitude, &s.CellToken)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	return &s, nil
}

// GetSitesByIDs returns the requested sites keyed by id
func (r *SiteRepository) GetSitesByIDs(ids []string) (map[string]models.Site, error) {
	result := make(map[string]models.Site, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.Query(`SELECT id, longitude, latitude, cell_token FROM sites WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Site
		if err := rows.Scan(&s.ID, &s.Longitude, &s.Latitude, &s.CellToken); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		result[s.ID] = s
	}
	return result, rows.Err()
}

// InsertSites inserts sites within tx
func (r *SiteRepository) InsertSites(tx *sql.Tx, sites []models.Site) error {
	stmt, err := tx.Prepare(`INSERT INTO sites (id, longitude, latitude, cell_token) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range sites {
		if _, err := stmt.Exec(s.ID, s.Longitude, s.Latitude, s.CellToken); err != nil {
			return fmt.Errorf("failed to insert site %s: %w", s.ID, err)
		}
	}
	return nil
}

// normalizePage applies the default page size of 100 and caps it at 1000
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 100
	}
	if pageSize > 1000 {
		pageSize = 1000
	}
	return page, pageSize
}
