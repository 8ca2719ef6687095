package service

import (
	"fmt"
	"time"

	"github.com/jengzang/telco-sightings-go/internal/models"
	"github.com/jengzang/telco-sightings-go/internal/repository"
	"github.com/jengzang/telco-sightings-go/internal/stats"
)

// SubscriberSummary is the per-day breakdown of one subscriber's trajectory
type SubscriberSummary struct {
	Subscriber models.Subscriber          `json:"subscriber"`
	Days       []models.TrajectorySummary `json:"days"`
	Travel     stats.Summary              `json:"travel"`
}

// RecordService handles business logic for trajectory records
type RecordService struct {
	recordRepo     *repository.RecordRepository
	subscriberRepo *repository.SubscriberRepository
	siteRepo       *repository.SiteRepository
}

// NewRecordService creates a new record service
func NewRecordService(recordRepo *repository.RecordRepository, subscriberRepo *repository.SubscriberRepository, siteRepo *repository.SiteRepository) *RecordService {
	return &RecordService{
		recordRepo:     recordRepo,
		subscriberRepo: subscriberRepo,
		siteRepo:       siteRepo,
	}
}

// GetRecords retrieves records with filtering and pagination
func (s *RecordService) GetRecords(filter models.RecordFilter) (*models.RecordsResponse, error) {
	if filter.Date != "" {
		if _, err := time.Parse(models.DateLayout, filter.Date); err != nil {
			return nil, fmt.Errorf("%w: date %q: %v", ErrInvalidArgument, filter.Date, err)
		}
	}
	filter.Page, filter.PageSize = clampPage(filter.Page, filter.PageSize)

	records, total, err := s.recordRepo.GetRecords(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}

	return &models.RecordsResponse{
		Data:       records,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

// GetTrajectory returns a subscriber's sightings in time order, for one date when date is set
func (s *RecordService) GetTrajectory(subscriberID, date string) ([]models.TrajectoryRecord, error) {
	if _, err := s.getSubscriber(subscriberID); err != nil {
		return nil, err
	}
	records, err := s.recordRepo.GetTrajectory(subscriberID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get trajectory: %w", err)
	}
	return records, nil
}

// GetSummary summarizes every simulated day of a subscriber
func (s *RecordService) GetSummary(subscriberID string) (*SubscriberSummary, error) {
	sub, err := s.getSubscriber(subscriberID)
	if err != nil {
		return nil, err
	}

	records, err := s.recordRepo.GetTrajectory(subscriberID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get trajectory: %w", err)
	}

	seen := make(map[string]bool)
	var siteIDs []string
	for _, r := range records {
		if !seen[r.SiteID] {
			seen[r.SiteID] = true
			siteIDs = append(siteIDs, r.SiteID)
		}
	}
	sites, err := s.siteRepo.GetSitesByIDs(siteIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get sites: %w", err)
	}

	days := SummarizeTrajectories(records, sites)
	return &SubscriberSummary{
		Subscriber: *sub,
		Days:       days,
		Travel:     stats.Summarize(TravelDistances(days)),
	}, nil
}

func (s *RecordService) getSubscriber(id string) (*models.Subscriber, error) {
	sub, err := s.subscriberRepo.GetSubscriberByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("subscriber %s: %w", id, ErrNotFound)
	}
	return sub, nil
}
