package service

import (
	"fmt"
	"math"

	"github.com/jengzang/telco-sightings-go/internal/models"
	"github.com/jengzang/telco-sightings-go/internal/repository"
)

// SitesResponse represents a paginated response of sites
type SitesResponse struct {
	Data       []models.Site `json:"data"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

// SiteService handles business logic for sites and their transitions
type SiteService struct {
	siteRepo       *repository.SiteRepository
	transitionRepo *repository.TransitionRepository
}

// NewSiteService creates a new site service
func NewSiteService(siteRepo *repository.SiteRepository, transitionRepo *repository.TransitionRepository) *SiteService {
	return &SiteService{
		siteRepo:       siteRepo,
		transitionRepo: transitionRepo,
	}
}

// GetSites retrieves sites with filtering and pagination
func (s *SiteService) GetSites(filter models.SiteFilter) (*SitesResponse, error) {
	filter.Page, filter.PageSize = clampPage(filter.Page, filter.PageSize)

	sites, total, err := s.siteRepo.GetSites(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get sites: %w", err)
	}

	return &SitesResponse{
		Data:       sites,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

// GetSite retrieves a single site
func (s *SiteService) GetSite(id string) (*models.Site, error) {
	site, err := s.siteRepo.GetSiteByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	if site == nil {
		return nil, fmt.Errorf("site %s: %w", id, ErrNotFound)
	}
	return site, nil
}

// GetTransitions retrieves the outgoing transition edges of a site
func (s *SiteService) GetTransitions(id string) ([]models.TransitionEdge, error) {
	if _, err := s.GetSite(id); err != nil {
		return nil, err
	}
	edges, err := s.transitionRepo.GetByOrigin(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transitions: %w", err)
	}
	return edges, nil
}

func clampPage(page, pageSize int) (int, int) {
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

func totalPages(total int64, pageSize int) int {
	return int(math.Ceil(float64(total) / float64(pageSize)))
}
