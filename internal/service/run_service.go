package service

import (
	"fmt"

	"github.com/jengzang/telco-sightings-go/internal/models"
	"github.com/jengzang/telco-sightings-go/internal/repository"
)

// RunService exposes generation run metadata
type RunService struct {
	runRepo *repository.RunRepository
}

// NewRunService creates a new run service
func NewRunService(runRepo *repository.RunRepository) *RunService {
	return &RunService{runRepo: runRepo}
}

// GetLatestRun returns the run that produced the stored dataset
func (s *RunService) GetLatestRun() (*models.GenerationRun, error) {
	run, err := s.runRepo.GetLatestRun()
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("generation run: %w", ErrNotFound)
	}
	return run, nil
}
