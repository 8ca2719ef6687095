package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/telco-sightings-go/internal/service"
	"github.com/jengzang/telco-sightings-go/pkg/response"
)

// RunHandler handles HTTP requests for generation runs
type RunHandler struct {
	runService *service.RunService
}

// NewRunHandler creates a new run handler
func NewRunHandler(runService *service.RunService) *RunHandler {
	return &RunHandler{
		runService: runService,
	}
}

// GetLatestRun handles GET /api/v1/runs/latest
func (h *RunHandler) GetLatestRun(c *gin.Context) {
	run, err := h.runService.GetLatestRun()
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, run)
}
