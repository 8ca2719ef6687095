package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/telco-sightings-go/internal/models"
	"github.com/jengzang/telco-sightings-go/internal/service"
	"github.com/jengzang/telco-sightings-go/pkg/response"
)

// RecordHandler handles HTTP requests for trajectory records
type RecordHandler struct {
	recordService *service.RecordService
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(recordService *service.RecordService) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
	}
}

// GetRecords handles GET /api/v1/records
func (h *RecordHandler) GetRecords(c *gin.Context) {
	var filter models.RecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if filter.Hour != nil && (*filter.Hour < 0 || *filter.Hour > 23) {
		response.BadRequest(c, "hour must be within 0-23")
		return
	}

	result, err := h.recordService.GetRecords(filter)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

// GetTrajectory handles GET /api/v1/subscribers/:id/trajectory
func (h *RecordHandler) GetTrajectory(c *gin.Context) {
	date := c.Query("date")
	if date != "" {
		if _, err := time.Parse(models.DateLayout, date); err != nil {
			response.BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
	}

	records, err := h.recordService.GetTrajectory(c.Param("id"), date)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"data":  records,
		"count": len(records),
	})
}

// GetSummary handles GET /api/v1/subscribers/:id/summary
func (h *RecordHandler) GetSummary(c *gin.Context) {
	summary, err := h.recordService.GetSummary(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, summary)
}
