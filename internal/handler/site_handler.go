package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/telco-sightings-go/internal/models"
	"github.com/jengzang/telco-sightings-go/internal/service"
	"github.com/jengzang/telco-sightings-go/pkg/response"
)

// SiteHandler handles HTTP requests for sites
type SiteHandler struct {
	siteService *service.SiteService
}

// NewSiteHandler creates a new site handler
func NewSiteHandler(siteService *service.SiteService) *SiteHandler {
	return &SiteHandler{
		siteService: siteService,
	}
}

// GetSites handles GET /api/v1/sites
func (h *SiteHandler) GetSites(c *gin.Context) {
	var filter models.SiteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.siteService.GetSites(filter)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

// GetSite handles GET /api/v1/sites/:id
func (h *SiteHandler) GetSite(c *gin.Context) {
	site, err := h.siteService.GetSite(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, site)
}

// GetTransitions handles GET /api/v1/sites/:id/transitions
func (h *SiteHandler) GetTransitions(c *gin.Context) {
	edges, err := h.siteService.GetTransitions(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"data":  edges,
		"count": len(edges),
	})
}
