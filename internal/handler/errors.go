package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/telco-sightings-go/internal/service"
	"github.com/jengzang/telco-sightings-go/pkg/response"
)

// writeError maps service errors onto HTTP status codes
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidArgument):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}
