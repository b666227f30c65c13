// server/internal/api/handlers/errors.go
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"square-feet-api/internal/repository"
	"square-feet-api/internal/workflow"

	"github.com/gin-gonic/gin"
)

// respondError maps store and workflow errors onto HTTP responses.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
	case errors.Is(err, workflow.ErrTransitionNotAllowed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Property was modified concurrently, retry the request"})
	case errors.Is(err, repository.ErrInconsistent):
		slog.Error("inconsistent property records", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Property has conflicting stored records, run reconcile"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request timed out"})
	default:
		slog.Error("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}

func respondInvalid(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": validationDetails(err)})
}
