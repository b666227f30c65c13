// server/internal/api/handlers/admin_handler.go
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"square-feet-api/internal/models"
	"square-feet-api/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the moderation shortcuts and store maintenance.
type AdminHandler struct {
	Properties *PropertyHandler
}

// ApproveProperty moves a listing to approved.
func (h *AdminHandler) ApproveProperty(c *gin.Context) {
	h.Properties.applyUpdate(c, c.Param("id"), models.PropertyUpdate{
		Status: models.Ptr(models.StatusApproved),
	})
}

// RejectProperty moves a listing to rejected with an optional reason.
func (h *AdminHandler) RejectProperty(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondInvalid(c, err)
		return
	}

	upd := models.PropertyUpdate{Status: models.Ptr(models.StatusRejected)}
	if reason := strings.TrimSpace(req.Reason); reason != "" {
		upd.RejectionReason = models.Ptr(reason)
	}
	h.Properties.applyUpdate(c, c.Param("id"), upd)
}

// Reconcile removes duplicate records left by failed relocations. Stores that
// cannot hold duplicates report none.
func (h *AdminHandler) Reconcile(c *gin.Context) {
	r, ok := h.Properties.Store.(repository.Reconciler)
	if !ok {
		c.JSON(http.StatusOK, repository.ReconcileReport{Duplicates: []repository.DuplicateGroup{}})
		return
	}

	report, err := r.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("reconciled property records", "examined", report.Examined, "duplicates", len(report.Duplicates))
	c.JSON(http.StatusOK, report)
}
