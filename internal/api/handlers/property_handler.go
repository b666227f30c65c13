// server/internal/api/handlers/property_handler.go
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"square-feet-api/config"
	"square-feet-api/internal/api/middleware"
	"square-feet-api/internal/models"
	"square-feet-api/internal/repository"
	"square-feet-api/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PropertyHandler struct {
	Store   repository.PropertyStore
	Policy  workflow.Policy
	Listing config.ListingConfig
	Now     func() time.Time
}

func (h *PropertyHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return models.Now()
}

type listResponse struct {
	Items []models.Property `json:"items"`
	Count int               `json:"count"`
}

func (h *PropertyHandler) list(c *gin.Context, filters models.PropertyFilters) {
	props, err := h.Store.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Items: props, Count: len(props)})
}

// ListProperties returns every listing matching the query filters.
func (h *PropertyHandler) ListProperties(c *gin.Context) {
	var filters models.PropertyFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondInvalid(c, err)
		return
	}
	h.list(c, filters)
}

// ListMyProperties returns the current seller's listings.
func (h *PropertyHandler) ListMyProperties(c *gin.Context) {
	var filters models.PropertyFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondInvalid(c, err)
		return
	}
	filters.SellerID = h.sellerID(c)
	h.list(c, filters)
}

func (h *PropertyHandler) GetProperty(c *gin.Context) {
	p, err := h.Store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PropertyHandler) sellerID(c *gin.Context) string {
	if id := middleware.SellerID(c); id != "" {
		return id
	}
	return h.Listing.DemoSellerID
}

// CreateProperty validates the body, fills in server-side defaults and writes
// the listing.
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	status, err := h.Policy.InitialStatus(models.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	if req.PropertyID != "" && !h.canCreateUnder(c, req.PropertyID, status) {
		return
	}

	now := h.now()
	p := models.Property{
		PropertyID:      req.PropertyID,
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		Price:           req.Price,
		Currency:        strings.ToUpper(req.Currency),
		Address:         req.Address.toModel(),
		PropertyType:    models.PropertyType(req.PropertyType),
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		SquareFootage:   req.SquareFootage,
		LotSize:         req.LotSize,
		YearBuilt:       req.YearBuilt,
		Features:        req.Features,
		Images:          req.Images,
		Status:          status,
		SellerID:        req.SellerID,
		CreatedAt:       now,
		UpdatedAt:       now,
		RejectionReason: req.RejectionReason,
	}
	if p.PropertyID == "" {
		p.PropertyID = uuid.NewString()
	}
	if p.Currency == "" {
		p.Currency = h.Listing.DefaultCurrency
	}
	if p.SellerID == "" {
		p.SellerID = h.sellerID(c)
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	switch status {
	case models.StatusApproved:
		p.ApprovedAt = models.Ptr(now)
	case models.StatusRejected:
		p.RejectedAt = models.Ptr(now)
	}

	created, err := h.Store.Create(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("created property",
		"propertyId", created.PropertyID,
		"title", created.Title,
		"sellerId", created.SellerID,
		"status", created.Status,
		"price", created.Price,
		"location", created.Address.City+", "+created.Address.State,
	)
	c.JSON(http.StatusCreated, created)
}

// canCreateUnder allows a client-chosen id only when it is new or already
// stored under status, where create overwrites the same record. Otherwise it
// writes the error response and returns false.
func (h *PropertyHandler) canCreateUnder(c *gin.Context, propertyID string, status models.Status) bool {
	existing, err := h.Store.GetByID(c.Request.Context(), propertyID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return true
	case err != nil:
		respondError(c, err)
		return false
	case existing.Status != status:
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("Property %s already exists with status %s, update it instead", propertyID, existing.Status),
		})
		return false
	}
	return true
}

// UpdateProperty applies a partial update. A status change is checked against
// the workflow policy and stamps approvedAt or rejectedAt.
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	h.applyUpdate(c, c.Param("id"), req.toUpdate())
}

func (h *PropertyHandler) applyUpdate(c *gin.Context, propertyID string, upd models.PropertyUpdate) {
	ctx := c.Request.Context()

	existing, err := h.Store.GetByID(ctx, propertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Policy.Prepare(*existing, &upd, h.now()); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusConflict, gin.H{
			"error":   err.Error(),
			"allowed": h.Policy.Targets(existing.Status),
		})
		return
	}
	// the policy was checked against this status
	upd.ExpectStatus = models.Ptr(existing.Status)

	updated, err := h.Store.Update(ctx, propertyID, upd)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("updated property",
		"propertyId", propertyID,
		"from", existing.Status,
		"status", updated.Status,
		"changes", upd.Changed(),
	)
	c.JSON(http.StatusOK, updated)
}

func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	propertyID := c.Param("id")
	removed, err := h.Store.Delete(c.Request.Context(), propertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		respondError(c, repository.ErrNotFound)
		return
	}

	slog.Warn("deleted property", "propertyId", propertyID)
	c.Status(http.StatusNoContent)
}
