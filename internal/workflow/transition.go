// Package workflow holds the listing approval rules that callers apply before
// handing an update to the store. The store itself accepts any status.
package workflow

import (
	"errors"
	"fmt"
	"time"

	"square-feet-api/internal/models"
)

var ErrTransitionNotAllowed = errors.New("status transition not allowed")

// allowed is the strict-mode transition table. sold is terminal; an expired
// listing can only be relisted for review.
var allowed = map[models.Status][]models.Status{
	models.StatusDraft:    {models.StatusPending},
	models.StatusPending:  {models.StatusDraft, models.StatusApproved, models.StatusRejected},
	models.StatusApproved: {models.StatusRejected, models.StatusSold, models.StatusExpired},
	models.StatusRejected: {models.StatusDraft, models.StatusPending, models.StatusApproved},
	models.StatusSold:     {},
	models.StatusExpired:  {models.StatusPending},
}

// Policy decides which status changes are accepted. The zero value is permissive.
type Policy struct {
	Strict bool
}

// CanTransition reports whether from -> to is accepted under p.
func (p Policy) CanTransition(from, to models.Status) bool {
	if !to.Valid() {
		return false
	}
	if from == to || !p.Strict {
		return true
	}
	for _, next := range allowed[from] {
		if next == to {
			return true
		}
	}
	return false
}

// InitialStatus resolves the status of a new listing. Sellers create drafts or
// submit for review; an empty status means pending.
func (p Policy) InitialStatus(requested models.Status) (models.Status, error) {
	if requested == "" {
		return models.StatusPending, nil
	}
	if !requested.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrTransitionNotAllowed, requested)
	}
	if p.Strict && requested != models.StatusDraft && requested != models.StatusPending {
		return "", fmt.Errorf("%w: new listings start as draft or pending, got %s", ErrTransitionNotAllowed, requested)
	}
	return requested, nil
}

// Prepare checks the status change carried by upd and stamps the transition
// timestamps into the same payload. Updates that keep the current status are
// left as they are, so approvedAt and rejectedAt are never re-stamped.
func (p Policy) Prepare(current models.Property, upd *models.PropertyUpdate, now time.Time) error {
	if !upd.ChangesStatus(current.Status) {
		return nil
	}

	to := *upd.Status
	if !p.CanTransition(current.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, current.Status, to)
	}

	switch to {
	case models.StatusApproved:
		upd.ApprovedAt = models.Ptr(now)
	case models.StatusRejected:
		upd.RejectedAt = models.Ptr(now)
	}
	return nil
}

// Targets lists the statuses reachable from s under p, in lifecycle order.
func (p Policy) Targets(s models.Status) []models.Status {
	out := []models.Status{}
	for _, to := range models.Statuses {
		if to != s && p.CanTransition(s, to) {
			out = append(out, to)
		}
	}
	return out
}
