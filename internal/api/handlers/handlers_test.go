package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"square-feet-api/config"
	"square-feet-api/internal/models"
	"square-feet-api/internal/repository"
	"square-feet-api/internal/workflow"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		code int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: x", repository.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: sold -> draft", workflow.ErrTransitionNotAllowed), http.StatusConflict},
		{fmt.Errorf("%w: x", repository.ErrInconsistent), http.StatusInternalServerError},
		{fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/properties/x", nil)

			respondError(c, tt.err)
			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestRegisterValidatorsRejectsBadPattern(t *testing.T) {
	err := RegisterValidators(config.MarketConfig{ZipPattern: "(["})
	assert.Error(t, err)
}

func TestUpdateRequestToUpdate(t *testing.T) {
	title := "New title"
	currency := "usd"
	status := "approved"
	req := UpdatePropertyRequest{
		Title:    &title,
		Currency: &currency,
		Status:   &status,
		Features: []string{},
		Address: &AddressRequest{
			Street: " Road 1, Nagole ", Locality: "Nagole", City: "Hyderabad",
			State: "Telangana", ZipCode: "500068", Country: "India",
		},
	}

	upd := req.toUpdate()
	require.NotNil(t, upd.Status)
	assert.Equal(t, models.StatusApproved, *upd.Status)
	assert.Equal(t, "USD", *upd.Currency)
	assert.Equal(t, "Road 1, Nagole", upd.Address.Street)
	assert.NotNil(t, upd.Features)
	assert.Nil(t, upd.Images)
	assert.Nil(t, upd.Price)
	assert.ElementsMatch(t, []string{"title", "currency", "status", "features", "address"}, upd.Changed())
}

func TestValidationDetailsFallsBackToMessage(t *testing.T) {
	assert.Equal(t, []string{"unexpected EOF"}, validationDetails(errors.New("unexpected EOF")))
}
