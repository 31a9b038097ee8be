package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
)

func TestRespondDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", domain.NewValidationError("contact", "required"), http.StatusBadRequest},
		{"access denied", fmt.Errorf("get booking: %w", domain.ErrAccessDenied), http.StatusForbidden},
		{"not found", domain.NewNotFoundError(domain.EntityBooking, 7), http.StatusNotFound},
		{"capacity", &domain.CapacityExceededError{Day: domain.Monday, Requested: 1, Used: 3, Capacity: 3}, http.StatusConflict},
		{"transition", &domain.InvalidTransitionError{From: domain.StatusCancelled, To: domain.StatusConfirmed}, http.StatusConflict},
		{"transient", &domain.TransientConflictError{Op: "create booking", Attempts: 3}, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			status := RespondDomainError(rec, tt.err)

			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestRespondDomainError_ValidationCarriesField(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, domain.NewValidationError("selectedDays", "at least one day is required"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "selectedDays", body.Field)
	assert.Equal(t, "at least one day is required", body.Details)
}

func TestRespondDomainError_TransientSetsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, &domain.TransientConflictError{Op: "change booking status", Attempts: 5})
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"bookingId": tt.raw})
			got, err := PathID(r, "bookingId")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseListBookingsRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?status=pending&assistanceTypeId=3&limit=20&offset=40", nil)

	req, err := ParseListBookingsRequest(r)
	require.NoError(t, err)
	require.NotNil(t, req.Status)
	assert.Equal(t, "pending", *req.Status)
	require.NotNil(t, req.AssistanceTypeID)
	assert.Equal(t, int64(3), *req.AssistanceTypeID)
	assert.Equal(t, 20, req.Limit)
	assert.Equal(t, 40, req.Offset)

	_, err = ParseListBookingsRequest(httptest.NewRequest(http.MethodGet, "/?limit=many", nil))
	assert.Error(t, err)
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var v struct {
		Status string `json:"status"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"confirmed","extra":1}`))
	assert.Error(t, DecodeJSON(r, &v))
}
