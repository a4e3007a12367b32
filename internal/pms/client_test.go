package pms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpsych/clinic-api/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.PMSConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		TimeoutSeconds: 5,
	})
}

func TestCreateAppointment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/appointments", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Auth-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req AppointmentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2025-06-16", req.Date)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(AppointmentResponse{ID: "pms-123", Status: "scheduled"})
	})

	resp, err := client.CreateAppointment(context.Background(), &AppointmentRequest{
		PractitionerEmail: "stone@example.com",
		PatientEmail:      "pat@example.com",
		Date:              "2025-06-16",
		Time:              "09:00",
		DurationMinutes:   60,
	})
	require.NoError(t, err)
	assert.Equal(t, "pms-123", resp.ID)
}

func TestListPractitioners(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/practitioners", r.URL.Path)
		json.NewEncoder(w).Encode([]Practitioner{{ID: "p1", LastName: "Stone"}})
	})

	practitioners, err := client.ListPractitioners(context.Background())
	require.NoError(t, err)
	require.Len(t, practitioners, 1)
	assert.Equal(t, "Stone", practitioners[0].LastName)
}

func TestErrorStatusIsSurfaced(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})

	_, err := client.ListLocations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
