package payer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpsych/clinic-api/internal/model"
	diagnosticsService "github.com/meridianpsych/clinic-api/internal/service/diagnostics"
)

type stubPayerStore struct {
	payer *model.Payer
}

func (s *stubPayerStore) Get(ctx context.Context, id uuid.UUID) (*model.Payer, error) {
	return s.payer, nil
}

type stubCheckStore struct{}

func (s *stubCheckStore) ListUncoveredSupervisors(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.UncoveredSupervisor, error) {
	return nil, nil
}

func (s *stubCheckStore) ListUnsupervisedResidents(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.UnsupervisedResident, error) {
	return nil, nil
}

func (s *stubCheckStore) ListBlockedProviders(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.BlockedProvider, error) {
	return nil, nil
}

func (s *stubCheckStore) ListPendingContracts(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.PendingContract, error) {
	return nil, nil
}

type stubResolver struct {
	resolvedOn []time.Time
}

func (s *stubResolver) Resolve(ctx context.Context, payerID uuid.UUID, date time.Time) ([]*model.BookableProvider, error) {
	s.resolvedOn = append(s.resolvedOn, date)
	return nil, nil
}

func diagnosticsFixture() (*Handler, *stubResolver) {
	payer := &model.Payer{Name: "Lakeview Mutual", StatusCode: model.PayerStatusApproved}
	payer.ID = uuid.New()

	resolver := &stubResolver{}
	svc := diagnosticsService.NewService(&stubPayerStore{payer: payer}, &stubCheckStore{}, resolver, nil, nil)
	return NewHandler(nil, nil, svc), resolver
}

// The diagnostics endpoint takes the same date parameter as the
// bookable-providers query.
func TestDiagnosticsDateParameter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, resolver := diagnosticsFixture()

	r := gin.New()
	r.GET("/payers/:id/diagnostics", h.Diagnostics)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payers/"+uuid.NewString()+"/diagnostics?date=2025-06-15", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resolver.resolvedOn, 1)
	assert.Equal(t, "2025-06-15", resolver.resolvedOn[0].Format("2006-01-02"))
}

func TestDiagnosticsRejectsMalformedDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := diagnosticsFixture()

	r := gin.New()
	r.GET("/payers/:id/diagnostics", h.Diagnostics)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payers/"+uuid.NewString()+"/diagnostics?date=June", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
