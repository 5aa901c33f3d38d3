package handlers

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegisshield/fraudring/internal/config"
	"github.com/aegisshield/fraudring/internal/metrics"
)

// NewCollector registers its metrics on the default Prometheus registry, so
// it can only be called once per process; every test shares this one.
var testCollector = metrics.NewCollector()

func newTestHandlers() *HTTPHandlers {
	cfg := config.Config{
		Ingest: config.IngestConfig{MaxUploadBytes: 1 << 20, MaxTransactions: 1000},
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewHTTPHandlers(cfg, testCollector, logger)
}

func newTestRouter(h *HTTPHandlers) *mux.Router {
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func TestUploadReportCSV(t *testing.T) {
	h := newTestHandlers()
	router := newTestRouter(h)

	csv := "sender_id,receiver_id,amount\nA,B,5000\nB,C,4800\nC,A,4600\n"
	req := httptest.NewRequest("POST", "/api/v1/reports/upload", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "suspicious_accounts")
	assert.Contains(t, rec.Body.String(), "fraud_rings")
}

func TestUploadReportMissingColumns(t *testing.T) {
	h := newTestHandlers()
	router := newTestRouter(h)

	req := httptest.NewRequest("POST", "/api/v1/reports/upload", strings.NewReader("foo,bar\n1,2\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing required column")
}

func TestSampleReport(t *testing.T) {
	h := newTestHandlers()
	router := newTestRouter(h)

	req := httptest.NewRequest("POST", "/api/v1/reports/sample", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "fraud_rings")
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandlers()
	router := newTestRouter(h)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
