package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/aegisshield/fraudring/internal/config"
	"github.com/aegisshield/fraudring/internal/fraud"
	"github.com/aegisshield/fraudring/internal/ingest"
	"github.com/aegisshield/fraudring/internal/metrics"
	"github.com/aegisshield/fraudring/internal/sample"
)

// HTTPHandlers contains the host's HTTP request handlers. These sit outside
// internal/fraud: the core is a synchronous function over an in-memory
// batch, and everything here is the collaborator that gets a batch onto
// that function and a report back onto the wire (§6 of the core spec).
type HTTPHandlers struct {
	config  config.Config
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewHTTPHandlers creates new HTTP handlers.
func NewHTTPHandlers(config config.Config, metrics *metrics.Collector, logger *slog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// RegisterRoutes registers HTTP routes.
func (h *HTTPHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/reports/upload", h.uploadReport).Methods("POST")
	router.HandleFunc("/api/v1/reports/sample", h.sampleReport).Methods("POST")

	router.HandleFunc("/health", h.healthCheck).Methods("GET")
	router.HandleFunc("/ready", h.readinessCheck).Methods("GET")
}

// uploadReport accepts a CSV transaction report, either as a raw
// text/csv body or as a multipart form field named "file", runs it
// through the analytics core, and returns the report.
func (h *HTTPHandlers) uploadReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.metrics.IncrementCounter("upload_requests_total")

	r.Body = http.MaxBytesReader(w, r.Body, h.config.Ingest.MaxUploadBytes)

	body, err := h.extractCSVBody(r)
	if err != nil {
		h.metrics.IncrementCounter("upload_errors_total")
		h.writeError(w, http.StatusBadRequest, "Failed to read upload", err)
		return
	}
	defer body.Close()

	txs, err := ingest.ParseCSV(body)
	if err != nil {
		h.metrics.IncrementCounter("upload_errors_total")
		var missingErr *ingest.MissingColumnsError
		if errors.As(err, &missingErr) {
			h.writeError(w, http.StatusBadRequest, missingErr.Error(), nil)
			return
		}
		h.writeError(w, http.StatusBadRequest, "Failed to parse CSV", err)
		return
	}

	if len(txs) > h.config.Ingest.MaxTransactions {
		h.metrics.IncrementCounter("upload_errors_total")
		h.writeError(w, http.StatusBadRequest, "Transaction report exceeds the configured size limit", nil)
		return
	}

	h.runAndRespond(w, txs, start)
}

// extractCSVBody returns a ReadCloser over the CSV payload, whether it
// arrived as a raw body or as a multipart form field.
func (h *HTTPHandlers) extractCSVBody(r *http.Request) (io.ReadCloser, error) {
	contentType := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil && mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(h.config.Ingest.MaxUploadBytes); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		return file, nil
	}
	return r.Body, nil
}

// sampleReport runs the fixed synthetic demo batch through the core.
func (h *HTTPHandlers) sampleReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.metrics.IncrementCounter("sample_requests_total")

	h.runAndRespond(w, sample.Batch(), start)
}

func (h *HTTPHandlers) runAndRespond(w http.ResponseWriter, txs []fraud.Transaction, start time.Time) {
	report := fraud.Run(txs)
	elapsed := time.Since(start).Seconds()

	h.metrics.ObserveHistogram("report_duration_seconds", elapsed)
	h.metrics.ObserveHistogram("report_accounts_analyzed", float64(report.Summary.TotalAccountsAnalyzed))
	h.metrics.IncrementCounterBy("report_rings_detected_total", float64(len(report.FraudRings)))
	h.metrics.SetGauge("last_cycles_found", float64(report.Summary.CyclesFound))
	h.metrics.SetGauge("last_smurfing_hubs_found", float64(report.Summary.SmurfingHubsFound))
	h.metrics.SetGauge("last_shell_chains_found", float64(report.Summary.ShellChainsFound))

	response := toReportResponse(report, elapsed)
	h.writeJSON(w, http.StatusOK, response)
}

func toReportResponse(r fraud.Report, elapsed float64) ReportResponse {
	accounts := make([]SuspiciousAccountResponse, 0, len(r.SuspiciousAccounts))
	for _, sa := range r.SuspiciousAccounts {
		accounts = append(accounts, SuspiciousAccountResponse{
			AccountID:        sa.AccountID,
			SuspicionScore:   sa.SuspicionScore,
			DetectedPatterns: sa.DetectedPatterns,
			RingID:           sa.RingID,
		})
	}

	rings := make([]FraudRingResponse, 0, len(r.FraudRings))
	for _, ring := range r.FraudRings {
		rings = append(rings, FraudRingResponse{
			RingID:         ring.RingID,
			MemberAccounts: ring.MemberAccounts,
			PatternType:    ring.PatternType,
			RiskScore:      ring.RiskScore,
		})
	}

	nodes := make([]GraphNodeResponse, 0, len(r.Graph.Nodes))
	for _, n := range r.Graph.Nodes {
		nodes = append(nodes, GraphNodeResponse{
			ID:         n.ID,
			TxIn:       n.TxIn,
			TxOut:      n.TxOut,
			TxTotal:    n.TxTotal,
			TotalIn:    n.TotalIn,
			TotalOut:   n.TotalOut,
			Suspicious: n.Suspicious,
			RingID:     n.RingID,
		})
	}

	edges := make([]GraphEdgeResponse, 0, len(r.Graph.Edges))
	for _, e := range r.Graph.Edges {
		edges = append(edges, GraphEdgeResponse{Source: e.Source, Target: e.Target, Amount: e.Amount})
	}

	return ReportResponse{
		SuspiciousAccounts: accounts,
		FraudRings:         rings,
		Graph:              GraphResponse{Nodes: nodes, Edges: edges},
		Summary: SummaryResponse{
			TotalAccountsAnalyzed:     r.Summary.TotalAccountsAnalyzed,
			TotalTransactions:         r.Summary.TotalTransactions,
			SuspiciousAccountsFlagged: r.Summary.SuspiciousAccountsFlagged,
			FraudRingsDetected:        r.Summary.FraudRingsDetected,
			CyclesFound:               r.Summary.CyclesFound,
			SmurfingHubsFound:         r.Summary.SmurfingHubsFound,
			ShellChainsFound:          r.Summary.ShellChainsFound,
			ProcessingTimeSeconds:     elapsed,
		},
	}
}

// healthCheck returns service health status.
func (h *HTTPHandlers) healthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "fraudring",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// readinessCheck returns service readiness status. The core has no
// external dependencies to warm up, so readiness tracks health exactly.
func (h *HTTPHandlers) readinessCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ready",
		"service": "fraudring",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// writeJSON writes a JSON response.
func (h *HTTPHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response.
func (h *HTTPHandlers) writeError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":     message,
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err != nil && h.config.Server.Debug {
		response["details"] = err.Error()
	}

	h.writeJSON(w, status, response)
}
