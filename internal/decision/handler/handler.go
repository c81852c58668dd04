package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"fraudgate/internal/decisionlog"
	"fraudgate/internal/domain"
	"fraudgate/internal/platform/config"
	dErrors "fraudgate/pkg/domain-errors"
	"fraudgate/pkg/platform/httputil"
	"fraudgate/pkg/requestcontext"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// Service defines the interface for decision operations.
type Service interface {
	Evaluate(ctx context.Context, txn domain.Transaction) (*domain.Verdict, error)
}

// HistoryProvider lists recent decision records for the admin surface.
type HistoryProvider interface {
	ListRecent(ctx context.Context, limit int) ([]decisionlog.Record, error)
}

// Handler wires the decision endpoints to the engine and the decision log.
type Handler struct {
	service Service
	history HistoryProvider
	cfg     config.Config
	logger  *slog.Logger
}

// New constructs a decision handler with its dependencies.
func New(service Service, history HistoryProvider, cfg config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		history: history,
		cfg:     cfg,
		logger:  logger,
	}
}

// Register mounts the public decision endpoint.
func (h *Handler) Register(r chi.Router) {
	r.Post("/decision", h.HandleDecision)
}

// RegisterAdmin mounts the admin endpoints; the router wraps this group with
// the admin auth middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/history", h.HandleHistory)
	r.Get("/config", h.HandleConfig)
}

// HandleDecision handles POST /api/v1/decision.
func (h *Handler) HandleDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, err := httputil.Decode[DecisionRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	txn, err := req.ToTransaction()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	verdict, err := h.service.Evaluate(ctx, txn)
	if err != nil {
		h.logger.ErrorContext(ctx, "decision evaluation failed",
			"request_id", requestID,
			"user_id", req.UserID,
			"transaction_id", req.TransactionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "decision returned",
		"request_id", requestID,
		"user_id", verdict.UserID,
		"transaction_id", verdict.TransactionID,
		"action", string(verdict.Action),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromVerdict(verdict))
}

// HandleHistory handles GET /api/v1/history.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := h.history.ListRecent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "history listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "decision log unavailable"))
		return
	}
	if records == nil {
		records = []decisionlog.Record{}
	}

	httputil.WriteJSON(w, http.StatusOK, &HistoryResponse{Records: records, Count: len(records)})
}

// HandleConfig handles GET /api/v1/config.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FromConfig(h.cfg))
}
