// Package decision orchestrates one transaction through the full pipeline:
// velocity state, feature extraction, rules, parallel model scoring, and
// fusion into a verdict. The engine always returns a verdict for a valid
// transaction; backing-store and scorer failures degrade the inputs, never
// the availability of the answer.
package decision

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"fraudgate/internal/decision/metrics"
	"fraudgate/internal/decisionlog"
	"fraudgate/internal/domain"
	"fraudgate/internal/feature"
	"fraudgate/internal/fusion"
	"fraudgate/internal/platform/config"
	"fraudgate/internal/rules"
	"fraudgate/internal/scoring"
	"fraudgate/internal/velocity"
)

// Degraded signal source names, reported in the verdict and in metrics.
const (
	SourceVelocityStore = "velocity_store"
	SourceRiskScorer    = "risk_scorer"
	SourceAnomalyScorer = "anomaly_scorer"
)

// Options carries the engine's evaluation parameters, fixed at startup.
type Options struct {
	Window        time.Duration
	StoreTimeout  time.Duration
	ScorerTimeout time.Duration
	FailPolicy    config.FailPolicy
	ReplayTTL     time.Duration
	Rules         rules.Config
	Fusion        fusion.Thresholds
}

// Engine evaluates transactions. Safe for concurrent use.
type Engine struct {
	store   velocity.Store
	risk    scoring.Scorer
	anomaly scoring.Scorer
	log     *decisionlog.Service
	opts    Options
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer

	group  singleflight.Group
	replay *replayCache
}

// NewEngine constructs the orchestrator. Scorers are wrapped with the output
// contract check so out-of-range scores never reach fusion. log may be nil.
func NewEngine(
	store velocity.Store,
	risk, anomaly scoring.Scorer,
	log *decisionlog.Service,
	opts Options,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		store:   store,
		risk:    scoring.Validated(risk),
		anomaly: scoring.Validated(anomaly),
		log:     log,
		opts:    opts,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("fraudgate/decision"),
		replay:  newReplayCache(opts.ReplayTTL),
	}
}

// Evaluate validates the transaction and produces its verdict. A duplicate
// (user_id, transaction_id) within the replay TTL returns the original
// verdict without re-running the pipeline or touching the velocity window;
// concurrent duplicates collapse onto one in-flight evaluation.
func (e *Engine) Evaluate(ctx context.Context, txn domain.Transaction) (*domain.Verdict, error) {
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	key := txn.UserID + "|" + txn.TransactionID
	if v, ok := e.replay.get(key); ok {
		e.metrics.IncrementReplay()
		return &v, nil
	}

	out, err, shared := e.group.Do(key, func() (any, error) {
		v, err := e.evaluate(ctx, txn)
		if err != nil {
			return nil, err
		}
		e.replay.put(key, *v)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		e.metrics.IncrementReplay()
	}
	return out.(*domain.Verdict), nil
}

func (e *Engine) evaluate(ctx context.Context, txn domain.Transaction) (*domain.Verdict, error) {
	ctx, span := e.tracer.Start(ctx, "decision.Evaluate")
	defer span.End()
	start := time.Now()

	var degraded []string

	history, velocityErr := e.fetchHistory(ctx, txn)
	if velocityErr != nil {
		degraded = append(degraded, SourceVelocityStore)
		e.metrics.IncrementDegraded(SourceVelocityStore)
		e.logger.WarnContext(ctx, "velocity store unavailable, proceeding without history",
			"user_id", txn.UserID,
			"transaction_id", txn.TransactionID,
			"fail_policy", string(e.opts.FailPolicy),
			"error", velocityErr,
		)
		history = nil
	}

	vec := feature.Build(txn, history)

	hits := rules.Evaluate(e.opts.Rules, txn, vec)
	for _, h := range hits {
		e.metrics.IncrementRuleHit(h.Rule)
	}

	riskScore, anomalyScore := e.score(ctx, vec, &degraded)

	action, reason := fusion.Fuse(hits, riskScore, anomalyScore, e.opts.Fusion)

	// Fail-closed only ever escalates: an ALLOW computed without velocity
	// history becomes a FLAG, while FLAG and BLOCK stand on their own.
	if velocityErr != nil && e.opts.FailPolicy == config.FailClosed && action == domain.ActionAllow {
		action = domain.ActionFlag
	}
	if len(degraded) > 0 {
		reason += "; degraded: " + strings.Join(degraded, ",")
	}

	v := &domain.Verdict{
		UserID:        txn.UserID,
		TransactionID: txn.TransactionID,
		Action:        action,
		Reason:        reason,
		RiskScore:     riskScore,
		AnomalyScore:  anomalyScore,
		Degraded:      degraded,
	}

	e.metrics.IncrementDecision(string(action))
	e.metrics.ObserveEvaluateLatency(time.Since(start))
	span.SetAttributes(
		attribute.String("decision.action", string(action)),
		attribute.Int("decision.rule_hits", len(hits)),
		attribute.Bool("decision.degraded", len(degraded) > 0),
	)

	if e.log != nil {
		e.log.Record(decisionlog.FromVerdict(txn, *v, time.Now()))
	}

	e.logger.InfoContext(ctx, "transaction evaluated",
		"user_id", txn.UserID,
		"transaction_id", txn.TransactionID,
		"action", string(action),
		"reason", reason,
		"risk_score", riskScore,
		"anomaly_score", anomalyScore,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return v, nil
}

// fetchHistory records the transaction in the velocity window and returns the
// prior entries. The store call is detached from the request's cancellation:
// once evaluation has started, the state mutation must complete even if the
// client goes away, otherwise retries would double-count.
func (e *Engine) fetchHistory(ctx context.Context, txn domain.Transaction) ([]domain.Summary, error) {
	ctx, span := e.tracer.Start(ctx, "velocity.RecordAndFetch")
	defer span.End()

	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.opts.StoreTimeout)
	defer cancel()

	start := time.Now()
	history, err := e.store.RecordAndFetch(storeCtx, txn.UserID, txn.Summarize(), e.opts.Window)
	e.metrics.ObserveVelocityLatency(time.Since(start))
	return history, err
}

// score runs both model calls in parallel under one deadline. A failed scorer
// contributes 0.0 and a degraded annotation; it never fails the verdict.
func (e *Engine) score(ctx context.Context, vec feature.Vector, degraded *[]string) (float64, float64) {
	ctx, span := e.tracer.Start(ctx, "scoring.Score")
	defer span.End()

	scoreCtx, cancel := context.WithTimeout(ctx, e.opts.ScorerTimeout)
	defer cancel()

	var (
		riskScore, anomalyScore float64
		riskErr, anomalyErr     error
	)
	// Errors are collected per scorer, not returned: one scorer failing must
	// not cancel the other.
	g, gctx := errgroup.WithContext(scoreCtx)
	g.Go(func() error {
		riskScore, riskErr = e.risk.Score(gctx, vec)
		return nil
	})
	g.Go(func() error {
		anomalyScore, anomalyErr = e.anomaly.Score(gctx, vec)
		return nil
	})
	_ = g.Wait()

	if riskErr != nil {
		riskScore = 0
		*degraded = append(*degraded, SourceRiskScorer)
		e.metrics.IncrementDegraded(SourceRiskScorer)
		e.logger.WarnContext(ctx, "risk scorer unavailable", "error", riskErr)
	}
	if anomalyErr != nil {
		anomalyScore = 0
		*degraded = append(*degraded, SourceAnomalyScorer)
		e.metrics.IncrementDegraded(SourceAnomalyScorer)
		e.logger.WarnContext(ctx, "anomaly scorer unavailable", "error", anomalyErr)
	}
	return riskScore, anomalyScore
}

// replayCache remembers verdicts by (user_id, transaction_id) for the replay
// TTL. Expired entries are dropped lazily on read and swept on write once the
// map grows past sweepThreshold.
type replayCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]replayEntry
}

type replayEntry struct {
	verdict   domain.Verdict
	expiresAt time.Time
}

const sweepThreshold = 4096

func newReplayCache(ttl time.Duration) *replayCache {
	return &replayCache{
		ttl:     ttl,
		entries: make(map[string]replayEntry),
	}
}

func (c *replayCache) get(key string) (domain.Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return domain.Verdict{}, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return domain.Verdict{}, false
	}
	return entry.verdict, true
}

func (c *replayCache) put(key string, v domain.Verdict) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= sweepThreshold {
		now := time.Now()
		for k, entry := range c.entries {
			if now.After(entry.expiresAt) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[key] = replayEntry{verdict: v, expiresAt: time.Now().Add(c.ttl)}
}
