// main wires the decision engine's dependencies, picks store implementations
// from configuration, and runs the HTTP server until interrupted. Business
// logic lives in the internal packages.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fraudgate/internal/decision"
	"fraudgate/internal/decision/handler"
	"fraudgate/internal/decision/metrics"
	"fraudgate/internal/decisionlog"
	jwttoken "fraudgate/internal/jwt_token"
	"fraudgate/internal/platform/config"
	"fraudgate/internal/platform/httpserver"
	"fraudgate/internal/platform/logger"
	"fraudgate/internal/platform/middleware"
	"fraudgate/internal/platform/postgres"
	platformredis "fraudgate/internal/platform/redis"
	"fraudgate/internal/scoring"
	httptransport "fraudgate/internal/transport/http"
	"fraudgate/internal/velocity"
	"fraudgate/pkg/platform/circuit"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("fraudgate exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	var checks []httptransport.ReadinessCheck

	// Velocity store: Redis when configured, otherwise in-process.
	var velocityStore velocity.Store
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		velocityStore = velocity.NewRedisStore(redisClient.Client)
		checks = append(checks, httptransport.ReadinessCheck{Name: "redis", Check: redisClient.Health})
		log.Info("velocity store: redis")
	} else {
		memStore := velocity.NewInMemoryStore(cfg.Window)
		defer memStore.Close()
		velocityStore = memStore
		log.Info("velocity store: in-memory")
	}

	// Decision log: Postgres when configured, otherwise a bounded ring.
	var logStore decisionlog.Store
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() { _ = db.Close() }()
		logStore = decisionlog.NewPostgresStore(db)
		checks = append(checks, httptransport.ReadinessCheck{Name: "postgres", Check: db.PingContext})
		log.Info("decision log: postgres")
	} else {
		logStore = decisionlog.NewInMemoryStore(0)
		log.Info("decision log: in-memory")
	}

	// Verdict stream: optional.
	var publisher decisionlog.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := decisionlog.NewKafkaPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return err
		}
		defer kp.Close()
		publisher = kp
		log.Info("decision stream: kafka", "topic", cfg.Kafka.Topic)
	}

	logService := decisionlog.NewService(logStore, publisher, log, cfg.LogBuffer)
	logCtx, cancelLog := context.WithCancel(context.Background())
	defer cancelLog()
	go func() { _ = logService.Run(logCtx) }()

	engine := decision.NewEngine(
		velocityStore,
		buildScorer(cfg.Scorers, cfg.Scorers.RiskURL, scoring.HeuristicRiskScorer{}, cfg.ScorerTimeout, log, "risk"),
		buildScorer(cfg.Scorers, cfg.Scorers.AnomalyURL, scoring.HeuristicAnomalyScorer{}, cfg.ScorerTimeout, log, "anomaly"),
		logService,
		decision.Options{
			Window:        cfg.Window,
			StoreTimeout:  cfg.StoreTimeout,
			ScorerTimeout: cfg.ScorerTimeout,
			FailPolicy:    cfg.VelocityFailPolicy,
			ReplayTTL:     cfg.ReplayTTL,
			Rules:         cfg.Rules,
			Fusion:        cfg.Fusion,
		},
		metrics.New(),
		log,
	)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
		log.Info("rate limiting enabled", "limit", cfg.RateLimit, "window", cfg.RateLimitWindow)
	}

	h := handler.New(engine, logService, cfg, log)
	router := httptransport.NewRouter(h, jwttoken.NewService(cfg.JWTSigningKey), limiter, checks)

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("fraudgate listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildScorer selects the remote model endpoint when configured, falling back
// to the built-in heuristic so the engine always has two scorers. Remote
// scorers sit behind a circuit breaker so a dead endpoint fails fast instead
// of eating the scorer timeout on every request.
func buildScorer(cfg config.ScorerConfig, url string, fallback scoring.Scorer, timeout time.Duration, log *slog.Logger, name string) scoring.Scorer {
	if url == "" {
		log.Info("scorer: heuristic", "scorer", name)
		return fallback
	}
	log.Info("scorer: remote", "scorer", name, "url", url)
	remote := scoring.NewRemoteScorer(url, &http.Client{Timeout: timeout})
	return scoring.Breakered(remote, circuit.New(name+"_scorer", cfg.BreakerThreshold, cfg.BreakerCooldown))
}
