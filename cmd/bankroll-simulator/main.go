package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/config"
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/history"
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/logger"
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/ratelimit"
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/retry"
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/simulator"
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/validator"
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/pkg/oddsmath"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	fmt.Println("=== Fortuna Bankroll Simulator ===")

	// Load configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Printf("❌ Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	winProbability, err := cfg.WinProbability()
	if err != nil {
		log.Fatal("failed to derive win probability", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	policy := retry.NewPolicy(cfg.StartupRetryAttempts, 500*time.Millisecond).
		OnRetry(func(attempt int, err error, delay time.Duration) {
			log.Warn("dependency not ready, retrying", zap.Int("attempt", attempt), zap.Duration("delay", delay), zap.Error(err))
		})

	// Connect to Alexandria for historical replay (optional)
	var store history.Store
	if cfg.Database.AlexandriaDSN != "" {
		var pg *history.Postgres
		err := policy.Execute(ctx, func(context.Context) error {
			var err error
			pg, err = history.NewPostgres(cfg.Database.AlexandriaDSN, cfg.Database.HistoricalTable)
			return err
		})
		if err != nil {
			log.Fatal("failed to connect to Alexandria", zap.Error(err))
		}
		defer pg.Close()
		store = pg
		fmt.Println("✓ Connected to Alexandria DB")
	}

	// Connect to Redis for rate limiting (optional)
	var limiter *ratelimit.Limiter
	if cfg.Redis.URL != "" {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal("failed to parse Redis URL", zap.Error(err))
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		err = policy.Execute(ctx, func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		if err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		limiter = ratelimit.NewLimiter(redisClient, cfg.Redis.RateLimitPerMinute)
		fmt.Println("✓ Connected to Redis")
	}

	impliedProbability, err := oddsmath.AmericanToImpliedProbability(cfg.Simulation.MarketPrice)
	if err != nil {
		log.Fatal("invalid market price", zap.Error(err))
	}

	sim := simulator.New(cfg.Simulation.MaxGames)
	v := validator.New(sim.MaxGames(), cfg.Simulation.MaxGamesLimit).
		WithMaxAmount(decimal.NewFromInt(int64(cfg.Simulation.MaxAmount)))

	handler := handlers.NewHandler(
		sim,
		v,
		winProbability,
		store,
		log,
	).WithStreamInterval(cfg.Simulation.StreamInterval)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handlers.NewRouter(handler, cfg.Server.CORSOrigins, limiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // streams outlive any fixed write deadline; REST routes use chi Timeout
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ Bankroll Simulator listening on %s\n", srv.Addr)
		fmt.Printf("  Market Price: %+d (implied %.4f, win probability %.4f, house edge %.2f%%)\n",
			cfg.Simulation.MarketPrice, impliedProbability, winProbability, oddsmath.HouseEdge(winProbability)*100)
		fmt.Printf("  Max Games: %d (limit %d)\n", sim.MaxGames(), cfg.Simulation.MaxGamesLimit)
		fmt.Printf("  Max Amount: $%d\n", cfg.Simulation.MaxAmount)
		fmt.Println("  Endpoints:")
		fmt.Println("    GET  /health")
		fmt.Println("    GET  /simulate")
		fmt.Println("    GET  /api/v1/simulate")
		fmt.Println("    GET  /api/v1/simulate/stream (websocket)")

		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}

	case <-ctx.Done():
		fmt.Println("\n⚠️  Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("graceful shutdown failed", zap.Error(err))
			srv.Close()
		}
	}

	fmt.Println("✓ Bankroll Simulator stopped")
}
