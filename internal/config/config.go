package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/pkg/oddsmath"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int
	CORSOrigins []string
}

// SimulationConfig holds run limits and the market every synthetic game is priced in
type SimulationConfig struct {
	// Default number of games per run
	MaxGames int

	// Upper bound a caller may request via max_games
	MaxGamesLimit int

	// American price of a fair 50/50 game; its vig sets the house edge
	MarketPrice int

	// Pause between games on the websocket stream
	StreamInterval time.Duration

	// Largest start_cash or bet_size a caller may send, in whole dollars
	MaxAmount int
}

// RedisConfig holds Redis connection configuration. An empty URL disables rate limiting.
type RedisConfig struct {
	URL                string
	RateLimitPerMinute int
}

// DatabaseConfig holds the Alexandria connection. An empty DSN disables historical replay.
type DatabaseConfig struct {
	AlexandriaDSN   string
	HistoricalTable string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// Config holds all application configuration
type Config struct {
	Server               ServerConfig
	Simulation           SimulationConfig
	Redis                RedisConfig
	Database             DatabaseConfig
	Log                  LogConfig
	StartupRetryAttempts int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnvInt("SIMULATOR_PORT", 8086),
			CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
		},
		Simulation: SimulationConfig{
			MaxGames:       getEnvInt("SIM_MAX_GAMES", 100),
			MaxGamesLimit:  getEnvInt("SIM_MAX_GAMES_LIMIT", 10000),
			MarketPrice:    getEnvInt("SIM_MARKET_PRICE", -110),
			StreamInterval: getEnvDuration("STREAM_GAME_INTERVAL", 25*time.Millisecond),
			MaxAmount:      getEnvInt("SIM_MAX_AMOUNT", 1_000_000_000),
		},
		Redis: RedisConfig{
			URL:                getEnv("REDIS_URL", ""),
			RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		},
		Database: DatabaseConfig{
			AlexandriaDSN:   getEnv("ALEXANDRIA_DSN", ""),
			HistoricalTable: getEnv("HISTORICAL_TABLE", "nba_games"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		StartupRetryAttempts: getEnvInt("STARTUP_RETRY_ATTEMPTS", 5),
	}
}

// WinProbability is the chance an even-money synthetic game is won, derived from MarketPrice
func (c *Config) WinProbability() (float64, error) {
	return oddsmath.EvenMoneyWinProbability(c.Simulation.MarketPrice, 0.5)
}

// Validate checks that all values are usable
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("server.port must be between 1 and 65535")
	}
	if len(c.Server.CORSOrigins) == 0 {
		return errors.New("server.cors_origins must not be empty")
	}

	if c.Simulation.MaxGames < 1 {
		return errors.New("simulation.max_games must be >= 1")
	}
	if c.Simulation.MaxGamesLimit < c.Simulation.MaxGames {
		return errors.New("simulation.max_games_limit must be >= simulation.max_games")
	}
	if c.Simulation.MaxAmount < 1 || c.Simulation.MaxAmount > 1_000_000_000_000 {
		return errors.New("simulation.max_amount must be between 1 and 1000000000000")
	}
	if c.Simulation.StreamInterval < 0 {
		return errors.New("simulation.stream_interval must be >= 0")
	}

	p, err := c.WinProbability()
	if err != nil {
		return fmt.Errorf("simulation.market_price: %w", err)
	}
	if p >= 0.5 {
		return fmt.Errorf("simulation.market_price %+d gives the bettor an edge (p=%.4f)", c.Simulation.MarketPrice, p)
	}

	if c.Redis.URL != "" && c.Redis.RateLimitPerMinute < 1 {
		return errors.New("redis.rate_limit_per_minute must be >= 1")
	}

	if c.Database.AlexandriaDSN != "" && c.Database.HistoricalTable == "" {
		return errors.New("database.historical_table is required when alexandria_dsn is set")
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console (got %q)", c.Log.Format)
	}

	if c.StartupRetryAttempts < 1 {
		return errors.New("startup_retry_attempts must be >= 1")
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty entries
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
