// Package history replays real NBA results as an outcome source. Each game is a bet on the
// home side at its closing moneyline, taken only when the home team was the favourite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Game is one completed game with its closing home moneyline.
type Game struct {
	Date      time.Time
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
	HomeOdds  int // American odds
}

// HomeWon reports whether the bet on the home side won. A tie loses.
func (g Game) HomeWon() bool {
	return g.HomeScore > g.AwayScore
}

// Store loads historical games.
type Store interface {
	// HomeFavourites returns up to limit games, oldest first, where the home side was favoured.
	HomeFavourites(ctx context.Context, limit int) ([]Game, error)
	Ping(ctx context.Context) error
	Close() error
}

// Postgres implements Store against the Alexandria games table
type Postgres struct {
	db    *sql.DB
	table string
}

// NewPostgres opens and pings a Postgres connection
func NewPostgres(dsn, table string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewPostgresFromDB(db, table), nil
}

// NewPostgresFromDB wraps an existing handle
func NewPostgresFromDB(db *sql.DB, table string) *Postgres {
	return &Postgres{db: db, table: table}
}

// HomeFavourites retrieves games in date order, skipping rows with missing scores or odds
func (p *Postgres) HomeFavourites(ctx context.Context, limit int) ([]Game, error) {
	query := fmt.Sprintf(`
		SELECT game_date, home_team, away_team, home_score, away_score, home_odds
		FROM %s
		WHERE home_odds IS NOT NULL
		  AND home_score IS NOT NULL
		  AND away_score IS NOT NULL
		  AND home_odds <= -100
		ORDER BY game_date ASC, home_team ASC
		LIMIT $1
	`, pq.QuoteIdentifier(p.table))

	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	games := make([]Game, 0, limit)
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.Date, &g.HomeTeam, &g.AwayTeam, &g.HomeScore, &g.AwayScore, &g.HomeOdds); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}

	return games, nil
}

// Ping checks connectivity
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the database connection
func (p *Postgres) Close() error {
	return p.db.Close()
}
