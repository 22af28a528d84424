package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/history"
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/serializer"
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/simulator"
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/validator"
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errHistoricalUnavailable is returned when source=historical is requested without a database
var errHistoricalUnavailable = errors.New("historical replay is not configured")

// Handler contains dependencies for HTTP handlers
type Handler struct {
	sim            *simulator.Simulator
	validator      *validator.Validator
	winProbability float64
	store          history.Store // nil when historical replay is disabled
	log            *zap.Logger
	streamInterval time.Duration
}

// NewHandler creates a new handler
func NewHandler(sim *simulator.Simulator, v *validator.Validator, winProbability float64, store history.Store, log *zap.Logger) *Handler {
	return &Handler{
		sim:            sim,
		validator:      v,
		winProbability: winProbability,
		store:          store,
		log:            log,
	}
}

// WithStreamInterval sets the pause between streamed games
func (h *Handler) WithStreamInterval(d time.Duration) *Handler {
	h.streamInterval = d
	return h
}

// Root reports that the service is up
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status": "bankroll simulator is running",
	})
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	historical := "disabled"
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		historical = "enabled"
		if err := h.store.Ping(ctx); err != nil {
			h.log.Warn("historical store unhealthy", zap.Error(err))
			historical = "unhealthy"
		}
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"service":         "bankroll-simulator",
		"timestamp":       time.Now().UTC(),
		"historical":      historical,
		"win_probability": h.winProbability,
	})
}

// Simulate runs one simulation
// Query params: start_cash, bet_size, strategy, seed, max_games, source
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	resp, _, err := h.run(r.Context(), rawParams(r))
	if err != nil {
		h.respondRunError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// run validates, simulates, aggregates and serializes
func (h *Handler) run(ctx context.Context, raw validator.Raw) (models.SimulationResponse, simulator.SimulationOutcome, error) {
	cfg, err := h.validator.Validate(raw)
	if err != nil {
		return models.SimulationResponse{}, simulator.SimulationOutcome{}, err
	}

	src, err := h.source(ctx, cfg)
	if err != nil {
		return models.SimulationResponse{}, simulator.SimulationOutcome{}, err
	}

	out := h.sim.Run(cfg, src)
	sum := simulator.Summarize(out.Trajectory, cfg.StartingBankroll)
	runID := uuid.NewString()

	h.log.Info("simulation complete",
		zap.String("run_id", runID),
		zap.String("strategy", string(cfg.Strategy)),
		zap.String("source", string(cfg.Source)),
		zap.String("status", string(out.Status)),
		zap.Int("games", sum.GamesPlayed),
		zap.String("final_balance", out.FinalBalance.StringFixed(2)),
	)

	return serializer.Serialize(runID, cfg, out, sum), out, nil
}

// source builds the outcome source for one run
func (h *Handler) source(ctx context.Context, cfg simulator.SimulationConfig) (simulator.OutcomeSource, error) {
	if cfg.Source != simulator.SourceHistorical {
		return simulator.NewBernoulli(h.winProbability, cfg.Seed), nil
	}

	if h.store == nil {
		return nil, errHistoricalUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	games, err := h.store.HomeFavourites(ctx, cfg.MaxGames)
	if err != nil {
		return nil, fmt.Errorf("load historical games: %w", err)
	}

	return history.NewReplay(games), nil
}

func (h *Handler) respondRunError(w http.ResponseWriter, err error) {
	status, resp := h.errorResponse(err)
	h.respondError(w, status, resp)
}

// errorResponse maps a run error onto a status and body
func (h *Handler) errorResponse(err error) (int, models.ErrorResponse) {
	var perr *validator.InvalidParameterError
	switch {
	case errors.As(err, &perr):
		return http.StatusBadRequest, newErrorResponse(http.StatusBadRequest, perr.Error(), perr.Field)
	case errors.Is(err, errHistoricalUnavailable):
		return http.StatusServiceUnavailable, newErrorResponse(http.StatusServiceUnavailable, err.Error(), validator.FieldSource)
	default:
		h.log.Error("simulation failed", zap.Error(err))
		return http.StatusInternalServerError, newErrorResponse(http.StatusInternalServerError, "simulation failed", "")
	}
}

// Helper functions

func rawParams(r *http.Request) validator.Raw {
	q := r.URL.Query()
	return validator.Raw{
		StartCash: q.Get(validator.FieldStartCash),
		BetSize:   q.Get(validator.FieldBetSize),
		Strategy:  q.Get(validator.FieldStrategy),
		MaxGames:  q.Get(validator.FieldMaxGames),
		Seed:      q.Get(validator.FieldSeed),
		Source:    q.Get(validator.FieldSource),
	}
}

func newErrorResponse(status int, message, field string) models.ErrorResponse {
	return models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
		Field:   field,
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to encode response", zap.Int("status", status), zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, errResp models.ErrorResponse) {
	h.respondJSON(w, status, errResp)
}
