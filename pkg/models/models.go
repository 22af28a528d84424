package models

import "encoding/json"

// HistoryPoint is one charted point of a run
type HistoryPoint struct {
	Game     int         `json:"game"`
	Bankroll json.Number `json:"bankroll"`
}

// SimulationResponse is the response for GET /simulate
// history and final_balance are what the web client charts; the rest is authoritative run metadata
type SimulationResponse struct {
	RunID         string          `json:"run_id"`
	Seed          *uint64         `json:"seed,omitempty"` // Synthetic runs only
	Strategy      string          `json:"strategy"`
	Source        string          `json:"source"`
	Status        string          `json:"status"` // bankrupt, completed
	History       []HistoryPoint  `json:"history"`
	FinalBalance  json.Number     `json:"final_balance"`
	NetProfitLoss json.Number     `json:"net_profit_loss"`
	Bankrupt      bool            `json:"bankrupt"`
	Summary       SummaryResponse `json:"summary"`
}

// SummaryResponse carries run statistics
type SummaryResponse struct {
	StartingBankroll json.Number `json:"starting_bankroll"`
	BetSize          json.Number `json:"bet_size"`
	GamesPlayed      int         `json:"games_played"`
	Wins             int         `json:"wins"`
	Losses           int         `json:"losses"`
	WinRate          float64     `json:"win_rate"`
	PeakBankroll     json.Number `json:"peak_bankroll"`
	LowestBankroll   json.Number `json:"lowest_bankroll"`
	LargestWager     json.Number `json:"largest_wager"`
	TotalWagered     json.Number `json:"total_wagered"`
}

// GameEvent is streamed once per settled game
type GameEvent struct {
	Game     int         `json:"game"`
	Bankroll json.Number `json:"bankroll"`
	Wager    json.Number `json:"wager"`
	Outcome  string      `json:"outcome"`
	Price    int         `json:"price,omitempty"` // American odds, omitted for even money
}

// StreamMessage wraps every websocket frame
type StreamMessage struct {
	Type string      `json:"type"` // game, result, error
	Data interface{} `json:"data"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	Field   string `json:"field,omitempty"` // Set for invalid parameters
}
