package handlers

import (
	"context"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/serializer"
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/pkg/models"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Close reasons share the 125-byte control frame with the status code
	maxCloseReason = 120
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origins are enforced by the CORS allow-list for the REST routes; the stream is read-only
		return true
	},
}

// SimulateStream runs a simulation and replays it game by game over a WebSocket.
// Messages: {"type":"game"} per game, then {"type":"result"}; {"type":"error"} on failure.
func (h *Handler) SimulateStream(w http.ResponseWriter, r *http.Request) {
	raw := rawParams(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Drain the peer so close frames are processed; any read error ends the stream
	conn.SetReadLimit(maxMessageSize)
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	resp, out, err := h.run(ctx, raw)
	if err != nil {
		_, errResp := h.errorResponse(err)
		h.write(conn, models.StreamMessage{Type: "error", Data: errResp})
		h.close(conn, websocket.ClosePolicyViolation, errResp.Message)
		return
	}

	var ticker *time.Ticker
	if h.streamInterval > 0 {
		ticker = time.NewTicker(h.streamInterval)
		defer ticker.Stop()
	}

	for _, g := range out.Trajectory {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return
		}

		if err := h.write(conn, models.StreamMessage{Type: "game", Data: serializer.GameEvent(g)}); err != nil {
			return
		}
	}

	if err := h.write(conn, models.StreamMessage{Type: "result", Data: resp}); err != nil {
		return
	}
	h.close(conn, websocket.CloseNormalClosure, string(out.Status))
}

func (h *Handler) write(conn *websocket.Conn, msg models.StreamMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		h.log.Debug("stream write failed", zap.String("type", msg.Type), zap.Error(err))
		return err
	}
	return nil
}

// close sends a close frame
func (h *Handler) close(conn *websocket.Conn, code int, text string) {
	conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, closeReason(text)), time.Now().Add(writeWait))
}

// closeReason cuts text to maxCloseReason bytes without splitting a rune
func closeReason(text string) string {
	if len(text) <= maxCloseReason {
		return text
	}

	cut := maxCloseReason
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
