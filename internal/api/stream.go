package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"MarketLens/internal/logger"
	"MarketLens/internal/model"
)

const streamWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	EnableCompression: true,
}

// handleRealTimeStream pushes the real-time payload every stream interval
// until the client goes away or the server closes. Provider failures are sent
// as error frames and the stream keeps going.
func (s *Server) handleRealTimeStream(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	log := logger.From(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reads only detect the close; clients send nothing meaningful.
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Info().Str("symbol", symbol).Msg("ws stream opened")
	ticker := time.NewTicker(s.opts.StreamInterval)
	defer ticker.Stop()

	for {
		if err := s.pushRealTime(ctx, conn, symbol); err != nil {
			log.Info().Err(err).Str("symbol", symbol).Msg("ws stream closed")
			return
		}
		select {
		case <-ctx.Done():
			log.Info().Str("symbol", symbol).Msg("ws client disconnected")
			return
		case <-s.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(streamWriteWait))
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) pushRealTime(ctx context.Context, conn *websocket.Conn, symbol string) error {
	var frame any
	q, err := s.markets.RealTime(ctx, symbol)
	switch {
	case err == nil:
		frame = presentRealTime(q)
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, model.ErrNoData):
		frame = errorBody{Error: msgNoRealTimeData}
	default:
		frame = errorBody{Error: err.Error()}
	}

	body, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteMessage(websocket.TextMessage, body)
}
