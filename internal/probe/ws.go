package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const wsReadTimeout = 10 * time.Second

type subscribeMessage struct {
	Type          string `json:"type"`
	Authorization string `json:"authorization"`
}

// WSResult is the outcome of one authorized WebSocket handshake.
type WSResult struct {
	LatencyMs float64
	// FirstFrame is the raw first message the server pushed after subscribing.
	FirstFrame []byte
}

// CheckWS dials the streaming endpoint with the token in the Authorization
// header, sends a subscribe frame and waits for the first server message.
func CheckWS(ctx context.Context, wsURL, token string) (WSResult, error) {
	headers := http.Header{}
	headers.Set("Authorization", token)

	start := time.Now()
	dialer := websocket.Dialer{}
	conn, _, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		return WSResult{}, fmt.Errorf("could not connect to %s: %w", wsURL, err)
	}
	defer conn.Close()

	msg := subscribeMessage{Type: "subscribe", Authorization: token}
	if err := conn.WriteJSON(msg); err != nil {
		return WSResult{}, fmt.Errorf("could not subscribe: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(wsReadTimeout)); err != nil {
		return WSResult{}, err
	}
	_, frame, err := conn.ReadMessage()
	if err != nil {
		return WSResult{}, fmt.Errorf("no frame received: %w", err)
	}

	return WSResult{
		LatencyMs:  float64(time.Since(start).Milliseconds()),
		FirstFrame: frame,
	}, nil
}
