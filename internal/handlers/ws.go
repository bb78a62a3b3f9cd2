// Package handlers contains HTTP route handler functions for the Skins Game API.
// This file bridges Fiber routes to the websocket Hub so clients can watch a
// game live: score submissions, status changes and finalization all arrive as
// JSON events pushed over the socket.
package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	"github.com/Bvictor-coder/skins-game/internal/websocket"
)

// Broadcaster is the slice of the websocket Hub the handlers need. Taking an
// interface instead of the concrete *websocket.Hub lets tests pass a recording
// fake (or nil, via broadcastEvent's guard) without spinning up the hub loop.
type Broadcaster interface {
	BroadcastToGame(gameID string, data []byte)
}

// GameEvent is the envelope for every message pushed over a game's socket.
type GameEvent struct {
	Type    string      `json:"type"` // "status_changed", "scores_updated", "finalized"
	GameID  string      `json:"gameId"`
	Payload interface{} `json:"payload,omitempty"`
}

// broadcastEvent marshals an event and hands it to the broadcaster. A nil
// broadcaster is a no-op so handlers can be exercised without a hub.
func broadcastEvent(b Broadcaster, gameID, eventType string, payload interface{}) {
	if b == nil {
		return
	}
	data, err := json.Marshal(GameEvent{Type: eventType, GameID: gameID, Payload: payload})
	if err != nil {
		logrus.WithError(err).Warn("failed to marshal websocket event")
		return
	}
	b.BroadcastToGame(gameID, data)
}

// UpgradeRequired is mounted on the /ws prefix and rejects plain HTTP requests
// before they reach the websocket handler. Browsers set the upgrade headers
// automatically when opening a WebSocket; anything else gets 426.
func UpgradeRequired(c *fiber.Ctx) error {
	if fiberws.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// GameSocket returns the handler for GET /ws/games/:id. Each connection
// becomes a Hub client subscribed to one game's event stream.
//
// The connection runs two loops: a writer goroutine that pumps the client's
// Send channel to the socket, and a read loop that exists only to notice when
// the peer goes away. The Hub closes the Send channel on unregister, which
// ends the writer goroutine.
func GameSocket(hub *websocket.Hub) fiber.Handler {
	return fiberws.New(func(conn *fiberws.Conn) {
		client := &websocket.Client{
			GameID: conn.Params("id"),
			Send:   make(chan []byte, 64),
		}
		hub.Register(client)

		// Writer: everything broadcast to this game flows out here.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range client.Send {
				if err := conn.WriteMessage(fiberws.TextMessage, msg); err != nil {
					return
				}
			}
		}()

		// Reader: we don't accept client messages, but reading is how we learn
		// the connection closed.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		hub.Unregister(client)
		<-done
	})
}
