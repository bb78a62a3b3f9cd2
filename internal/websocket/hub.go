// Package websocket implements a WebSocket Hub for broadcasting real-time game updates.
// WebSockets are persistent two-way connections between the server and clients — unlike
// regular HTTP where the client always initiates the request, WebSockets let the server
// push data to clients instantly. This is used so players watching a live game see
// score entries and status changes the moment they happen, without polling the API.
package websocket

import "sync" // sync provides synchronization primitives like mutexes for safe concurrent access

// Client represents a single connected WebSocket client.
// Each player watching a live game has one Client instance on the server.
type Client struct {
	GameID string      // Which game this client is watching — used to route messages to the right audience
	Send   chan []byte // Buffered channel of outgoing messages; the Hub sends data here, the WebSocket writes it to the client
}

// Message is a unit of data to broadcast to all clients watching a specific game.
// By attaching the GameID, the Hub knows which group of clients should receive it.
type Message struct {
	GameID string // The game this message belongs to
	Data   []byte // The raw bytes to send (typically JSON-encoded score or status events)
}

// Hub manages all active WebSocket connections, grouped by game ID.
// It runs in its own goroutine and processes registration, unregistration, and
// broadcast events through channels — this keeps all map access on a single goroutine,
// which avoids data races (concurrent map reads/writes cause panics in Go).
type Hub struct {
	// clients is a nested map: gameID -> set of Client pointers -> bool (true = connected).
	// Using a map[*Client]bool as a "set" is a common Go idiom because Go has no built-in set type.
	clients map[string]map[*Client]bool

	broadcast  chan *Message // Incoming messages to be sent to all clients watching a given game
	register   chan *Client  // Signals that a new client has connected and should be tracked
	unregister chan *Client  // Signals that a client has disconnected and should be removed

	// mu (mutex) protects the clients map when it's accessed from broadcast (RLock/RUnlock)
	// while the main loop modifies it (Lock/Unlock). A RWMutex allows multiple concurrent
	// readers OR one exclusive writer — suitable since broadcasts just read the client list.
	mu sync.RWMutex
}

// NewHub creates and initializes a Hub with empty channels and maps.
// The broadcast channel has a buffer of 256 so writers don't block immediately
// if the Hub goroutine is briefly busy. register and unregister are unbuffered
// because those operations need to complete synchronously.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the Hub's main event loop. It must be called in a goroutine ("go hub.Run()").
// It blocks forever, processing one event at a time via a select statement.
// select is like a switch but for channels — it waits until one of the cases has data ready.
func (h *Hub) Run() {
	for {
		select {

		// A new client has connected — add it to the clients map under its GameID
		case client := <-h.register:
			h.mu.Lock()
			// If this is the first client for this game, initialize the inner map
			if h.clients[client.GameID] == nil {
				h.clients[client.GameID] = make(map[*Client]bool)
			}
			h.clients[client.GameID][client] = true
			h.mu.Unlock()

		// A client has disconnected — remove it from the map and close its Send channel
		case client := <-h.unregister:
			h.drop(client)

		// A message arrived to broadcast to all clients watching a specific game
		case msg := <-h.broadcast:
			// Collect the recipients under a read lock, then send outside it so a
			// slow client can't hold the lock against registrations.
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients[msg.GameID]))
			for client := range h.clients[msg.GameID] {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				select {
				// Try to send the message to the client's outgoing channel
				case client.Send <- msg.Data:
				// If the channel buffer is full, the client is too slow — drop and disconnect it.
				// The removal happens inline rather than through the unregister channel:
				// Run is the only receiver on that channel, so sending to it from here
				// would deadlock the loop.
				default:
					h.drop(client)
				}
			}
		}
	}
}

// drop removes a client from its game's set and closes its Send channel, which
// signals the WebSocket writer goroutine to stop. Dropping a client twice is a
// no-op. The game's map entry is cleaned up when its last client leaves —
// avoids memory leaks as games finish.
func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[client.GameID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.GameID)
	}
}

// BroadcastToGame sends data to all clients currently watching the given game.
// This is the public API that handlers call when scores are submitted or the
// game's status changes.
func (h *Hub) BroadcastToGame(gameID string, data []byte) {
	h.broadcast <- &Message{GameID: gameID, Data: data}
}

// Register adds a client to the Hub so it starts receiving broadcasts for its game.
// Called when a WebSocket connection is opened.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the Hub when its WebSocket connection closes.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
