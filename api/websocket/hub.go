package websocket

import (
	"encoding/json"
	"sync"
	"time"
)

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients by channel
	clients  map[*Client]bool
	channels map[string]map[*Client]bool // channel -> clients

	// Inbound messages from clients
	broadcast chan []byte

	// Register/unregister requests
	register   chan *Client
	unregister chan *Client

	// Channel subscription requests
	subscribe   chan *SubscriptionRequest
	unsubscribe chan *SubscriptionRequest

	// Latest pool snapshots, flushed on an interval
	poolBuffer map[string]*PoolStatusMessage

	// Mutex for thread-safe operations
	mu sync.RWMutex

	// Configuration
	config *HubConfig
}

// HubConfig contains hub configuration
type HubConfig struct {
	// Interval between pool snapshot broadcasts
	PoolInterval time.Duration

	// Connection limits
	MaxClientsPerIP  int
	MaxSubscriptions int

	// Rate limiting
	MessageRateLimit int // Messages per second per client
}

// DefaultHubConfig returns default hub configuration
func DefaultHubConfig() *HubConfig {
	return &HubConfig{
		PoolInterval:     time.Second,
		MaxClientsPerIP:  10,
		MaxSubscriptions: 50,
		MessageRateLimit: 20,
	}
}

// SubscriptionRequest represents a subscription request
type SubscriptionRequest struct {
	Client  *Client
	Channel string
	Action  string // "subscribe" or "unsubscribe"
}

// NewHub creates a new Hub
func NewHub(config *HubConfig) *Hub {
	if config == nil {
		config = DefaultHubConfig()
	}

	return &Hub{
		clients:     make(map[*Client]bool),
		channels:    make(map[string]map[*Client]bool),
		broadcast:   make(chan []byte, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *SubscriptionRequest, 256),
		unsubscribe: make(chan *SubscriptionRequest, 256),
		poolBuffer:  make(map[string]*PoolStatusMessage),
		config:      config,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	poolTicker := time.NewTicker(h.config.PoolInterval)
	defer poolTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case req := <-h.subscribe:
			h.handleSubscription(req)

		case req := <-h.unsubscribe:
			h.handleUnsubscription(req)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-poolTicker.C:
			h.broadcastPoolSnapshots()
		}
	}
}

// registerClient adds a new client
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
}

// unregisterClient removes a client
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)

		for channel, clients := range h.channels {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.channels, channel)
			}
		}

		close(client.send)
	}
}

// handleSubscription handles a subscription request
func (h *Hub) handleSubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channel := req.Channel
	client := req.Client

	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = make(map[*Client]bool)
	}
	h.channels[channel][client] = true

	confirmation := &WSMessage{
		Type:    "subscribed",
		Channel: channel,
		Data:    nil,
	}
	data, _ := json.Marshal(confirmation)
	client.send <- data
}

// handleUnsubscription handles an unsubscription request
func (h *Hub) handleUnsubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channel := req.Channel
	client := req.Client

	if clients, ok := h.channels[channel]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}

	confirmation := &WSMessage{
		Type:    "unsubscribed",
		Channel: channel,
		Data:    nil,
	}
	data, _ := json.Marshal(confirmation)
	client.send <- data
}

// broadcastMessage sends a message to all clients
func (h *Hub) broadcastMessage(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Client buffer is full, skip
		}
	}
}

// BroadcastToChannel sends a message to all clients subscribed to a channel
func (h *Hub) BroadcastToChannel(channel string, message interface{}) {
	h.mu.RLock()
	clients, ok := h.channels[channel]
	if !ok {
		h.mu.RUnlock()
		return
	}

	// Make a copy of clients to avoid holding lock during send
	clientList := make([]*Client, 0, len(clients))
	for client := range clients {
		clientList = append(clientList, client)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	for _, client := range clientList {
		select {
		case client.send <- data:
		default:
			// Client buffer is full, skip
		}
	}
}

// ============ Channel-specific broadcasts ============

// UpdatePool updates the snapshot buffer for a pool
func (h *Hub) UpdatePool(poolID string, status *PoolStatusMessage) {
	h.mu.Lock()
	h.poolBuffer[poolID] = status
	h.mu.Unlock()
}

// broadcastPoolSnapshots broadcasts buffered pool snapshots
func (h *Hub) broadcastPoolSnapshots() {
	h.mu.RLock()
	snapshots := make(map[string]*PoolStatusMessage)
	for k, v := range h.poolBuffer {
		snapshots[k] = v
	}
	h.mu.RUnlock()

	for poolID, status := range snapshots {
		channel := "pool:" + poolID
		msg := &WSMessage{
			Type:    "pool",
			Channel: channel,
			Data:    status,
		}
		h.BroadcastToChannel(channel, msg)
	}
}

// BroadcastLifecycle broadcasts a lifecycle event to the public pools channel
// and to subscribers of the affected pool
func (h *Hub) BroadcastLifecycle(event *LifecycleEventMessage) {
	msg := &WSMessage{
		Type:    "lifecycle",
		Channel: "pools",
		Data:    event,
	}
	h.BroadcastToChannel("pools", msg)

	poolChannel := "pool:" + event.PoolID
	h.BroadcastToChannel(poolChannel, &WSMessage{
		Type:    "lifecycle",
		Channel: poolChannel,
		Data:    event,
	})
}

// BroadcastFlow broadcasts a deposit or withdrawal to pool subscribers
func (h *Hub) BroadcastFlow(flow *FlowMessage) {
	channel := "pool:" + flow.PoolID
	msg := &WSMessage{
		Type:    "flow",
		Channel: channel,
		Data:    flow,
	}
	h.BroadcastToChannel(channel, msg)
}

// BroadcastPosition broadcasts a position update to a specific investor
func (h *Hub) BroadcastPosition(investor string, position *PositionMessage) {
	channel := "positions:" + investor
	msg := &WSMessage{
		Type:    "position",
		Channel: channel,
		Data:    position,
	}
	h.BroadcastToChannel(channel, msg)
}

// ============ Message Types ============

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel"`
	Data    interface{} `json:"data,omitempty"`
}

// PoolStatusMessage is a pool state snapshot
type PoolStatusMessage struct {
	PoolID       string `json:"pool_id"`
	Status       string `json:"status"`
	TotalShares  string `json:"total_shares"`
	TotalAssets  string `json:"total_assets"`
	MaturityDate int64  `json:"maturity_date"`
	Timestamp    int64  `json:"timestamp"`
}

// LifecycleEventMessage is a pool state transition
type LifecycleEventMessage struct {
	PoolID    string `json:"pool_id"`
	Event     string `json:"event"` // "created", "locked", "settled", "matured", "shutdown"
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// FlowMessage is a deposit or withdrawal against a pool
type FlowMessage struct {
	PoolID    string `json:"pool_id"`
	Kind      string `json:"kind"` // "deposit" or "withdrawal"
	Amount    string `json:"amount"`
	Shares    string `json:"shares"`
	Denom     string `json:"denom"`
	Timestamp int64  `json:"timestamp"`
}

// PositionMessage is an investor position update
type PositionMessage struct {
	Investor       string `json:"investor"`
	PoolID         string `json:"pool_id"`
	Shares         string `json:"shares"`
	InvestedAssets string `json:"invested_assets"`
	Timestamp      int64  `json:"timestamp"`
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetChannelCount returns the number of active channels
func (h *Hub) GetChannelCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels)
}

// GetChannelClientCount returns the number of clients in a channel
func (h *Hub) GetChannelClientCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.channels[channel]; ok {
		return len(clients)
	}
	return 0
}
