package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/gray-logic-dashboard/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-dashboard/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-dashboard/internal/pipeline"
)

// WebSocket message types.
const (
	WSTypeSubscribe   = "subscribe"
	WSTypeUnsubscribe = "unsubscribe"
	WSTypeLayout      = "layout"
	WSTypePing        = "ping"
	WSTypePong        = "pong"
	WSTypeEvent       = "event"
	WSTypeResponse    = "response"
	WSTypeError       = "error"

	wsSendBufferSize = 64
)

// ChannelDashboardUpdated carries a pipeline.Summary after every rebuild.
const ChannelDashboardUpdated = "dashboard.updated"

// WSMessage is one frame exchanged with a WebSocket client.
type WSMessage struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// WSSubscribePayload is the payload of subscribe and unsubscribe requests.
type WSSubscribePayload struct {
	Channels []string `json:"channels"`
}

// WSLayoutPayload asks for one view laid out at the client's width.
type WSLayoutPayload struct {
	View  int     `json:"view"`
	Width float64 `json:"width"`
}

// wsRequest is an inbound frame; the payload is decoded per type.
type wsRequest struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub tracks connected dashboard clients and fans out rebuild events.
type Hub struct {
	cfg    config.WebSocketConfig
	logger *logging.Logger

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	hub   *Hub
	conn  *websocket.Conn
	coord *pipeline.Coordinator
	out   chan []byte

	mu     sync.RWMutex
	topics map[string]struct{}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origins are checked by the CORS middleware.
	CheckOrigin: func(*http.Request) bool { return true },
}

// NewHub creates an empty hub.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	return &Hub{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
	}
}

// Run blocks until ctx is done and then drops every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.out)
		c.conn.Close()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends an event to every client subscribed to channel.
func (h *Hub) Broadcast(channel string, payload any) {
	data, err := encodeFrame(eventFrame(channel, payload))
	if err != nil {
		h.logger.Error("encoding websocket event", "channel", channel, "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		if c.subscribed(channel) {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.enqueue(data)
	}
	if len(targets) > 0 {
		h.logger.Debug("websocket event sent", "channel", channel, "recipients", len(targets))
	}
}

func (h *Hub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "clients", n)
}

// remove drops c. Only the call that finds c closes its queue.
func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		close(c.out)
		h.logger.Debug("websocket client disconnected", "clients", n)
	}
}

// handleWebSocket upgrades the connection and starts the client pumps.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &wsClient{
		hub:    s.hub,
		conn:   conn,
		coord:  s.coord,
		out:    make(chan []byte, wsSendBufferSize),
		topics: make(map[string]struct{}),
	}
	s.hub.add(c)

	go c.writeLoop()
	go c.readLoop()
}

func (c *wsClient) readLoop() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	cfg := c.hub.cfg
	if cfg.MaxMessageSize > 0 {
		c.conn.SetReadLimit(int64(cfg.MaxMessageSize))
	}
	idle := time.Duration(cfg.PingInterval+cfg.PongTimeout) * time.Second
	extend := func(string) error { return c.conn.SetReadDeadline(time.Now().Add(idle)) }
	//nolint:errcheck // deadline errors surface on the next read
	extend("")
	c.conn.SetPongHandler(extend)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "error", err)
			}
			return
		}
		//nolint:errcheck // deadline errors surface on the next read
		extend("")
		c.handle(data)
	}
}

func (c *wsClient) writeLoop() {
	ping := time.Duration(c.hub.cfg.PingInterval) * time.Second
	if ping <= 0 {
		ping = 30 * time.Second
	}
	wait := time.Duration(c.hub.cfg.PongTimeout) * time.Second
	if wait <= 0 {
		wait = 10 * time.Second
	}
	ticker := time.NewTicker(ping)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	write := func(kind int, data []byte) error {
		//nolint:errcheck // a failed deadline shows up as a write error
		c.conn.SetWriteDeadline(time.Now().Add(wait))
		return c.conn.WriteMessage(kind, data)
	}

	for {
		select {
		case data, ok := <-c.out:
			if !ok {
				//nolint:errcheck // connection is going away
				write(websocket.CloseMessage, nil)
				return
			}
			if write(websocket.TextMessage, data) != nil {
				return
			}
		case <-ticker.C:
			if write(websocket.PingMessage, nil) != nil {
				return
			}
		}
	}
}

func (c *wsClient) handle(data []byte) {
	var req wsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.reply(WSMessage{Type: WSTypeError, Payload: errorPayload("invalid JSON message")})
		return
	}

	switch req.Type {
	case WSTypeSubscribe, WSTypeUnsubscribe:
		var sub WSSubscribePayload
		if err := json.Unmarshal(req.Payload, &sub); err != nil || len(sub.Channels) == 0 {
			c.fail(req.ID, "invalid "+req.Type+" payload")
			return
		}
		if req.Type == WSTypeUnsubscribe {
			c.setTopics(sub.Channels, false)
			c.reply(WSMessage{Type: WSTypeResponse, ID: req.ID, Payload: map[string]any{"unsubscribed": sub.Channels}})
			return
		}
		c.setTopics(sub.Channels, true)
		c.reply(WSMessage{Type: WSTypeResponse, ID: req.ID, Payload: map[string]any{"subscribed": sub.Channels}})

		// New dashboard subscribers get the current state straight away.
		if res := c.coord.Current(); res != nil && c.subscribed(ChannelDashboardUpdated) {
			c.reply(eventFrame(ChannelDashboardUpdated, pipeline.Summarize(res)))
		}
	case WSTypeLayout:
		var lp WSLayoutPayload
		if err := json.Unmarshal(req.Payload, &lp); err != nil || lp.Width < 0 || lp.Width > maxLayoutWidth {
			c.fail(req.ID, "invalid layout payload")
			return
		}
		vl, err := c.coord.LayoutView(lp.View, lp.Width)
		switch {
		case errors.Is(err, pipeline.ErrNotBuilt):
			c.fail(req.ID, "dashboard not built yet")
		case err != nil:
			c.fail(req.ID, err.Error())
		default:
			c.reply(WSMessage{Type: WSTypeResponse, ID: req.ID, Payload: vl})
		}
	case WSTypePing:
		c.reply(WSMessage{Type: WSTypePong, ID: req.ID})
	default:
		c.fail(req.ID, "unknown message type: "+req.Type)
	}
}

func (c *wsClient) setTopics(channels []string, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range channels {
		if on {
			c.topics[ch] = struct{}{}
		} else {
			delete(c.topics, ch)
		}
	}
}

func (c *wsClient) subscribed(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.topics[channel]
	return ok
}

func (c *wsClient) reply(msg WSMessage) {
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	data, err := encodeFrame(msg)
	if err != nil {
		c.hub.logger.Error("encoding websocket reply", "type", msg.Type, "error", err)
		return
	}
	c.enqueue(data)
}

func (c *wsClient) fail(id, message string) {
	c.reply(WSMessage{Type: WSTypeError, ID: id, Payload: errorPayload(message)})
}

// enqueue drops the frame when the client is slow or already gone.
func (c *wsClient) enqueue(data []byte) {
	defer func() {
		recover() //nolint:errcheck // queue closed by a concurrent remove
	}()

	select {
	case c.out <- data:
	default:
	}
}

func eventFrame(channel string, payload any) WSMessage {
	return WSMessage{
		Type:      WSTypeEvent,
		EventType: channel,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	}
}

func encodeFrame(msg WSMessage) ([]byte, error) {
	return json.Marshal(msg)
}

func errorPayload(message string) map[string]string {
	return map[string]string{"message": message}
}
