package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"skillmap-backend/application/layout"
	"skillmap-backend/application/services"
	domaincfg "skillmap-backend/domain/config"
	"skillmap-backend/domain/core/aggregates"
	"skillmap-backend/pkg/observability"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024

	// tickInterval paces the layout simulation at roughly 30 frames/second
	tickInterval = 33 * time.Millisecond
)

// Message is the wire envelope in both directions
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
	ID   string          `json:"id,omitempty"`
}

// Client is one live layout session bound to a single graph. It owns a
// dedicated layout controller and streams frames until the layout settles;
// select and hover messages flow back on the same connection.
//
// Lifecycle: done is the single teardown signal. The send channel is never
// closed; producers race against done instead, so a disconnect during an
// active simulation can never panic a producer goroutine.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	controller *layout.Controller
	graphID    string
	send       chan []byte
	done       chan struct{}
	closeOnce  sync.Once
	logger     *zap.Logger
}

// Handler serves the layout streaming endpoint. The target graph must exist
// before a session can start.
type Handler struct {
	hub       *Hub
	pipeline  *services.PipelineService
	layoutCfg layout.Config
	domainCfg *domaincfg.DomainConfig
	metrics   *observability.Collector
	upgrader  websocket.Upgrader
	logger    *zap.Logger
}

// NewHandler creates the websocket handler
func NewHandler(
	hub *Hub,
	pipeline *services.PipelineService,
	layoutCfg layout.Config,
	domainCfg *domaincfg.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		hub:       hub,
		pipeline:  pipeline,
		layoutCfg: layoutCfg,
		domainCfg: domainCfg,
		metrics:   metrics,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeGraph upgrades the connection and runs the layout session
func (h *Handler) ServeGraph(w http.ResponseWriter, r *http.Request) {
	graphID := chi.URLParam(r, "graphID")
	graph, err := h.pipeline.GetGraph(r.Context(), aggregates.GraphID(graphID))
	if err != nil {
		http.Error(w, "graph not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:        h.hub,
		conn:       conn,
		controller: layout.NewController(h.layoutCfg, h.domainCfg, h.logger),
		graphID:    graphID,
		send:       make(chan []byte, 64),
		done:       make(chan struct{}),
		logger:     h.logger,
	}
	client.controller.OnFit(func(fc layout.FitCommand) {
		h.metrics.LayoutSettles.Inc()
		client.enqueue("fit", fc)
	})
	client.controller.SetGraph(graph)

	h.hub.register(client)
	go client.writePump()
	go client.simulate()
	go client.readPump()
}

// enqueue marshals a typed message onto the send queue, dropping it if the
// client cannot keep up.
func (c *Client) enqueue(msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("Failed to marshal websocket payload",
			zap.String("type", msgType),
			zap.Error(err),
		)
		return
	}
	raw, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		return
	}
	select {
	case <-c.done:
	case c.send <- raw:
	default:
		c.logger.Warn("Dropping frame for slow client", zap.String("graphID", c.graphID))
	}
}

// simulate drives the controller at the tick rate, streaming one frame per
// tick. Once the layout settles the loop idles; the connection stays open for
// select and hover traffic.
func (c *Client) simulate() {
	// Send the render sets first so the surface can draw immediately.
	c.enqueue("view", c.controller.View())

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			frame := c.controller.Step()
			c.enqueue("frame", frame)
			if frame.Settled {
				// The final frame carries the frozen geometry.
				return
			}
		}
	}
}

// readPump consumes select and hover messages until the connection drops
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket read error",
					zap.String("graphID", c.graphID),
					zap.Error(err),
				)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.logger.Debug("Ignoring malformed client message", zap.Error(err))
			continue
		}

		switch msg.Type {
		case "select":
			c.controller.Select(msg.ID)
		case "hover":
			c.controller.Hover(msg.ID)
		default:
			c.logger.Debug("Ignoring unknown message type", zap.String("type", msg.Type))
		}
	}
}

// writePump flushes queued messages and keeps the connection alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}
