package ws

import (
	"net/http"
	"sync"
	"time"

	"TradeMind/internal/domain/models"
	"TradeMind/internal/usecase"
	xlogger "TradeMind/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
)

// Message is one push frame. Type "snapshot" carries the full read model on
// connect; type "feed" carries a single feed's new state after a fetch
// settles.
type Message struct {
	Type      string                            `json:"type"`
	Feed      models.FeedID                     `json:"feed,omitempty"`
	View      *models.FeedView                  `json:"view,omitempty"`
	Feeds     map[models.FeedID]models.FeedView `json:"feeds,omitempty"`
	Selection *models.Selection                 `json:"selection,omitempty"`
	Online    *bool                             `json:"online,omitempty"`
}

// Hub pushes feed updates to connected dashboards. The scheduler calls
// Broadcast after each applied result, so clients see exactly the state
// transitions the store performs, with no polling in between.
type Hub struct {
	logger *xlogger.Logger
	store  *usecase.FeedStore
	dash   *usecase.Dashboard

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan Message
}

func NewHub(logger *xlogger.Logger, store *usecase.FeedStore, dash *usecase.Dashboard) *Hub {
	return &Hub{
		logger:  logger,
		store:   store,
		dash:    dash,
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Serve upgrades the connection, sends the current read model, and keeps the
// client registered until it disconnects.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}

	cl := &client{conn: conn, send: make(chan Message, sendBufferSize)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return nil
	}
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("websocket client connected", xlogger.String("remote", conn.RemoteAddr().String()))

	cl.send <- h.snapshotMessage()
	go h.writePump(cl)
	h.readPump(cl)
	return nil
}

func (h *Hub) snapshotMessage() Message {
	sel := h.dash.Selection()
	online := h.dash.Online()
	return Message{
		Type:      "snapshot",
		Feeds:     h.store.ReadAll(),
		Selection: &sel,
		Online:    &online,
	}
}

// Broadcast fans one feed's fresh state out to every client. A client whose
// send buffer is full is dropped rather than allowed to stall the rest.
func (h *Hub) Broadcast(feed models.FeedID) {
	view := h.store.Read(feed)
	msg := Message{Type: "feed", Feed: feed, View: &view}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- msg:
		default:
			delete(h.clients, cl)
			close(cl.send)
		}
	}
}

func (h *Hub) writePump(cl *client) {
	for msg := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteJSON(msg); err != nil {
			h.logger.Debug("websocket write failed", xlogger.Error(err))
			break
		}
	}
	cl.conn.Close()
}

// readPump drains inbound frames so control messages are processed and a
// close from the client side is noticed promptly.
func (h *Hub) readPump(cl *client) {
	defer h.drop(cl)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
	h.mu.Unlock()
}

// Close disconnects every client. Used during shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for cl := range h.clients {
		delete(h.clients, cl)
		close(cl.send)
	}
}
