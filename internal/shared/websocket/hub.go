package websocket

import (
	"context"
	"time"

	"github.com/cristianortiz/auctionView/internal/shared/logger"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	// Time allowed to write a message to the browser.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the browser.
	pongWait = 60 * time.Second

	// Send pings with this period, must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Browsers only send small requests (breed validation).
	maxMessageSize = 512

	// Queued outbound messages per client, a slower client is dropped
	sendBuffer = 64

	hubBuffer = 256
)

// Conn is the part of the websocket connection used by the pumps
type Conn interface {
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Hub keeps the browsers registry grouped by page and broadcasts page patches
type Hub struct {
	// Registered clients grouped by page id, the boolean value is ignored
	clients map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	// InboundMessages is consumed by module handlers (e.g. browser requests handler)
	InboundMessages chan *ClientMessage
}

// Client is one browser connection showing a page
type Client struct {
	Hub  *Hub
	Conn Conn
	// Buffered channel of outbound messages.
	Send chan []byte
	// The page this client is showing.
	PageID string
	ID     string
	Remote string
}

// Message is a payload for every client of a page
type Message struct {
	PageID string
	Data   []byte
}

// ClientMessage wraps a message received from a client
type ClientMessage struct {
	Client *Client
	Data   []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:         make(map[string]map[*Client]bool),
		broadcast:       make(chan *Message, hubBuffer),
		register:        make(chan *Client, hubBuffer),
		unregister:      make(chan *Client, hubBuffer),
		InboundMessages: make(chan *ClientMessage, hubBuffer),
	}
}

// NewClient creates a client for page, the caller runs its pumps
func NewClient(hub *Hub, conn Conn, pageID, id, remote string) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		PageID: pageID,
		ID:     id,
		Remote: remote,
	}
}

func (h *Hub) totalClients() int {
	count := 0
	for _, pageClients := range h.clients {
		count += len(pageClients)
	}
	return count
}

// Run starts the hub listening in their channels
func (h *Hub) Run(ctx context.Context) {
	log.Info("Websocket Hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info("WebSocket Hub shutting down due to context cancellation")
			for _, pageClients := range h.clients {
				for client := range pageClients {
					close(client.Send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			return

		case client := <-h.register:
			if _, ok := h.clients[client.PageID]; !ok {
				h.clients[client.PageID] = make(map[*Client]bool)
			}
			h.clients[client.PageID][client] = true
			log.Info("Client registered",
				zap.String("clientID", client.ID),
				zap.String("pageID", client.PageID),
				zap.String("remote_addr", client.Remote),
				zap.Int("total_clients", h.totalClients()),
			)

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			pageClients, ok := h.clients[message.PageID]
			if !ok {
				continue
			}
			log.Debug("Broadcasting message to page", zap.String("pageID", message.PageID), zap.Int("clients", len(pageClients)))
			for client := range pageClients {
				select {
				case client.Send <- message.Data:
				default:
					// client is not draining its queue, drop it
					log.Warn("Failed to send message to client, unregistering",
						zap.String("clientID", client.ID),
						zap.String("pageID", client.PageID),
						zap.String("remote_addr", client.Remote),
					)
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	pageClients, ok := h.clients[client.PageID]
	if !ok {
		return
	}
	if _, ok := pageClients[client]; !ok {
		return
	}
	delete(pageClients, client)
	close(client.Send)
	log.Info("Client unregistered",
		zap.String("clientID", client.ID),
		zap.String("pageID", client.PageID),
		zap.Int("total_clients", h.totalClients()),
	)
	if len(pageClients) == 0 {
		delete(h.clients, client.PageID)
		log.Info("Page group removed as empty", zap.String("pageID", client.PageID))
	}
}

// RegisterClient queues client for registration, the connection is closed when the hub is saturated
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
		log.Debug("Client queued for registration", zap.String("clientID", client.ID), zap.String("pageID", client.PageID))
	default:
		log.Error("Register channel is full, client registration failed",
			zap.String("clientID", client.ID),
			zap.String("pageID", client.PageID),
		)
		_ = client.Conn.Close()
	}
}

// UnregisterClient queues client for removal
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
		log.Debug("Client queued for unregistration", zap.String("clientID", client.ID), zap.String("pageID", client.PageID))
	default:
		log.Error("Unregister channel is full, client unregistration failed",
			zap.String("clientID", client.ID),
			zap.String("pageID", client.PageID),
		)
	}
}

// BroadcastToPage sends data to every client showing pageID
func (h *Hub) BroadcastToPage(pageID string, data []byte) {
	select {
	case h.broadcast <- &Message{PageID: pageID, Data: data}:
		log.Debug("Message queued for broadcast", zap.String("pageID", pageID))
	default:
		log.Error("Broadcast channel is full, message dropped", zap.String("pageID", pageID))
	}
}

// ReadPump forwards client messages to InboundMessages until the connection fails or ctx ends.
// It runs in its own goroutine per client
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.UnregisterClient(c)
		_ = c.Conn.Close()
		log.Info("ReadPump stopped for client", zap.String("clientID", c.ID), zap.String("pageID", c.PageID))
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { return c.Conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		if ctx.Err() != nil {
			return
		}

		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("WebSocket read error",
					zap.String("clientID", c.ID),
					zap.String("pageID", c.PageID),
					zap.Error(err),
				)
			} else {
				log.Info("WebSocket connection closed by peer",
					zap.String("clientID", c.ID),
					zap.String("pageID", c.PageID),
					zap.Error(err),
				)
			}
			return
		}

		select {
		case c.Hub.InboundMessages <- &ClientMessage{Client: c, Data: message}:
		default:
			log.Error("Hub InboundMessages channel is full, dropping message",
				zap.String("clientID", c.ID),
				zap.String("pageID", c.PageID),
				zap.ByteString("message", message),
			)
		}
	}
}

// WritePump writes queued messages and pings to the connection, it is the only writer of the connection
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Hub.UnregisterClient(c)
		_ = c.Conn.Close()
		log.Info("WritePump stopped for client", zap.String("clientID", c.ID), zap.String("pageID", c.PageID))
	}()

	for {
		select {
		case <-ctx.Done():
			err := c.Conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			if err != nil {
				log.Error("Failed to send close control message", zap.String("clientID", c.ID), zap.Error(err))
			}
			return

		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// the hub closed the channel
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// one patch per frame, browsers apply them in arrival order
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("Failed to write message to client",
					zap.String("clientID", c.ID),
					zap.String("pageID", c.PageID),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Error("Failed to write ping message to client", zap.String("clientID", c.ID), zap.Error(err))
				return
			}
		}
	}
}
