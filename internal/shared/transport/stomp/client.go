// Package stomp connects to the auction server's STOMP broker over its raw websocket endpoint
package stomp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cristianortiz/auctionView/internal/shared/config"
	"github.com/cristianortiz/auctionView/internal/shared/logger"
	"github.com/cristianortiz/auctionView/internal/shared/transport"
	"github.com/fasthttp/websocket"
	gostomp "github.com/go-stomp/stomp/v3"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const handshakeTimeout = 10 * time.Second

// STOMP subprotocols offered during the websocket upgrade
var subprotocols = []string{"v12.stomp", "v11.stomp", "v10.stomp"}

// Client implements transport.Client with STOMP frames carried in websocket messages
type Client struct {
	cfg    config.StompConfig
	dialer *websocket.Dialer

	mu     sync.Mutex
	conn   *gostomp.Conn
	closed bool
}

type subscription struct {
	topic string
	sub   *gostomp.Subscription
}

func New(cfg config.StompConfig) *Client {
	return &Client{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
			Subprotocols:     subprotocols,
		},
	}
}

func (c *Client) connectOptions(creds transport.Credentials) []func(*gostomp.Conn) error {
	opts := []func(*gostomp.Conn) error{
		gostomp.ConnOpt.HeartBeat(c.cfg.HeartBeat, c.cfg.HeartBeat),
	}
	if c.cfg.Host != "" {
		opts = append(opts, gostomp.ConnOpt.Host(c.cfg.Host))
	}
	if creds.Login != "" {
		opts = append(opts, gostomp.ConnOpt.Login(creds.Login, creds.Passcode))
	}
	return opts
}

// Connect upgrades to websocket, performs the STOMP handshake and then runs onConnected
func (c *Client) Connect(ctx context.Context, creds transport.Credentials, onConnected transport.ConnectedFunc) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return transport.ErrClosed
	}
	c.mu.Unlock()

	ws, _, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("stomp: failed to dial %s: %w", c.cfg.URL, err)
	}
	log.Info("STOMP websocket established",
		zap.String("url", c.cfg.URL),
		zap.String("subprotocol", ws.Subprotocol()),
	)

	type result struct {
		conn *gostomp.Conn
		err  error
	}
	done := make(chan result, 1)
	go func() {
		conn, err := gostomp.Connect(newStream(ws), c.connectOptions(creds)...)
		done <- result{conn: conn, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		_ = ws.Close()
		<-done
		return fmt.Errorf("stomp: handshake aborted: %w", ctx.Err())
	}
	if res.err != nil {
		_ = ws.Close()
		return fmt.Errorf("stomp: handshake failed: %w", res.err)
	}

	c.mu.Lock()
	c.conn = res.conn
	c.mu.Unlock()
	log.Info("STOMP session connected",
		zap.String("version", string(res.conn.Version())),
		zap.String("server", res.conn.Server()),
	)

	if onConnected == nil {
		return nil
	}
	return onConnected(ctx)
}

// Subscribe opens an auto-ack subscription and forwards its bodies to h from a dedicated goroutine
func (c *Client) Subscribe(ctx context.Context, topic string, h transport.Handler) (transport.Subscription, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil, transport.ErrNotConnected
	}

	sub, err := conn.Subscribe(topic, gostomp.AckAuto)
	if err != nil {
		return nil, fmt.Errorf("stomp: failed to subscribe to %s: %w", topic, err)
	}
	go forward(topic, sub, h)
	return &subscription{topic: topic, sub: sub}, nil
}

func forward(topic string, sub *gostomp.Subscription, h transport.Handler) {
	for msg := range sub.C {
		if msg.Err != nil {
			log.Error("STOMP subscription error", zap.String("topic", topic), zap.Error(msg.Err))
			continue
		}
		h(transport.Message{Topic: topic, Body: msg.Body})
	}
	log.Info("STOMP subscription closed", zap.String("topic", topic))
}

// Close sends DISCONNECT and closes the websocket
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.conn == nil {
		return nil
	}
	err := c.conn.Disconnect()
	c.conn = nil
	if err != nil {
		return fmt.Errorf("stomp: disconnect failed: %w", err)
	}
	return nil
}

func (s *subscription) Topic() string {
	return s.topic
}

func (s *subscription) Unsubscribe() error {
	if !s.sub.Active() {
		return nil
	}
	return s.sub.Unsubscribe()
}
