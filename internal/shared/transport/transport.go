// Package transport is the boundary with the pub/sub broker that pushes auction updates.
// Framing, heart-beats and reconnection belong to the bindings, consumers only see topics and bodies.
package transport

import (
	"context"
	"errors"
)

var (
	ErrNotConnected = errors.New("transport: not connected")
	ErrClosed       = errors.New("transport: closed")
)

// Credentials are sent with the connection handshake
type Credentials struct {
	Login    string
	Passcode string
}

// Message is one published payload, Body holds the UTF-8 JSON document
type Message struct {
	Topic string
	Body  []byte
}

// Handler receives the messages of one subscription
type Handler func(msg Message)

// ConnectedFunc runs once after the handshake succeeded
type ConnectedFunc func(ctx context.Context) error

// Subscription is an open topic subscription
type Subscription interface {
	Topic() string
	Unsubscribe() error
}

// Client is a connection to the broker
type Client interface {
	// Connect performs the handshake and then calls onConnected exactly once
	Connect(ctx context.Context, creds Credentials, onConnected ConnectedFunc) error
	Subscribe(ctx context.Context, topic string, h Handler) (Subscription, error)
	Close() error
}
