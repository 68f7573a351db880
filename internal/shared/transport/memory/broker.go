// Package memory is an in-process broker, used by tests and local demos without an auction server
package memory

import (
	"context"
	"sync"

	"github.com/cristianortiz/auctionView/internal/shared/logger"
	"github.com/cristianortiz/auctionView/internal/shared/transport"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Broker delivers published bodies synchronously to every subscriber of the topic
type Broker struct {
	mu        sync.RWMutex
	connected bool
	closed    bool
	nextID    uint64
	// Subscribers grouped by topic, the inner map is keyed by subscription id
	subs map[string]map[uint64]transport.Handler
}

type subscription struct {
	broker *Broker
	topic  string
	id     uint64
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[uint64]transport.Handler)}
}

// Connect marks the broker connected and runs onConnected
func (b *Broker) Connect(ctx context.Context, creds transport.Credentials, onConnected transport.ConnectedFunc) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return transport.ErrClosed
	}
	b.connected = true
	b.mu.Unlock()

	log.Info("Memory broker connected", zap.String("login", creds.Login))
	if onConnected == nil {
		return nil
	}
	return onConnected(ctx)
}

func (b *Broker) Subscribe(ctx context.Context, topic string, h transport.Handler) (transport.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, transport.ErrClosed
	}
	if !b.connected {
		return nil, transport.ErrNotConnected
	}

	b.nextID++
	if _, ok := b.subs[topic]; !ok {
		b.subs[topic] = make(map[uint64]transport.Handler)
	}
	b.subs[topic][b.nextID] = h
	return &subscription{broker: b, topic: topic, id: b.nextID}, nil
}

// Publish hands body to the subscribers of topic and returns how many received it
func (b *Broker) Publish(topic string, body []byte) int {
	b.mu.RLock()
	handlers := make([]transport.Handler, 0, len(b.subs[topic]))
	for _, h := range b.subs[topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(transport.Message{Topic: topic, Body: body})
	}
	log.Debug("Memory broker published", zap.String("topic", topic), zap.Int("subscribers", len(handlers)))
	return len(handlers)
}

// Subscribers returns the number of open subscriptions on topic
func (b *Broker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.connected = false
	b.subs = make(map[string]map[uint64]transport.Handler)
	return nil
}

func (s *subscription) Topic() string {
	return s.topic
}

func (s *subscription) Unsubscribe() error {
	b := s.broker
	b.mu.Lock()
	defer b.mu.Unlock()
	if group, ok := b.subs[s.topic]; ok {
		delete(group, s.id)
		if len(group) == 0 {
			delete(b.subs, s.topic)
		}
	}
	return nil
}
