// Package kafka reads the auction topics from Kafka, each topic path maps to one Kafka topic
package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/cristianortiz/auctionView/internal/shared/config"
	"github.com/cristianortiz/auctionView/internal/shared/logger"
	"github.com/cristianortiz/auctionView/internal/shared/transport"
	"github.com/google/uuid"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	dialTimeout = 10 * time.Second
	retryDelay  = time.Second
)

// TopicName maps a topic path such as /topic/bids/42 to the Kafka topic topic.bids.42
func TopicName(topic string) string {
	return strings.ReplaceAll(strings.Trim(topic, "/"), "/", ".")
}

// Client implements transport.Client with one kafka reader per subscription
type Client struct {
	brokers []string
	// Every process reads all messages, so each one gets its own consumer group
	groupID string

	mu        sync.Mutex
	dialer    *kafkaGo.Dialer
	connected bool
	closed    bool
	subs      map[*subscription]struct{}
}

type subscription struct {
	client *Client
	topic  string
	reader *kafkaGo.Reader
	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg config.KafkaConfig) *Client {
	return &Client{
		brokers: cfg.Brokers,
		groupID: cfg.GroupPrefix + "-" + uuid.NewString(),
		subs:    make(map[*subscription]struct{}),
	}
}

// Connect checks the first broker is reachable and then runs onConnected.
// A login in creds enables SASL/PLAIN
func (c *Client) Connect(ctx context.Context, creds transport.Credentials, onConnected transport.ConnectedFunc) error {
	if len(c.brokers) == 0 {
		return errors.New("kafka: no brokers configured")
	}

	dialer := &kafkaGo.Dialer{Timeout: dialTimeout, DualStack: true}
	if creds.Login != "" {
		dialer.SASLMechanism = plain.Mechanism{Username: creds.Login, Password: creds.Passcode}
	}

	conn, err := dialer.DialContext(ctx, "tcp", c.brokers[0])
	if err != nil {
		return fmt.Errorf("kafka: failed to dial %s: %w", c.brokers[0], err)
	}
	_ = conn.Close()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return transport.ErrClosed
	}
	c.dialer = dialer
	c.connected = true
	c.mu.Unlock()

	log.Info("Kafka transport connected",
		zap.Strings("brokers", c.brokers),
		zap.String("groupID", c.groupID),
	)
	if onConnected == nil {
		return nil
	}
	return onConnected(ctx)
}

// Subscribe starts a reader at the latest offset of the mapped topic
func (c *Client) Subscribe(ctx context.Context, topic string, h transport.Handler) (transport.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, transport.ErrClosed
	}
	if !c.connected {
		return nil, transport.ErrNotConnected
	}

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     c.brokers,
		Topic:       TopicName(topic),
		GroupID:     c.groupID,
		StartOffset: kafkaGo.LastOffset,
		Dialer:      c.dialer,
	})
	subCtx, cancel := context.WithCancel(context.Background())
	s := &subscription{client: c, topic: topic, reader: reader, cancel: cancel, done: make(chan struct{})}
	c.subs[s] = struct{}{}

	go s.consume(subCtx, h)
	log.Info("Kafka reader started", zap.String("topic", topic), zap.String("kafkaTopic", TopicName(topic)))
	return s, nil
}

func (s *subscription) consume(ctx context.Context, h transport.Handler) {
	defer close(s.done)
	for {
		m, err := s.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			log.Error("Kafka read failed", zap.String("topic", s.topic), zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay):
			}
			continue
		}
		log.Debug("Kafka message received",
			zap.String("topic", s.topic),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
		)
		h(transport.Message{Topic: s.topic, Body: m.Value})
	}
}

func (s *subscription) Topic() string {
	return s.topic
}

func (s *subscription) Unsubscribe() error {
	s.client.mu.Lock()
	_, ok := s.client.subs[s]
	delete(s.client.subs, s)
	s.client.mu.Unlock()
	if !ok {
		return nil
	}
	return s.stop()
}

func (s *subscription) stop() error {
	s.cancel()
	err := s.reader.Close()
	<-s.done
	if err != nil {
		return fmt.Errorf("kafka: failed to close reader for %s: %w", s.topic, err)
	}
	return nil
}

// Close stops every reader
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	subs := c.subs
	c.subs = make(map[*subscription]struct{})
	c.mu.Unlock()

	var errs []error
	for s := range subs {
		if err := s.stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
