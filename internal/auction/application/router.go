package application

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cristianortiz/auctionView/internal/auction/domain"
	"github.com/cristianortiz/auctionView/internal/shared/transport"
	"go.uber.org/zap"
)

// inboundBuffer bounds the messages waiting for the dispatch loop
const inboundBuffer = 256

// Subscriber is the part of the transport client the router needs
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, h transport.Handler) (transport.Subscription, error)
}

type route struct {
	topic  string
	handle func(body []byte) error
}

// Router opens the page's topic subscriptions once the connection is up and
// dispatches every message to its patcher. Handlers run one at a time on the Run loop
type Router struct {
	pageID     string
	auctionID  string
	subscriber Subscriber
	patcher    *Patcher

	// Inbound messages from the transport goroutines
	inbound chan transport.Message
	done    chan struct{}

	mu        sync.Mutex
	connected bool
	closed    bool
	subs      []transport.Subscription
	handlers  map[string]func(body []byte) error
}

// NewRouter creates a Router for one page. An empty auctionID means the page shows no single
// auction, neither the product nor the bids topic is subscribed then
func NewRouter(pageID string, subscriber Subscriber, patcher *Patcher, auctionID string) *Router {
	return &Router{
		pageID:     pageID,
		auctionID:  strings.TrimSpace(auctionID),
		subscriber: subscriber,
		patcher:    patcher,
		inbound:    make(chan transport.Message, inboundBuffer),
		done:       make(chan struct{}),
		handlers:   make(map[string]func(body []byte) error),
	}
}

// AuctionIDFromView reads the auction id embedded in the page, empty when the page has none
func AuctionIDFromView(view domain.View) string {
	el, ok := view.ElementByID(domain.ElementAuctionID)
	if !ok {
		return ""
	}
	v, _ := el.Attr("value")
	return strings.TrimSpace(v)
}

// AuctionID is the auction the page is bound to
func (r *Router) AuctionID() string {
	return r.auctionID
}

func (r *Router) routes() []route {
	routes := []route{
		{topic: domain.TopicHome, handle: r.handleHome},
		{topic: domain.TopicMyAccount, handle: r.handleMyAccount},
	}
	if r.auctionID != "" {
		routes = append(routes,
			route{topic: domain.AuctionTopic(r.auctionID), handle: r.handleProduct},
			route{topic: domain.BidsTopic(r.auctionID), handle: r.handleBid},
		)
	}
	return routes
}

// OnConnected opens the subscriptions, it succeeds at most once per router.
// When a subscription fails the ones already opened are released
func (r *Router) OnConnected(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return transport.ErrClosed
	}
	if r.connected {
		return domain.ErrAlreadyConnected
	}

	var subs []transport.Subscription
	for _, rt := range r.routes() {
		sub, err := r.subscriber.Subscribe(ctx, rt.topic, r.enqueue)
		if err != nil {
			for _, s := range subs {
				_ = s.Unsubscribe()
			}
			log.Error("Router: subscription failed",
				zap.String("pageID", r.pageID),
				zap.String("topic", rt.topic),
				zap.Error(err),
			)
			return fmt.Errorf("router: failed to subscribe to %s: %w", rt.topic, err)
		}
		r.handlers[rt.topic] = rt.handle
		subs = append(subs, sub)
		log.Info("Router: subscribed",
			zap.String("pageID", r.pageID),
			zap.String("topic", rt.topic),
		)
	}

	r.subs = subs
	r.connected = true
	return nil
}

// enqueue is called from transport goroutines, it keeps delivery order and waits while the loop is busy
func (r *Router) enqueue(msg transport.Message) {
	select {
	case r.inbound <- msg:
	case <-r.done:
		log.Debug("Router closed, message discarded",
			zap.String("pageID", r.pageID),
			zap.String("topic", msg.Topic),
		)
	}
}

// Run dispatches inbound messages until ctx is cancelled or the router is closed
func (r *Router) Run(ctx context.Context) {
	log.Info("Router dispatch loop started", zap.String("pageID", r.pageID), zap.String("auctionID", r.auctionID))
	for {
		select {
		case <-ctx.Done():
			log.Info("Router dispatch loop stopped due to context cancellation", zap.String("pageID", r.pageID))
			return
		case <-r.done:
			log.Info("Router dispatch loop stopped", zap.String("pageID", r.pageID))
			return
		case msg := <-r.inbound:
			r.dispatch(msg)
		}
	}
}

// dispatch runs the handler of one message, a bad message is logged and dropped
func (r *Router) dispatch(msg transport.Message) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Router: recovered from panic while handling message",
				zap.String("pageID", r.pageID),
				zap.String("topic", msg.Topic),
				zap.Any("panic", rec),
			)
		}
	}()

	r.mu.Lock()
	handle, ok := r.handlers[msg.Topic]
	r.mu.Unlock()
	if !ok {
		log.Warn("Router: message for unknown topic dropped",
			zap.String("pageID", r.pageID),
			zap.String("topic", msg.Topic),
		)
		return
	}

	if err := handle(msg.Body); err != nil {
		log.Warn("Router: malformed message dropped",
			zap.String("pageID", r.pageID),
			zap.String("topic", msg.Topic),
			zap.ByteString("body", msg.Body),
			zap.Error(err),
		)
	}
}

// Close releases the subscriptions and stops the loop
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	close(r.done)

	var firstErr error
	for _, s := range r.subs {
		if err := s.Unsubscribe(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("router: failed to unsubscribe from %s: %w", s.Topic(), err)
		}
	}
	r.subs = nil
	return firstErr
}

func (r *Router) handleHome(body []byte) error {
	u, err := domain.DecodeHomeUpdate(body)
	if err != nil {
		return err
	}
	r.patcher.UpdateHomePage(u)
	return nil
}

func (r *Router) handleMyAccount(body []byte) error {
	u, err := domain.DecodeAccountUpdate(body)
	if err != nil {
		return err
	}
	r.patcher.UpdateMyAccount(u)
	return nil
}

func (r *Router) handleProduct(body []byte) error {
	u, err := domain.DecodeProductUpdate(body)
	if err != nil {
		return err
	}
	r.patcher.UpdateProductPage(u)
	return nil
}

func (r *Router) handleBid(body []byte) error {
	bid, err := domain.DecodeBidEvent(body)
	if err != nil {
		return err
	}
	r.patcher.AppendBidRow(bid)
	return nil
}
