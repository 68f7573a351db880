// Package session binds every configured page to its live document and subscription router
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/cristianortiz/auctionView/internal/auction/application"
	"github.com/cristianortiz/auctionView/internal/auction/domain"
	"github.com/cristianortiz/auctionView/internal/auction/infra/htmlview"
	"github.com/cristianortiz/auctionView/internal/shared/config"
	"github.com/cristianortiz/auctionView/internal/shared/format"
	"github.com/cristianortiz/auctionView/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// PatchSink receives the patches of a page
type PatchSink interface {
	ForPage(pageID string) func(htmlview.Patch)
}

// Session is one page view: its document and the router keeping it in sync
type Session struct {
	ID       string
	Document *htmlview.Document
	Router   *application.Router
}

// NewSession binds doc to a router, the auction id is read from the page itself
func NewSession(id string, doc *htmlview.Document, sub application.Subscriber, formatter *format.Formatter, sink PatchSink) *Session {
	if sink != nil {
		doc.OnPatch(sink.ForPage(id))
	}
	patcher := application.NewPatcher(doc, formatter)
	router := application.NewRouter(id, sub, patcher, application.AuctionIDFromView(doc))
	return &Session{ID: id, Document: doc, Router: router}
}

// Manager owns the sessions of all configured pages
type Manager struct {
	sessions map[string]*Session
	order    []string
}

// NewManager loads every page file and builds its session
func NewManager(pages []config.PageConfig, sub application.Subscriber, formatter *format.Formatter, sink PatchSink) (*Manager, error) {
	m := &Manager{sessions: make(map[string]*Session, len(pages))}
	for _, p := range pages {
		doc, err := htmlview.Load(p.File)
		if err != nil {
			return nil, fmt.Errorf("session: page %s: %w", p.ID, err)
		}
		m.Add(NewSession(p.ID, doc, sub, formatter, sink))
	}
	return m, nil
}

// Add registers s, replacing a session with the same id
func (m *Manager) Add(s *Session) {
	if _, ok := m.sessions[s.ID]; !ok {
		m.order = append(m.order, s.ID)
	}
	m.sessions[s.ID] = s
	log.Info("Page session ready",
		zap.String("pageID", s.ID),
		zap.String("auctionID", s.Router.AuctionID()),
	)
}

// Session returns the session of pageID
func (m *Manager) Session(pageID string) (*Session, bool) {
	s, ok := m.sessions[pageID]
	return s, ok
}

// HasPage reports whether pageID is configured
func (m *Manager) HasPage(pageID string) bool {
	_, ok := m.sessions[pageID]
	return ok
}

// PageIDs lists the pages in configuration order
func (m *Manager) PageIDs() []string {
	return append([]string(nil), m.order...)
}

// OnConnected opens the subscriptions of every page, it is the transport's connected callback
func (m *Manager) OnConnected(ctx context.Context) error {
	var errs []error
	for _, id := range m.order {
		if err := m.sessions[id].Router.OnConnected(ctx); err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Run runs every router loop and returns when all of them stopped
func (m *Manager) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, id := range m.order {
		wg.Add(1)
		go func(r *application.Router) {
			defer wg.Done()
			r.Run(ctx)
		}(m.sessions[id].Router)
	}
	wg.Wait()
}

// Render writes the current state of pageID
func (m *Manager) Render(pageID string, w io.Writer) error {
	s, ok := m.sessions[pageID]
	if !ok {
		return fmt.Errorf("session: %s: %w", pageID, domain.ErrPageNotFound)
	}
	return s.Document.Render(w)
}

// Close releases every subscription
func (m *Manager) Close() error {
	var errs []error
	for _, id := range m.order {
		if err := m.sessions[id].Router.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
