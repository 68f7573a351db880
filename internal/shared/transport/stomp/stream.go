package stomp

import (
	"io"
	"sync"

	"github.com/fasthttp/websocket"
)

// wsConn is the part of the websocket connection the stream needs
type wsConn interface {
	NextReader() (messageType int, r io.Reader, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// stream turns a websocket into the byte stream STOMP frames are read from.
// Frames may span or share websocket messages, the STOMP reader finds the boundaries
type stream struct {
	conn wsConn
	r    io.Reader
	wmu  sync.Mutex
}

func newStream(conn wsConn) *stream {
	return &stream{conn: conn}
}

func (s *stream) Read(p []byte) (int, error) {
	for {
		if s.r == nil {
			_, r, err := s.conn.NextReader()
			if err != nil {
				return 0, err
			}
			s.r = r
		}
		n, err := s.r.Read(p)
		if err == io.EOF {
			s.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

// Write sends p as one text message, heart-beats included
func (s *stream) Write(p []byte) (int, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *stream) Close() error {
	return s.conn.Close()
}
