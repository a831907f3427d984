package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/bubbletype/internal/gesture"
	"github.com/ayusman/bubbletype/internal/glyph"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// DotSource is what the dot stream watches.
type DotSource interface {
	Current() glyph.Glyph
	Drawing() bool
}

// DotFrame is one binary WebSocket message, msgpack encoded.
type DotFrame struct {
	Seq     uint64      `msgpack:"seq"`
	Drawing bool        `msgpack:"drawing"`
	Glyph   glyph.Glyph `msgpack:"glyph"`
}

// frameKey identifies a change worth sending.
type frameKey struct {
	letter  string
	dots    int
	drawing bool
	style   gesture.Style
	mode    gesture.Mode
	appear  uint64
}

// DotsHandler broadcasts the selected letter's dots over WebSocket
// whenever they change.
type DotsHandler struct {
	source   DotSource
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	last    frameKey
	fresh   bool
	seq     uint64
}

// NewDotsHandler creates a DotsHandler polling source every interval.
func NewDotsHandler(source DotSource, interval time.Duration, logger *zap.Logger) *DotsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DotsHandler{
		source:   source,
		interval: interval,
		logger:   logger,
		clients:  make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *DotsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.fresh = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Run broadcasts until ctx is cancelled.
func (h *DotsHandler) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.broadcast()
		}
	}
}

// Clients returns the number of connected clients.
func (h *DotsHandler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast sends a frame to every client when the stroke changed since
// the last send or a client has just joined.
func (h *DotsHandler) broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) == 0 {
		return
	}

	g := h.source.Current()
	drawing := h.source.Drawing()
	key := frameKey{
		letter:  g.Letter,
		dots:    len(g.Dots),
		drawing: drawing,
		style:   g.Style,
		mode:    g.Mode,
		appear:  g.AppearStart,
	}
	if key == h.last && !h.fresh {
		return
	}

	h.seq++
	msg, err := msgpack.Marshal(DotFrame{Seq: h.seq, Drawing: drawing, Glyph: g})
	if err != nil {
		h.logger.Error("encode dot frame", zap.Error(err))
		return
	}
	h.last = key
	h.fresh = false

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			h.logger.Debug("dropping websocket client", zap.Error(err))
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
