// internal/httpserver/ws.go
//
// WebSocket fan-out of match snapshots.
// Responsibilities:
//   - Upgrade GET /matches/{id}/ws and send the current snapshot immediately.
//   - Collect engine snapshots per match and broadcast the newest one to the
//     connections watching that match.
//
// Notes:
//   - Engines publish from timer goroutines; publish never blocks them. The hub
//     keeps only the newest pending snapshot per match (by State.Version), so a
//     burst collapses to its latest state and a terminal snapshot is never lost.
//   - Engines publish after releasing their lock, so snapshots can arrive out
//     of order. Each client only ever receives increasing versions.
//   - Clients are read-only; the read loop only detects disconnects.

package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordchain/internal/game"
)

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// client serializes writes to one connection and remembers the last
// version it delivered.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
	last uint64
}

// send writes st unless the client already has this version or a newer one.
func (c *client) send(st game.State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st.Version <= c.last && c.last != 0 {
		return nil
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(st); err != nil {
		return err
	}
	c.last = st.Version
	return nil
}

// hub tracks connections per match and fans out snapshots.
type hub struct {
	wake chan struct{}

	mu      sync.Mutex
	latest  map[string]uint64     // highest version published per match
	pending map[string]game.State // newest undelivered snapshot per match
	conns   map[string]map[*client]struct{}
}

func newHub() *hub {
	return &hub{
		wake:    make(chan struct{}, 1),
		latest:  make(map[string]uint64),
		pending: make(map[string]game.State),
		conns:   make(map[string]map[*client]struct{}),
	}
}

// publish queues a snapshot for broadcast. It is handed to engines as their
// Publish hook. A version at or below the highest one seen is ignored.
func (h *hub) publish(st game.State) {
	h.mu.Lock()
	if last, ok := h.latest[st.MatchID]; ok && st.Version <= last {
		h.mu.Unlock()
		log.Debug().Str("match", st.MatchID).Uint64("version", st.Version).Msg("stale snapshot skipped")
		return
	}
	h.latest[st.MatchID] = st.Version
	h.pending[st.MatchID] = st
	h.mu.Unlock()

	select {
	case h.wake <- struct{}{}:
	default: // a wake-up is already queued
	}
}

// run delivers pending snapshots until ctx is done.
func (h *hub) run(ctx context.Context) {
	log.Info().Msg("event hub started")
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			log.Info().Msg("event hub stopped")
			return
		case <-h.wake:
			for _, st := range h.takePending() {
				h.broadcast(st)
			}
		}
	}
}

func (h *hub) takePending() []game.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]game.State, 0, len(h.pending))
	for id, st := range h.pending {
		out = append(out, st)
		delete(h.pending, id)
	}
	return out
}

func (h *hub) broadcast(st game.State) {
	h.mu.Lock()
	targets := make([]*client, 0, len(h.conns[st.MatchID]))
	for c := range h.conns[st.MatchID] {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.send(st); err != nil {
			log.Debug().Err(err).Str("match", st.MatchID).Msg("broadcast failed, dropping connection")
			h.remove(st.MatchID, c)
			_ = c.conn.Close()
		}
	}
}

func (h *hub) add(matchID string, c *client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[matchID]
	if !ok {
		set = make(map[*client]struct{})
		h.conns[matchID] = set
	}
	set[c] = struct{}{}
	return len(set)
}

func (h *hub) remove(matchID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.conns[matchID]
	delete(set, c)
	if len(set) == 0 {
		delete(h.conns, matchID)
	}
}

// drop disconnects every watcher of a deleted match.
func (h *hub) drop(matchID string) {
	h.mu.Lock()
	set := h.conns[matchID]
	delete(h.conns, matchID)
	delete(h.pending, matchID)
	delete(h.latest, matchID)
	h.mu.Unlock()
	for c := range set {
		_ = c.conn.Close()
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	all := h.conns
	h.conns = make(map[string]map[*client]struct{})
	h.mu.Unlock()
	for _, set := range all {
		for c := range set {
			_ = c.conn.Close()
		}
	}
}

// handleStream upgrades the request and keeps the connection registered
// until the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeEngineError(w, err, nil)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("match", id).Msg("websocket upgrade")
		return
	}
	c := &client{conn: conn}
	n := s.hub.add(id, c)
	defer func() {
		s.hub.remove(id, c)
		_ = conn.Close()
	}()
	hlog.FromRequest(r).Info().Str("match", id).Int("watchers", n).Msg("stream opened")

	if err := c.send(e.State()); err != nil {
		return
	}
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hlog.FromRequest(r).Debug().Err(err).Str("match", id).Msg("stream closed")
			return
		}
	}
}
