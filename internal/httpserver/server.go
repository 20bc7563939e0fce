// internal/httpserver/server.go
//
// HTTP server wiring for the word-chain backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/debug/words", "/daily".
//   - Match endpoints: create/get/delete a match and forward the player intents
//     (start, submit, reset) to its engine.
//   - WebSocket stream pushing a snapshot on every state change.
//
// Notes:
//   - The engine is the only source of truth; handlers never touch game state
//     directly and always answer with a fresh snapshot.
//   - Rule rejections are advisory (422) and carry the player-facing message.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordchain/internal/daily"
	"github.com/robalobadob/wordchain/internal/game"
	"github.com/robalobadob/wordchain/internal/store"
)

// MatchFactory builds a new engine that reports state changes to publish.
type MatchFactory func(publish func(game.State)) *game.Engine

// Options carries the collaborators a Server needs.
type Options struct {
	Store        store.Store
	NewMatch     MatchFactory
	ClientOrigin string
	Daily        daily.Letters
	WordStats    func(ctx context.Context) map[string]int // optional
}

// Server bundles router, match registry, and the WebSocket hub.
type Server struct {
	r     *chi.Mux
	opts  Options
	store store.Store
	hub   *hub
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	s := &Server{r: chi.NewRouter(), opts: opts, store: opts.Store, hub: newHub()}

	// --- middleware ---
	s.r.Use(chimw.RequestID)               // add X-Request-ID
	s.r.Use(chimw.RealIP)                  // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))   // request-scoped logger
	s.r.Use(requestIDLog)                  // tag logs with the chi request id
	s.r.Use(hlog.AccessHandler(accessLog)) // one line per request
	s.r.Use(chimw.Recoverer)               // recover from panics
	s.r.Use(jsonContentType)               // default JSON responses
	s.r.Use(corsFor(opts.ClientOrigin))    // credentials-friendly CORS

	// The WebSocket stream is long-lived; everything else is bounded.
	s.r.Get("/matches/{id}/ws", s.handleStream)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"wordchain-go","endpoints":["/health","POST /matches","POST /matches/{id}/start","POST /matches/{id}/submit","POST /matches/{id}/reset","/matches/{id}/ws"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/words", s.handleWordStats)

		// Daily starting letter
		s.mountDaily(r)

		// Match lifecycle + intents
		r.Post("/matches", s.handleNewMatch)
		r.Route("/matches/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetMatch)
			r.Delete("/", s.handleDeleteMatch)
			r.Post("/start", s.handleStart)
			r.Post("/submit", s.handleSubmit)
			r.Post("/reset", s.handleReset)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
	})

	return s
}

// Start runs the event hub and serves HTTP on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	go s.hub.run(ctx)

	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// RunHub starts the event hub without serving HTTP (useful for tests).
func (s *Server) RunHub(ctx context.Context) { go s.hub.run(ctx) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestIDLog copies chi's request id into the request logger.
func requestIDLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			l := zerolog.Ctx(r.Context())
			l.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ------------------------------ MATCHES ------------------------------------

type matchRes struct {
	MatchID string     `json:"matchId"`
	State   game.State `json:"state"`
}

// handleNewMatch creates a match in PhaseNotStarted and registers it.
func (s *Server) handleNewMatch(w http.ResponseWriter, r *http.Request) {
	e := s.opts.NewMatch(s.hub.publish)
	if err := s.store.Save(r.Context(), e); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save match")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	hlog.FromRequest(r).Info().Str("match", e.ID()).Msg("match created")
	writeJSON(w, http.StatusCreated, matchRes{MatchID: e.ID(), State: e.State()})
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, e.State())
}

func (s *Server) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeEngineError(w, err, nil)
		return
	}
	s.hub.drop(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := e.StartGame(); err != nil {
		writeEngineError(w, err, e)
		return
	}
	writeJSON(w, http.StatusOK, e.State())
}

// submitReq is the payload for POST /matches/{id}/submit.
type submitReq struct {
	Player int    `json:"player"`
	Word   string `json:"word"`
}

// handleSubmit forwards a word to the engine. 202 means the word passed the
// local rules and is being checked against the dictionary.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	if err := e.SubmitWord(req.Player, req.Word); err != nil {
		writeEngineError(w, err, e)
		return
	}
	writeJSON(w, http.StatusAccepted, e.State())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	e.ResetGame()
	writeJSON(w, http.StatusOK, e.State())
}

func (s *Server) handleWordStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]int{"matches": s.store.Len()}
	if s.opts.WordStats != nil {
		for k, v := range s.opts.WordStats(r.Context()) {
			stats[k] = v
		}
	}
	writeJSON(w, http.StatusOK, stats)
}

// lookup resolves {id} or writes a 404.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*game.Engine, bool) {
	e, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err, nil)
		return nil, false
	}
	return e, true
}

// ------------------------------- responses ---------------------------------

type errorRes struct {
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	State   *game.State `json:"state,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorRes{Error: code, Message: msg})
}

// writeEngineError maps engine and store errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error, e *game.Engine) {
	var res errorRes
	status := http.StatusInternalServerError
	var rej *game.RejectionError

	switch {
	case errors.As(err, &rej):
		status, res = http.StatusUnprocessableEntity, errorRes{Error: "rejected", Message: rej.Message}
	case errors.Is(err, store.ErrNotFound):
		status, res = http.StatusNotFound, errorRes{Error: "not_found"}
	case errors.Is(err, game.ErrInvalidPlayer):
		status, res = http.StatusBadRequest, errorRes{Error: "invalid_player"}
	case errors.Is(err, game.ErrClosed):
		status, res = http.StatusGone, errorRes{Error: "closed"}
	case errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrNotAwaitingMove),
		errors.Is(err, game.ErrNotStarted),
		errors.Is(err, game.ErrMatchInProgress),
		errors.Is(err, game.ErrGameOver):
		status, res = http.StatusConflict, errorRes{Error: "conflict", Message: err.Error()}
	default:
		res = errorRes{Error: "internal"}
	}
	if e != nil {
		st := e.State()
		res.State = &st
	}
	writeJSON(w, status, res)
}
