// internal/httpserver/routes_daily.go
//
// HTTP route for the daily starting letter.
//   - GET /daily → {"date":"YYYY-MM-DD","letter":"k"}
//
// The letter is derived from date + salt, so every server sharing a salt
// agrees on it without storage.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordchain/internal/daily"
)

type dailyRes struct {
	Date   string `json:"date"`
	Letter string `json:"letter"`
}

// mountDaily registers the /daily route.
func (s *Server) mountDaily(r chi.Router) {
	r.Get("/daily", s.handleDaily)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	now := time.Now
	if s.opts.Daily.Now != nil {
		now = s.opts.Daily.Now
	}
	t := now()
	letters := daily.Letters{Salt: s.opts.Daily.Salt, Now: func() time.Time { return t }}
	writeJSON(w, http.StatusOK, dailyRes{
		Date:   daily.DateKey(t),
		Letter: letters.Letter(),
	})
}
