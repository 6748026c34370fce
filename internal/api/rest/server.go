package rest

import (
	"encoding/json"
	"net/http"

	"cyclarb/internal/arbitrage"
)

type Server struct {
	mux   *http.ServeMux
	store *arbitrage.Store
}

func New(store *arbitrage.Store) *Server {
	s := &Server{mux: http.NewServeMux(), store: store}
	s.mux.HandleFunc("/status", s.status)
	s.mux.HandleFunc("/opportunities", s.opportunities)
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// opportunities serves the latest scan: graph shape, worst cycle, best
// qualifying cycle. 204 until the first scan completes.
func (s *Server) opportunities(w http.ResponseWriter, r *http.Request) {
	last := s.store.Last()
	if last == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(last)
}
