package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/krantius/condorcet-tcp/shared/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()

	sr := r.PathPrefix("/api").Subrouter()
	sr.Path("/status").Methods("GET").HandlerFunc(s.StatusHandler)
	sr.Path("/peers").Methods("GET").HandlerFunc(s.PeersHandler)
	sr.Path("/results").Methods("GET").HandlerFunc(s.ResultsHandler)

	r.Path("/metrics").Methods("GET").Handler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return r
}

func (s *Server) StatusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(s.Status()))
}

func (s *Server) PeersHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Peers())
}

func (s *Server) ResultsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Results())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Errorf("Encode response: %v", err)
	}
}
