package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/pable/go-passnet/internal/metrics"
	"github.com/pable/go-passnet/internal/model"
	"github.com/pable/go-passnet/internal/network"
)

// maxBodyBytes bounds POST /network bodies.
const maxBodyBytes = 8 << 20

// MatchStore is the read side of the pass-log store.
type MatchStore interface {
	ListMatches() ([]model.Match, error)
	GetMatchByPrefix(prefix string) (*model.Match, error)
	GetPasses(matchID string) ([]model.PassEvent, error)
}

// Server holds the API dependencies.
type Server struct {
	store    MatchStore
	defaults network.Config
	rec      *metrics.Recorder
	gatherer prometheus.Gatherer
	log      *logrus.Entry
}

// NewServer builds a Server. defaults seeds every network request; query
// parameters override it per request.
func NewServer(store MatchStore, defaults network.Config, rec *metrics.Recorder, gatherer prometheus.Gatherer, log *logrus.Entry) *Server {
	return &Server{store: store, defaults: defaults, rec: rec, gatherer: gatherer, log: log}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.observe)
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.HandleFunc("/matches", s.listMatches).Methods(http.MethodGet)
	r.HandleFunc("/matches/{id}/network", s.matchNetwork).Methods(http.MethodGet)
	r.HandleFunc("/network", s.postNetwork).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

type matchResponse struct {
	ID          string    `json:"id"`
	Team        string    `json:"team"`
	Opponent    string    `json:"opponent,omitempty"`
	Format      string    `json:"format"`
	Label       string    `json:"label"`
	CutoffIndex int       `json:"cutoff_index"`
	PassCount   int       `json:"pass_count"`
	ImportedAt  time.Time `json:"imported_at"`
}

func toMatchResponse(m model.Match) matchResponse {
	return matchResponse{
		ID: m.ID, Team: m.Team, Opponent: m.Opponent, Format: string(m.Format),
		Label: m.Label, CutoffIndex: m.CutoffIndex, PassCount: m.PassCount, ImportedAt: m.ImportedAt,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listMatches(w http.ResponseWriter, _ *http.Request) {
	matches, err := s.store.ListMatches()
	if err != nil {
		s.fail(w, http.StatusInternalServerError, fmt.Errorf("list matches: %w", err))
		return
	}
	out := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, toMatchResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) matchNetwork(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.configFromQuery(r)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	m, err := s.store.GetMatchByPrefix(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, http.StatusInternalServerError, fmt.Errorf("query match: %w", err))
		return
	}
	if m == nil {
		s.fail(w, http.StatusNotFound, fmt.Errorf("no match with id prefix %q", mux.Vars(r)["id"]))
		return
	}
	passes, err := s.store.GetPasses(m.ID)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, fmt.Errorf("get passes: %w", err))
		return
	}
	s.compute(w, cfg, passes)
}

func (s *Server) postNetwork(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.configFromQuery(r)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	var body []passRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("decode passes: %w", err))
		return
	}
	passes, err := toPassEvents(body)
	if err != nil {
		s.rec.ObserveCompute(len(body), 0, err)
		s.fail(w, statusFor(err), err)
		return
	}
	s.compute(w, cfg, passes)
}

// passRequest is the wire shape of one pass in POST /network. Points are
// pointers so a missing coordinate is distinguishable from (0,0).
type passRequest struct {
	Index       int          `json:"index"`
	Minute      int          `json:"minute"`
	Passer      string       `json:"passer"`
	Recipient   string       `json:"recipient"`
	Origin      *model.Point `json:"origin"`
	Destination *model.Point `json:"destination"`
}

func toPassEvents(body []passRequest) ([]model.PassEvent, error) {
	out := make([]model.PassEvent, 0, len(body))
	for i, p := range body {
		switch {
		case p.Origin == nil:
			return nil, &network.ValidationError{Index: i, Field: "origin", Reason: "is missing"}
		case p.Destination == nil:
			return nil, &network.ValidationError{Index: i, Field: "destination", Reason: "is missing"}
		}
		out = append(out, model.PassEvent{
			Index:       p.Index,
			Minute:      p.Minute,
			Passer:      p.Passer,
			Recipient:   p.Recipient,
			Origin:      *p.Origin,
			Destination: *p.Destination,
		})
	}
	return out, nil
}

func (s *Server) compute(w http.ResponseWriter, cfg network.Config, passes []model.PassEvent) {
	start := time.Now()
	net, err := network.New(cfg).Compute(passes)
	s.rec.ObserveCompute(len(passes), time.Since(start), err)
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, net)
}

// configFromQuery applies exclude, roster and min_pair overrides.
func (s *Server) configFromQuery(r *http.Request) (network.Config, error) {
	cfg := s.defaults
	q := r.URL.Query()
	if v := q.Get("exclude"); v != "" {
		cfg.ExcludedPlayer = v
	}
	if v := q.Get("roster"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("roster %q: %w", v, err)
		}
		cfg.RosterSize = n
	}
	if v := q.Get("min_pair"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("min_pair %q: %w", v, err)
		}
		cfg.Thresholds.MinPairPassCount = n
	}
	return cfg, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, network.ErrValidation), errors.Is(err, network.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, network.ErrDivisionByZero), errors.Is(err, network.ErrInvalidConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, code int, err error) {
	if code >= http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
