package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/cosmos/internal/errors"
	"github.com/vango-dev/cosmos/pkg/fixture"
	"github.com/vango-dev/cosmos/pkg/store"
)

// maxActionBytes bounds an action request body.
const maxActionBytes = 1 << 20

// FixtureSummary is one entry of the fixture list.
type FixtureSummary struct {
	Name    string `json:"name"`
	Mounted bool   `json:"mounted"`
}

// FixtureResponse describes a mounted fixture.
type FixtureResponse struct {
	Name      string          `json:"name"`
	Component string          `json:"component"`
	Fixture   fixture.Fixture `json:"fixture"`
	Output    string          `json:"output"`
	Clients   int             `json:"clients"`
}

// ErrorResponse is the body of every failed API request.
type ErrorResponse struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

func (s *Server) listFixtures(r *http.Request) ([]FixtureSummary, error) {
	names, err := s.source.List(r.Context())
	if err != nil {
		return nil, err
	}
	mounted := make(map[string]bool)
	for _, name := range s.Mounted() {
		mounted[name] = true
	}
	out := make([]FixtureSummary, 0, len(names))
	for _, name := range names {
		out = append(out, FixtureSummary{Name: name, Mounted: mounted[name]})
	}
	return out, nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.listFixtures(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleFixture(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	e, err := s.entry(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.describe(name, e))
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	if !s.Invalidate(chi.URLParam(r, "name")) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var action store.Action
	body := http.MaxBytesReader(w, r.Body, maxActionBytes)
	if err := json.NewDecoder(body).Decode(&action); err != nil {
		s.writeError(w, errors.New("E400").WithSubject(name).Wrap(err))
		return
	}
	if action.Type == "" {
		s.writeError(w, errors.New("E400").WithSubject(name).Wrap(store.ErrEmptyActionType))
		return
	}

	e, err := s.entry(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := e.loader.Dispatch(r.Context(), action); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.describe(name, e))
}

func (s *Server) describe(name string, e *entry) FixtureResponse {
	return FixtureResponse{
		Name:      name,
		Component: e.component,
		Fixture:   e.loader.Fixture(),
		Output:    e.loader.Output(),
		Clients:   s.hub.count(name),
	}
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.CodeOf(err) {
	case "E200", "E202":
		return http.StatusNotFound
	case "E400":
		return http.StatusBadRequest
	case "E301", "E303":
		return http.StatusConflict
	case "E203":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, ErrorResponse{Code: errors.CodeOf(err), Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
