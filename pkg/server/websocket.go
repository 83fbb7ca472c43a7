package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vango-dev/cosmos/internal/errors"
	"github.com/vango-dev/cosmos/pkg/preview"
	"github.com/vango-dev/cosmos/pkg/store"
)

// maxMessageBytes bounds a single websocket message from a client.
const maxMessageBytes = 64 << 10

// EventHello is the first message on every preview stream.
const EventHello preview.EventType = "hello"

// Hello identifies the connection to the client.
type Hello struct {
	Type    preview.EventType `json:"type"`
	Client  string            `json:"client"`
	Fixture string            `json:"fixture"`
}

// handleWebSocket streams loader events for one fixture. Text messages from
// the client are decoded as actions and dispatched to the fixture's store;
// dispatch failures are sent back to that client only.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	e, err := s.entry(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		s.logger.Warn("websocket upgrade failed", "error", errors.New("E401").WithSubject(name).Wrap(err))
		return
	}
	conn.SetReadLimit(maxMessageBytes)

	c := newClient(uuid.NewString(), name, conn, s.config.ClientBuffer, s.config.WriteTimeout)
	s.hub.add(c)
	go c.writeLoop()
	defer func() {
		s.hub.remove(c)
		s.logger.Debug("websocket client disconnected", "client", c.id, "fixture", name)
	}()
	s.logger.Debug("websocket client connected", "client", c.id, "fixture", name)

	if hello, err := json.Marshal(Hello{Type: EventHello, Client: c.id, Fixture: name}); err == nil {
		c.trySend(hello)
	}
	s.hub.send(c, preview.Event{
		Type:    preview.EventRendered,
		Fixture: name,
		Data:    e.loader.Fixture(),
		Output:  e.loader.Output(),
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var action store.Action
		if err := json.Unmarshal(data, &action); err != nil {
			s.sendError(c, errors.New("E400").WithSubject(name).Wrap(err))
			continue
		}
		if action.Type == "" {
			s.sendError(c, errors.New("E400").WithSubject(name).Wrap(store.ErrEmptyActionType))
			continue
		}

		// The loader may have been invalidated since the connection opened.
		current, err := s.entry(r.Context(), name)
		if err == nil {
			err = current.loader.Dispatch(r.Context(), action)
		}
		if err != nil {
			s.sendError(c, err)
		}
	}
}

func (s *Server) sendError(c *client, err error) {
	s.hub.send(c, preview.Event{Type: preview.EventError, Fixture: c.fixture, Error: err.Error()})
}
