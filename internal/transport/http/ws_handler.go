package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"convention-quiz/internal/app"
	"convention-quiz/internal/metrics"
)

type WSHandler struct {
	service  *app.PresenterService
	metrics  *metrics.Metrics
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.PresenterService, m *metrics.Metrics, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		metrics: m,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type commandPayload struct {
	Passcode   string `json:"passcode"`
	RoundID    string `json:"roundId"`
	QuestionID string `json:"questionId"`
	Label      string `json:"label"`
	Key        string `json:"key"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type cuePayload struct {
	Cue string `json:"cue"`
}

type errorPayload struct {
	Command string `json:"command,omitempty"`
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and binds them to one presenter session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := h.log.With(zap.String("session", sessionID))
	h.service.Attach(r.Context(), sessionID)
	defer h.service.Detach(r.Context(), sessionID)

	updates, cancel, err := h.service.Subscribe(r.Context(), sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()
	log.Info("presenter connected")

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				for _, cue := range snap.Cues {
					select {
					case send <- outboundMessage[any]{Type: "cue", Payload: cuePayload{Cue: string(cue)}}:
					case <-closeSignals:
						return
					}
				}
				select {
				case send <- outboundMessage[any]{Type: "snapshot", Payload: snap}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("ws read error", zap.Error(err))
			}
			break
		}
		started := time.Now()
		cmd, err := decodeCommand(inbound)
		if err == nil {
			err = h.service.Dispatch(r.Context(), sessionID, cmd)
		}
		h.metrics.Command(inbound.Type, started)
		if err != nil {
			log.Debug("command rejected", zap.String("command", inbound.Type), zap.Error(err))
			select {
			case send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Command: inbound.Type, Message: err.Error()}}:
			case <-writerDone:
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
	log.Info("presenter disconnected")
}

var errInvalidPayload = errors.New("invalid payload")

func decodeCommand(msg inboundMessage) (app.Command, error) {
	var payload commandPayload
	if len(msg.Payload) > 0 && string(msg.Payload) != "null" {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return app.Command{}, errInvalidPayload
		}
	}
	return app.Command{
		Name:       msg.Type,
		RoundID:    payload.RoundID,
		QuestionID: payload.QuestionID,
		Label:      payload.Label,
		Key:        payload.Key,
		Passcode:   payload.Passcode,
	}, nil
}
