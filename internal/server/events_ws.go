package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/reservestress/internal/events"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// EventsWebsocketHandler forwards bus events to websocket clients as JSON messages
type EventsWebsocketHandler struct {
	bus          *events.Bus
	writeTimeout time.Duration
	log          zerolog.Logger
}

// NewEventsWebsocketHandler creates a new websocket event handler
func NewEventsWebsocketHandler(bus *events.Bus, log zerolog.Logger) *EventsWebsocketHandler {
	return &EventsWebsocketHandler{
		bus:          bus,
		writeTimeout: 5 * time.Second,
		log:          log.With().Str("component", "events_ws").Logger(),
	}
}

// ServeHTTP handles GET /api/events/ws; ?types=A,B filters event types.
// The connection is send-only: client messages are discarded.
func (h *EventsWebsocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // CORS is open for the whole API
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	allowed := parseTypesFilter(r)
	ch, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()

	// CloseRead discards client frames and cancels ctx when the peer goes away
	ctx := conn.CloseRead(r.Context())

	h.log.Info().Msg("Websocket client connected")

	if err := h.write(ctx, conn, eventMessage{Type: "connected", Timestamp: time.Now().Format(time.RFC3339)}); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("Websocket client disconnected")
			return

		case event, ok := <-ch:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "event bus closed")
				return
			}
			if allowed != nil && !allowed[event.Type] {
				continue
			}
			if err := h.write(ctx, conn, newEventMessage(event)); err != nil {
				return
			}
		}
	}
}

func (h *EventsWebsocketHandler) write(ctx context.Context, conn *websocket.Conn, msg eventMessage) error {
	writeCtx, cancel := context.WithTimeout(ctx, h.writeTimeout)
	defer cancel()

	err := wsjson.Write(writeCtx, conn, msg)
	if err != nil && !errors.Is(err, context.Canceled) {
		h.log.Warn().Err(err).Str("event_type", msg.Type).Msg("Failed to write websocket message")
	}
	return err
}
