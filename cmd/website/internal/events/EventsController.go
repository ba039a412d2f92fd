package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/adampresley/sundayalbum/pkg/pubsub"
)

type EventsControllerConfig struct {
	Broker *pubsub.Broker
}

/*
EventsController streams broker messages to open windows as
server-sent events. Every open page subscribes; this is how content
edits, theme changes, and editor open/close commands reach windows
other than the one that made them.
*/
type EventsController struct {
	broker *pubsub.Broker
}

func NewEventsController(config EventsControllerConfig) EventsController {
	return EventsController{
		broker: config.Broker,
	}
}

/*
GET /events
*/
func (c EventsController) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)

	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	messages, cancel := c.broker.Subscribe()
	defer cancel()

	slog.Debug("event stream opened")

	for {
		select {
		case <-r.Context().Done():
			slog.Debug("event stream closed")
			return

		case message, open := <-messages:
			if !open {
				return
			}

			payload, err := json.Marshal(message)

			if err != nil {
				slog.Error("error encoding event", "kind", message.Kind, "error", err)
				continue
			}

			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", message.Kind, payload)
			flusher.Flush()
		}
	}
}
