package rest

import (
	"fmt"
	"net/http"
	"rental-client/internal/adapters/notifier"
	"rental-client/internal/contextkeys"
	"rental-client/internal/core/port"
	"rental-client/internal/core/port/usecases_port"
	"time"
)

const keepAliveInterval = 15 * time.Second

// eventHub - реестр SSE-подключений.
type eventHub interface {
	AddClient() notifier.ClientChannel
	RemoveClient(ch notifier.ClientChannel)
}

// EventsHandler транслирует изменения состояния и уведомления в поток SSE.
type EventsHandler struct {
	hub     eventHub
	browser usecases_port.ListingBrowserPort
}

func NewEventsHandler(hub eventHub, browser usecases_port.ListingBrowserPort) *EventsHandler {
	return &EventsHandler{hub: hub, browser: browser}
}

// Subscribe обрабатывает GET /api/events
func (h *EventsHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubscribeEvents"})

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Error("Streaming is not supported by response writer", nil, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	logger.Info("New client subscribing to SSE events", nil)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := h.hub.AddClient()
	defer h.hub.RemoveClient(clientChan)

	fmt.Fprintf(w, "event: connected\ndata: {}\n\n")

	// Новый клиент сразу получает текущий снимок, не дожидаясь следующего изменения.
	if initial, err := notifier.FormatEvent(port.StateEvent(h.browser.Snapshot())); err == nil {
		w.Write(initial)
	} else {
		logger.Error("Failed to format initial state", err, nil)
	}
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-clientChan:
			if _, err := w.Write(data); err != nil {
				logger.Error("Error writing to client, closing SSE connection", err, nil)
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprintf(w, ": keep-alive\n\n"); err != nil {
				logger.Debug("Keep-alive failed, closing SSE connection", port.Fields{"error": err.Error()})
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			logger.Info("Client closed SSE connection", nil)
			return
		}
	}
}
