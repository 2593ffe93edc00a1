// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/danielhkuo/ballotbox/ledger"
	"github.com/danielhkuo/ballotbox/middleware"
)

// ObserverHandler streams accepted ledger mutations to clients over
// server-sent events. It subscribes to the ledger once and fans events out to
// connected clients; a slow client drops events rather than stalling the
// ledger's critical section.
type ObserverHandler struct {
	mu      sync.Mutex
	clients map[chan ledger.Event]struct{}
}

func NewObserverHandler(l *ledger.Ledger) *ObserverHandler {
	h := &ObserverHandler{
		clients: make(map[chan ledger.Event]struct{}),
	}
	l.Subscribe(h.publish)
	return h
}

// publish runs inside the ledger's critical section, so it must never block.
func (h *ObserverHandler) publish(ev ledger.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- ev:
		default:
			// Client buffer full, drop the event for this client
		}
	}
}

// Stream handles GET /election/events
func (h *ObserverHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := make(chan ledger.Event, 64)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
	}()

	slog.Info("event stream opened", "remote", r.RemoteAddr)

	for {
		select {
		case <-r.Context().Done():
			slog.Info("event stream closed", "remote", r.RemoteAddr)
			return
		case ev := <-ch:
			data, err := json.Marshal(ev)
			if err != nil {
				slog.Error("failed to encode event", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
		}
	}
}
