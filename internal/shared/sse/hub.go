// Package sse fans out server-sent events to dashboard subscribers.
//
// Delivery is last-push-wins: a slow consumer whose buffer is full simply
// misses intermediate snapshots, which is acceptable because every push
// carries the full current state, never a diff.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/surge-sentinel/platform/internal/shared/metrics"
)

type client struct {
	ch   chan string
	done chan struct{}
}

// Hub is one named broadcast stream (e.g. "hospitals", "alerts").
type Hub struct {
	name    string
	mu      sync.RWMutex
	clients map[string]*client

	pingInterval time.Duration
	retryMs      int
}

// NewHub creates a hub for one event stream
func NewHub(name string) *Hub {
	return &Hub{
		name:         name,
		clients:      make(map[string]*client),
		pingInterval: 30 * time.Second,
		retryMs:      5000,
	}
}

// BroadcastJSON sends v to every connected subscriber. Sends never block:
// a full client buffer drops the message.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	msg := fmt.Sprintf("data: %s\n\n", b)

	h.mu.RLock()
	for _, c := range h.clients {
		select {
		case c.ch <- msg:
		default:
		}
	}
	h.mu.RUnlock()
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add() (string, *client) {
	id := uuid.New().String()
	c := &client{ch: make(chan string, 16), done: make(chan struct{})}
	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()
	metrics.SSEClientConnected(h.name)
	return id, c
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	if c, ok := h.clients[id]; ok {
		close(c.done)
		delete(h.clients, id)
	}
	h.mu.Unlock()
	metrics.SSEClientDisconnected(h.name)
}

// ServeHTTP streams events to one subscriber until it disconnects. An
// optional initial snapshot can be sent first via the snapshot func so a
// new subscriber never starts from "no data".
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, snapshot func() (any, bool)) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	fmt.Fprintf(w, "retry: %d\n\n", h.retryMs)
	flusher.Flush()

	id, c := h.add()
	defer h.remove(id)

	if snapshot != nil {
		if v, ok := snapshot(); ok {
			if b, err := json.Marshal(v); err == nil {
				fmt.Fprintf(w, "data: %s\n\n", b)
				flusher.Flush()
			}
		}
	}

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-r.Context().Done():
			return
		case <-ping.C:
			fmt.Fprintf(w, "event: ping\ndata: {}\n\n")
			flusher.Flush()
		case msg := <-c.ch:
			fmt.Fprint(w, msg)
			flusher.Flush()
		}
	}
}
