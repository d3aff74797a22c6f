// Package modlog provides the in-process moderation event hub.
// Every executed moderation action is published here and fanned out to the
// panel's websocket clients and to the MQTT bridge.
package modlog

import (
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	json "github.com/goccy/go-json"
)

// Subscriber receives encoded moderation events. Slow subscribers are skipped,
// never blocked on: the feed is advisory, the store is the source of truth.
type Subscriber chan []byte

// Hub broadcasts moderation events to subscribers
type Hub struct {
	mu          sync.RWMutex
	subscribers map[Subscriber]struct{}
	sinks       []func(models.ModLogEvent)
}

var (
	hub     *Hub
	hubOnce sync.Once
)

// Get returns the global hub instance
func Get() *Hub {
	hubOnce.Do(func() {
		hub = NewHub()
	})
	return hub
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[Subscriber]struct{}),
	}
}

// Subscribe registers a websocket client channel
func (h *Hub) Subscribe() Subscriber {
	sub := make(Subscriber, 16)
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes a client channel
func (h *Hub) Unsubscribe(sub Subscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		close(sub)
	}
	h.mu.Unlock()
}

// AddSink registers a callback invoked for every event (used by the MQTT bridge)
func (h *Hub) AddSink(sink func(models.ModLogEvent)) {
	h.mu.Lock()
	h.sinks = append(h.sinks, sink)
	h.mu.Unlock()
}

// Publish broadcasts a moderation event to all subscribers and sinks
func (h *Hub) Publish(event models.ModLogEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Error serializando evento de moderación: "+err.Error(), "ModLog")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		select {
		case sub <- data:
		default:
			// subscriber is not keeping up, drop the event for it
		}
	}

	for _, sink := range h.sinks {
		go sink(event)
	}
}

// SubscriberCount returns the number of connected subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
