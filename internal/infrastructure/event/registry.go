package event

import (
	"sync"

	"github.com/teashop/backend/internal/domain/shared"
)

type subscription struct {
	handler shared.EventHandler
	types   map[string]struct{} // empty means every event
}

func (s *subscription) wants(eventType string) bool {
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// HandlerRegistry keeps subscriptions in the order handlers first subscribed.
type HandlerRegistry struct {
	mu   sync.RWMutex
	subs []*subscription
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

// Register subscribes handler to eventTypes, or to every event when none are
// given. Registering the same handler again widens its subscription.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub := r.find(handler)
	if sub == nil {
		sub = &subscription{handler: handler, types: make(map[string]struct{})}
		r.subs = append(r.subs, sub)
	} else if len(eventTypes) == 0 {
		clear(sub.types)
		return
	} else if len(sub.types) == 0 {
		return
	}
	for _, t := range eventTypes {
		sub.types[t] = struct{}{}
	}
}

func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.subs[:0]
	for _, sub := range r.subs {
		if sub.handler != handler {
			kept = append(kept, sub)
		}
	}
	clear(r.subs[len(kept):])
	r.subs = kept
}

// GetHandlers lists the handlers subscribed to eventType in subscription order.
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []shared.EventHandler
	for _, sub := range r.subs {
		if sub.wants(eventType) {
			out = append(out, sub.handler)
		}
	}
	return out
}

func (r *HandlerRegistry) find(handler shared.EventHandler) *subscription {
	for _, sub := range r.subs {
		if sub.handler == handler {
			return sub
		}
	}
	return nil
}
