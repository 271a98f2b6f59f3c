package host

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// Event carries the state of a host extension point to its listeners.
// Template events fill Params and Source with the template parameters and
// template text; response events fill Source with the rendered body.
type Event struct {
	Name    string
	Request *http.Request
	Params  map[string]any
	Source  string
}

// Listener handles dispatched events.
type Listener interface {
	HandleEvent(ctx context.Context, ev *Event) error
}

// Subscription binds an event name to the container key of its listener.
type Subscription struct {
	Event      string
	ServiceKey string
}

// EventSubscriber is implemented by providers that listen to host events.
type EventSubscriber interface {
	Subscriptions() []Subscription
}

// Dispatcher delivers events to listeners resolved lazily from the container.
type Dispatcher struct {
	c *Container

	mu   sync.RWMutex
	subs map[string][]string
}

// NewDispatcher returns a dispatcher resolving listeners through c.
func NewDispatcher(c *Container) *Dispatcher {
	return &Dispatcher{c: c, subs: make(map[string][]string)}
}

// Subscribe adds s. Listeners run in subscription order.
func (d *Dispatcher) Subscribe(s Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs[s.Event] = append(d.subs[s.Event], s.ServiceKey)
}

// Dispatch resolves each listener of ev.Name and calls it. It stops at the
// first error.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *Event) error {
	d.mu.RLock()
	keys := append([]string(nil), d.subs[ev.Name]...)
	d.mu.RUnlock()

	for _, key := range keys {
		l, err := Resolve[Listener](d.c, key)
		if err != nil {
			return fmt.Errorf("dispatch %s: %w", ev.Name, err)
		}
		if err := l.HandleEvent(ctx, ev); err != nil {
			return fmt.Errorf("dispatch %s to %s: %w", ev.Name, key, err)
		}
	}
	return nil
}
