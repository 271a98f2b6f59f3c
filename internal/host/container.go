// Package host is the application side of the add-on contract: a keyed
// service container, a route table, form types, events and the boot
// lifecycle that add-ons hook into.
package host

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	// ErrUnknownService is returned when a key has no definition.
	ErrUnknownService = errors.New("host: unknown service")
	// ErrServiceType is returned when a resolved value has an unexpected type.
	ErrServiceType = errors.New("host: unexpected service type")
	// ErrCircularDependency is returned when a factory needs, directly or
	// not, the key it is building.
	ErrCircularDependency = errors.New("host: circular dependency")
)

// FactoryFunc builds a service. It receives the container so a service can
// resolve its own dependencies.
type FactoryFunc func(c *Container) (any, error)

// definition is one entry of the container. Shared definitions memoize
// the first result (value or error); non-shared ones call build every time.
type definition struct {
	build  FactoryFunc
	shared bool

	once  sync.Once
	value any
	err   error
}

func (d *definition) get(c *Container) (any, error) {
	if !d.shared {
		return d.build(c)
	}
	d.once.Do(func() {
		d.value, d.err = d.build(c)
	})
	return d.value, d.err
}

type registry struct {
	mu   sync.RWMutex
	defs map[string]*definition
}

// frame is one key being built. Factories receive a container view whose
// frames list the keys under construction on that resolution path.
type frame struct {
	key    string
	parent *frame
	done   atomic.Bool
}

func (f *frame) building(key string) bool {
	for ; f != nil; f = f.parent {
		if f.key == key && !f.done.Load() {
			return true
		}
	}
	return false
}

func (f *frame) path(key string) string {
	keys := []string{key}
	for ; f != nil; f = f.parent {
		if !f.done.Load() {
			keys = append(keys, f.key)
		}
	}
	slices.Reverse(keys)
	return strings.Join(keys, " -> ")
}

// Container maps string keys to service definitions. The views handed to
// factories share the same definitions.
type Container struct {
	*registry
	frame *frame
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{registry: &registry{defs: make(map[string]*definition)}}
}

// Share registers a lazily built singleton under key. The factory runs on
// first resolve; later resolves return the cached result.
// Registering an existing key replaces its definition.
func (c *Container) Share(key string, fn FactoryFunc) {
	c.put(key, &definition{build: fn, shared: true})
}

// Factory registers a non-shared service: every resolve builds a new value.
func (c *Container) Factory(key string, fn FactoryFunc) {
	c.put(key, &definition{build: fn})
}

// Set registers an already built value.
func (c *Container) Set(key string, value any) {
	d := &definition{shared: true, value: value}
	d.once.Do(func() {})
	c.put(key, d)
}

// Extend replaces the definition of key with one that resolves the
// previous definition and hands it to fn. The extended definition keeps
// the sharing mode of the one it wraps, so contributions from several
// add-ons fold in registration order.
func (c *Container) Extend(key string, fn func(prev any, c *Container) (any, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, ok := c.defs[key]
	if !ok {
		return fmt.Errorf("extend %q: %w", key, ErrUnknownService)
	}
	c.defs[key] = &definition{
		shared: prev.shared,
		build: func(c *Container) (any, error) {
			v, err := prev.get(c)
			if err != nil {
				return nil, err
			}
			return fn(v, c)
		},
	}
	return nil
}

// Resolve returns the service registered under key. Factories run outside
// the container lock, so a factory may resolve other keys; one that comes
// back to a key still being built fails with ErrCircularDependency.
func (c *Container) Resolve(key string) (any, error) {
	c.mu.RLock()
	d, ok := c.defs[key]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("resolve %q: %w", key, ErrUnknownService)
	}
	if c.frame.building(key) {
		return nil, fmt.Errorf("resolve %s: %w", c.frame.path(key), ErrCircularDependency)
	}

	view := &Container{registry: c.registry, frame: &frame{key: key, parent: c.frame}}
	v, err := d.get(view)
	view.frame.done.Store(true)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", key, err)
	}
	return v, nil
}

// Has reports whether key has a definition.
func (c *Container) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.defs[key]
	return ok
}

// Keys returns the registered keys in lexical order.
func (c *Container) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.defs))
	for k := range c.defs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Container) put(key string, d *definition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defs[key] = d
}

// Resolve resolves key and asserts its type.
func Resolve[T any](c *Container, key string) (T, error) {
	var zero T
	v, err := c.Resolve(key)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("resolve %q: got %T: %w", key, v, ErrServiceType)
	}
	return t, nil
}
