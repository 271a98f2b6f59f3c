package host

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ServiceProvider is implemented by add-ons. Register runs once per add-on
// while the container is being populated; Boot runs after every add-on has
// registered.
type ServiceProvider interface {
	Register(c *Container) error
	Boot(c *Container) error
}

// Options describes the host services an Application starts with.
type Options struct {
	Config        ConfigMap
	Version       Version
	Locale        string
	Translator    any
	EntityManager EntityManager
	// Logger is registered only when Version ships the native logging hook;
	// older hosts leave the key for add-ons to fill.
	Logger *slog.Logger
}

// Application owns the container and runs the add-on lifecycle.
type Application struct {
	c          *Container
	router     *Router
	dispatcher *Dispatcher

	mu        sync.Mutex
	providers []ServiceProvider
	booted    bool
}

// NewApplication builds a container pre-populated with the host keys.
func NewApplication(opts Options) *Application {
	c := NewContainer()
	router := NewRouter(c)

	cfg := opts.Config
	if cfg == nil {
		cfg = ConfigMap{}
	}
	c.Set(KeyConfig, cfg)
	c.Set(KeyFormTypes, []FormType{})
	c.Set(KeyLocale, opts.Locale)
	c.Set(KeyVersion, opts.Version)
	c.Set(KeyRouter, router)
	c.Factory(KeyControllersFactory, func(*Container) (any, error) {
		return NewRouteCollection(), nil
	})
	if opts.Translator != nil {
		c.Set(KeyTranslator, opts.Translator)
	}
	if opts.EntityManager != nil {
		c.Set(KeyEntityManager, opts.EntityManager)
	}
	if opts.Logger != nil && opts.Version.Supports(FeatureLogging) {
		c.Set(KeyLogger, opts.Logger)
	}

	return &Application{
		c:          c,
		router:     router,
		dispatcher: NewDispatcher(c),
	}
}

// Container returns the application container.
func (a *Application) Container() *Container { return a.c }

// Router returns the global route table.
func (a *Application) Router() *Router { return a.router }

// Dispatcher returns the event dispatcher.
func (a *Application) Dispatcher() *Dispatcher { return a.dispatcher }

// Register runs each provider's Register in order and records its event
// subscriptions.
func (a *Application) Register(providers ...ServiceProvider) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.booted {
		return fmt.Errorf("host: register after boot")
	}
	for _, p := range providers {
		if err := p.Register(a.c); err != nil {
			return fmt.Errorf("register %T: %w", p, err)
		}
		if s, ok := p.(EventSubscriber); ok {
			for _, sub := range s.Subscriptions() {
				a.dispatcher.Subscribe(sub)
			}
		}
		a.providers = append(a.providers, p)
	}
	return nil
}

// Boot runs every registered provider's Boot once. Later calls do nothing.
func (a *Application) Boot() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.booted {
		return nil
	}
	a.booted = true
	for _, p := range a.providers {
		if err := p.Boot(a.c); err != nil {
			return fmt.Errorf("boot %T: %w", p, err)
		}
	}
	Logger(a.c).Debug("host: booted", "providers", len(a.providers))
	return nil
}

// Handler builds the HTTP handler for every mounted route.
func (a *Application) Handler(reg prometheus.Registerer) (http.Handler, error) {
	return a.router.Handler(reg)
}
