// Package orderpdf is the order PDF add-on: it lets administrators pick
// orders in the back office and download a delivery note PDF for them.
//
// Provider wires the add-on into the host container. Everything it
// registers is built lazily; the PDF itself is produced by the Renderer
// registered under KeyRenderer.
package orderpdf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"orderpdf/internal/domain/entities"
	"orderpdf/internal/host"
	"orderpdf/internal/ports/output"
)

// PluginCode identifies the add-on in logs.
const PluginCode = "OrderPdf"

// Container keys owned by the add-on.
const (
	KeyRepository  = "orderpdf.repository.order_pdf"
	KeyEvent       = "orderpdf.event.order_pdf"
	KeyEventLegacy = "orderpdf.event.order_pdf_legacy"
	KeyService     = "orderpdf.service.order_pdf"
	KeyController  = "orderpdf.controller.order_pdf"
	// KeyRenderer is registered by whoever provides PDF rendering.
	KeyRenderer = "orderpdf.renderer"
)

// Route names.
const (
	RouteIndex    = "plugin_admin_order_pdf"
	RouteDownload = "plugin_admin_order_pdf_download"
)

const (
	localeDir    = "locale"
	localeStem   = "message"
	constantFile = "config/constant.yml"
)

//go:embed resource
var resources embed.FS

// Resources returns the bundled locale and config files.
func Resources() fs.FS {
	sub, err := fs.Sub(resources, "resource")
	if err != nil {
		panic(err)
	}
	return sub
}

var (
	_ host.ServiceProvider = (*Provider)(nil)
	_ host.EventSubscriber = (*Provider)(nil)
)

// Provider registers the add-on's services, routes, form type, messages
// and config overrides.
type Provider struct {
	fsys          fs.FS
	legacyLogInit func(c *host.Container) error
}

// Option customizes a Provider.
type Option func(*Provider)

// WithResources replaces the bundled resource files.
func WithResources(fsys fs.FS) Option {
	return func(p *Provider) {
		p.fsys = fsys
	}
}

// WithLegacyLogInit replaces the logger bootstrap used on hosts without
// the native logging hook.
func WithLegacyLogInit(fn func(c *host.Container) error) Option {
	return func(p *Provider) {
		p.legacyLogInit = fn
	}
}

// NewProvider returns a provider using the bundled resources.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		fsys:          Resources(),
		legacyLogInit: initLegacyLogger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register wires the add-on into c. It must run once per boot.
func (p *Provider) Register(c *host.Container) error {
	// Repository
	c.Share(KeyRepository, func(c *host.Container) (any, error) {
		em, err := host.Resolve[host.EntityManager](c, host.KeyEntityManager)
		if err != nil {
			return nil, err
		}
		repo, err := em.GetRepository(entities.OrderPdfEntity)
		if err != nil {
			return nil, err
		}
		r, ok := repo.(output.OrderPdfRepository)
		if !ok {
			return nil, fmt.Errorf("repository %T: %w", repo, host.ErrServiceType)
		}
		return r, nil
	})

	// Event handlers for both host API eras.
	c.Share(KeyEvent, func(c *host.Container) (any, error) {
		return NewEvent(c), nil
	})
	c.Share(KeyEventLegacy, func(c *host.Container) (any, error) {
		return NewLegacyEvent(c), nil
	})

	c.Share(KeyService, func(c *host.Container) (any, error) {
		return NewService(c), nil
	})

	c.Share(KeyController, func(c *host.Container) (any, error) {
		return NewController(c), nil
	})
	if err := p.registerRoutes(c); err != nil {
		return err
	}

	if err := c.Extend(host.KeyFormTypes, func(prev any, c *host.Container) (any, error) {
		types, ok := prev.([]host.FormType)
		if !ok {
			return nil, fmt.Errorf("%s: got %T: %w", host.KeyFormTypes, prev, host.ErrServiceType)
		}
		return append(slices.Clip(types), NewOrderPdfType(c)), nil
	}); err != nil {
		return err
	}

	if err := p.loadMessages(c); err != nil {
		return err
	}

	if err := c.Extend(host.KeyConfig, p.extendConfig); err != nil {
		return err
	}

	return p.initLogging(c)
}

// Boot has nothing to do: everything is registered lazily.
func (p *Provider) Boot(*host.Container) error {
	return nil
}

// Subscriptions binds host events to the add-on's handlers.
func (p *Provider) Subscriptions() []host.Subscription {
	return []host.Subscription{
		{Event: EventAdminOrderRender, ServiceKey: KeyEvent},
		{Event: EventAdminOrderResponse, ServiceKey: KeyEventLegacy},
	}
}

func (p *Provider) registerRoutes(c *host.Container) error {
	admin, err := host.Resolve[*host.RouteCollection](c, host.KeyControllersFactory)
	if err != nil {
		return err
	}
	cfg, err := host.Resolve[host.ConfigMap](c, host.KeyConfig)
	if err != nil {
		return err
	}

	if host.ConfigEnabled(cfg, "force_ssl") {
		admin.RequireHTTPS()
	}

	admin.Match("/plugin/order-pdf", KeyController+"::Index").
		Bind(RouteIndex)
	admin.Match("/plugin/order-pdf/download", KeyController+"::Download").
		Bind(RouteDownload)

	router, err := host.Resolve[*host.Router](c, host.KeyRouter)
	if err != nil {
		return err
	}
	adminRoute, _ := host.ConfigString(cfg, "admin_route")
	router.Mount(adminPrefix(adminRoute), admin)
	return nil
}

// adminPrefix normalizes the configured admin route to "/<route>/".
func adminPrefix(route string) string {
	return "/" + strings.Trim(route, "/") + "/"
}

// loadMessages adds the catalog for the active locale when one is bundled.
func (p *Provider) loadMessages(c *host.Container) error {
	locale, err := host.Resolve[string](c, host.KeyLocale)
	if err != nil {
		return err
	}
	file := path.Join(localeDir, localeStem+"."+locale+".yml")
	if !fs.ValidPath(file) {
		return nil
	}
	if _, err := fs.Stat(p.fsys, file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", file, err)
	}

	tr, err := host.Resolve[output.Translator](c, host.KeyTranslator)
	if err != nil {
		return err
	}
	return tr.AddResource(p.fsys, file, locale)
}

// extendConfig merges the bundled constant overrides into the host config.
func (p *Provider) extendConfig(prev any, _ *host.Container) (any, error) {
	cfg, ok := prev.(host.ConfigMap)
	if !ok {
		return nil, fmt.Errorf("%s: got %T: %w", host.KeyConfig, prev, host.ErrServiceType)
	}

	data, err := fs.ReadFile(p.fsys, constantFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", constantFile, err)
	}

	var constant host.ConfigMap
	if err := yaml.Unmarshal(data, &constant); err != nil {
		return nil, fmt.Errorf("parse %s: %w", constantFile, err)
	}
	if len(constant) == 0 {
		return cfg, nil
	}
	return host.MergeConfig(cfg, constant), nil
}
