package orderpdf

import (
	"log/slog"
	"os"

	"orderpdf/internal/host"
)

// initLogging runs the logger bootstrap matching the host release.
func (p *Provider) initLogging(c *host.Container) error {
	v, err := host.Resolve[host.Version](c, host.KeyVersion)
	if err != nil {
		return err
	}
	return p.logInitializer(v)(c)
}

// logInitializer picks the bootstrap for v: hosts with the native logging
// hook set up their own logger, older ones need the add-on to do it.
func (p *Provider) logInitializer(v host.Version) func(c *host.Container) error {
	if v.Supports(host.FeatureLogging) {
		return nativeLogInit
	}
	return p.legacyLogInit
}

func nativeLogInit(*host.Container) error { return nil }

// initLegacyLogger registers a stderr logger under the host logger key
// unless the host already has one.
func initLegacyLogger(c *host.Container) error {
	if c.Has(host.KeyLogger) {
		return nil
	}
	c.Share(host.KeyLogger, func(*host.Container) (any, error) {
		return slog.New(slog.NewTextHandler(os.Stderr, nil)), nil
	})
	return nil
}

func logger(c *host.Container) *slog.Logger {
	return host.Logger(c).With("plugin", PluginCode)
}
