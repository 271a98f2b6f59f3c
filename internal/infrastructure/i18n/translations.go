package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"orderpdf/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

// Ensure Translator implements the output.Translator port.
var _ output.Translator = (*Translator)(nil)

// Resource records a message file added after construction.
type Resource struct {
	Format string
	Path   string
	Locale string
}

// Translator is a thin wrapper around go-i18n's Bundle/Localizer.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	logger          *slog.Logger

	mu        sync.Mutex
	resources []Resource
}

// NewTranslator builds a Translator backed by go-i18n using the given default
// locale (e.g. "ja").
//
// The host catalogs are loaded from the embedded active.*.toml files; add-on
// catalogs are YAML files added with AddResource.
func NewTranslator(defaultLocale string, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	for _, file := range []string{"active.ja.toml", "active.en.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			logger.Warn("i18n: failed to load catalog", "file", file, "error", err)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
		logger:          logger,
	}
}

// AddResource loads the message file at path in fsys. The file name must
// carry the locale (message.<locale>.yml) and that locale must match.
func (t *Translator) AddResource(fsys fs.FS, path, locale string) error {
	want, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("i18n: locale %q: %w", locale, err)
	}
	mf, err := t.bundle.LoadMessageFileFS(fsys, path)
	if err != nil {
		return fmt.Errorf("i18n: load %s: %w", path, err)
	}
	if mf.Tag != want {
		return fmt.Errorf("i18n: %s is tagged %s, want %s", path, mf.Tag, want)
	}

	t.mu.Lock()
	t.resources = append(t.resources, Resource{Format: mf.Format, Path: path, Locale: locale})
	t.mu.Unlock()
	return nil
}

// Resources returns the resources added with AddResource, in load order.
func (t *Translator) Resources() []Resource {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Resource(nil), t.resources...)
}

// T renders the message identified by key for the given locale.
// If the key/locale is not found, it falls back to the default locale,
// then finally to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := []string{}
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		t.logger.Debug("i18n: localize failed", "key", key, "locales", languages, "error", err)
		return key
	}
	return msg
}
