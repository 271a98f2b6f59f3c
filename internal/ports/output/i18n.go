package output

import "io/fs"

// Translator exposes a minimal i18n contract for user-facing messages.
// Implementations provide message lookup + templating for a given locale.
type Translator interface {
	// T renders the message identified by key for the given locale.
	// data is an optional map used for template placeholders (may be nil).
	T(locale, key string, data map[string]any) string
	// AddResource loads the message file at path in fsys for locale.
	AddResource(fsys fs.FS, path, locale string) error
}
