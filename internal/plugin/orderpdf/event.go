package orderpdf

import (
	"context"
	"html"
	"net/url"
	"strings"

	"orderpdf/internal/host"
)

// Host events the add-on listens to.
const (
	// EventAdminOrderRender fires before the order list template renders.
	EventAdminOrderRender = "admin.order.index.render"
	// EventAdminOrderResponse fires after the order list page rendered, on
	// hosts without template events.
	EventAdminOrderResponse = "admin.order.index.response"
)

// ParamURL is the template parameter holding the PDF page URL.
const ParamURL = "order_pdf_url"

// Event adds the PDF button to the order list through template events.
type Event struct {
	c *host.Container
}

// NewEvent returns the template event handler.
func NewEvent(c *host.Container) *Event {
	return &Event{c: c}
}

// HandleEvent implements host.Listener.
func (e *Event) HandleEvent(_ context.Context, ev *host.Event) error {
	if ev.Name != EventAdminOrderRender {
		return nil
	}
	link, err := routeURL(e.c, RouteIndex, nil)
	if err != nil {
		return err
	}
	if ev.Params == nil {
		ev.Params = map[string]any{}
	}
	ev.Params[ParamURL] = link

	label := translator(e.c).T(activeLocale(e.c), "order_pdf.admin.order.button", nil)
	snippet := `<a class="btn btn-default" href="{{ ` + ParamURL + ` }}">` + html.EscapeString(label) + `</a>`
	ev.Source = insertBeforeFormEnd(ev.Source, snippet)
	return nil
}

// LegacyEvent adds the PDF button to the already rendered order list.
type LegacyEvent struct {
	c *host.Container
}

// NewLegacyEvent returns the response event handler.
func NewLegacyEvent(c *host.Container) *LegacyEvent {
	return &LegacyEvent{c: c}
}

// HandleEvent implements host.Listener.
func (e *LegacyEvent) HandleEvent(_ context.Context, ev *host.Event) error {
	if ev.Name != EventAdminOrderResponse {
		return nil
	}
	link, err := routeURL(e.c, RouteIndex, nil)
	if err != nil {
		return err
	}
	label := translator(e.c).T(activeLocale(e.c), "order_pdf.admin.order.button", nil)
	snippet := `<a class="btn btn-default" href="` + html.EscapeString(link) + `">` + html.EscapeString(label) + `</a>`
	ev.Source = insertBeforeFormEnd(ev.Source, snippet)
	return nil
}

func routeURL(c *host.Container, name string, query url.Values) (string, error) {
	router, err := host.Resolve[*host.Router](c, host.KeyRouter)
	if err != nil {
		return "", err
	}
	return router.URL(name, query)
}

// insertBeforeFormEnd puts snippet before the last closing form tag, or at
// the end when there is none.
func insertBeforeFormEnd(src, snippet string) string {
	i := strings.LastIndex(strings.ToLower(src), "</form>")
	if i < 0 {
		return src + snippet
	}
	return src[:i] + snippet + src[i:]
}
