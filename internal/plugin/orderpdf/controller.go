package orderpdf

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"orderpdf/internal/domain"
	"orderpdf/internal/host"
)

// Controller serves the add-on's admin pages.
type Controller struct {
	c *host.Container
}

var _ host.Controller = (*Controller)(nil)

// NewController returns the controller.
func NewController(c *host.Container) *Controller {
	return &Controller{c: c}
}

// Action implements host.Controller.
func (ct *Controller) Action(name string) (http.HandlerFunc, bool) {
	switch name {
	case "Index":
		return ct.Index, true
	case "Download":
		return ct.Download, true
	}
	return nil, false
}

type formView struct {
	IDs         []int64           `json:"ids"`
	IssueDate   string            `json:"issue_date,omitempty"`
	Title       string            `json:"title"`
	Messages    [3]string         `json:"messages"`
	Notes       [3]string         `json:"notes"`
	Default     bool              `json:"default"`
	Errors      map[string]string `json:"errors,omitempty"`
	DownloadURL string            `json:"download_url,omitempty"`
}

func newFormView(d FormData) formView {
	v := formView{
		IDs:      d.OrderIDs,
		Title:    d.Title,
		Messages: d.Messages,
		Notes:    d.Notes,
		Default:  d.SaveAsDefault,
	}
	if !d.IssueDate.IsZero() {
		v.IssueDate = d.IssueDate.Format(IssueDateLayout)
	}
	return v
}

// Index shows the form prefilled with the administrator's defaults (GET)
// or validates it, saves the defaults when asked and redirects to the
// download (POST).
func (ct *Controller) Index(w http.ResponseWriter, r *http.Request) {
	memberID, ok := host.AdminFromContext(r.Context())
	if !ok {
		ct.fail(w, domain.ErrNotAuthenticated)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	locale := activeLocale(ct.c)

	form, svc, err := ct.deps()
	if err != nil {
		ct.fail(w, err)
		return
	}

	if r.Method != http.MethodPost {
		defaults, err := svc.Defaults(r.Context(), memberID, locale)
		if err != nil {
			ct.fail(w, err)
			return
		}
		if ids, ok := parseIDs(r.Form["ids"]); ok {
			defaults.OrderIDs = ids
		}
		view := newFormView(defaults)
		if u, err := routeURL(ct.c, RouteDownload, nil); err == nil {
			view.DownloadURL = u
		}
		writeJSON(w, http.StatusOK, view)
		return
	}

	data, err := form.Bind(r.PostForm, locale)
	if err != nil {
		ct.fail(w, err, data)
		return
	}
	if data.SaveAsDefault {
		if err := svc.SaveDefaults(r.Context(), memberID, data); err != nil {
			ct.fail(w, err)
			return
		}
	}
	query := data.Values()
	query.Del("default")
	target, err := routeURL(ct.c, RouteDownload, query)
	if err != nil {
		ct.fail(w, err)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Download validates the request and streams the generated PDF. It is
// safe to repeat: the default flag is ignored here.
func (ct *Controller) Download(w http.ResponseWriter, r *http.Request) {
	memberID, ok := host.AdminFromContext(r.Context())
	if !ok {
		ct.fail(w, domain.ErrNotAuthenticated)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	locale := activeLocale(ct.c)

	form, svc, err := ct.deps()
	if err != nil {
		ct.fail(w, err)
		return
	}
	data, err := form.Bind(r.Form, locale)
	if err != nil {
		ct.fail(w, err, data)
		return
	}

	doc, err := svc.Generate(r.Context(), memberID, locale, data)
	if err != nil {
		ct.fail(w, err, data)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}

func (ct *Controller) deps() (*OrderPdfType, *Service, error) {
	ft, err := host.FindFormType(ct.c, FormName)
	if err != nil {
		return nil, nil, err
	}
	form, ok := ft.(*OrderPdfType)
	if !ok {
		return nil, nil, host.ErrServiceType
	}
	svc, err := host.Resolve[*Service](ct.c, KeyService)
	if err != nil {
		return nil, nil, err
	}
	return form, svc, nil
}

// fail maps err to a status. Validation errors echo the submitted form.
func (ct *Controller) fail(w http.ResponseWriter, err error, data ...FormData) {
	var fe FieldErrors
	switch {
	case errors.As(err, &fe):
		view := formView{}
		if len(data) > 0 {
			view = newFormView(data[0])
		}
		view.Errors = fe
		writeJSON(w, http.StatusUnprocessableEntity, view)
	case errors.Is(err, domain.ErrNotAuthenticated):
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	case errors.Is(err, domain.ErrNoOrders):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrRendererUnavailable):
		logger(ct.c).Warn("order pdf: no renderer registered", "key", KeyRenderer)
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
	default:
		logger(ct.c).Error("order pdf: request failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
