package orderpdf

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"orderpdf/internal/host"
)

// FormName is the name the order PDF form type registers under.
const FormName = "order_pdf"

// IssueDateLayout is the accepted issue_date format.
const IssueDateLayout = "2006-01-02"

// Length limits used when the host config has no override.
const (
	defaultTitleLen   = 50
	defaultMessageLen = 30
	defaultNoteLen    = 50
	defaultMaxOrders  = 100
)

// FormData is a bound and validated order PDF form.
type FormData struct {
	OrderIDs      []int64
	IssueDate     time.Time
	Title         string
	Messages      [3]string
	Notes         [3]string
	SaveAsDefault bool
}

// Values encodes d back into form values.
func (d FormData) Values() url.Values {
	v := url.Values{}
	ids := make([]string, len(d.OrderIDs))
	for i, id := range d.OrderIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	v.Set("ids", strings.Join(ids, ","))
	if !d.IssueDate.IsZero() {
		v.Set("issue_date", d.IssueDate.Format(IssueDateLayout))
	}
	v.Set("title", d.Title)
	for i := range 3 {
		v.Set("message"+strconv.Itoa(i+1), d.Messages[i])
		v.Set("note"+strconv.Itoa(i+1), d.Notes[i])
	}
	if d.SaveAsDefault {
		v.Set("default", "1")
	}
	return v
}

// FieldErrors maps field names to translated messages.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "orderpdf: invalid fields: " + strings.Join(fields, ", ")
}

// OrderPdfType is the form an administrator fills to produce a PDF.
type OrderPdfType struct {
	c *host.Container
}

var _ host.FormType = (*OrderPdfType)(nil)

// NewOrderPdfType returns the form type; limits are read from the host
// config when a form is bound.
func NewOrderPdfType(c *host.Container) *OrderPdfType {
	return &OrderPdfType{c: c}
}

// Name implements host.FormType.
func (t *OrderPdfType) Name() string { return FormName }

// Bind validates values and returns the form data, or FieldErrors.
func (t *OrderPdfType) Bind(values url.Values, locale string) (FormData, error) {
	limits := t.limits()
	tr := translator(t.c)
	errs := FieldErrors{}
	fail := func(field, key string, data map[string]any) {
		if _, seen := errs[field]; !seen {
			errs[field] = tr.T(locale, key, data)
		}
	}

	var d FormData

	ids, ok := parseIDs(values["ids"])
	switch {
	case !ok:
		fail("ids", "order_pdf.error.invalid", nil)
	case len(ids) == 0:
		fail("ids", "order_pdf.error.required", nil)
	case len(ids) > limits.maxOrders:
		fail("ids", "order_pdf.error.too_many", map[string]any{"Max": limits.maxOrders})
	}
	d.OrderIDs = ids

	if raw := strings.TrimSpace(values.Get("issue_date")); raw == "" {
		fail("issue_date", "order_pdf.error.required", nil)
	} else if ts, err := time.Parse(IssueDateLayout, raw); err != nil {
		fail("issue_date", "order_pdf.error.invalid", nil)
	} else {
		d.IssueDate = ts
	}

	text := func(field string, max int) string {
		s := strings.TrimSpace(values.Get(field))
		if utf8.RuneCountInString(s) > max {
			fail(field, "order_pdf.error.too_long", map[string]any{"Max": max})
		}
		return s
	}
	d.Title = text("title", limits.title)
	for i := range 3 {
		n := strconv.Itoa(i + 1)
		d.Messages[i] = text("message"+n, limits.message)
		d.Notes[i] = text("note"+n, limits.note)
	}

	switch strings.ToLower(values.Get("default")) {
	case "1", "on", "true":
		d.SaveAsDefault = true
	}

	if len(errs) > 0 {
		return d, errs
	}
	return d, nil
}

type formLimits struct {
	title, message, note, maxOrders int
}

func (t *OrderPdfType) limits() formLimits {
	l := formLimits{
		title:     defaultTitleLen,
		message:   defaultMessageLen,
		note:      defaultNoteLen,
		maxOrders: defaultMaxOrders,
	}
	cfg, err := host.Resolve[host.ConfigMap](t.c, host.KeyConfig)
	if err != nil {
		return l
	}
	for key, dst := range map[string]*int{
		"order_pdf_title_len":   &l.title,
		"order_pdf_message_len": &l.message,
		"order_pdf_note_len":    &l.note,
		"order_pdf_max_orders":  &l.maxOrders,
	} {
		if v, ok := host.ConfigInt(cfg, key); ok && v > 0 {
			*dst = v
		}
	}
	return l
}

// parseIDs accepts repeated and comma separated ids, dropping duplicates.
func parseIDs(raw []string) ([]int64, bool) {
	var ids []int64
	seen := map[int64]bool{}
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, false
			}
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, true
}
