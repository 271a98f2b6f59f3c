package orderpdf

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"orderpdf/internal/domain"
	"orderpdf/internal/domain/entities"
	"orderpdf/internal/host"
	"orderpdf/internal/ports/output"
)

const defaultFilename = "order_pdf"

// RenderRequest is what a Renderer needs to lay out one document.
type RenderRequest struct {
	OrderIDs  []int64
	IssueDate time.Time
	Settings  entities.OrderPdf
	Locale    string
}

// Renderer produces the PDF bytes. Rendering lives outside the add-on;
// an implementation is registered under KeyRenderer.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) ([]byte, error)
}

// Document is a generated file ready to be sent.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Service is the add-on's domain service.
type Service struct {
	c *host.Container
}

// NewService returns a service resolving its dependencies through c.
func NewService(c *host.Container) *Service {
	return &Service{c: c}
}

// Defaults returns the form values an administrator starts from: the
// settings they saved, or the translated defaults.
func (s *Service) Defaults(ctx context.Context, memberID int64, locale string) (FormData, error) {
	repo, err := host.Resolve[output.OrderPdfRepository](s.c, KeyRepository)
	if err != nil {
		return FormData{}, err
	}
	saved, err := repo.FindByMemberID(ctx, memberID)
	switch {
	case err == nil:
		return FormData{
			Title:    saved.Title,
			Messages: saved.Messages(),
			Notes:    saved.Notes(),
		}, nil
	case errors.Is(err, domain.ErrOrderPdfNotFound):
		tr := translator(s.c)
		return FormData{
			Title: tr.T(locale, "order_pdf.default.title", nil),
			Messages: [3]string{
				tr.T(locale, "order_pdf.default.message1", nil),
				tr.T(locale, "order_pdf.default.message2", nil),
				tr.T(locale, "order_pdf.default.message3", nil),
			},
		}, nil
	default:
		return FormData{}, err
	}
}

// SaveDefaults stores the texts of data as the administrator's defaults.
func (s *Service) SaveDefaults(ctx context.Context, memberID int64, data FormData) error {
	repo, err := host.Resolve[output.OrderPdfRepository](s.c, KeyRepository)
	if err != nil {
		return err
	}
	settings := settingsFrom(memberID, data)
	return repo.Save(ctx, &settings)
}

// Generate renders the document. It never stores settings, so a download
// URL can be reloaded without side effects.
func (s *Service) Generate(ctx context.Context, memberID int64, locale string, data FormData) (*Document, error) {
	if len(data.OrderIDs) == 0 {
		return nil, domain.ErrNoOrders
	}
	settings := settingsFrom(memberID, data)

	if !s.c.Has(KeyRenderer) {
		return nil, domain.ErrRendererUnavailable
	}
	renderer, err := host.Resolve[Renderer](s.c, KeyRenderer)
	if err != nil {
		return nil, err
	}
	body, err := renderer.Render(ctx, RenderRequest{
		OrderIDs:  data.OrderIDs,
		IssueDate: data.IssueDate,
		Settings:  settings,
		Locale:    locale,
	})
	if err != nil {
		return nil, fmt.Errorf("render order pdf: %w", err)
	}

	logger(s.c).Info("order pdf generated", "member_id", memberID, "orders", len(data.OrderIDs), "bytes", len(body))
	return &Document{
		Filename:    s.filename(),
		ContentType: "application/pdf",
		Body:        body,
	}, nil
}

func settingsFrom(memberID int64, data FormData) entities.OrderPdf {
	return entities.OrderPdf{
		MemberID: memberID,
		Title:    data.Title,
		Message1: data.Messages[0],
		Message2: data.Messages[1],
		Message3: data.Messages[2],
		Note1:    data.Notes[0],
		Note2:    data.Notes[1],
		Note3:    data.Notes[2],
	}
}

func (s *Service) filename() string {
	name := defaultFilename
	if cfg, err := host.Resolve[host.ConfigMap](s.c, host.KeyConfig); err == nil {
		if v, ok := host.ConfigString(cfg, "order_pdf_filename"); ok && v != "" {
			name = v
		}
	}
	return name + ".pdf"
}

// keyTranslator echoes message ids; used when the host has no translator.
type keyTranslator struct{}

func (keyTranslator) T(_, key string, _ map[string]any) string { return key }

func (keyTranslator) AddResource(fs.FS, string, string) error { return nil }

func translator(c *host.Container) output.Translator {
	if !c.Has(host.KeyTranslator) {
		return keyTranslator{}
	}
	tr, err := host.Resolve[output.Translator](c, host.KeyTranslator)
	if err != nil {
		return keyTranslator{}
	}
	return tr
}

func activeLocale(c *host.Container) string {
	l, _ := host.Resolve[string](c, host.KeyLocale)
	return l
}
