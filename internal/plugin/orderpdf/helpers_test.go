package orderpdf

import (
	"context"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"orderpdf/internal/domain"
	"orderpdf/internal/domain/entities"
	"orderpdf/internal/host"
	"orderpdf/internal/infrastructure/i18n"
)

type fakeRepo struct {
	mu    sync.Mutex
	saved map[int64]entities.OrderPdf
	saves int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{saved: map[int64]entities.OrderPdf{}}
}

func (r *fakeRepo) FindByMemberID(_ context.Context, memberID int64) (*entities.OrderPdf, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.saved[memberID]
	if !ok {
		return nil, domain.ErrOrderPdfNotFound
	}
	return &o, nil
}

func (r *fakeRepo) Save(_ context.Context, s *entities.OrderPdf) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.saved[s.MemberID] = *s
	return nil
}

type fakeEntityManager struct {
	repo  *fakeRepo
	calls int
}

func (em *fakeEntityManager) GetRepository(entity string) (any, error) {
	em.calls++
	if entity != entities.OrderPdfEntity {
		return nil, host.ErrUnknownEntity
	}
	return em.repo, nil
}

type fakeRenderer struct {
	got  RenderRequest
	body []byte
	err  error
}

func (r *fakeRenderer) Render(_ context.Context, req RenderRequest) ([]byte, error) {
	r.got = req
	return r.body, r.err
}

type stubFormType struct{ name string }

func (s stubFormType) Name() string { return s.name }

type testHost struct {
	app        *host.Application
	em         *fakeEntityManager
	translator *i18n.Translator
	logInits   int
}

type hostSetup struct {
	config  host.ConfigMap
	version string
	locale  string
	fsys    fstest.MapFS // nil means the bundled resources
	noORM   bool
}

// newTestHost boots a host with the add-on registered.
func newTestHost(t *testing.T, s hostSetup) *testHost {
	t.Helper()
	if s.config == nil {
		s.config = host.ConfigMap{"admin_route": "admin", "force_ssl": 0}
	}
	if s.version == "" {
		s.version = "3.0.15"
	}
	if s.locale == "" {
		s.locale = "ja"
	}

	th := &testHost{
		em:         &fakeEntityManager{repo: newFakeRepo()},
		translator: i18n.NewTranslator(s.locale, nil),
	}
	opts := host.Options{
		Config:     s.config,
		Version:    host.MustParseVersion(s.version),
		Locale:     s.locale,
		Translator: th.translator,
	}
	if !s.noORM {
		opts.EntityManager = th.em
	}
	th.app = host.NewApplication(opts)

	popts := []Option{WithLegacyLogInit(func(*host.Container) error {
		th.logInits++
		return nil
	})}
	if s.fsys != nil {
		popts = append(popts, WithResources(s.fsys))
	}
	require.NoError(t, th.app.Register(NewProvider(popts...)))
	require.NoError(t, th.app.Boot())
	return th
}

func (th *testHost) c() *host.Container { return th.app.Container() }
