package host

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type echoController struct{}

func (echoController) Action(name string) (http.HandlerFunc, bool) {
	if name != "Echo" {
		return nil, false
	}
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Method + " " + r.URL.Path))
	}, true
}

func newTestRouter(t *testing.T) (*Container, *Router) {
	t.Helper()
	c := NewContainer()
	c.Share("ctrl", func(*Container) (any, error) { return echoController{}, nil })
	return c, NewRouter(c)
}

func TestRouteCollection_RequireHTTPS(t *testing.T) {
	rc := NewRouteCollection()
	before := rc.Match("/a", "ctrl::Echo")
	rc.RequireHTTPS()
	after := rc.Match("/b", "ctrl::Echo")

	require.True(t, before.HTTPS)
	require.True(t, after.HTTPS)
	require.Len(t, rc.Routes(), 2)
}

func TestRouter_MountJoinsWithOneSlash(t *testing.T) {
	tests := []struct {
		prefix, path, want string
	}{
		{"/admin/", "/x", "/admin/x"},
		{"/admin", "/x", "/admin/x"},
		{"/admin/", "x", "/admin/x"},
		{"//", "/x", "/x"},
	}
	for _, tt := range tests {
		_, rt := newTestRouter(t)
		rc := NewRouteCollection()
		rc.Match(tt.path, "ctrl::Echo").Bind("r")
		rt.Mount(tt.prefix, rc)

		got, err := rt.URL("r", nil)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "prefix %q path %q", tt.prefix, tt.path)
	}
}

func TestRouter_URL(t *testing.T) {
	_, rt := newTestRouter(t)
	rc := NewRouteCollection()
	rc.Match("/dl", "ctrl::Echo").Bind("dl")
	rt.Mount("/admin/", rc)

	got, err := rt.URL("dl", url.Values{"ids": {"1,2"}})
	require.NoError(t, err)
	require.Equal(t, "/admin/dl?ids=1%2C2", got)

	_, err = rt.URL("missing", nil)
	require.ErrorIs(t, err, ErrUnknownRoute)
}

func TestRouter_HandlerDispatchesAnyMethod(t *testing.T) {
	_, rt := newTestRouter(t)
	rc := NewRouteCollection()
	rc.Match("/plugin/x", "ctrl::Echo").Bind("x")
	rt.Mount("/admin/", rc)

	reg := prometheus.NewRegistry()
	h, err := rt.Handler(reg)
	require.NoError(t, err)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, "/admin/plugin/x", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, method+" /admin/plugin/x", rec.Body.String())
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/plugin/y", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	series, err := testutil.GatherAndCount(reg, "host_route_requests_total")
	require.NoError(t, err)
	require.Equal(t, 1, series)
}

func TestRouter_HTTPSRedirect(t *testing.T) {
	_, rt := newTestRouter(t)
	rc := NewRouteCollection()
	rc.RequireHTTPS()
	rc.Match("/secure", "ctrl::Echo").Bind("secure")
	rt.Mount("/", rc)

	h, err := rt.Handler(nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://shop.test/secure?a=1", nil))
	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	require.Equal(t, "https://shop.test/secure?a=1", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.TLS = &tls.ConnectionState{}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_DuplicatesDetectedAtHandler(t *testing.T) {
	_, rt := newTestRouter(t)
	a := NewRouteCollection()
	a.Match("/a", "ctrl::Echo").Bind("same")
	b := NewRouteCollection()
	b.Match("/b", "ctrl::Echo").Bind("same")
	rt.Mount("/", a)
	rt.Mount("/", b) // mounting does not check

	_, err := rt.Handler(nil)
	require.ErrorIs(t, err, ErrDuplicateRoute)

	_, rt = newTestRouter(t)
	rt.Mount("/", a)
	rt.Mount("/", a)
	_, err = rt.Handler(nil)
	require.ErrorIs(t, err, ErrDuplicateRoute)
}

func TestRouter_BadActions(t *testing.T) {
	_, rt := newTestRouter(t)
	rc := NewRouteCollection()
	rc.Match("/bad", "no-separator")
	rt.Mount("/", rc)
	_, err := rt.Handler(nil)
	require.ErrorIs(t, err, ErrBadAction)

	_, rt = newTestRouter(t)
	rc = NewRouteCollection()
	rc.Match("/unknown-action", "ctrl::Nope").Bind("ua")
	rc.Match("/unknown-service", "missing::Echo").Bind("us")
	rt.Mount("/", rc)
	h, err := rt.Handler(nil)
	require.NoError(t, err)

	for _, p := range []string{"/unknown-action", "/unknown-service"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code, p)
	}
}

func TestRouter_RejectsNonLiteralPaths(t *testing.T) {
	for _, prefix := range []string{"/my admin/", "/{x}/", "/adm}in/", "/tab\tadmin/"} {
		_, rt := newTestRouter(t)
		rc := NewRouteCollection()
		rc.Match("/plugin/x", "ctrl::Echo").Bind("x")
		rt.Mount(prefix, rc)

		var err error
		require.NotPanics(t, func() { _, err = rt.Handler(nil) }, prefix)
		require.ErrorIs(t, err, ErrBadRoute, prefix)
	}
}

func TestValidatePath(t *testing.T) {
	require.NoError(t, ValidatePath("/admin/plugin/order-pdf"))
	require.NoError(t, ValidatePath("/shop-1/console_2/x.y"))
	require.ErrorIs(t, ValidatePath("admin/x"), ErrBadRoute)
	require.ErrorIs(t, ValidatePath("/a b"), ErrBadRoute)
	require.ErrorIs(t, ValidatePath("/{id}"), ErrBadRoute)
}
