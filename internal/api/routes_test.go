package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nsvirk/nsegateway/internal/api/middleware"
	"github.com/nsvirk/nsegateway/internal/metrics"
	"github.com/nsvirk/nsegateway/internal/nse"
	"github.com/nsvirk/nsegateway/internal/repository"
	"github.com/nsvirk/nsegateway/internal/service"
)

// upstream fakes the NSE site: "/" hands out a cookie, API paths answer with
// the status returned by apiStatus and echo the path back in the body
type upstream struct {
	rootCalls atomic.Int32
	apiCalls  atomic.Int32
	apiStatus int
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		u.rootCalls.Add(1)
		http.SetCookie(w, &http.Cookie{Name: "nsit", Value: "abc", Path: "/"})
		return
	}
	u.apiCalls.Add(1)
	if u.apiStatus != http.StatusOK {
		w.WriteHeader(u.apiStatus)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"path":"` + r.URL.Path + `","symbol":"` + r.URL.Query().Get("symbol") + `"}`))
}

func newGateway(t *testing.T, up *upstream) (*echo.Echo, *metrics.Metrics) {
	t.Helper()
	server := httptest.NewServer(up)
	t.Cleanup(server.Close)

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	client := nse.NewClient(server.URL, time.Second, nse.StaticUserAgent("Mozilla/5.0 (test)"))
	dispatcher := nse.NewDispatcher(nse.NewCookieSessionProvider(client), client, nse.WithObserver(m))
	proxy := service.NewProxyService(dispatcher, m)

	e := echo.New()
	middleware.SetupCORSMiddleware(e, []string{"http://localhost:5173"})
	SetupRoutes(e, Deps{
		Proxy:    proxy,
		Stats:    repository.NewStatsRepository(nil),
		Gatherer: reg,
	})
	return e, m
}

func get(e *echo.Echo, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMissingIdentifierMakesNoUpstreamCalls(t *testing.T) {
	up := &upstream{apiStatus: http.StatusOK}
	e, _ := newGateway(t, up)

	for _, target := range []string{"/", "/api/equity/", "/api/equity"} {
		rec := get(e, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", target, rec.Code)
		}
		if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"Invalid request. No identifier was given."}` {
			t.Errorf("%s: body = %s", target, body)
		}
	}
	if up.rootCalls.Load() != 0 || up.apiCalls.Load() != 0 {
		t.Errorf("upstream called: root=%d api=%d", up.rootCalls.Load(), up.apiCalls.Load())
	}
}

func TestRoutesPassPayloadThrough(t *testing.T) {
	up := &upstream{apiStatus: http.StatusOK}
	e, _ := newGateway(t, up)

	tests := []struct {
		target string
		want   string
	}{
		{"/?identifier=nifty", `{"path":"/api/option-chain-indices","symbol":"NIFTY"}`},
		{"/?identifier=Reliance", `{"path":"/api/option-chain-equities","symbol":"RELIANCE"}`},
		{"/api/equity/?identifier=infy", `{"path":"/api/quote-equity","symbol":"INFY"}`},
		{"/api/marketStatus/", `{"path":"/api/marketStatus","symbol":""}`},
		{"/api/marketStatus", `{"path":"/api/marketStatus","symbol":""}`},
	}
	for _, tt := range tests {
		rec := get(e, tt.target)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d", tt.target, rec.Code)
			continue
		}
		if rec.Body.String() != tt.want {
			t.Errorf("%s: body = %s, want %s", tt.target, rec.Body.String(), tt.want)
		}
	}
}

func TestPersistentFailureMakesExactlyMaxAttempts(t *testing.T) {
	up := &upstream{apiStatus: http.StatusServiceUnavailable}
	e, m := newGateway(t, up)

	rec := get(e, "/?identifier=BANKNIFTY")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"Proxy request failed."}` {
		t.Errorf("body = %s", body)
	}
	if up.rootCalls.Load() != nse.DefaultMaxAttempts || up.apiCalls.Load() != nse.DefaultMaxAttempts {
		t.Errorf("root=%d api=%d, want %d each", up.rootCalls.Load(), up.apiCalls.Load(), nse.DefaultMaxAttempts)
	}

	metricsRec := get(e, "/metrics")
	if !strings.Contains(metricsRec.Body.String(), `nse_gateway_dispatch_total{kind="option_chain",outcome="failure"} 1`) {
		t.Errorf("metrics missing failure count:\n%s", metricsRec.Body.String())
	}
	if n := testutil.ToFloat64(m.AttemptFailures.WithLabelValues("option_chain", "fetch")); n != nse.DefaultMaxAttempts {
		t.Errorf("failed fetch attempts = %v", n)
	}
}

func TestMarketStatusFailure(t *testing.T) {
	up := &upstream{apiStatus: http.StatusForbidden}
	e, _ := newGateway(t, up)

	rec := get(e, "/api/marketStatus/?identifier=ignored")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestCORSAllowList(t *testing.T) {
	up := &upstream{apiStatus: http.StatusOK}
	e, _ := newGateway(t, up)

	rec := get(e, "/api/marketStatus/", echo.HeaderOrigin, "http://localhost:5173")
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "http://localhost:5173" {
		t.Errorf("allowed origin header = %q", got)
	}

	rec = get(e, "/api/marketStatus/", echo.HeaderOrigin, "http://evil.example")
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "" {
		t.Errorf("unlisted origin got %q", got)
	}
}

func TestStatsWithoutRedis(t *testing.T) {
	e, _ := newGateway(t, &upstream{apiStatus: http.StatusOK})

	rec := get(e, "/api/stats/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"status":"success","data":{}}` {
		t.Errorf("body = %s", body)
	}
}
