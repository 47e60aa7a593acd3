package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chronorise/internal/controllers"
	"chronorise/internal/engine"
	"chronorise/internal/services"
	"chronorise/internal/structures"
	"chronorise/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func routesConfig() *structures.Config {
	return &structures.Config{
		Clock:    structures.ClockConfig{TickInterval: time.Second},
		Alarms:   structures.AlarmsConfig{SnoozeFor: 5 * time.Minute},
		Briefing: structures.BriefingConfig{Timeout: time.Second},
	}
}

type routesCache struct{}

func (routesCache) Get(_ string) ([]byte, bool) { return nil, false }
func (routesCache) Set(_ string, _ []byte)      {}
func (routesCache) Del(_ string)                {}

func newRoutesMux(t *testing.T) *http.ServeMux {
	t.Helper()
	conf := routesConfig()
	logger := &testutil.MockLogger{}
	svc := services.NewAlarmService(&testutil.MockPersister{}, logger)
	ringer := engine.NewRinger(conf, logger, svc, &testutil.MockSound{}, &testutil.MockBriefer{}, &testutil.MockMetrics{})
	api := controllers.NewApiController(logger, svc, ringer, &testutil.MockSound{}, routesCache{})

	mux := http.NewServeMux()
	for _, route := range InitRoutes(api, conf).GetRoutes() {
		mux.Handle(route.Url, route.Handler)
	}
	return mux
}

func TestInitRoutes_RegistersAllEndpoints(t *testing.T) {
	conf := routesConfig()
	logger := &testutil.MockLogger{}
	svc := services.NewAlarmService(&testutil.MockPersister{}, logger)
	ringer := engine.NewRinger(conf, logger, svc, &testutil.MockSound{}, &testutil.MockBriefer{}, &testutil.MockMetrics{})
	api := controllers.NewApiController(logger, svc, ringer, &testutil.MockSound{}, routesCache{})

	routes := InitRoutes(api, conf).GetRoutes()
	require.Len(t, routes, 9)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}
	for _, want := range []string{"/list", "/create", "/update", "/toggle", "/delete", "/ringing", "/snooze", "/dismiss", "/unlock"} {
		assert.Contains(t, urls, want)
	}
}

func TestRoutes_MethodGuards(t *testing.T) {
	mux := newRoutesMux(t)

	cases := []struct {
		method string
		url    string
		want   int
	}{
		{http.MethodGet, "/list", http.StatusOK},
		{http.MethodPost, "/list", http.StatusMethodNotAllowed},
		{http.MethodGet, "/ringing", http.StatusOK},
		{http.MethodGet, "/create", http.StatusMethodNotAllowed},
		{http.MethodPost, "/dismiss", http.StatusNoContent},
		{http.MethodGet, "/dismiss", http.StatusMethodNotAllowed},
		{http.MethodPost, "/snooze", http.StatusNoContent},
		{http.MethodPost, "/unlock", http.StatusNoContent},
		{http.MethodGet, "/delete", http.StatusMethodNotAllowed},
		{http.MethodPost, "/delete", http.StatusMethodNotAllowed},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(c.method, c.url, nil))
		assert.Equal(t, c.want, rec.Code, "%s %s", c.method, c.url)
	}
}
