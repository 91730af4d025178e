package internal

import (
	"net/http"
	"net/http/httptest"
	"reviewguard/internal/controllers"
	"reviewguard/internal/providers"
	"reviewguard/internal/services"
	"reviewguard/internal/spam"
	"reviewguard/internal/structures"
	"reviewguard/internal/testutil"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func routeTestConfig() *structures.Config {
	return &structures.Config{
		AppName: "ReviewGuard",
		Storage: structures.StorageConfig{Backend: "memory", KeyPrefix: "spam_protection"},
		Spam: structures.SpamConfig{
			RateLimit: structures.RateLimitConfig{MaxPerHour: 5, MaxPerDay: 10, WarnPerHour: 3, MinInterval: 10 * time.Second, Retention: 24 * time.Hour},
			Behavior: structures.BehaviorConfig{Window: time.Hour, MaxEntries: 10, RapidInterval: 10 * time.Second,
				SimilarityThreshold: 0.98, MinCommentLength: 10, IdenticalRatings: 2, PerfectRatings: 3},
			Content: structures.ContentConfig{MinCommentLength: 5, MaxCommentLength: 500, UppercaseRatio: 0.8},
			Device:  structures.DeviceConfig{Window: 30 * time.Minute, HistorySize: 10, MaxDistinctSignatures: 2},
		},
	}
}

type routeFixture struct {
	store   *testutil.MockStore
	metrics *testutil.MockMetrics
	handler http.Handler
	router  providers.RouterProviderInterface
}

func newRouteFixture() *routeFixture {
	conf := routeTestConfig()
	logger := &testutil.MockLogger{}
	f := &routeFixture{store: testutil.NewMockStore(), metrics: &testutil.MockMetrics{}}

	svc := services.NewSpamService(spam.NewChecker(f.store, conf, logger), logger, f.metrics)
	f.router = InitRoutes(controllers.NewApiController(logger, svc), conf)
	f.handler = NewHandler(controllers.NewHealthController(svc), conf, logger, f.router, f.metrics)
	return f
}

func (f *routeFixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

const routeCheckBody = `{"deviceId":"dev1","submission":{"bathroomId":"b-1","comment":"Clean and bright","userName":"alice","rating":4,"cleanliness":4,"privacy":5},"environment":{"userAgent":"agent/1"}}`

func TestInitRoutes_RegistersApiRoutes(t *testing.T) {
	routes := newRouteFixture().router.GetRoutes()
	require.Len(t, routes, 2)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}
	assert.ElementsMatch(t, []string{"/check", "/reset"}, urls)
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	f := newRouteFixture()
	assert.Equal(t, http.StatusMethodNotAllowed, f.do(http.MethodGet, "/check", "").Code)
	rr := f.do(http.MethodGet, "/reset", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.MethodPost, rr.Header().Get("Allow"))
}

func TestHandler_CheckThenFlagRepeat(t *testing.T) {
	f := newRouteFixture()

	rr := f.do(http.MethodPost, "/check", routeCheckBody)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(providers.RequestIDHeader))

	rr = f.do(http.MethodPost, "/check", routeCheckBody)
	require.Equal(t, http.StatusOK, rr.Code)
	var res map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, true, res["isSpam"])
	assert.Equal(t, spam.ReasonTooQuick, res["reason"])

	rr = f.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, float64(2), health["checks"])
	assert.Equal(t, float64(1), health["flagged"])
}

func TestHandler_ResetClearsDevice(t *testing.T) {
	f := newRouteFixture()

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/check", routeCheckBody).Code)
	assert.NotEmpty(t, f.store.Data)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPost, "/reset", `{"deviceId":"dev1","scope":"all"}`).Code)
	assert.Empty(t, f.store.Data)
}

func TestHandler_KeepsClientRequestID(t *testing.T) {
	f := newRouteFixture()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(providers.RequestIDHeader, "req-42")
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	assert.Equal(t, "req-42", rr.Header().Get(providers.RequestIDHeader))
}

func TestHandler_MetricsOnlyForApiRoutes(t *testing.T) {
	f := newRouteFixture()
	f.do(http.MethodPost, "/check", routeCheckBody)
	f.do(http.MethodGet, "/nope", "")
	f.do(http.MethodGet, "/health", "")
	assert.Equal(t, 2, f.metrics.RequestsTotal)
}

func TestHandler_MetricsEndpointDisabled(t *testing.T) {
	f := newRouteFixture()
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/metrics", "").Code)
}
