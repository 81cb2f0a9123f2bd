package middleware

import (
	"net/http"
	"testing"

	"github.com/findash/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer installs a recording tracer provider for the test.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(t.Context())
	})
	return sr
}

func tracedRouter(cfg TracingConfig) *gin.Engine {
	router := gin.New()
	router.Use(
		RequestID(),
		TracingWithConfig(cfg),
		Authenticate(AuthConfig{Resolver: testResolver()}),
		TracingAttributeInjector(),
		SpanErrorMarker(),
	)
	router.GET("/api/v1/budgets", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/api/v1/users", RequireAuth(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/api/v1/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/login", func(c *gin.Context) { c.Redirect(http.StatusFound, "/home") })
	return router
}

func spanNamed(t *testing.T, sr *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, span := range sr.Ended() {
		if span.Name() == name {
			return span
		}
	}
	require.Failf(t, "span not found", "no span named %q", name)
	return nil
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[string]string {
	attrs := map[string]string{}
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	return attrs
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	sr := setupTestTracer(t)
	router := tracedRouter(TracingConfig{Enabled: false})

	w := doGet(router, "/api/v1/budgets", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_TagsRequestAndPrincipal(t *testing.T) {
	sr := setupTestTracer(t)
	router := tracedRouter(DefaultTracingConfig())

	doGet(router, "/api/v1/budgets", func(r *http.Request) {
		r.Header.Set(RequestIDHeader, "req-42")
		bearer("finance-token")(r)
	})

	attrs := spanAttrs(spanNamed(t, sr, "GET /api/v1/budgets"))
	assert.Equal(t, "req-42", attrs[SpanAttrRequestID])
	assert.Equal(t, financePrincipal.ID.String(), attrs[SpanAttrUserID])
	assert.Equal(t, "FINANCE", attrs[telemetry.AttrRole])
}

func TestTracing_AnonymousHasNoUser(t *testing.T) {
	sr := setupTestTracer(t)
	router := tracedRouter(DefaultTracingConfig())

	doGet(router, "/api/v1/budgets", nil)

	attrs := spanAttrs(spanNamed(t, sr, "GET /api/v1/budgets"))
	assert.NotEmpty(t, attrs[SpanAttrRequestID])
	assert.NotContains(t, attrs, SpanAttrUserID)
}

func TestTracing_SkipsProbes(t *testing.T) {
	sr := setupTestTracer(t)
	router := tracedRouter(DefaultTracingConfig())

	doGet(router, "/healthz", nil)

	assert.Empty(t, sr.Ended())
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		route   string
		failed  bool
		wantErr string
	}{
		// otelgin finalizes 5xx status itself, so only the code is checked
		{"server error", "/api/v1/fail", "GET /api/v1/fail", true, ""},
		{"unauthorized", "/api/v1/users", "GET /api/v1/users", true, "Unauthorized"},
		{"redirect is not an error", "/login", "GET /login", false, ""},
		{"success", "/api/v1/budgets", "GET /api/v1/budgets", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := setupTestTracer(t)
			router := tracedRouter(DefaultTracingConfig())

			doGet(router, tt.path, nil)

			span := spanNamed(t, sr, tt.route)
			if !tt.failed {
				assert.NotEqual(t, codes.Error, span.Status().Code)
				return
			}
			assert.Equal(t, codes.Error, span.Status().Code)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, span.Status().Description)
			}
		})
	}
}

func TestSpanErrorMessage(t *testing.T) {
	assert.Equal(t, "Forbidden", spanErrorMessage(http.StatusForbidden))
	assert.Equal(t, "Not Found", spanErrorMessage(http.StatusNotFound))
	assert.Equal(t, "Too Many Requests", spanErrorMessage(http.StatusTooManyRequests))
	assert.Equal(t, "Client Error", spanErrorMessage(http.StatusConflict))
	assert.Equal(t, "Internal Server Error", spanErrorMessage(http.StatusServiceUnavailable))
}
