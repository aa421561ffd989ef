package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
)

func TestTraceMiddleware(t *testing.T) {
	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		// The request-scoped logger rides along in the context.
		assert.NotNil(t, logger.FromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()
	TraceMiddleware(nil)(next).ServeHTTP(rec, req)

	require.NotEmpty(t, traceID)
	assert.Len(t, traceID, shared.TraceIDLength*2) // hex characters
	assert.Equal(t, traceID, rec.Header().Get("X-Trace-ID"))
}
