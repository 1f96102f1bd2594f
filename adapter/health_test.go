package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgevision/detshm/pkg/detshm"
)

func TestHealthHandlerReadiness(t *testing.T) {
	opts := detshm.Options{Dir: t.TempDir(), Name: "detections"}
	h := NewHealthHandler(opts)

	// writer has not run: alive but not ready
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	h.ReadyEndpoint(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/live", nil)
	rec = httptest.NewRecorder()
	h.LiveEndpoint(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Nil(t, detshm.Publish(context.Background(), opts, detshm.Batch{
		Detections: []detshm.Detection{{ClassID: 1, Confidence: 0.9}},
	}))

	req = httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec = httptest.NewRecorder()
	h.ReadyEndpoint(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
