package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photodedup/config"
	"photodedup/pipeline"
	"photodedup/thumbs"
	"photodedup/workers"
)

func newTestHandlers(t *testing.T) (*ScanHandler, *GroupHandler) {
	t.Helper()
	coordinator := pipeline.NewCoordinator(
		thumbs.New(t.TempDir(), 160),
		workers.NewHashEngine(2, nil),
	)
	cfg := config.Config{SimilarityThreshold: 10}
	return &ScanHandler{Coordinator: coordinator, Cfg: cfg}, &GroupHandler{Coordinator: coordinator}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestStartScanMissingDirectory(t *testing.T) {
	scan, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/scan",
		strings.NewReader(`{"directory": "/nonexistent/photos"}`))
	rec := httptest.NewRecorder()
	scan.StartScan(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errBody APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	require.Len(t, errBody.Errors, 1)
	assert.Equal(t, "invalid_directory", errBody.Errors[0].Code)
}

func TestStartScanInvalidBody(t *testing.T) {
	scan, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	scan.StartScan(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartScanEmptyDirectoryRunsToDone(t *testing.T) {
	scan, _ := newTestHandlers(t)
	dir := t.TempDir()

	req := httptest.NewRequest(http.MethodPost, "/api/scan",
		strings.NewReader(`{"directory": "`+dir+`"}`))
	rec := httptest.NewRecorder()
	scan.StartScan(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "started", decodeBody(t, rec)["status"])

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if scan.Coordinator.Snapshot().Status.Terminal() {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, pipeline.StatusDone, scan.Coordinator.Snapshot().Status)
}

func TestStatusReportsIdle(t *testing.T) {
	scan, _ := newTestHandlers(t)

	rec := httptest.NewRecorder()
	scan.Status(rec, httptest.NewRequest(http.MethodGet, "/api/scan/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "idle", body["status"])
	assert.Equal(t, float64(0), body["progress"])
}

func TestGroupsBeforeDone(t *testing.T) {
	_, groups := newTestHandlers(t)

	rec := httptest.NewRecorder()
	groups.Groups(rec, httptest.NewRequest(http.MethodGet, "/api/groups", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendationsBeforeDone(t *testing.T) {
	_, groups := newTestHandlers(t)

	rec := httptest.NewRecorder()
	groups.Recommendations(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendationsNotFoundAfterEmptyScan(t *testing.T) {
	scan, groups := newTestHandlers(t)

	// empty scan: done with zero photos and no recommendations computed
	require.NoError(t, scan.Coordinator.Start(pipeline.ScanRequest{Directory: t.TempDir(), Threshold: 10}))
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if scan.Coordinator.Snapshot().Status.Terminal() {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	rec := httptest.NewRecorder()
	groups.Recommendations(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// groups itself is queryable and empty
	rec = httptest.NewRecorder()
	groups.Groups(rec, httptest.NewRequest(http.MethodGet, "/api/groups", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeBody(t, rec)["total"])
}

func TestResetEndpoint(t *testing.T) {
	scan, _ := newTestHandlers(t)

	rec := httptest.NewRecorder()
	scan.Reset(rec, httptest.NewRequest(http.MethodPost, "/api/reset", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "reset", decodeBody(t, rec)["status"])
	assert.Equal(t, pipeline.StatusIdle, scan.Coordinator.Snapshot().Status)
}
