package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronin/secretvault/internal/models"
	handler "github.com/avoronin/secretvault/internal/server/handler/http"
)

// fakeSyncService records calls and returns preconfigured results.
type fakeSyncService struct {
	record  *models.SecretRecord
	records []models.SecretRecord
	results []models.SyncResult
	err     error

	receivedUserID int64
	receivedID     int64
	receivedOps    []models.SyncOperation
}

func (f *fakeSyncService) SyncBatch(_ context.Context, userID int64, ops []models.SyncOperation) ([]models.SyncResult, error) {
	f.receivedUserID = userID
	f.receivedOps = ops
	return f.results, f.err
}

func (f *fakeSyncService) CreateRecord(_ context.Context, userID int64, data models.RecordData) (*models.SecretRecord, error) {
	f.receivedUserID = userID
	return f.record, f.err
}

func (f *fakeSyncService) ListRecords(_ context.Context, userID int64) ([]models.SecretRecord, error) {
	f.receivedUserID = userID
	return f.records, f.err
}

func (f *fakeSyncService) UpdateRecord(_ context.Context, id int64, data models.RecordData) (*models.SecretRecord, error) {
	f.receivedID = id
	return f.record, f.err
}

func (f *fakeSyncService) DeleteRecord(_ context.Context, id int64) error {
	f.receivedID = id
	return f.err
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateRecord_Handler_Success(t *testing.T) {
	fake := &fakeSyncService{record: &models.SecretRecord{ID: 10, UserID: 1, Title: "GitHub"}}
	h := handler.NewRecordHandler(fake)

	w := postJSON(t, h.Create, "/api/passwords", map[string]any{
		"user_id": 1,
		"title":   "GitHub",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	require.NotNil(t, body["password"])
	assert.Equal(t, int64(1), fake.receivedUserID)
}

func TestCreateRecord_Handler_MissingTitle(t *testing.T) {
	h := handler.NewRecordHandler(&fakeSyncService{})

	w := postJSON(t, h.Create, "/api/passwords", map[string]any{
		"user_id": 1,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRecords_Handler(t *testing.T) {
	fake := &fakeSyncService{records: []models.SecretRecord{
		{ID: 2, UserID: 1, Title: "Newer"},
		{ID: 1, UserID: 1, Title: "Older"},
	}}
	h := handler.NewRecordHandler(fake)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/passwords/user/1", nil), "userID", "1")
	w := httptest.NewRecorder()
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	passwords, ok := body["passwords"].([]any)
	require.True(t, ok)
	assert.Len(t, passwords, 2)
	assert.Equal(t, int64(1), fake.receivedUserID)
}

func TestListRecords_Handler_EmptyListIsNotNull(t *testing.T) {
	h := handler.NewRecordHandler(&fakeSyncService{})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/passwords/user/1", nil), "userID", "1")
	w := httptest.NewRecorder()
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	passwords, ok := body["passwords"].([]any)
	require.True(t, ok)
	assert.Empty(t, passwords)
}

func TestListRecords_Handler_BadUserID(t *testing.T) {
	h := handler.NewRecordHandler(&fakeSyncService{})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/passwords/user/abc", nil), "userID", "abc")
	w := httptest.NewRecorder()
	h.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateRecord_Handler_NotFound(t *testing.T) {
	fake := &fakeSyncService{err: models.ErrRecordNotFound}
	h := handler.NewRecordHandler(fake)

	b, _ := json.Marshal(map[string]any{"title": "Renamed"})
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/passwords/5", bytes.NewReader(b)), "id", "5")
	w := httptest.NewRecorder()
	h.Update(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(5), fake.receivedID)
}

func TestUpdateRecord_Handler_Success(t *testing.T) {
	fake := &fakeSyncService{record: &models.SecretRecord{ID: 5, UserID: 1, Title: "Renamed"}}
	h := handler.NewRecordHandler(fake)

	b, _ := json.Marshal(map[string]any{"title": "Renamed"})
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/passwords/5", bytes.NewReader(b)), "id", "5")
	w := httptest.NewRecorder()
	h.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
}

func TestDeleteRecord_Handler_Success(t *testing.T) {
	fake := &fakeSyncService{}
	h := handler.NewRecordHandler(fake)

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/passwords/5", nil), "id", "5")
	w := httptest.NewRecorder()
	h.Delete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), fake.receivedID)
}

func TestSync_Handler_BadJSON(t *testing.T) {
	h := handler.NewRecordHandler(&fakeSyncService{})

	req := httptest.NewRequest(http.MethodPost, "/api/passwords/sync", bytes.NewBufferString("not-a-json"))
	w := httptest.NewRecorder()
	h.Sync(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSync_Handler_InvalidEnvelope(t *testing.T) {
	fake := &fakeSyncService{err: models.ErrInvalidSyncRequest}
	h := handler.NewRecordHandler(fake)

	w := postJSON(t, h.Sync, "/api/passwords/sync", map[string]any{
		"user_id": 0,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSync_Handler_Success(t *testing.T) {
	wantResults := []models.SyncResult{
		{Operation: models.OpCreate, Success: true, Record: &models.SecretRecord{ID: 1}},
		{Operation: models.OpDelete, Success: true},
	}
	fake := &fakeSyncService{results: wantResults}
	h := handler.NewRecordHandler(fake)

	w := postJSON(t, h.Sync, "/api/passwords/sync", map[string]any{
		"user_id": 1,
		"passwords": []map[string]any{
			{"operation": "CREATE", "mobile_id": 7, "data": map[string]any{"title": "t"}},
			{"operation": "DELETE", "mobile_id": 8},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	results, ok := body["results"].([]any)
	require.True(t, ok)
	assert.Len(t, results, 2)

	assert.Equal(t, int64(1), fake.receivedUserID)
	require.Len(t, fake.receivedOps, 2)
	assert.Equal(t, models.OpCreate, fake.receivedOps[0].Operation)
	require.NotNil(t, fake.receivedOps[0].MobileID)
	assert.Equal(t, int64(7), *fake.receivedOps[0].MobileID)
}
