package stock

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/gradevault-backend/api/middleware"
	internalstock "github.com/angelmondragon/gradevault-backend/internal/stock"
	"github.com/angelmondragon/gradevault-backend/pkg/db"
	"github.com/angelmondragon/gradevault-backend/pkg/db/dbtest"
	"github.com/angelmondragon/gradevault-backend/pkg/db/models"
	pkgredis "github.com/angelmondragon/gradevault-backend/pkg/redis"
)

func newStockRouter(t *testing.T) (http.Handler, *db.Client) {
	t.Helper()
	client := dbtest.New(t)
	svc, err := internalstock.NewService(internalstock.NewRepository(client.DB()), client, nil, 100)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Get("/api/admin/stock", List(svc, nil))
	r.Post("/api/admin/stock", Create(svc, nil))
	r.Patch("/api/admin/stock/{id}", Update(svc, nil))
	r.Delete("/api/admin/stock/{id}", Delete(svc, nil))
	r.With(middleware.Idempotency(newMemoryStore(), time.Hour, nil)).Post("/api/admin/stock/bulk", BulkImport(svc, nil))
	r.Get("/api/admin/stock/export", Export(svc, nil))
	return r, client
}

func do(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data any `json:"data"`
	}{Data: dest}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
}

func itemCount(t *testing.T, client *db.Client) int64 {
	t.Helper()
	var n int64
	require.NoError(t, client.DB().Model(&models.StockItem{}).Count(&n).Error)
	return n
}

func TestBulkImportEndpoint(t *testing.T) {
	h, client := newStockRouter(t)
	body := `[{"Title":"PSA 10 Charizard","Price":"450.00","Stock Count":2},{"Title":"BGS 9.5 Jordan","Price":120,"Stock Count":"9","Low Stock Threshold":""}]`

	rec := do(t, h, http.MethodPost, "/api/admin/stock/bulk", body, map[string]string{"Idempotency-Key": "import-1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result internalstock.ImportResult
	decodeData(t, rec, &result)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, "Successfully imported 2 items", result.Message)

	replay := do(t, h, http.MethodPost, "/api/admin/stock/bulk", body, map[string]string{"Idempotency-Key": "import-1"})
	require.Equal(t, http.StatusOK, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, rec.Body.String(), replay.Body.String())
	assert.Equal(t, int64(2), itemCount(t, client))
}

func TestBulkImportEndpointWithoutIdempotencyKey(t *testing.T) {
	h, client := newStockRouter(t)
	body := `[{"Title":"PSA 9 Pikachu","Price":"80","Stock Count":1}]`

	rec := do(t, h, http.MethodPost, "/api/admin/stock/bulk", body, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result internalstock.ImportResult
	decodeData(t, rec, &result)
	assert.Equal(t, "Successfully imported 1 items", result.Message)
	assert.Equal(t, int64(1), itemCount(t, client))
}

func TestBulkImportEndpointRejectsMalformedRows(t *testing.T) {
	h, client := newStockRouter(t)
	body := `[{"Title":"ok","Price":"1","Stock Count":1},{"Title":"","Price":"abc","Stock Count":1.5}]`

	rec := do(t, h, http.MethodPost, "/api/admin/stock/bulk", body, map[string]string{"Idempotency-Key": "import-2"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	var payload struct {
		Error struct {
			Code    string           `json:"code"`
			Message string           `json:"message"`
			Details []map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ROW_VALIDATION", payload.Error.Code)
	assert.True(t, strings.HasPrefix(payload.Error.Message, "row 1 is invalid"), payload.Error.Message)
	assert.Len(t, payload.Error.Details, 3)
	assert.Zero(t, itemCount(t, client))
}

func TestBulkImportEndpointRequiresArray(t *testing.T) {
	h, _ := newStockRouter(t)
	rec := do(t, h, http.MethodPost, "/api/admin/stock/bulk", `{"Title":"x"}`, map[string]string{"Idempotency-Key": "import-3"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/admin/stock/bulk", `[]`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStockCRUDEndpoints(t *testing.T) {
	h, client := newStockRouter(t)

	rec := do(t, h, http.MethodPost, "/api/admin/stock", `{"title":"Sleeves","price":"4.99","stock_count":3}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created internalstock.ItemDTO
	decodeData(t, rec, &created)
	assert.True(t, created.IsLowStock)
	assert.Equal(t, 5, created.EffectiveThreshold)

	rec = do(t, h, http.MethodPatch, "/api/admin/stock/"+created.ID.String(), `{"stock_count":40}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated internalstock.ItemDTO
	decodeData(t, rec, &updated)
	assert.Equal(t, 40, updated.StockCount)
	assert.False(t, updated.IsLowStock)

	rec = do(t, h, http.MethodGet, "/api/admin/stock?low=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var low []internalstock.ItemDTO
	decodeData(t, rec, &low)
	assert.Empty(t, low)

	rec = do(t, h, http.MethodGet, "/api/admin/stock/export", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]any
	decodeData(t, rec, &rows)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 5, rows[0]["Low Stock Threshold"])

	rec = do(t, h, http.MethodDelete, "/api/admin/stock/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, itemCount(t, client))

	rec = do(t, h, http.MethodDelete, "/api/admin/stock/"+created.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPatchClearsLowStockThresholdWithNull(t *testing.T) {
	h, _ := newStockRouter(t)

	rec := do(t, h, http.MethodPost, "/api/admin/stock", `{"title":"Slab case","price":"9.50","stock_count":8,"low_stock_threshold":10}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item internalstock.ItemDTO
	decodeData(t, rec, &item)
	require.NotNil(t, item.LowStockThreshold)
	assert.True(t, item.IsLowStock)
	path := "/api/admin/stock/" + item.ID.String()

	rec = do(t, h, http.MethodPatch, path, `{"title":"Slab case XL"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeData(t, rec, &item)
	require.NotNil(t, item.LowStockThreshold, "absent field must leave the threshold alone")
	assert.Equal(t, 10, *item.LowStockThreshold)

	rec = do(t, h, http.MethodPatch, path, `{"low_stock_threshold":null}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var cleared internalstock.ItemDTO
	decodeData(t, rec, &cleared)
	assert.Nil(t, cleared.LowStockThreshold)
	assert.Equal(t, 5, cleared.EffectiveThreshold)
	assert.False(t, cleared.IsLowStock)

	rec = do(t, h, http.MethodPatch, path, `{"low_stock_threshold":-1}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPatch, path, `{"low_stock_threshold":"ten"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStockEndpointsValidateInput(t *testing.T) {
	h, _ := newStockRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"missing title", http.MethodPost, "/api/admin/stock", `{"price":"1","stock_count":1}`},
		{"negative count", http.MethodPost, "/api/admin/stock", `{"title":"x","price":"1","stock_count":-1}`},
		{"unknown field", http.MethodPost, "/api/admin/stock", `{"title":"x","price":"1","stock_count":1,"sku":"a"}`},
		{"bad id", http.MethodPatch, "/api/admin/stock/not-a-uuid", `{}`},
		{"bad limit", http.MethodGet, "/api/admin/stock?limit=0", ""},
		{"bad low flag", http.MethodGet, "/api/admin/stock?low=maybe", ""},
	}
	for _, tt := range tests {
		rec := do(t, h, tt.method, tt.path, tt.body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.name)
	}
}

type memoryStore struct {
	data map[string]string
}

var _ pkgredis.IdempotencyStore = (*memoryStore)(nil)

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", pkgredis.ErrNotFound
	}
	return v, nil
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key], _ = value.(string)
	return true, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.data[key], _ = value.(string)
	return nil
}

func (m *memoryStore) IdempotencyKey(scope, id string) string {
	return "test:" + scope + ":" + id
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}
