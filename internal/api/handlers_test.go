package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopwire/content-engine/internal/database"
	"github.com/shopwire/content-engine/internal/domain"
	"github.com/shopwire/content-engine/internal/resolver"
)

type fakeResolver struct {
	records  []domain.ContentRecord
	names    []string
	err      error
	lastReq  resolver.Request
	lastPage string
}

func (f *fakeResolver) ResolvePage(_ context.Context, req resolver.Request) ([]domain.ContentRecord, error) {
	f.lastReq = req
	return f.records, f.err
}

func (f *fakeResolver) ResolveCategory(_ context.Context, req resolver.Request) ([]domain.ContentRecord, error) {
	f.lastReq = req
	return f.records, f.err
}

func (f *fakeResolver) PageCategories(_ context.Context, page string) ([]string, error) {
	f.lastPage = page
	return f.names, f.err
}

type fakePinger struct {
	err error
}

func (f *fakePinger) PingContext(context.Context) error { return f.err }

func newTestRouter(engine ContentResolver, pinger Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(engine, pinger, nil, "content-engine", "test")
	SetupRoutes(router, handler, nil)
	return router
}

func doGet(router *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestContentByPage(t *testing.T) {
	engine := &fakeResolver{records: []domain.ContentRecord{{ID: 1, Name: "Noise Buds"}}}
	router := newTestRouter(engine, nil)

	w := doGet(router, "/api/content/page/value-picks")

	require.Equal(t, http.StatusOK, w.Code)
	var records []domain.ContentRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Noise Buds", records[0].Name)
	assert.Equal(t, "value-picks", engine.lastReq.Page)
}

func TestContentByPageEmptyIsWellFormedArray(t *testing.T) {
	engine := &fakeResolver{records: []domain.ContentRecord{}}
	router := newTestRouter(engine, nil)

	w := doGet(router, "/api/content/page/value-picks")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestContentByPageBlankParam(t *testing.T) {
	router := newTestRouter(&fakeResolver{}, nil)

	w := doGet(router, "/api/content/page/%20")

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, CodeInvalidParameters, resp.Code)
}

func TestContentByPageParameterParsing(t *testing.T) {
	engine := &fakeResolver{}
	router := newTestRouter(engine, nil)

	w := doGet(router, "/api/content/page/deals?category=Fashion&gender=women&limit=500&offset=-3&rotate=true&interval=120")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Fashion", engine.lastReq.Category)
	assert.Equal(t, "women", engine.lastReq.Gender)
	assert.Equal(t, resolver.MaxLimit, engine.lastReq.Limit)
	assert.Equal(t, 0, engine.lastReq.Offset)
	assert.True(t, engine.lastReq.Rotate)
	assert.Equal(t, 120*time.Second, engine.lastReq.Interval)
}

func TestContentByPageDefaults(t *testing.T) {
	engine := &fakeResolver{}
	router := newTestRouter(engine, nil)

	w := doGet(router, "/api/content/page/deals?limit=junk")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, resolver.DefaultLimit, engine.lastReq.Limit)
	assert.False(t, engine.lastReq.Rotate)
	assert.Equal(t, resolver.DefaultRotateInterval, engine.lastReq.Interval)
}

func TestContentByCategory(t *testing.T) {
	engine := &fakeResolver{records: []domain.ContentRecord{{ID: 2, Category: "Electronics"}}}
	router := newTestRouter(engine, nil)

	w := doGet(router, "/api/content/category/Electronics")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Electronics", engine.lastReq.Category)
}

func TestDatabaseErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "busy maps to 503 with retry hint",
			err:        errors.Join(database.ErrBusy, errors.New("database is locked")),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   CodeServiceUnavailable,
		},
		{
			name:       "corruption maps to 500 with distinct code",
			err:        errors.Join(database.ErrCorrupt, errors.New("malformed")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeDatabaseCorruption,
		},
		{
			name:       "anything else maps to generic database error",
			err:        errors.New("disk I/O error"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeDatabaseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeResolver{err: tt.err}, nil)

			w := doGet(router, "/api/content/category/Electronics")

			require.Equal(t, tt.wantStatus, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
			if tt.wantCode == CodeServiceUnavailable {
				assert.Equal(t, 1000, resp.RetryAfter)
			}
		})
	}
}

func TestCategoriesByPage(t *testing.T) {
	engine := &fakeResolver{names: []string{"Electronics", "Fashion"}}
	router := newTestRouter(engine, nil)

	w := doGet(router, "/api/categories/page/value-picks")

	require.Equal(t, http.StatusOK, w.Code)
	var names []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &names))
	assert.Equal(t, []string{"Electronics", "Fashion"}, names)
	assert.Equal(t, "value-picks", engine.lastPage)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&fakeResolver{}, nil)

	w := doGet(router, "/health")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.Contains(t, w.Body.String(), "content-engine")
}

func TestReadyCheck(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		router := newTestRouter(&fakeResolver{}, &fakePinger{})
		w := doGet(router, "/ready")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("database unreachable", func(t *testing.T) {
		router := newTestRouter(&fakeResolver{}, &fakePinger{err: errors.New("unable to open database file")})
		w := doGet(router, "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
