package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var response HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	return response
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	cases := map[string]struct {
		pingErr    error
		wantCode   int
		wantStatus string
	}{
		"healthy database":          {pingErr: nil, wantCode: http.StatusOK, wantStatus: "healthy"},
		"database connection error": {pingErr: sql.ErrConnDone, wantCode: http.StatusServiceUnavailable, wantStatus: "unhealthy"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db, mock := newHealthTestDB(t)
			db.SetMaxOpenConns(10)
			mock.ExpectPing().WillReturnError(tc.pingErr)

			rec := serve(&HealthHandler{DB: db, Version: "1.2.3"}, "/health")
			assert.Equal(t, tc.wantCode, rec.Code)

			response := decodeHealth(t, rec)
			assert.Equal(t, tc.wantStatus, response.Status)
			assert.Equal(t, "1.2.3", response.Version)
			assert.NotEmpty(t, response.Timestamp)
			assert.Contains(t, response.Checks, "database")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHealthHandler_NoDatabaseConfigured(t *testing.T) {
	rec := serve(&HealthHandler{Version: "1.2.3"}, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	response := decodeHealth(t, rec)
	assert.Equal(t, "unhealthy", response.Status)
	assert.Equal(t, "not configured", response.Checks["database"].Message)
}

func TestHealthHandler_UnboundedPoolDegrades(t *testing.T) {
	db, mock := newHealthTestDB(t)
	db.SetMaxOpenConns(0)
	mock.ExpectPing()

	rec := serve(&HealthHandler{DB: db, Version: "1.2.3"}, "/health")

	// Degraded is still operational: overall status stays healthy with 200.
	assert.Equal(t, http.StatusOK, rec.Code)
	response := decodeHealth(t, rec)
	assert.Equal(t, "healthy", response.Status)

	dbCheck := response.Checks["database"]
	assert.Equal(t, "degraded", dbCheck.Status)
	assert.Equal(t, "connection pool max connections not configured", dbCheck.Message)
	assert.NotContains(t, dbCheck.Details, "utilization_percent")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthHandler_ReportsPoolUtilization(t *testing.T) {
	db, mock := newHealthTestDB(t)
	db.SetMaxOpenConns(10)
	mock.ExpectPing()

	rec := serve(&HealthHandler{DB: db, Version: "1.2.3"}, "/health")

	dbCheck := decodeHealth(t, rec).Checks["database"]
	assert.Equal(t, "healthy", dbCheck.Status)
	// No connections are in use during the test, so utilization is zero.
	assert.Equal(t, float64(0), dbCheck.Details["utilization_percent"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthHandler_ResponseHeaders(t *testing.T) {
	db, mock := newHealthTestDB(t)
	mock.ExpectPing()

	rec := serve(&HealthHandler{DB: db, Version: "1.2.3"}, "/health")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadyHandler_ServeHTTP(t *testing.T) {
	cases := map[string]struct {
		pingErr  error
		wantCode int
		wantBody string
	}{
		"ready":              {pingErr: nil, wantCode: http.StatusOK, wantBody: "ready"},
		"database not ready": {pingErr: sql.ErrConnDone, wantCode: http.StatusServiceUnavailable},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db, mock := newHealthTestDB(t)
			mock.ExpectPing().WillReturnError(tc.pingErr)

			rec := serve(&ReadyHandler{DB: db}, "/ready")
			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, rec.Body.String())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReadyHandler_NoDatabaseConfigured(t *testing.T) {
	rec := serve(&ReadyHandler{}, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database not configured")
}

func TestReadyHandler_SlowPingTimesOut(t *testing.T) {
	db, mock := newHealthTestDB(t)
	mock.ExpectPing().WillDelayFor(3 * time.Second)

	rec := serve(&ReadyHandler{DB: db}, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLiveHandler_ServeHTTP(t *testing.T) {
	rec := serve(&LiveHandler{}, "/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}
