package api

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"huertohogar_api/internal/config"
	"huertohogar_api/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a GORM handle backed by sqlmock
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return gdb, mock
}

// newTestRedis returns a client against an in-process miniredis
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

// testConfig returns a config with quotas high enough to stay out of the way
func testConfig() *config.Config {
	return &config.Config{
		AppPort:         "3000",
		JWTSecret:       "test-secret",
		JWTExpires:      time.Hour,
		CORSOrigins:     []string{"http://localhost:3000"},
		RateLimitMax:    10000,
		RateLimitWindow: time.Minute,
		AuthLimitMax:    10000,
		IsProd:          false,
	}
}

// newTestRouter builds the full engine against mocked dependencies
func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *redis.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, mock := newTestDB(t)
	rdb := newTestRedis(t)
	return NewRouter(db, rdb, testConfig()), mock, rdb
}

// envelope mirrors the API response shape for assertions
type envelope struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Data    map[string]json.RawMessage `json:"data"`
	Errors  json.RawMessage            `json:"errors"`
}

// doRequest performs a request against the engine and decodes the envelope
func doRequest(t *testing.T, r http.Handler, method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

// userColumns is the full usuarios column set in declaration order
var userColumns = []string{
	"id", "nombre", "apellido", "email", "password", "telefono",
	"direccion", "ciudad", "codigo_postal", "rol", "activo",
	"fecha_creacion", "fecha_actualizacion",
}

// userRow builds a sqlmock row for one user
func userRow(id uint, email, passwordHash, rol string, activo bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userColumns).AddRow(
		id, "Ana", "Pérez", email, passwordHash, nil, nil, nil, nil, rol, activo, now, now,
	)
}

// countRows starts a one-column rows set for count queries
func countRows() *sqlmock.Rows { return sqlmock.NewRows([]string{"count(*)"}) }

// emptyRows returns a rows set with no rows, for no-match lookups
func emptyRows(cols []string) *sqlmock.Rows { return sqlmock.NewRows(cols) }

// newResult is an exec result with the given insert id
func newResult(id int64) driver.Result { return sqlmock.NewResult(id, 1) }

// testToken issues a token signed with the test secret
func testToken(t *testing.T, id uint) string {
	t.Helper()
	token, err := utils.GenerateJWT(id, "auth@test.cl", "test-secret", time.Hour)
	require.NoError(t, err)
	return token
}

// expectAuthUser queues the live-user lookup the JWT middleware performs
func expectAuthUser(mock sqlmock.Sqlmock, id uint, rol string) {
	mock.ExpectQuery("SELECT \\* FROM `usuarios` WHERE id = \\? AND activo = \\?").
		WillReturnRows(userRow(id, "auth@test.cl", "x", rol, true))
}
