package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/shiv060600/Tuttle-Tools/internal/config"
	"github.com/shiv060600/Tuttle-Tools/internal/repository"
	"github.com/shiv060600/Tuttle-Tools/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	h    *Handler
	db   *gorm.DB
	gate *services.BusinessHoursGate
	r    *gin.Engine
}

func testConfig() config.Config {
	return config.Config{
		AppEnv:             "test",
		SessionSecret:      "test-secret-12345678901234567890123456789012",
		SessionTTL:         8 * time.Hour,
		AdminUser:          "admin",
		AdminPass:          "s3cret",
		MappingTable:       "crossref",
		IPSMappingTable:    "ips_crossref",
		CustomerTable:      "arcus",
		MappingLogTable:    "mapping_log",
		IPSMappingLogTable: "ips_mapping_log",
		BookTable:          "book_details",
		BackorderTable:     "backorder_report",
		InventoryTable:     "ips_inv",
		ItemTable:          "icitem",
		BookCacheTTL:       time.Minute,
	}
}

// setupTestHandler wires the full stack over an in-memory sqlite database with
// the clock at 10:00, outside the blocked window.
func setupTestHandler(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	cfg := testConfig()
	require.NoError(t, repository.AutoMigrate(db, cfg))

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	gw := repository.NewGateway(db, logger)
	gate := services.NewBusinessHoursGate()
	gate.Now = clockAt(10)

	h := NewHandler(
		cfg,
		logger,
		gw,
		services.DefaultMappingTypes(cfg),
		services.NewMappingService(gw, gate, cfg.CustomerTable, logger),
		services.NewAuditService(gw, logger),
		services.NewBookService(gw, nil, cfg.BookCacheTTL, cfg.BookTable, cfg.BackorderTable, logger),
		services.NewReportService(gw, cfg.InventoryTable, cfg.ItemTable, logger),
		services.NewAdminAuthenticator(cfg.AdminUser, cfg.AdminPass, cfg.AdminPassHash),
	)

	gin.SetMode(gin.TestMode)
	r := h.SetupRouter(nil, NewSessionStore(cfg))
	return &testEnv{h: h, db: db, gate: gate, r: r}
}

func clockAt(hour int) func() time.Time {
	ts := time.Date(2024, time.March, 4, hour, 0, 0, 0, time.Local)
	return func() time.Time { return ts }
}

func (e *testEnv) do(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req, _ := http.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

// login returns the session cookie of a successful admin login, sent with the
// given cookies.
func (e *testEnv) login(t *testing.T, cookies ...*http.Cookie) *http.Cookie {
	t.Helper()
	w := e.do("POST", "/api/auth/login", map[string]string{"username": "admin", "password": "s3cret"}, cookies...)
	require.Equal(t, http.StatusOK, w.Code)
	c := sessionCookieOf(w)
	require.NotNil(t, c, "no session cookie")
	return c
}

// sessionCookieOf returns the last live session cookie set by the response.
func sessionCookieOf(w *httptest.ResponseRecorder) *http.Cookie {
	var out *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" && c.MaxAge >= 0 {
			out = c
		}
	}
	return out
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}
