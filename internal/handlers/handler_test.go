package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kipko3ch/link-seav1/internal/config"
	"github.com/kipko3ch/link-seav1/internal/models"
	"github.com/kipko3ch/link-seav1/internal/services"
)

type stubMailer struct {
	mu    sync.Mutex
	err   error
	codes map[string]string
}

func (m *stubMailer) SendResetCode(ctx context.Context, to, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.codes[to] = code
	return nil
}

func (m *stubMailer) code(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[to]
}

type testEnv struct {
	h      *Handler
	r      *gin.Engine
	db     *gorm.DB
	mailer *stubMailer
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath:    "/api",
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		OTPTTL:         10 * time.Minute,
		AllowedOrigins: []string{"http://localhost:3000"},
		PublicBaseURL:  "https://linksea.vercel.app",
		StatsOwnerOnly: true,
		AuditBuffer:    100,
	}
}

func setupTestHandler(t *testing.T) *testEnv {
	t.Helper()
	return setupTestHandlerWithConfig(t, testConfig())
}

func setupTestHandlerWithConfig(t *testing.T, cfg config.Config) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mailer := &stubMailer{codes: make(map[string]string)}

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	audit := services.NewAuditService(db, log, cfg.AuditBuffer)
	geo := services.NewGeoIPService(cfg, log)

	h := NewHandler(
		cfg,
		log,
		tokens,
		services.NewAccountService(db, log, tokens, mailer, cfg.OTPTTL),
		services.NewLinkService(db, log),
		services.NewThemeService(db, log),
		services.NewPublicService(db, log, services.NewQRService(), cfg.PublicBaseURL),
		services.NewClickService(db, log, geo, cfg.StatsOwnerOnly),
		audit,
	)

	gin.SetMode(gin.TestMode)
	return &testEnv{h: h, r: h.SetupRouter(), db: db, mailer: mailer}
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

// register creates an account through the API and returns its token and id.
func (e *testEnv) register(t *testing.T, username, email, password string) (string, uint) {
	t.Helper()
	w := e.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
