package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"mood-diary/internal/config"
	"mood-diary/internal/database"
	"mood-diary/internal/middleware"
	"mood-diary/internal/models"
	"mood-diary/internal/router"
	"mood-diary/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testEnv bundles a temp database and a fully wired router.
type testEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	Cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	db, err := database.Init(config.DatabaseConfig{
		Path:    filepath.Join(dir, "test.db"),
		LogMode: false,
	})
	require.NoError(t, err, "init test database")
	require.NoError(t, database.AutoMigrate(db), "migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Session: config.SessionConfig{
			ExpireHours: 168,
		},
		Backup: config.BackupConfig{
			Dir: filepath.Join(dir, "backups"),
			Key: "test-backup-key",
		},
		App: config.AppSubConfig{
			MaxMediaBytes: 4096, // small ceiling so tests can trip it
		},
	}

	return &testEnv{
		DB:     db,
		Router: router.SetupRouter(cfg, db),
		Cfg:    cfg,
	}
}

func (env *testEnv) createUser(t *testing.T, username, password string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		PasswordHash: util.HashPassword(password),
	}
	require.NoError(t, env.DB.Create(&user).Error, "create test user")
	return user
}

// login performs a real /api/login round trip and returns the token.
func (env *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	w := env.request(t, http.MethodPost, "/api/login", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, "login should succeed: %s", w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// request sends a JSON request through the router and returns the recorder.
func (env *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.SessionHeader, token)
	}

	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	return w
}

// saveEntry is a shortcut for the common create path.
func (env *testEnv) saveEntry(t *testing.T, token, id, date, title string) {
	t.Helper()
	w := env.request(t, http.MethodPost, "/api/entries", token, gin.H{
		"id":      id,
		"date":    date,
		"title":   title,
		"content": "content of " + id,
		"mood":    "😊",
	})
	require.Equal(t, http.StatusCreated, w.Code, "save entry %s: %s", id, w.Body.String())
}

// expireSession rewinds a session so the next lookup sees it as expired.
func (env *testEnv) expireSession(t *testing.T, token string) {
	t.Helper()
	past := time.Now().Add(-time.Hour)
	require.NoError(t, env.DB.Model(&models.Session{}).
		Where("token = ?", token).
		Update("expires_at", past).Error)
}
