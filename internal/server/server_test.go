package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cruse1977/netbox-acls/internal/config"
	"github.com/cruse1977/netbox-acls/internal/database"
)

func openDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), database.GormConfig())
	require.NoError(t, err)
	return db
}

func TestNewAppliesMiddleware(t *testing.T) {
	srv, err := New(openDB(t, "server_middleware"), config.Config{Environment: "production"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestNewUnknownRouteIsJSON404(t *testing.T) {
	srv, err := New(openDB(t, "server_noroute"), config.Config{Environment: "development"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"route not found"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestRunStopsOnContextCancel(t *testing.T) {
	srv, err := New(openDB(t, "server_run"), config.Config{Environment: "production", HTTPPort: "0"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
