package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/user-microservices/internal/middleware"
	"github.com/vasiliy-maslov/user-microservices/internal/server"
)

func TestNewRouter_Health(t *testing.T) {
	router := server.NewRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(middleware.CorrelationIDHeader))
}

func TestNewRouter_RecoversFromPanic(t *testing.T) {
	router := server.NewRouter()
	router.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestNew_Timeouts(t *testing.T) {
	srv := server.New("8081", http.NotFoundHandler())

	assert.Equal(t, ":8081", srv.Addr)
	assert.Equal(t, 10*time.Second, srv.ReadTimeout)
	assert.Equal(t, 120*time.Second, srv.IdleTimeout)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	srv := server.New("0", http.NotFoundHandler())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancellation")
	}
}

func TestRun_ListenError(t *testing.T) {
	srv := server.New("-1", http.NotFoundHandler())

	err := server.Run(context.Background(), srv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not listen")
}
