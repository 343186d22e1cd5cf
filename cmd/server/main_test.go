package main

import (
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"
	"wellity/backend/internal/config"
	"wellity/backend/internal/logger"
	"wellity/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_ReturnsListenError(t *testing.T) {
	server := &http.Server{Addr: "127.0.0.1:-1", Handler: http.NotFoundHandler()}
	quit := make(chan os.Signal)

	done := make(chan error, 1)
	go func() { done <- serve(server, quit, time.Second, logger.NewNop()) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after the listener failed")
	}
}

func TestServe_StopsOnSignal(t *testing.T) {
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	quit := make(chan os.Signal, 1)

	done := make(chan error, 1)
	go func() { done <- serve(server, quit, time.Second, logger.NewNop()) }()
	quit <- syscall.SIGTERM

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after the signal")
	}
}

func TestNewWorkoutStore_DefaultsToAck(t *testing.T) {
	cfg := config.Config{Persistence: config.PersistenceConfig{Driver: config.DriverNone}}

	store, closeFn, err := newWorkoutStore(t.Context(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, repository.AckStore{}, store)
}
