package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownManagerRunsFuncs(t *testing.T) {
	logger := NewLogger(ErrorLevel, io.Discard)
	manager := NewShutdownManager(logger, nil, time.Second)

	var order []string
	manager.RegisterShutdownFunc(func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	})
	manager.RegisterShutdownFunc(func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, manager.Shutdown(context.Background()))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestShutdownManagerReportsErrors(t *testing.T) {
	logger := NewLogger(ErrorLevel, io.Discard)
	manager := NewShutdownManager(logger, nil, time.Second)

	manager.RegisterShutdownFunc(func(ctx context.Context) error {
		return errors.New("close failed")
	})

	err := manager.Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 errors")
}

func TestShutdownManagerDrainsServer(t *testing.T) {
	logger := NewLogger(ErrorLevel, io.Discard)
	server := &http.Server{Addr: "127.0.0.1:0"}
	manager := NewShutdownManager(logger, server, time.Second)

	// Shutdown on a server that never started returns immediately
	require.NoError(t, manager.Shutdown(context.Background()))
}
