package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingStopper struct {
	stops int
}

func (c *countingStopper) Stop(context.Context) { c.stops++ }

func TestServeStopsSchedulerWhenListenFails(t *testing.T) {
	bg := &countingStopper{}
	srv := &http.Server{Addr: "127.0.0.1:-1", Handler: http.NotFoundHandler()}

	err := serve(context.Background(), srv, bg, time.Second, zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, 1, bg.stops)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	bg := &countingStopper{}
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, bg, time.Second, zap.NewNop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
	assert.Equal(t, 1, bg.stops)
}
