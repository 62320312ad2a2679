package httpapi

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestServerServeAndGracefulShutdown(t *testing.T) {
	srv := NewServer(http.NewServeMux(), WithPort(0), WithShutdownTimeout(time.Second))
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !srv.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatalf("server never started")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("server did not shut down")
	}
	if srv.IsRunning() {
		t.Fatalf("server still marked running after shutdown")
	}
}

func TestServerOptions(t *testing.T) {
	srv := NewServer(nil,
		WithPort(8123),
		WithReadTimeout(time.Second),
		WithWriteTimeout(2*time.Second),
		WithIdleTimeout(3*time.Second),
	)
	if srv.port != 8123 || srv.readTimeout != time.Second || srv.writeTimeout != 2*time.Second || srv.idleTimeout != 3*time.Second {
		t.Fatalf("options not applied: %+v", srv)
	}
}
