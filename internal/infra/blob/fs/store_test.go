package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"menucore/internal/blob/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	payload := []byte("png-bytes")
	info, err := store.Put(ctx, "schrodinger/glide.png", bytes.NewReader(payload), "")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len(payload)) {
		t.Fatalf("expected size %d, got %d", len(payload), info.Size)
	}
	if info.ContentType != "image/png" {
		t.Fatalf("expected content type from extension, got %q", info.ContentType)
	}
	if info.ETag == "" {
		t.Fatalf("expected etag")
	}
	got, rc, err := store.Get(ctx, "schrodinger/glide.png")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("payload mismatch: %q", data)
	}
	if got.Key != "schrodinger/glide.png" {
		t.Fatalf("unexpected key %q", got.Key)
	}
}

func TestPutIsCreateOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if _, err := store.Put(ctx, "icon.gif", strings.NewReader("a"), ""); err != nil {
		t.Fatalf("put: %v", err)
	}
	_, err := store.Put(ctx, "icon.gif", strings.NewReader("b"), "")
	if !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.Get(context.Background(), "missing.png")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Head(context.Background(), "missing.png"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from head, got %v", err)
	}
}

func TestKeySanitization(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for _, key := range []string{"", "  ", "../escape.png", "/abs.png", "a/../../b.png"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), ""); err == nil {
			t.Fatalf("expected rejection for key %q", key)
		}
	}
}

func TestDeleteAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for _, key := range []string{"schrodinger/a.png", "schrodinger/b.png", "other/c.png"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), ""); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "schrodinger/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "schrodinger/a.png" || infos[1].Key != "schrodinger/b.png" {
		t.Fatalf("unexpected listing: %+v", infos)
	}
	ok, err := store.Delete(ctx, "schrodinger/a.png")
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	ok, err = store.Delete(ctx, "schrodinger/a.png")
	if err != nil || ok {
		t.Fatalf("second delete: ok=%v err=%v", ok, err)
	}
}

func TestDriverIdentifier(t *testing.T) {
	if newTestStore(t).Driver() != core.DriverFilesystem {
		t.Fatalf("expected fs driver")
	}
}
