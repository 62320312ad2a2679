package blob

import (
	"context"
	"strings"
	"testing"
)

func TestOpenDefaultsToFilesystem(t *testing.T) {
	t.Setenv("MENUCORE_BLOB_DRIVER", "")
	t.Setenv("MENUCORE_BLOB_FS_ROOT", t.TempDir())
	store, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Driver() != DriverFilesystem {
		t.Fatalf("expected fs driver, got %s", store.Driver())
	}
}

func TestOpenSelectsMemory(t *testing.T) {
	t.Setenv("MENUCORE_BLOB_DRIVER", "memory")
	store, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Driver() != DriverMemory {
		t.Fatalf("expected memory driver, got %s", store.Driver())
	}
	if _, err := store.Put(context.Background(), "x.png", strings.NewReader("x"), ""); err != nil {
		t.Fatalf("put: %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Setenv("MENUCORE_BLOB_DRIVER", "tape")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestOpenS3RequiresBucket(t *testing.T) {
	t.Setenv("MENUCORE_BLOB_DRIVER", "s3")
	t.Setenv("MENUCORE_BLOB_S3_BUCKET", "")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected bucket error")
	}
}

func TestMockS3ForTests(t *testing.T) {
	store := NewMockS3ForTests()
	if store.Driver() != DriverS3 {
		t.Fatalf("expected s3 driver")
	}
}
