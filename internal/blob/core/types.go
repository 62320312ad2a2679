// Package core defines the abstractions for icon asset storage backends
// used by the menu host.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a concrete icon storage backend implementation.
type Driver string

const (
	// DriverFilesystem stores icons on the local filesystem (default, dev).
	DriverFilesystem Driver = "fs"
	// DriverS3 stores icons in an S3 / MinIO compatible bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps icons in process memory (tests).
	DriverMemory Driver = "memory"
)

// Info describes a stored icon asset.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Store is the icon asset backend. Icons are small immutable images keyed
// by the name menu nodes and protocol descriptors reference; Put is
// create-only.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

// ErrNotFound is returned by drivers when no icon exists under a key.
var ErrNotFound = errors.New("icon store: object not found")

// ErrExists is returned by Put when the key is already taken.
var ErrExists = errors.New("icon store: object already exists")
