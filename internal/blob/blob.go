// Package blob re-exports the icon storage abstractions and selects a
// backend from the environment.
package blob

import (
	"context"
	"fmt"
	"os"

	"menucore/internal/blob/core"
	fsstore "menucore/internal/infra/blob/fs"
	memorystore "menucore/internal/infra/blob/memory"
	s3store "menucore/internal/infra/blob/s3"
)

type (
	// Driver identifies an icon backend driver.
	Driver = core.Driver
	// Info describes stored icon metadata.
	Info = core.Info
	// Store is the interface for icon storage backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

// ErrNotFound indicates no icon exists under the requested key.
var ErrNotFound = core.ErrNotFound

// ErrExists indicates an icon already exists under the key.
var ErrExists = core.ErrExists

// Open selects a Store implementation using environment variables.
//
//	MENUCORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	MENUCORE_BLOB_FS_ROOT: directory root when driver=fs (default ./icondata)
//	(S3 specific variables documented in the s3 driver)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("MENUCORE_BLOB_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(os.Getenv("MENUCORE_BLOB_FS_ROOT"))
	case DriverS3:
		return s3store.OpenFromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}

// NewFilesystem constructs a filesystem-backed Store rooted at the provided path.
func NewFilesystem(root string) (Store, error) {
	return fsstore.New(root)
}

// NewMemory returns an in-memory Store suitable for tests.
func NewMemory() Store { return memorystore.New() }

// S3Config re-exports the S3 driver configuration.
type S3Config = s3store.Config

// NewS3 constructs an S3-backed Store from the provided configuration.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	return s3store.New(ctx, cfg)
}

// NewMockS3ForTests exposes the in-memory S3 mock for cross-package tests.
func NewMockS3ForTests() Store { return s3store.NewMockForTests() }
