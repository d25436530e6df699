// Package storage defines the interface for remote object storage providers.
// Swap providers by changing the concrete type injected at startup: Google
// Drive is the default, and the MinIO implementation works with any
// S3-compatible endpoint.
package storage

import (
	"context"
	"errors"
	"io"

	"github.com/minio/minio-go/v7"
	"google.golang.org/api/googleapi"
)

// Object describes one upload to a provider.
type Object struct {
	// Name is the file name as declared by the client.
	Name string
	// ContentType is the declared MIME type.
	ContentType string
	// Container names the destination folder or bucket.
	Container string
	// Size is the exact byte count of Body, or -1 if unknown.
	Size int64
	Body io.Reader
}

// Result is what the provider reports back for a stored object.
type Result struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Provider uploads objects to a remote store.
type Provider interface {
	// Upload issues exactly one upload call; it never retries.
	Upload(ctx context.Context, obj Object) (*Result, error)
}

// ProviderStatus extracts the HTTP status a provider answered with, or 0
// when err did not come from a provider response.
func ProviderStatus(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	var merr minio.ErrorResponse
	if errors.As(err, &merr) {
		return merr.StatusCode
	}
	return 0
}
