package document

import "context"

// FileStorage abstracts where uploaded document files physically live.
// Implementations exist for the local filesystem and for S3-compatible
// object stores.
type FileStorage interface {
	// Store persists the file content and returns the storage key under
	// which it can be retrieved later.
	Store(ctx context.Context, data []byte, originalFilename, contentType string) (string, error)

	// Load retrieves the file content for the given storage key
	Load(ctx context.Context, key string) ([]byte, error)

	// Delete removes the file for the given storage key
	Delete(ctx context.Context, key string) error
}
