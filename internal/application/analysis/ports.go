package analysis

import "context"

// ImageStorage stores uploaded photos. Implementations live in the
// infrastructure layer (S3, in-memory).
type ImageStorage interface {
	// Put stores data under key and returns the public URL of the object
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Delete removes the object stored under key
	Delete(ctx context.Context, key string) error
}
