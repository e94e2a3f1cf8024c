package ports

import "context"

type BlobStorage interface {
	PutFile(ctx context.Context, key, contentType string, body []byte) (publicURL string, err error)
	// DeleteFiles is best effort; callers treat an error as non-fatal.
	DeleteFiles(ctx context.Context, keys []string) error
}
