// Package artifacts stores uploaded image bytes and hands back a stable URL
// for the derived recognition record. The record store never sees raw bytes.
package artifacts

import (
	"context"
	"io"
)

// Store persists one image artifact per recognition run. Put returns the
// public URL recorded on the RecognitionRecord.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}
