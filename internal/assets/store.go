// Package assets is the asset pipeline: it stores uploaded photos, renders
// QR codes for public passport links, and serves both as stable URLs.
package assets

import "context"

// BlobStore persists raw asset bytes under a key and hands back a stable
// retrievable URL. Keys are slash-separated paths within the asset root
// ("photos/..." and "qr/..."); implementations own the URL scheme.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL maps a URL previously returned by Put back to its key.
	// Returns "" for URLs this store did not produce.
	KeyFromURL(url string) string
}
