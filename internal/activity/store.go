package activity

import "context"

// Store persists audit entries. Append must be atomic: an entry is either
// fully written or not written at all. ListAll returns entries newest-first.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListAll(ctx context.Context) ([]Entry, error)
}
