package storage

import "context"

// DefaultKey is the storage key of the ledger snapshot.
const DefaultKey = "money-manager-data"

// KVStore is a flat key/value blob store, the server-side stand-in for
// browser local storage.
type KVStore interface {
	// Get returns the blob stored under key; ok is false when nothing is stored.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Put replaces the blob stored under key.
	Put(ctx context.Context, key string, value []byte) error
}
