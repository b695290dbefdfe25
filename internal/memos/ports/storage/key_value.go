// Package storage defines the key-value port used by the local memo store.
package storage

import "context"

// KeyValueStore хранит строковые значения по ключу.
type KeyValueStore interface {
	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
