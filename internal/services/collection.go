// Package services holds the collection services: thin orchestrators
// that read a whole collection from the record store, apply one
// mutation, and write the collection back. Consistency across
// collections is maintained only by the rewrite-on-delete rules here;
// there are no cross-key transactions.
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gastos/internal/log"
	"gastos/internal/storage"
)

// loadCollection reads and decodes one collection blob. An absent key
// yields the zero value. Malformed JSON (corrupted storage or an
// incompatible older version) resets the collection to its empty
// default and logs; it never propagates as a failure.
func loadCollection[T any](ctx context.Context, store storage.RecordStore, logger *log.Logger, key string) (T, error) {
	var zero T
	value, ok, err := store.Get(ctx, key)
	if err != nil {
		return zero, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || value == "" {
		return zero, nil
	}
	var out T
	if err := json.Unmarshal([]byte(value), &out); err != nil {
		logger.Warn("Malformed persisted collection, resetting to empty",
			log.FieldOperation, log.OpLoad,
			log.FieldKey, key,
			log.FieldError, err)
		return zero, nil
	}
	return out, nil
}

// saveCollection encodes and writes one collection blob wholesale.
func saveCollection(ctx context.Context, store storage.RecordStore, key string, collection any) error {
	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
