// Package storage provides the key-value record store the tracker
// persists into: one JSON blob per logical collection, read and
// written whole. There are no partial updates and no cross-key
// transactions; the last write to a key wins.
package storage

import (
	"context"
	"errors"
)

// Fixed keys under which each collection is persisted.
const (
	KeyExpenses       = "expenses"
	KeyCategories     = "categories"
	KeyPaymentMethods = "paymentMethods"
	KeyPeople         = "people"
	KeySettings       = "appSettings"
	KeyReceipts       = "receipts"
	KeyReceiptFolders = "receiptFolders"
)

// DefaultMaxValueBytes bounds a single record value. Receipt files are
// capped at 5 MiB before encoding; 7 MiB leaves room for the base64
// and JSON overhead of a stored collection entry.
const DefaultMaxValueBytes = 7 << 20

// ErrValueTooLarge is returned by Set before any write happens when a
// value exceeds the store's byte ceiling.
var ErrValueTooLarge = errors.New("record value exceeds size ceiling")

// RecordStore is the persistence collaborator every collection service
// consumes. Get distinguishes an absent key (ok=false) from an empty
// value. Implementations must be safe for concurrent use.
type RecordStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
