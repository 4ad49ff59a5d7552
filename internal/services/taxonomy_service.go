package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/storage"
)

// Collection describes one of the named-entity lists an expense
// references: its storage key, the sentinel substituted into expenses
// when an entry is deleted, and the expense field it governs.
type Collection struct {
	key      string
	sentinel string
	field    func(e *core.Expense) *string
}

var (
	Categories = Collection{
		key:      storage.KeyCategories,
		sentinel: core.UncategorizedName,
		field:    func(e *core.Expense) *string { return &e.Category },
	}
	PaymentMethods = Collection{
		key:      storage.KeyPaymentMethods,
		sentinel: core.CashPaymentName,
		field:    func(e *core.Expense) *string { return &e.PaymentMethod },
	}
	People = Collection{
		key:      storage.KeyPeople,
		sentinel: core.UnassignedPersonName,
		field:    func(e *core.Expense) *string { return &e.Person },
	}
)

// Key returns the storage key backing the collection.
func (c Collection) Key() string { return c.key }

// Sentinel returns the orphan replacement value for the collection.
func (c Collection) Sentinel() string { return c.sentinel }

// TaxonomyService manages the category, payment-method and person name
// lists, including the cascading sentinel rewrite over expenses when a
// name is deleted. Both writes of that rewrite happen inside one
// locked operation, so callers of this service observe them together.
type TaxonomyService struct {
	store  storage.RecordStore
	logger *log.Logger

	mu       sync.Mutex
	onMutate []func()
}

func NewTaxonomyService(store storage.RecordStore, logger *log.Logger) *TaxonomyService {
	return &TaxonomyService{
		store:  store,
		logger: logger.WithComponent(log.ComponentTaxonomy),
	}
}

// OnMutate registers a callback invoked after any successful write,
// including the expense rewrite pass.
func (s *TaxonomyService) OnMutate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMutate = append(s.onMutate, fn)
}

func (s *TaxonomyService) List(ctx context.Context, c Collection) ([]string, error) {
	return loadCollection[[]string](ctx, s.store, s.logger, c.key)
}

// Add appends a new name. Empty names and duplicates are rejected and
// leave the collection unchanged.
func (s *TaxonomyService) Add(ctx context.Context, c Collection, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.List(ctx, c)
	if err != nil {
		return err
	}
	for _, existing := range names {
		if existing == name {
			return fmt.Errorf("%s %q: %w", c.key, name, ErrDuplicateName)
		}
	}
	names = append(names, name)
	if err := saveCollection(ctx, s.store, c.key, names); err != nil {
		return err
	}

	s.logger.Info("Name added",
		log.FieldOperation, log.OpCreate,
		log.FieldKey, c.key,
		log.FieldName, name)
	s.notify()
	return nil
}

// Delete removes a name and rewrites every expense referencing it to
// the collection's sentinel value. It returns how many expenses were
// rewritten. All other expenses are left untouched.
func (s *TaxonomyService) Delete(ctx context.Context, c Collection, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.List(ctx, c)
	if err != nil {
		return 0, err
	}
	kept := names[:0]
	found := false
	for _, existing := range names {
		if existing == name {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		return 0, fmt.Errorf("%s %q: %w", c.key, name, ErrNotFound)
	}

	expenses, err := loadCollection[[]core.Expense](ctx, s.store, s.logger, storage.KeyExpenses)
	if err != nil {
		return 0, err
	}
	rewritten := 0
	for i := range expenses {
		if *c.field(&expenses[i]) == name {
			*c.field(&expenses[i]) = c.sentinel
			rewritten++
		}
	}

	// Expenses first: if this write fails the name is still listed and
	// nothing dangles.
	if rewritten > 0 {
		if err := saveCollection(ctx, s.store, storage.KeyExpenses, expenses); err != nil {
			return 0, err
		}
	}
	if err := saveCollection(ctx, s.store, c.key, kept); err != nil {
		return rewritten, err
	}

	s.logger.Info("Name deleted, orphaned expenses rewritten to sentinel",
		log.FieldOperation, log.OpRewrite,
		log.FieldKey, c.key,
		log.FieldName, name,
		log.FieldRewritten, rewritten)
	s.notify()
	return rewritten, nil
}

func (s *TaxonomyService) notify() {
	for _, fn := range s.onMutate {
		fn()
	}
}
