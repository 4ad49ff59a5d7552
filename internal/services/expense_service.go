package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/storage"
)

// NewExpense carries the add-expense form input. The ID and, in solo
// mode, the person are assigned by the service.
type NewExpense struct {
	Description   string
	Amount        core.Money
	Category      string
	PaymentMethod string
	Person        string
	Date          core.Date
}

// ExpenseService owns the expenses collection. Besides add and delete,
// the only mutation of an existing expense is attaching or detaching a
// receipt reference; category, payment method and person rewrites on
// entity deletion belong to TaxonomyService.
type ExpenseService struct {
	store    storage.RecordStore
	settings *SettingsService
	logger   *log.Logger

	mu       sync.Mutex
	onMutate []func()
}

func NewExpenseService(store storage.RecordStore, settings *SettingsService, logger *log.Logger) *ExpenseService {
	return &ExpenseService{
		store:    store,
		settings: settings,
		logger:   logger.WithComponent(log.ComponentExpense),
	}
}

// OnMutate registers a callback invoked after every successful write
// to the expenses collection.
func (s *ExpenseService) OnMutate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMutate = append(s.onMutate, fn)
}

func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	return loadCollection[[]core.Expense](ctx, s.store, s.logger, storage.KeyExpenses)
}

// Add validates and records a new expense. In solo mode the person is
// forced to the fixed single-occupant value; in accompanied mode the
// caller must supply one.
func (s *ExpenseService) Add(ctx context.Context, in NewExpense) (core.Expense, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	person := in.Person
	if settings.LivingStatus == core.LivingSolo {
		person = core.SoloPersonName
	}

	expense := core.Expense{
		ID:            uuid.NewString(),
		Description:   in.Description,
		Amount:        in.Amount,
		Category:      in.Category,
		PaymentMethod: in.PaymentMethod,
		Person:        person,
		Date:          in.Date,
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.List(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	expenses = append(expenses, expense)
	if err := saveCollection(ctx, s.store, storage.KeyExpenses, expenses); err != nil {
		return core.Expense{}, err
	}

	s.logger.Info("Expense recorded",
		log.FieldOperation, log.OpCreate,
		log.FieldExpenseID, expense.ID,
		log.FieldAmountCents, expense.Amount.Cents,
		log.FieldCategory, expense.Category)
	s.notify()
	return expense, nil
}

// Delete removes an expense permanently. There is no soft delete.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.List(ctx)
	if err != nil {
		return err
	}
	kept := expenses[:0]
	found := false
	for _, e := range expenses {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}
	if err := saveCollection(ctx, s.store, storage.KeyExpenses, kept); err != nil {
		return err
	}

	s.logger.Info("Expense deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldExpenseID, id)
	s.notify()
	return nil
}

// AttachReceipt points an expense at a receipt. The reference is weak:
// the receipt's existence is not checked here, and a later receipt
// deletion leaves the reference dangling.
func (s *ExpenseService) AttachReceipt(ctx context.Context, expenseID, receiptID string) error {
	return s.setReceipt(ctx, expenseID, receiptID)
}

// DetachReceipt clears an expense's receipt reference.
func (s *ExpenseService) DetachReceipt(ctx context.Context, expenseID string) error {
	return s.setReceipt(ctx, expenseID, "")
}

func (s *ExpenseService) setReceipt(ctx context.Context, expenseID, receiptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.List(ctx)
	if err != nil {
		return err
	}
	found := false
	for i := range expenses {
		if expenses[i].ID == expenseID {
			expenses[i].ReceiptID = receiptID
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("expense %s: %w", expenseID, ErrNotFound)
	}
	if err := saveCollection(ctx, s.store, storage.KeyExpenses, expenses); err != nil {
		return err
	}

	s.logger.Info("Expense receipt reference updated",
		log.FieldExpenseID, expenseID,
		log.FieldReceiptID, receiptID)
	s.notify()
	return nil
}

func (s *ExpenseService) notify() {
	for _, fn := range s.onMutate {
		fn()
	}
}
