package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/storage"
)

// NewReceipt carries the upload form input for a scanned receipt. File
// must already be a base64 data URL; the encoder lives with the upload
// surface, not here.
type NewReceipt struct {
	Name     string
	FolderID string
	File     string
	FileType string
	Date     core.Date
	Notes    string
}

// ReceiptService owns the receipts and receipt-folders collections.
// Folders own receipts through a weak reference: deleting a folder
// reassigns its receipts to the default folder, never deletes them,
// and the default folder itself can never be deleted.
type ReceiptService struct {
	store        storage.RecordStore
	logger       *log.Logger
	maxFileBytes int

	mu sync.Mutex
}

func NewReceiptService(store storage.RecordStore, logger *log.Logger, maxFileBytes int) *ReceiptService {
	if maxFileBytes <= 0 {
		maxFileBytes = 5 << 20
	}
	return &ReceiptService{
		store:        store,
		logger:       logger.WithComponent(log.ComponentReceipt),
		maxFileBytes: maxFileBytes,
	}
}

// Folders lists the folder tree, guaranteeing the default catch-all
// folder exists and comes first.
func (s *ReceiptService) Folders(ctx context.Context) ([]core.ReceiptFolder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.foldersLocked(ctx)
}

func (s *ReceiptService) foldersLocked(ctx context.Context) ([]core.ReceiptFolder, error) {
	folders, err := loadCollection[[]core.ReceiptFolder](ctx, s.store, s.logger, storage.KeyReceiptFolders)
	if err != nil {
		return nil, err
	}
	for _, f := range folders {
		if f.ID == core.DefaultFolderID {
			return folders, nil
		}
	}
	folders = append([]core.ReceiptFolder{{ID: core.DefaultFolderID, Name: core.DefaultFolderName}}, folders...)
	if err := saveCollection(ctx, s.store, storage.KeyReceiptFolders, folders); err != nil {
		return nil, err
	}
	s.logger.Info("Default receipt folder created", log.FieldFolderID, core.DefaultFolderID)
	return folders, nil
}

// AddFolder creates a folder. Duplicate names are rejected.
func (s *ReceiptService) AddFolder(ctx context.Context, name string) (core.ReceiptFolder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ReceiptFolder{}, core.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	folders, err := s.foldersLocked(ctx)
	if err != nil {
		return core.ReceiptFolder{}, err
	}
	for _, f := range folders {
		if f.Name == name {
			return core.ReceiptFolder{}, fmt.Errorf("folder %q: %w", name, ErrDuplicateName)
		}
	}
	folder := core.ReceiptFolder{ID: uuid.NewString(), Name: name}
	folders = append(folders, folder)
	if err := saveCollection(ctx, s.store, storage.KeyReceiptFolders, folders); err != nil {
		return core.ReceiptFolder{}, err
	}

	s.logger.Info("Receipt folder created",
		log.FieldOperation, log.OpCreate,
		log.FieldFolderID, folder.ID,
		log.FieldName, name)
	return folder, nil
}

// DeleteFolder removes a folder and reassigns its receipts to the
// default folder within the same locked operation. The default folder
// is reserved.
func (s *ReceiptService) DeleteFolder(ctx context.Context, id string) error {
	if id == core.DefaultFolderID {
		return ErrReservedFolder
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	folders, err := s.foldersLocked(ctx)
	if err != nil {
		return err
	}
	kept := folders[:0]
	found := false
	for _, f := range folders {
		if f.ID == id {
			found = true
			continue
		}
		kept = append(kept, f)
	}
	if !found {
		return fmt.Errorf("folder %s: %w", id, ErrNotFound)
	}

	receipts, err := loadCollection[[]core.Receipt](ctx, s.store, s.logger, storage.KeyReceipts)
	if err != nil {
		return err
	}
	reassigned := 0
	for i := range receipts {
		if receipts[i].FolderID == id {
			receipts[i].FolderID = core.DefaultFolderID
			reassigned++
		}
	}
	if reassigned > 0 {
		if err := saveCollection(ctx, s.store, storage.KeyReceipts, receipts); err != nil {
			return err
		}
	}
	if err := saveCollection(ctx, s.store, storage.KeyReceiptFolders, kept); err != nil {
		return err
	}

	s.logger.Info("Receipt folder deleted, receipts reassigned to default",
		log.FieldOperation, log.OpDelete,
		log.FieldFolderID, id,
		log.FieldRewritten, reassigned)
	return nil
}

func (s *ReceiptService) Receipts(ctx context.Context) ([]core.Receipt, error) {
	return loadCollection[[]core.Receipt](ctx, s.store, s.logger, storage.KeyReceipts)
}

// ReceiptsInFolder filters the collection to one folder.
func (s *ReceiptService) ReceiptsInFolder(ctx context.Context, folderID string) ([]core.Receipt, error) {
	receipts, err := s.Receipts(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]core.Receipt, 0, len(receipts))
	for _, r := range receipts {
		if r.FolderID == folderID {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// AddReceipt validates and stores an uploaded receipt. A file whose
// decoded content exceeds the size ceiling is rejected before any
// write happens.
func (s *ReceiptService) AddReceipt(ctx context.Context, in NewReceipt) (core.Receipt, error) {
	receipt := core.Receipt{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(in.Name),
		FolderID: in.FolderID,
		File:     in.File,
		FileType: in.FileType,
		Date:     in.Date,
		Notes:    in.Notes,
	}
	if err := receipt.Validate(); err != nil {
		return core.Receipt{}, err
	}
	if decodedFileSize(receipt.File) > s.maxFileBytes {
		return core.Receipt{}, fmt.Errorf("receipt %q: %w", receipt.Name, ErrFileTooLarge)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	receipts, err := s.Receipts(ctx)
	if err != nil {
		return core.Receipt{}, err
	}
	receipts = append(receipts, receipt)
	if err := saveCollection(ctx, s.store, storage.KeyReceipts, receipts); err != nil {
		return core.Receipt{}, err
	}

	s.logger.Info("Receipt stored",
		log.FieldOperation, log.OpCreate,
		log.FieldReceiptID, receipt.ID,
		log.FieldFolderID, receipt.FolderID,
		log.FieldName, receipt.Name)
	return receipt, nil
}

// DeleteReceipt removes a receipt. Expenses pointing at it are left
// alone; their references dangle and resolve to "not found" at read
// time.
func (s *ReceiptService) DeleteReceipt(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipts, err := s.Receipts(ctx)
	if err != nil {
		return err
	}
	kept := receipts[:0]
	found := false
	for _, r := range receipts {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return fmt.Errorf("receipt %s: %w", id, ErrNotFound)
	}
	if err := saveCollection(ctx, s.store, storage.KeyReceipts, kept); err != nil {
		return err
	}

	s.logger.Info("Receipt deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldReceiptID, id)
	return nil
}

// Resolve looks a receipt up by ID, tolerating dangling references:
// absence is not an error.
func (s *ReceiptService) Resolve(ctx context.Context, id string) (core.Receipt, bool, error) {
	receipts, err := s.Receipts(ctx)
	if err != nil {
		return core.Receipt{}, false, err
	}
	for _, r := range receipts {
		if r.ID == id {
			return r, true, nil
		}
	}
	return core.Receipt{}, false, nil
}

// decodedFileSize returns the byte length of the decoded base64
// payload of a data URL.
func decodedFileSize(dataURL string) int {
	_, payload, ok := strings.Cut(dataURL, ";base64,")
	if !ok {
		return 0
	}
	size := len(payload) / 4 * 3
	if strings.HasSuffix(payload, "==") {
		size -= 2
	} else if strings.HasSuffix(payload, "=") {
		size--
	}
	return size
}
