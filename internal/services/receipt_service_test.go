package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
	"gastos/internal/storage"
)

func pngDataURL(size int) string {
	content := bytes.Repeat([]byte{0x89}, size)
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(content)
}

func newReceiptInput(name string) NewReceipt {
	return NewReceipt{
		Name:     name,
		FolderID: core.DefaultFolderID,
		File:     pngDataURL(64),
		FileType: "image/png",
		Date:     core.NewDate(2024, 3, 15),
	}
}

func TestReceiptService_DefaultFolderAlwaysPresent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	folders, err := f.receipts.Folders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, core.DefaultFolderID, folders[0].ID)
	assert.Equal(t, core.DefaultFolderName, folders[0].Name)

	// Even when the persisted collection lost it
	require.NoError(t, f.store.Set(ctx, storage.KeyReceiptFolders, `[{"id":"x","name":"Facturas"}]`))
	folders, err = f.receipts.Folders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, core.DefaultFolderID, folders[0].ID)
}

func TestReceiptService_AddFolder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	folder, err := f.receipts.AddFolder(ctx, "Facturas")
	require.NoError(t, err)
	assert.NotEmpty(t, folder.ID)

	_, err = f.receipts.AddFolder(ctx, "Facturas")
	assert.ErrorIs(t, err, ErrDuplicateName)
	_, err = f.receipts.AddFolder(ctx, "  ")
	assert.ErrorIs(t, err, core.ErrEmptyName)
}

func TestReceiptService_DeleteFolderReassignsReceipts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	folder, err := f.receipts.AddFolder(ctx, "Facturas")
	require.NoError(t, err)

	in := newReceiptInput("luz.png")
	in.FolderID = folder.ID
	stored, err := f.receipts.AddReceipt(ctx, in)
	require.NoError(t, err)

	require.NoError(t, f.receipts.DeleteFolder(ctx, folder.ID))

	resolved, ok, err := f.receipts.Resolve(ctx, stored.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, core.DefaultFolderID, resolved.FolderID)

	inDefault, err := f.receipts.ReceiptsInFolder(ctx, core.DefaultFolderID)
	require.NoError(t, err)
	assert.Len(t, inDefault, 1)
}

func TestReceiptService_DefaultFolderIsReserved(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	assert.ErrorIs(t, f.receipts.DeleteFolder(ctx, core.DefaultFolderID), ErrReservedFolder)
}

func TestReceiptService_DeleteUnknownFolder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	assert.ErrorIs(t, f.receipts.DeleteFolder(ctx, "nope"), ErrNotFound)
}

func TestReceiptService_AddReceiptValidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := newReceiptInput("luz.png")
	in.File = "definitely not a data url"
	_, err := f.receipts.AddReceipt(ctx, in)
	assert.ErrorIs(t, err, core.ErrInvalidFile)

	in = newReceiptInput("  ")
	_, err = f.receipts.AddReceipt(ctx, in)
	assert.ErrorIs(t, err, core.ErrEmptyName)
}

func TestReceiptService_OversizedUploadRejectedBeforeWrite(t *testing.T) {
	ctx := context.Background()
	logger := testLogger()
	store := storage.NewMemoryStore(0)
	receipts := NewReceiptService(store, logger, 128)

	in := newReceiptInput("grande.png")
	in.File = pngDataURL(129)
	_, err := receipts.AddReceipt(ctx, in)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	// No partial write occurred
	if _, ok, _ := store.Get(ctx, storage.KeyReceipts); ok {
		t.Error("receipts collection was written despite rejection")
	}

	in.File = pngDataURL(128)
	_, err = receipts.AddReceipt(ctx, in)
	assert.NoError(t, err)
}

func TestReceiptService_DeleteLeavesDanglingExpenseReference(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	stored, err := f.receipts.AddReceipt(ctx, newReceiptInput("luz.png"))
	require.NoError(t, err)
	expense, err := f.expenses.Add(ctx, newExpenseInput("luz"))
	require.NoError(t, err)
	require.NoError(t, f.expenses.AttachReceipt(ctx, expense.ID, stored.ID))

	require.NoError(t, f.receipts.DeleteReceipt(ctx, stored.ID))

	// The expense still points at the deleted receipt; resolution
	// reports absence instead of failing.
	listed, _ := f.expenses.List(ctx)
	assert.Equal(t, stored.ID, listed[0].ReceiptID)
	_, ok, err := f.receipts.Resolve(ctx, stored.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
