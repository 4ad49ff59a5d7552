// Package export turns a receipt folder into a zip archive of the
// decoded receipt files.
package export

import (
	"archive/zip"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/services"
)

// Service exports the receipts of a folder. Decoding runs concurrently
// but nothing is written to the destination until every file decoded
// cleanly, so a failure never leaves a truncated archive behind.
type Service struct {
	receipts *services.ReceiptService
	logger   *log.Logger
}

func NewService(receipts *services.ReceiptService, logger *log.Logger) *Service {
	return &Service{
		receipts: receipts,
		logger:   logger.WithComponent(log.ComponentExport),
	}
}

type entry struct {
	name    string
	content []byte
}

// ZipFolder writes a zip archive of every receipt in the folder to w.
// Entry names derive from the receipt names, deduplicated and given an
// extension matching the stored MIME type when the name has none.
func (s *Service) ZipFolder(ctx context.Context, w io.Writer, folderID string) error {
	folders, err := s.receipts.Folders(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, f := range folders {
		if f.ID == folderID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("folder %s: %w", folderID, services.ErrNotFound)
	}

	receipts, err := s.receipts.ReceiptsInFolder(ctx, folderID)
	if err != nil {
		return err
	}

	entries := make([]entry, len(receipts))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, r := range receipts {
		g.Go(func() error {
			content, err := decodeDataURL(r.File)
			if err != nil {
				return fmt.Errorf("receipt %q: %w", r.Name, err)
			}
			entries[i] = entry{name: entryName(r), content: content}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	dedupe(entries)

	zw := zip.NewWriter(w)
	for _, e := range entries {
		f, err := zw.Create(e.name)
		if err != nil {
			return fmt.Errorf("create zip entry %q: %w", e.name, err)
		}
		if _, err := f.Write(e.content); err != nil {
			return fmt.Errorf("write zip entry %q: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize zip: %w", err)
	}

	s.logger.Info("Folder exported",
		log.FieldOperation, log.OpExport,
		log.FieldFolderID, folderID,
		log.FieldCount, len(entries))
	return nil
}

// decodeDataURL strips the data URL header and decodes the base64
// payload.
func decodeDataURL(dataURL string) ([]byte, error) {
	_, payload, ok := strings.Cut(dataURL, ";base64,")
	if !ok {
		return nil, core.ErrInvalidFile
	}
	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidFile, err)
	}
	return content, nil
}

// mimeExtensions covers the types the upload surface produces.
var mimeExtensions = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

func entryName(r core.Receipt) string {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = r.ID
	}
	// Zip entry names use forward slashes as separators; receipts are
	// flat files.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if ext := mimeExtensions[r.FileType]; ext != "" && !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}
	return name
}

// dedupe suffixes repeated entry names so every archive member stays
// addressable.
func dedupe(entries []entry) {
	seen := make(map[string]int, len(entries))
	for i := range entries {
		name := entries[i].name
		n := seen[name]
		seen[name] = n + 1
		if n == 0 {
			continue
		}
		ext := ""
		base := name
		if dot := strings.LastIndex(name, "."); dot > 0 {
			base, ext = name[:dot], name[dot:]
		}
		entries[i].name = fmt.Sprintf("%s (%d)%s", base, n, ext)
	}
}
