package workers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"flymedia_backend/internal/events"
	"flymedia_backend/internal/logger"
	"flymedia_backend/internal/models"
	"flymedia_backend/internal/repositories"
	"flymedia_backend/internal/storage"

	"github.com/gabriel-vasile/mimetype"
)

// FileIndexWorker keeps the upload metadata table in step with storage.
// Files copied into storage by hand get a row; rows whose file is gone are
// dropped.
type FileIndexWorker struct {
	storage   storage.Storage
	fileRepo  repositories.FileRepository
	publisher events.Publisher
	interval  time.Duration
	now       func() time.Time
}

func NewFileIndexWorker(
	storage storage.Storage,
	fileRepo repositories.FileRepository,
	publisher events.Publisher,
	interval time.Duration,
) *FileIndexWorker {
	return &FileIndexWorker{
		storage:   storage,
		fileRepo:  fileRepo,
		publisher: publisher,
		interval:  interval,
		now:       time.Now,
	}
}

// Start runs one pass immediately, then one per interval until ctx is done.
// A non-positive interval runs the first pass only.
func (w *FileIndexWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *FileIndexWorker) run(ctx context.Context) {
	w.reconcileAndLog(ctx)
	if w.interval <= 0 {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("File index worker stopped")
			return
		case <-ticker.C:
			w.reconcileAndLog(ctx)
		}
	}
}

func (w *FileIndexWorker) reconcileAndLog(ctx context.Context) {
	added, removed, err := w.Reconcile(ctx)
	if err != nil {
		logger.Error("Error reconciling file index", "error", err)
		return
	}
	if added > 0 || removed > 0 {
		logger.Info("File index reconciled", "added", added, "removed", removed)
	}
}

// Reconcile runs a single pass and reports how many rows it added and removed.
func (w *FileIndexWorker) Reconcile(ctx context.Context) (added, removed int, err error) {
	names, err := w.storage.List(ctx)
	if err != nil {
		return 0, 0, err
	}
	records, err := w.fileRepo.List(ctx)
	if err != nil {
		return 0, 0, err
	}

	stored := make(map[string]struct{}, len(names))
	for _, name := range names {
		stored[name] = struct{}{}
	}
	indexed := make(map[string]struct{}, len(records))
	for _, rec := range records {
		indexed[rec.StoredName] = struct{}{}
		if _, ok := stored[rec.StoredName]; ok {
			continue
		}
		if err := w.fileRepo.Delete(ctx, rec.StoredName); err != nil {
			return added, removed, err
		}
		removed++
	}

	for _, name := range names {
		if _, ok := indexed[name]; ok {
			continue
		}
		f, err := w.describe(ctx, name)
		if err != nil {
			logger.Warn("Skipping unreadable file", "file", name, "error", err)
			continue
		}
		if err := w.fileRepo.Save(ctx, f); err != nil {
			return added, removed, err
		}
		added++
	}

	if (added > 0 || removed > 0) && w.publisher != nil {
		w.publisher.Publish(events.FilesUpdated)
	}
	return added, removed, nil
}

func (w *FileIndexWorker) describe(ctx context.Context, name string) (*models.StoredFile, error) {
	rc, err := w.storage.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	mimeType := "application/octet-stream"
	if mtype, err := mimetype.DetectReader(rc); err == nil {
		mimeType, _, _ = strings.Cut(mtype.String(), ";")
	}

	size, err := w.storage.GetSize(ctx, name)
	if err != nil {
		return nil, err
	}

	original, uploadedAt := splitStoredName(name)
	if uploadedAt.IsZero() {
		uploadedAt = w.now().UTC()
	}
	return &models.StoredFile{
		StoredName:   name,
		OriginalName: original,
		MimeType:     mimeType,
		Size:         size,
		UploadedAt:   uploadedAt,
	}, nil
}

// splitStoredName undoes the "<epoch-ms>-<original>" naming. Names without
// the prefix come back unchanged with a zero time.
func splitStoredName(name string) (string, time.Time) {
	prefix, rest, ok := strings.Cut(name, "-")
	if !ok || rest == "" {
		return name, time.Time{}
	}
	ms, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil || ms <= 0 {
		return name, time.Time{}
	}
	return rest, time.UnixMilli(ms).UTC()
}
