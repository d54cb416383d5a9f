package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"flymedia_backend/internal/events"
	"flymedia_backend/internal/logger"
	"flymedia_backend/internal/models"
	"flymedia_backend/internal/repositories"
	"flymedia_backend/internal/services/dto"
	"flymedia_backend/internal/storage"
	"flymedia_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
)

// Public prefix under which stored files are served.
const UploadsPath = "/uploads"

const maxNameAttempts = 1000

type UploadService interface {
	// Upload stores exactly one file as "<epoch-ms>-<original name>".
	Upload(ctx context.Context, file *multipart.FileHeader) (*dto.UploadResponse, error)
	ListFiles(ctx context.Context) ([]string, error)
	// Open streams a stored file. The caller closes the reader.
	Open(ctx context.Context, name string) (io.ReadCloser, *models.StoredFile, error)
	DeleteFile(ctx context.Context, name string) error
}

type uploadService struct {
	storage   storage.Storage
	fileRepo  repositories.FileRepository
	publisher events.Publisher
	maxSize   int64
	now       func() time.Time
}

func NewUploadService(
	storage storage.Storage,
	fileRepo repositories.FileRepository,
	publisher events.Publisher,
	maxSize int64,
) UploadService {
	return &uploadService{
		storage:   storage,
		fileRepo:  fileRepo,
		publisher: publisher,
		maxSize:   maxSize,
		now:       time.Now,
	}
}

// originalName reduces a client-supplied file name to its last path element.
func originalName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if storage.ValidateName(name) != nil {
		return "file"
	}
	return name
}

func detectMimeType(r io.Reader, declared string) string {
	mtype, err := mimetype.DetectReader(r)
	if err == nil && !mtype.Is("application/octet-stream") {
		base, _, _ := strings.Cut(mtype.String(), ";")
		return base
	}
	if declared != "" {
		base, _, _ := strings.Cut(declared, ";")
		return strings.TrimSpace(base)
	}
	return "application/octet-stream"
}

func (s *uploadService) Upload(ctx context.Context, fh *multipart.FileHeader) (*dto.UploadResponse, error) {
	if fh == nil {
		return nil, apperrors.ErrFileMissing
	}
	if s.maxSize > 0 && fh.Size > s.maxSize {
		return nil, apperrors.ErrFileTooLarge(s.maxSize)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("opening uploaded file: %w", err))
	}
	defer src.Close()

	mimeType := detectMimeType(src, fh.Header.Get("Content-Type"))
	orig := originalName(fh.Filename)

	ms := s.now().UnixMilli()
	var storedName string
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return nil, apperrors.InternalError(fmt.Errorf("rewinding uploaded file: %w", err))
		}

		name := fmt.Sprintf("%d-%s", ms+int64(attempt), orig)
		err := s.storage.Save(ctx, name, src, mimeType)
		if errors.Is(err, storage.ErrExists) {
			continue
		}
		if err != nil {
			return nil, apperrors.ErrStorage(err, "upload", "Unable to store file")
		}
		storedName = name
		break
	}
	if storedName == "" {
		return nil, apperrors.ErrStorage(fmt.Errorf("no free name for %s", orig), "upload", "Unable to store file")
	}

	meta := &models.StoredFile{
		StoredName:   storedName,
		OriginalName: orig,
		MimeType:     mimeType,
		Size:         fh.Size,
		UploadedAt:   s.now().UTC(),
	}
	if err := s.fileRepo.Save(ctx, meta); err != nil {
		// The file itself is stored and listed; only analytics miss it.
		logger.CtxWithError(ctx, "failed to save file metadata", err, "file", storedName)
	}

	logger.CtxInfo(ctx, "file uploaded", "file", storedName, "mime_type", mimeType, "size_bytes", fh.Size)
	if s.publisher != nil {
		s.publisher.Publish(events.FilesUpdated)
	}

	resp := &dto.UploadResponse{
		FileName: storedName,
		FilePath: UploadsPath + "/" + storedName,
		MimeType: mimeType,
		Size:     fh.Size,
	}
	if url, err := s.storage.GetURL(ctx, storedName); err != nil {
		logger.CtxWithError(ctx, "failed to build file url", err, "file", storedName)
	} else {
		resp.URL = url
	}
	return resp, nil
}

func (s *uploadService) ListFiles(ctx context.Context) ([]string, error) {
	names, err := s.storage.List(ctx)
	if err != nil {
		return nil, apperrors.ErrListFiles(err)
	}
	return names, nil
}

func (s *uploadService) Open(ctx context.Context, name string) (io.ReadCloser, *models.StoredFile, error) {
	rc, err := s.storage.Get(ctx, name)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
		return nil, nil, apperrors.ErrFileNotFound
	}
	if err != nil {
		return nil, nil, apperrors.ErrStorage(err, "upload", "Unable to read file")
	}

	meta, err := s.fileRepo.FindByName(ctx, name)
	if err != nil {
		if !errors.Is(err, repositories.ErrFileNotFound) {
			logger.CtxWarn(ctx, "failed to read file metadata", "file", name, "error", err.Error())
		}
		meta = &models.StoredFile{StoredName: name, OriginalName: name}
		if size, err := s.storage.GetSize(ctx, name); err == nil {
			meta.Size = size
		} else {
			meta.Size = -1
		}
	}
	return rc, meta, nil
}

func (s *uploadService) DeleteFile(ctx context.Context, name string) error {
	if err := storage.ValidateName(name); err != nil {
		return apperrors.ErrFileNotFound
	}
	exists, err := s.storage.Exists(ctx, name)
	if err != nil {
		return apperrors.ErrStorage(err, "upload", "Unable to read file")
	}
	if !exists {
		return apperrors.ErrFileNotFound
	}

	if err := s.storage.Delete(ctx, name); err != nil {
		return apperrors.ErrStorage(err, "upload", "Unable to delete file")
	}
	if err := s.fileRepo.Delete(ctx, name); err != nil {
		logger.CtxWithError(ctx, "failed to delete file metadata", err, "file", name)
	}

	if s.publisher != nil {
		s.publisher.Publish(events.FilesUpdated)
	}
	return nil
}
