package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"flymedia_backend/internal/models"

	"github.com/jmoiron/sqlx"
)

var ErrFileNotFound = errors.New("file not found")

// FileRepository keeps one metadata row per stored upload.
type FileRepository interface {
	Save(ctx context.Context, f *models.StoredFile) error
	FindByName(ctx context.Context, storedName string) (*models.StoredFile, error)
	List(ctx context.Context) ([]models.StoredFile, error)
	CountByCategory(ctx context.Context) (map[string]int, error)
	Delete(ctx context.Context, storedName string) error
}

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Save(ctx context.Context, f *models.StoredFile) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT OR REPLACE INTO stored_files (stored_name, original_name, mime_type, size, uploaded_at)
		VALUES (:stored_name, :original_name, :mime_type, :size, :uploaded_at)`,
		f,
	)
	if err != nil {
		return fmt.Errorf("saving file metadata %s: %w", f.StoredName, err)
	}
	return nil
}

func (r *fileRepository) FindByName(ctx context.Context, storedName string) (*models.StoredFile, error) {
	var f models.StoredFile
	err := r.db.GetContext(ctx, &f, "SELECT * FROM stored_files WHERE stored_name = ?", storedName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading file metadata %s: %w", storedName, err)
	}
	return &f, nil
}

func (r *fileRepository) List(ctx context.Context) ([]models.StoredFile, error) {
	files := []models.StoredFile{}
	if err := r.db.SelectContext(ctx, &files, "SELECT * FROM stored_files ORDER BY uploaded_at DESC"); err != nil {
		return nil, fmt.Errorf("listing file metadata: %w", err)
	}
	return files, nil
}

// CountByCategory counts files per MIME top-level type.
func (r *fileRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	files, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, f := range files {
		counts[f.Category()]++
	}
	return counts, nil
}

func (r *fileRepository) Delete(ctx context.Context, storedName string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM stored_files WHERE stored_name = ?", storedName); err != nil {
		return fmt.Errorf("deleting file metadata %s: %w", storedName, err)
	}
	return nil
}
