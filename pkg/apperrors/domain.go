package apperrors

import (
	"net/http"
)

// ErrInvalidStatus is returned for a status change the workflow does not allow.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrStorage wraps a failure of the notification, task or file storage.
func ErrStorage(err error, domain, message string) *AppError {
	return Wrap(err, CodeStorageError, domain, message, http.StatusInternalServerError)
}

// --- Tasks ---

var ErrTaskNotFound = New(
	CodeNotFound,
	"task",
	"Task not found",
	http.StatusNotFound,
)

// --- Uploads ---

var ErrFileMissing = New(
	CodeValidationFailed,
	"upload",
	"No file uploaded",
	http.StatusBadRequest,
)

func ErrFileTooLarge(maxSize int64) *AppError {
	return New(CodeLimitExceeded, "upload", "File size exceeds the allowed limit", http.StatusBadRequest).
		WithDetails(map[string]int64{"max_size": maxSize})
}

var ErrFileNotFound = New(
	CodeNotFound,
	"upload",
	"File not found",
	http.StatusNotFound,
)

// ErrListFiles keeps the message the dashboard client already expects.
func ErrListFiles(err error) *AppError {
	return Wrap(err, CodeStorageError, "upload", "Unable to read uploaded files", http.StatusInternalServerError)
}
