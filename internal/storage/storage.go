package storage

import "errors"

var (
	ErrUnauthorized       = errors.New("remote service rejected credentials")
	ErrNoToken            = errors.New("no admin token stored")
	ErrNoValidIdentifiers = errors.New("no valid project identifiers in sequence plan")
	ErrMoveOutOfRange     = errors.New("move target is out of range")
	ErrEditorBusy         = errors.New("editor session already submitting")
	ErrEditorClosed       = errors.New("editor session is closed")
	ErrNotConfirmed       = errors.New("destructive action not confirmed")
)

var (
	ErrUploadFailed    = errors.New("upload response missing asset path")
	ErrPartialUpload   = errors.New("upload returned fewer paths than files")
	ErrEmptyUpload     = errors.New("no file content to upload")
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
)
