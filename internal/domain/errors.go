package domain

import "errors"

var (
	ErrSampleNumberRequired = errors.New("sample number is required")
	ErrNotFound             = errors.New("sample not found")
	// ErrCredentials means the spreadsheet service rejected or lacks credentials.
	ErrCredentials = errors.New("spreadsheet credentials missing or rejected")
	// ErrUnavailable means the spreadsheet service could not be reached.
	ErrUnavailable = errors.New("spreadsheet service unavailable")
)
