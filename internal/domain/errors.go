package domain

import "errors"

var (
	// ErrNotFound means the requested user or invoice does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotOwner means the invoice exists but belongs to another user.
	ErrNotOwner = errors.New("not owned by caller")
	// ErrAlreadyPaid means a paid invoice was asked to transition again.
	ErrAlreadyPaid = errors.New("invoice already paid")
	// ErrQuotaExceeded means the free-tier unpaid invoice cap is reached.
	ErrQuotaExceeded = errors.New("free tier invoice limit reached")
)
