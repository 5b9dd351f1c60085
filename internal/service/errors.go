package service

import (
	"errors"

	"github.com/jordanhale/timeloom/internal/rules"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRange is returned for a nonsensical scheduling range.
	ErrInvalidRange = errors.New("invalid schedule range")

	// ErrSyncNotConfigured is returned when calendar sync is invoked
	// without a configured calendar client. Everything else keeps
	// working without sync.
	ErrSyncNotConfigured = errors.New("calendar sync not configured")

	// ErrUnknownTemplate mirrors the rules package sentinel so callers
	// only depend on the service surface.
	ErrUnknownTemplate = rules.ErrUnknownTemplate
)
