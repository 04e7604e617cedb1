package services

import (
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	ErrUnauthenticated       = errors.New("authentication required")
	ErrForbidden             = errors.New("access denied")
	ErrReportNotFound        = errors.New("report not found")
	ErrTargetNotFound        = errors.New("reported content not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrValidation            = errors.New("validation failed")
	ErrDuplicateReport       = errors.New("you have already reported this content")
	ErrUnsupportedTargetType = errors.New("unsupported reportable type")
	ErrReportClosed          = errors.New("report has already been moderated")
	ErrAccountBlocked        = errors.New("account is blocked")
	ErrAccountBanned         = errors.New("account is banned")
	ErrAlreadyModerator      = errors.New("user is already a moderator")
	ErrNotModerator          = errors.New("user is not a moderator")
)

// BlockedError reports an active block. Until is nil for a permanent block.
type BlockedError struct {
	Until *time.Time
}

func (e *BlockedError) Error() string {
	if e.Until == nil {
		return ErrAccountBlocked.Error()
	}
	return ErrAccountBlocked.Error() + " until " + e.Until.UTC().Format(time.RFC3339)
}

func (e *BlockedError) Is(target error) bool {
	return target == ErrAccountBlocked
}

// ValidationError carries per-field messages. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
