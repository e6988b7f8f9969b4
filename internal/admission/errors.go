package admission

import (
	"errors"
	"fmt"

	"github.com/kamgaa/lab-reservation/pkg/user"
)

// Confirmed is the decision code of an accepted request.
const Confirmed = "CONFIRMED"

var (
	ErrInvalidInterval = errors.New("INVALID_INTERVAL")
	ErrPastTime        = errors.New("PAST_TIME")
	ErrQuotaExhausted  = errors.New("QUOTA_EXHAUSTED")
	ErrQuotaExceeded   = errors.New("QUOTA_EXCEEDED")
	ErrSlotConflict    = errors.New("SLOT_CONFLICT")
	ErrNoTeam          = errors.New("NO_TEAM")

	// ErrStorageUnavailable marks a failed decision, not a rejected request.
	// Retrying is safe: every attempt re-reads the store.
	ErrStorageUnavailable = errors.New("STORAGE_UNAVAILABLE")
)

var rejections = []error{
	ErrInvalidInterval,
	ErrPastTime,
	ErrQuotaExhausted,
	ErrQuotaExceeded,
	ErrSlotConflict,
	ErrNoTeam,
	user.ErrUserNotFound,
}

// QuotaError is a quota rejection with the hours the team still has this week.
type QuotaError struct {
	Reason         error
	RemainingHours float64
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s: %.1f hours remaining", e.Reason, e.RemainingHours)
}

func (e *QuotaError) Unwrap() error {
	return e.Reason
}

// IsRejection reports whether err is an expected outcome of a well-processed request.
func IsRejection(err error) bool {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}

// Code returns the decision code for the result of TryReserve.
func Code(err error) string {
	if err == nil {
		return Confirmed
	}

	for _, r := range rejections {
		if errors.Is(err, r) {
			return r.Error()
		}
	}

	return ErrStorageUnavailable.Error()
}

// RemainingHours extracts the remaining hours carried by a quota rejection.
func RemainingHours(err error) (float64, bool) {
	var qe *QuotaError
	if errors.As(err, &qe) {
		return qe.RemainingHours, true
	}
	return 0, false
}

func storageErr(err error) error {
	if errors.Is(err, ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
