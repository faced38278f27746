package kingdoms

import (
	"errors"
	"fmt"
)

var (
	ErrResolutionInProgress = errors.New("turn resolution in progress")
	ErrNoDuelPending        = errors.New("no duel pending")
	ErrUnknownDuelist       = errors.New("winner is not a duel participant")
)

// RejectionError reports why an order or action was refused. No state is
// mutated when it is returned.
type RejectionError struct {
	Order  string
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Order, e.Reason)
}

func reject(order any, format string, args ...any) error {
	return &RejectionError{Order: fmt.Sprint(order), Reason: fmt.Sprintf(format, args...)}
}
