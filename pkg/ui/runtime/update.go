package runtime

import (
	"errors"

	apperrors "github.com/odvcencio/sniper/pkg/errors"
)

// ErrUpdateChainExceeded is returned when a message cascade runs past the
// configured MaxUpdateChain.
var ErrUpdateChainExceeded = errors.New("update chain exceeded limit")

// Updater is the state-transition half of an application.
type Updater[M any] interface {
	// Update folds msg into the model and optionally returns a follow-up
	// message to process before the next frame. A non-nil error discards
	// the follow-up.
	Update(msg M) (next M, ok bool, err error)

	// Failure converts an update error into a message for the same chain.
	Failure(err error) M
}

// Settle runs the update chain for first until no messages remain.
//
// Pending messages sit in a FIFO work list rather than recursing, so the stack
// stays flat however long the cascade. The application must guarantee the
// cascade ends. limit > 0 caps the number of Update calls and reports
// ErrUpdateChainExceeded past it; limit <= 0 means unbounded.
//
// Settle returns the number of Update calls made.
func Settle[M any](u Updater[M], first M, limit int) (int, error) {
	pending := []M{first}
	steps := 0
	for len(pending) > 0 {
		if limit > 0 && steps >= limit {
			return steps, apperrors.Wrap(ErrUpdateChainExceeded, apperrors.ErrCodeUpdateChain, "settle update chain").
				WithContext("limit", limit)
		}
		msg := pending[0]
		pending = pending[1:]
		steps++

		next, ok, err := u.Update(msg)
		switch {
		case err != nil:
			pending = append(pending, u.Failure(err))
		case ok:
			pending = append(pending, next)
		}
	}
	return steps, nil
}
