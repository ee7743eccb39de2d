package tracker

import (
	"context"
	"errors"
)

// RetryOnConflict runs fn up to attempts times while it fails with
// ErrConflict. fn must perform the whole read-validate-write so each try sees
// fresh state.
func RetryOnConflict(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		err = fn()
		if !errors.Is(err, ErrConflict) {
			return err
		}
	}
	return err
}
