package commands

import (
	"errors"

	"gasdelivery/internal/pkg/errs"
)

// casAttempts bounds optimistic retries. The second attempt re-runs the domain guard against the
// fresh state, which is what rejects a duplicate scan or accept.
const casAttempts = 2

func retryOnConflict(fn func(attempt int) error) error {
	var err error
	for attempt := 0; attempt < casAttempts; attempt++ {
		err = fn(attempt)
		if !errors.Is(err, errs.ErrVersionConflict) {
			return err
		}
	}
	return err
}
