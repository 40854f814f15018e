package utils

import (
	"context"
	"fmt"
	"time"

	"binduty-service/internal/logging"
)

// Retry calls fn up to maxAttempts times, sleeping delay between failures.
// It stops early when ctx is done. maxAttempts below 1 is treated as 1.
func Retry(ctx context.Context, logger *logging.Logger, maxAttempts int, delay time.Duration, fn func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if maxAttempts == 1 {
			return err
		}
		logger.Warnf("Attempt %d/%d failed: %v", attempt, maxAttempts, err)
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled after %d attempts: %w", attempt, lastErr)
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}
