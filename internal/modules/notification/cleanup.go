package notification

import (
	"context"
	"time"
)

type retentionStore interface {
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// CleanupService prunes notifications past their retention window so
// the table does not grow without bound.
type CleanupService struct {
	repo    retentionStore
	loggerf func(format string, args ...interface{})
}

func NewCleanupService(repo retentionStore, loggerf func(format string, args ...interface{})) *CleanupService {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &CleanupService{repo: repo, loggerf: loggerf}
}

// CleanupOld removes notifications older than the retention window.
func (c *CleanupService) CleanupOld(ctx context.Context, retention time.Duration) error {
	start := time.Now()

	deleted, err := c.repo.DeleteOlderThan(ctx, retention)
	if err != nil {
		c.loggerf("level=error msg=notification cleanup failed err=%v", err)
		return err
	}

	c.loggerf("level=info msg=notification cleanup completed deleted=%d took=%v", deleted, time.Since(start))
	return nil
}

type CleanupConfig struct {
	// Retention is how long a notification stays readable before it is
	// eligible for deletion.
	Retention     time.Duration
	Interval      time.Duration
	EnableCleanup bool
}

func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		Retention:     90 * 24 * time.Hour,
		Interval:      24 * time.Hour,
		EnableCleanup: true,
	}
}

// Schedule starts the periodic cleanup loop. The returned channel stops
// the loop when closed; it is nil when cleanup is disabled.
func (c *CleanupService) Schedule(ctx context.Context, config CleanupConfig) chan struct{} {
	if !config.EnableCleanup {
		c.loggerf("level=info msg=notification cleanup disabled")
		return nil
	}

	stopCh := make(chan struct{})

	go func() {
		ticker := time.NewTicker(config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := c.CleanupOld(ctx, config.Retention); err != nil {
					c.loggerf("level=error msg=scheduled notification cleanup err=%v", err)
				}
			case <-stopCh:
				c.loggerf("level=info msg=notification cleanup stopped")
				return
			case <-ctx.Done():
				c.loggerf("level=info msg=notification cleanup stopped reason=context")
				return
			}
		}
	}()

	c.loggerf("level=info msg=notification cleanup scheduled interval=%v retention=%v", config.Interval, config.Retention)
	return stopCh
}
