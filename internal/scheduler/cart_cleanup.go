package scheduler

import (
	"time"

	"github.com/bellavista/bellavista-backend/internal/app/repository"
	"github.com/bellavista/bellavista-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// StaleGuestCartAge is how long an untouched guest cart survives before the
// cleanup job removes it. Registered users keep their carts indefinitely.
const StaleGuestCartAge = 72 * time.Hour

// CartCleanupScheduler periodically purges abandoned guest carts.
type CartCleanupScheduler struct {
	cron     *cron.Cron
	cartRepo repository.CartRepository
}

func NewCartCleanupScheduler(cartRepo repository.CartRepository) *CartCleanupScheduler {
	return &CartCleanupScheduler{
		cron:     cron.New(),
		cartRepo: cartRepo,
	}
}

// Start schedules the purge to run every day at 04:00.
func (s *CartCleanupScheduler) Start() error {
	_, err := s.cron.AddFunc("0 4 * * *", s.runOnce)
	if err != nil {
		logger.Error("Failed to add cron job for cart cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart cleanup scheduler started (daily at 4:00 AM)")
	return nil
}

func (s *CartCleanupScheduler) runOnce() {
	cutoff := time.Now().Add(-StaleGuestCartAge)

	removed, err := s.cartRepo.DeleteStaleGuestLines(cutoff)
	if err != nil {
		logger.Error("Failed to purge stale guest carts", err)
		return
	}

	logger.Info("Stale guest carts purged", map[string]interface{}{
		"rows_removed": removed,
		"cutoff":       cutoff.Format(time.RFC3339),
	})
}

// Stop stops the scheduler.
func (s *CartCleanupScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Cart cleanup scheduler stopped")
}
