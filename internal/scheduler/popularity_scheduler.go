package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/vestra/vestra-backend/internal/app/repository"
	"github.com/vestra/vestra-backend/pkg/logger"
)

// PopularityScheduler recomputes product popularity scores nightly so the
// default catalog ordering tracks real demand without per-request joins.
type PopularityScheduler struct {
	cron        *cron.Cron
	productRepo repository.ProductRepository
}

func NewPopularityScheduler(productRepo repository.ProductRepository) *PopularityScheduler {
	return &PopularityScheduler{
		cron:        cron.New(),
		productRepo: productRepo,
	}
}

func (s *PopularityScheduler) Start() error {
	// Nightly at 03:00, off-peak.
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled popularity recompute", nil)

		rows, err := s.productRepo.RecomputePopularity()
		if err != nil {
			logger.Error("Failed to recompute product popularity", err)
			return
		}

		logger.Info("Product popularity recompute finished", map[string]interface{}{
			"rows": rows,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for popularity recompute", err)
		return err
	}

	s.cron.Start()
	logger.Info("Popularity scheduler started (daily at 3:00 AM)", nil)
	return nil
}

func (s *PopularityScheduler) Stop() {
	logger.Info("Stopping popularity scheduler...", nil)
	s.cron.Stop()
}
