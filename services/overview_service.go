package services

import (
	"context"
	"log"

	"spamwatch-admin/models"
	"spamwatch-admin/pkg/flash"
)

const StatsErrorMessage = "Error loading dashboard statistics"

type StatsFetcher interface {
	GetStats(ctx context.Context) (*models.Stats, error)
}

// OverviewService loads the figures shown on the dashboard landing page.
type OverviewService struct {
	fetcher  StatsFetcher
	notifier Notifier
}

func NewOverviewService(fetcher StatsFetcher, notifier Notifier) *OverviewService {
	return &OverviewService{
		fetcher:  fetcher,
		notifier: notifier,
	}
}

// Overview returns the backend statistics. On failure the operator is
// notified and empty statistics are returned so the page still renders.
func (s *OverviewService) Overview(ctx context.Context) (models.Stats, bool) {
	stats, err := s.fetcher.GetStats(ctx)
	if err != nil {
		log.Printf("❌ Error fetching dashboard stats: %v", err)
		s.notifier.Notify(ctx, flash.Error(StatsErrorMessage))
		return models.Stats{RecentActivity: []models.Message{}}, false
	}
	if stats.RecentActivity == nil {
		stats.RecentActivity = []models.Message{}
	}
	return *stats, true
}
