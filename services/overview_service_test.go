package services

import (
	"context"
	"errors"
	"testing"

	"spamwatch-admin/models"
)

type stubStats struct {
	stats *models.Stats
	err   error
}

func (s stubStats) GetStats(context.Context) (*models.Stats, error) {
	return s.stats, s.err
}

func TestOverview(t *testing.T) {
	tests := []struct {
		name        string
		fetcher     stubStats
		wantOK      bool
		wantNotices int
		wantTotal   int
	}{
		{
			name:      "loaded",
			fetcher:   stubStats{stats: &models.Stats{TotalMessages: 12, SpamCount: 3}},
			wantOK:    true,
			wantTotal: 12,
		},
		{
			name:        "backend down",
			fetcher:     stubStats{err: errors.New("connection refused")},
			wantNotices: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &recordingNotifier{}
			svc := NewOverviewService(tt.fetcher, notifier)

			stats, ok := svc.Overview(context.Background())
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if stats.TotalMessages != tt.wantTotal {
				t.Errorf("TotalMessages = %d, want %d", stats.TotalMessages, tt.wantTotal)
			}
			if stats.RecentActivity == nil {
				t.Error("RecentActivity should never be nil")
			}
			if notifier.count() != tt.wantNotices {
				t.Errorf("notices = %d, want %d", notifier.count(), tt.wantNotices)
			}
		})
	}
}
