package services

import (
	"context"

	"socialdesk/internal/domain"
	"socialdesk/pkg/logger"
)

// CountsCache is a short-lived cache of the admin counts. A nil cache is valid.
type CountsCache interface {
	Get(ctx context.Context) (*domain.Counts, error)
	Set(ctx context.Context, counts domain.Counts) error
	Invalidate(ctx context.Context) error
}

type countsTracker struct {
	cache  CountsCache
	logger *logger.Logger
}

func (t countsTracker) invalidate(ctx context.Context) {
	if t.cache == nil {
		return
	}
	if err := t.cache.Invalidate(ctx); err != nil {
		t.logger.WithContext(ctx).Warnf("invalidate counts cache: %v", err)
	}
}
