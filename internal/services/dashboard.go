package services

import (
	"context"
	"errors"
	"time"

	"github.com/vidtube/vidtube/internal/errs"
	"github.com/vidtube/vidtube/internal/views"
	"github.com/vidtube/vidtube/pkg/cache"
	"github.com/vidtube/vidtube/pkg/logger"
)

type DashboardService struct {
	composer *views.Composer
	cache    *cache.RedisClient
	statsTTL time.Duration
	logger   *logger.Logger
}

func NewDashboardService(composer *views.Composer, cache *cache.RedisClient, statsTTL time.Duration, logger *logger.Logger) *DashboardService {
	return &DashboardService{
		composer: composer,
		cache:    cache,
		statsTTL: statsTTL,
		logger:   logger,
	}
}

// Stats serves the channel totals from Redis when cached; the worker drops
// the entry whenever one of the counted things changes.
func (s *DashboardService) Stats(ctx context.Context, callerID string) (*views.ChannelStats, error) {
	caller, err := parseID(callerID, "user id")
	if err != nil {
		return nil, err
	}
	key := cache.DashboardStatsKey(caller.String())

	var cached views.ChannelStats
	err = s.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to read dashboard stats cache")
	}

	stats, err := s.composer.ChannelStats(ctx, caller)
	if err != nil {
		return nil, errs.Internal(err, "Failed to get channel stats")
	}
	if err := s.cache.SetJSON(ctx, key, stats, s.statsTTL); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to cache dashboard stats")
	}
	return stats, nil
}

func (s *DashboardService) Videos(ctx context.Context, callerID string, p views.Page) (*views.Paginated[views.VideoCard], error) {
	caller, err := parseID(callerID, "user id")
	if err != nil {
		return nil, err
	}
	return s.composer.ChannelVideos(ctx, caller, p)
}

// InvalidateStats drops the cached totals of a channel.
func (s *DashboardService) InvalidateStats(ctx context.Context, channelID string) error {
	return s.cache.Delete(ctx, cache.DashboardStatsKey(channelID))
}
