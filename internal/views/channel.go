package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/errs"
	"github.com/vidtube/vidtube/internal/models"
	"gorm.io/gorm"
)

// ChannelProfile looks a channel up by username and derives its counters.
func (c *Composer) ChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, errs.InvalidArgument("username is missing")
	}

	var profile ChannelProfile
	res := c.db.WithContext(ctx).
		Table("users AS u").
		Select(`u.id, u.username, u.full_name, u.email, u.avatar, u.cover_image, u.created_at,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id) AS subscribers_count,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to_count,
			EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = ?) AS is_subscribed,
			(SELECT COUNT(*) FROM videos vv WHERE vv.owner_id = u.id AND vv.is_published = ?) AS videos_count`,
			viewerID, true).
		Where("u.username = ?", username).
		Limit(1).
		Scan(&profile)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to get channel profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NotFound("channel does not exist")
	}
	return &profile, nil
}

const channelCardColumns = `u.id, u.username, u.full_name, u.avatar, s.created_at AS subscribed_at,
	(SELECT COUNT(*) FROM subscriptions s2 WHERE s2.channel_id = u.id) AS subscribers_count`

// ListSubscribers lists users subscribed to channelID.
func (c *Composer) ListSubscribers(ctx context.Context, channelID uuid.UUID, p Page) (*Paginated[ChannelCard], error) {
	build := func() *gorm.DB {
		return c.db.Table("subscriptions AS s").
			Joins("JOIN users u ON u.id = s.subscriber_id").
			Where("s.channel_id = ?", channelID)
	}

	docs, total, err := paginate[ChannelCard](ctx, build, channelCardColumns, []string{"s.created_at DESC", "s.id DESC"}, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return newPaginated(docs, total, p), nil
}

// ListSubscribedChannels lists channels subscriberID follows.
func (c *Composer) ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID, p Page) (*Paginated[ChannelCard], error) {
	build := func() *gorm.DB {
		return c.db.Table("subscriptions AS s").
			Joins("JOIN users u ON u.id = s.channel_id").
			Where("s.subscriber_id = ?", subscriberID)
	}

	docs, total, err := paginate[ChannelCard](ctx, build, channelCardColumns, []string{"s.created_at DESC", "s.id DESC"}, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribed channels: %w", err)
	}
	return newPaginated(docs, total, p), nil
}

// ChannelStats aggregates the dashboard counters for one channel.
func (c *Composer) ChannelStats(ctx context.Context, ownerID uuid.UUID) (*ChannelStats, error) {
	var stats ChannelStats
	err := c.db.WithContext(ctx).Raw(`SELECT
		(SELECT COUNT(*) FROM videos WHERE owner_id = ?) AS total_videos,
		(SELECT CAST(COALESCE(SUM(views), 0) AS BIGINT) FROM videos WHERE owner_id = ?) AS total_views,
		(SELECT COUNT(*) FROM subscriptions WHERE channel_id = ?) AS total_subscribers,
		(SELECT COUNT(*) FROM likes WHERE target_kind = ? AND target_id IN (SELECT id FROM videos WHERE owner_id = ?)) AS total_likes,
		(SELECT COUNT(*) FROM tweets WHERE owner_id = ?) AS total_tweets`,
		ownerID, ownerID, ownerID, models.TargetVideo, ownerID, ownerID).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get channel stats: %w", err)
	}
	return &stats, nil
}

type watchedRow struct {
	VideoRow
	WatchedAt time.Time
}

// WatchHistory lists the user's watched videos, most recent first.
func (c *Composer) WatchHistory(ctx context.Context, userID uuid.UUID, p Page) (*Paginated[WatchedVideo], error) {
	build := func() *gorm.DB {
		cond, args := visibleTo(userID)
		return c.db.Table("watch_histories AS wh").
			Joins("JOIN videos v ON v.id = wh.video_id").
			Joins("JOIN users u ON u.id = v.owner_id").
			Where("wh.user_id = ?", userID).
			Where(cond, args...)
	}

	rows, total, err := paginate[watchedRow](ctx, build, videoColumns+", wh.watched_at",
		[]string{"wh.watched_at DESC", "wh.id DESC"}, p)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}

	docs := make([]WatchedVideo, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, WatchedVideo{VideoCard: r.card(), WatchedAt: r.WatchedAt})
	}
	return newPaginated(docs, total, p), nil
}
