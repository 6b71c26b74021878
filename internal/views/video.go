package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/errs"
	"github.com/vidtube/vidtube/internal/models"
	"gorm.io/gorm"
)

type VideoFilter struct {
	// Query matches title or description, case-insensitively.
	Query    string
	OwnerID  uuid.UUID
	ViewerID uuid.UUID
	// IncludeDrafts lists unpublished videos regardless of viewer.
	IncludeDrafts bool
}

func (c *Composer) ListVideos(ctx context.Context, f VideoFilter, s Sort, p Page) (*Paginated[VideoCard], error) {
	build := func() *gorm.DB {
		q := c.db.Table("videos AS v").Joins("JOIN users u ON u.id = v.owner_id")
		if !f.IncludeDrafts {
			cond, args := visibleTo(f.ViewerID)
			q = q.Where(cond, args...)
		}
		if f.OwnerID != uuid.Nil {
			q = q.Where("v.owner_id = ?", f.OwnerID)
		}
		if query := strings.TrimSpace(f.Query); query != "" {
			pattern := likePattern(query)
			q = q.Where(`(LOWER(v.title) LIKE ? ESCAPE '\' OR LOWER(v.description) LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		return q
	}

	rows, total, err := paginate[VideoRow](ctx, build, videoColumns, []string{s.clause(), "v.id DESC"}, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return newPaginated(cards(rows), total, p), nil
}

type videoDetailRow struct {
	VideoRow
	SubscribersCount int64
	IsLiked          bool
	IsSubscribed     bool
}

// VideoDetail hides drafts from everyone except their owner.
func (c *Composer) VideoDetail(ctx context.Context, videoID, viewerID uuid.UUID) (*VideoDetail, error) {
	columns := videoColumns + fmt.Sprintf(`,
		(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = v.owner_id) AS subscribers_count,
		EXISTS (SELECT 1 FROM likes l2 WHERE l2.target_kind = '%s' AND l2.target_id = v.id AND l2.liked_by = ?) AS is_liked,
		EXISTS (SELECT 1 FROM subscriptions s2 WHERE s2.channel_id = v.owner_id AND s2.subscriber_id = ?) AS is_subscribed`,
		models.TargetVideo)

	var row videoDetailRow
	res := c.db.WithContext(ctx).
		Table("videos AS v").
		Joins("JOIN users u ON u.id = v.owner_id").
		Select(columns, viewerID, viewerID).
		Where("v.id = ?", videoID).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to get video detail: %w", res.Error)
	}
	if res.RowsAffected == 0 || (!row.IsPublished && row.OwnerID != viewerID) {
		return nil, errs.NotFound("Video not found")
	}

	return &VideoDetail{
		VideoCard:        row.card(),
		VideoFile:        row.VideoFile,
		UpdatedAt:        row.UpdatedAt,
		IsLiked:          row.IsLiked,
		SubscribersCount: row.SubscribersCount,
		IsSubscribed:     row.IsSubscribed,
	}, nil
}

// ChannelVideos is the owner's dashboard list, drafts included, newest first.
func (c *Composer) ChannelVideos(ctx context.Context, ownerID uuid.UUID, p Page) (*Paginated[VideoCard], error) {
	return c.ListVideos(ctx, VideoFilter{OwnerID: ownerID, ViewerID: ownerID, IncludeDrafts: true},
		Sort{Column: "v.created_at", Desc: true}, p)
}
