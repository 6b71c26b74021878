package views

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/models"
	"gorm.io/gorm"
)

type contentRow struct {
	ID            uuid.UUID
	Content       string
	VideoID       uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	OwnerID       uuid.UUID
	OwnerUsername string
	OwnerFullName string
	OwnerAvatar   string
	LikesCount    int64
	IsLiked       bool
}

func (r contentRow) owner() OwnerSummary {
	return OwnerSummary{ID: r.OwnerID, Username: r.OwnerUsername, FullName: r.OwnerFullName, Avatar: r.OwnerAvatar}
}

func contentColumns(alias string, kind models.TargetKind, extra string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.content, %[1]s.created_at, %[1]s.updated_at%[3]s,
	u.id AS owner_id, u.username AS owner_username, u.full_name AS owner_full_name, u.avatar AS owner_avatar,
	(SELECT COUNT(*) FROM likes l WHERE l.target_kind = '%[2]s' AND l.target_id = %[1]s.id) AS likes_count,
	EXISTS (SELECT 1 FROM likes l2 WHERE l2.target_kind = '%[2]s' AND l2.target_id = %[1]s.id AND l2.liked_by = ?) AS is_liked`,
		alias, kind, extra)
}

// ListComments returns a video's comments newest first with the commenter inlined.
func (c *Composer) ListComments(ctx context.Context, videoID, viewerID uuid.UUID, p Page) (*Paginated[CommentView], error) {
	build := func() *gorm.DB {
		return c.db.Table("comments AS c").
			Joins("JOIN users u ON u.id = c.owner_id").
			Where("c.video_id = ?", videoID)
	}

	columns := contentColumns("c", models.TargetComment, ", c.video_id")
	rows, total, err := paginate[contentRow](ctx, build, columns, []string{"c.created_at DESC", "c.id DESC"}, p, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	docs := make([]CommentView, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, CommentView{
			ID:         r.ID,
			Content:    r.Content,
			Video:      r.VideoID,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
			Owner:      r.owner(),
			LikesCount: r.LikesCount,
			IsLiked:    r.IsLiked,
		})
	}
	return newPaginated(docs, total, p), nil
}

func (c *Composer) ListTweets(ctx context.Context, ownerID, viewerID uuid.UUID, p Page) (*Paginated[TweetView], error) {
	build := func() *gorm.DB {
		return c.db.Table("tweets AS t").
			Joins("JOIN users u ON u.id = t.owner_id").
			Where("t.owner_id = ?", ownerID)
	}

	columns := contentColumns("t", models.TargetTweet, "")
	rows, total, err := paginate[contentRow](ctx, build, columns, []string{"t.created_at DESC", "t.id DESC"}, p, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tweets: %w", err)
	}

	docs := make([]TweetView, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, TweetView{
			ID:         r.ID,
			Content:    r.Content,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
			Owner:      r.owner(),
			LikesCount: r.LikesCount,
			IsLiked:    r.IsLiked,
		})
	}
	return newPaginated(docs, total, p), nil
}

type likedVideoRow struct {
	VideoRow
	LikedAt time.Time
}

// LikedVideos lists what the user liked, most recent like first.
func (c *Composer) LikedVideos(ctx context.Context, userID uuid.UUID, p Page) (*Paginated[LikedVideo], error) {
	build := func() *gorm.DB {
		cond, args := visibleTo(userID)
		return c.db.Table("likes AS lk").
			Joins("JOIN videos v ON v.id = lk.target_id").
			Joins("JOIN users u ON u.id = v.owner_id").
			Where("lk.liked_by = ? AND lk.target_kind = ?", userID, models.TargetVideo).
			Where(cond, args...)
	}

	rows, total, err := paginate[likedVideoRow](ctx, build, videoColumns+", lk.created_at AS liked_at",
		[]string{"lk.created_at DESC", "lk.id DESC"}, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked videos: %w", err)
	}

	docs := make([]LikedVideo, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, LikedVideo{VideoCard: r.card(), LikedAt: r.LikedAt})
	}
	return newPaginated(docs, total, p), nil
}
