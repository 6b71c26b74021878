package views

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/errs"
	"gorm.io/gorm"
)

func (c *Composer) ListPlaylists(ctx context.Context, ownerID uuid.UUID, p Page) (*Paginated[PlaylistSummary], error) {
	build := func() *gorm.DB {
		return c.db.Table("playlists AS p").Where("p.owner_id = ?", ownerID)
	}

	columns := `p.id, p.name, p.description, p.owner_id AS owner, p.created_at, p.updated_at,
		(SELECT COUNT(*) FROM playlist_videos pv WHERE pv.playlist_id = p.id) AS videos_count,
		COALESCE((SELECT vv.thumbnail FROM playlist_videos pv
			JOIN videos vv ON vv.id = pv.video_id
			WHERE pv.playlist_id = p.id ORDER BY pv.id ASC LIMIT 1), '') AS preview_thumbnail`

	docs, total, err := paginate[PlaylistSummary](ctx, build, columns, []string{"p.updated_at DESC", "p.id DESC"}, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	return newPaginated(docs, total, p), nil
}

type playlistRow struct {
	ID            uuid.UUID
	Name          string
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	OwnerID       uuid.UUID
	OwnerUsername string
	OwnerFullName string
	OwnerAvatar   string
}

// PlaylistDetail returns the playlist with its videos in insertion order.
// Other users' drafts are left out.
func (c *Composer) PlaylistDetail(ctx context.Context, playlistID, viewerID uuid.UUID) (*PlaylistDetail, error) {
	var row playlistRow
	res := c.db.WithContext(ctx).
		Table("playlists AS p").
		Joins("JOIN users u ON u.id = p.owner_id").
		Select(`p.id, p.name, p.description, p.created_at, p.updated_at,
			u.id AS owner_id, u.username AS owner_username, u.full_name AS owner_full_name, u.avatar AS owner_avatar`).
		Where("p.id = ?", playlistID).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NotFound("Playlist not found")
	}

	cond, args := visibleTo(viewerID)
	var rows []VideoRow
	if err := c.db.WithContext(ctx).
		Table("playlist_videos AS pv").
		Joins("JOIN videos v ON v.id = pv.video_id").
		Joins("JOIN users u ON u.id = v.owner_id").
		Select(videoColumns).
		Where("pv.playlist_id = ?", playlistID).
		Where(cond, args...).
		Order("pv.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get playlist videos: %w", err)
	}

	detail := &PlaylistDetail{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Owner: OwnerSummary{
			ID:       row.OwnerID,
			Username: row.OwnerUsername,
			FullName: row.OwnerFullName,
			Avatar:   row.OwnerAvatar,
		},
		Videos:    cards(rows),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	detail.VideosCount = len(detail.Videos)
	for _, v := range detail.Videos {
		detail.TotalViews += v.Views
	}
	return detail, nil
}
