package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/models"
	"gorm.io/gorm"
)

// Composer runs the joined, counted and paginated read queries.
// It never writes.
type Composer struct {
	db *gorm.DB
}

func NewComposer(db *gorm.DB) *Composer {
	return &Composer{db: db}
}

var videoColumns = fmt.Sprintf(`v.id, v.video_file, v.thumbnail, v.title, v.description, v.duration,
	v.views, v.is_published, v.created_at, v.updated_at,
	u.id AS owner_id, u.username AS owner_username, u.full_name AS owner_full_name, u.avatar AS owner_avatar,
	(SELECT COUNT(*) FROM likes l WHERE l.target_kind = '%s' AND l.target_id = v.id) AS likes_count`,
	models.TargetVideo)

// VideoRow 是 videoColumns 的扫描目标，嵌入时必须导出，否则 gorm 会跳过
type VideoRow struct {
	ID            uuid.UUID
	VideoFile     string
	Thumbnail     string
	Title         string
	Description   string
	Duration      float64
	Views         int64
	IsPublished   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	OwnerID       uuid.UUID
	OwnerUsername string
	OwnerFullName string
	OwnerAvatar   string
	LikesCount    int64
}

func (r VideoRow) card() VideoCard {
	return VideoCard{
		ID:          r.ID,
		Thumbnail:   r.Thumbnail,
		Title:       r.Title,
		Description: r.Description,
		Duration:    r.Duration,
		Views:       r.Views,
		IsPublished: r.IsPublished,
		CreatedAt:   r.CreatedAt,
		Owner: OwnerSummary{
			ID:       r.OwnerID,
			Username: r.OwnerUsername,
			FullName: r.OwnerFullName,
			Avatar:   r.OwnerAvatar,
		},
		LikesCount: r.LikesCount,
	}
}

func cards(rows []VideoRow) []VideoCard {
	out := make([]VideoCard, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.card())
	}
	return out
}

// visibleTo keeps published videos plus the viewer's own drafts.
func visibleTo(viewerID uuid.UUID) (string, []interface{}) {
	return "(v.is_published = ? OR v.owner_id = ?)", []interface{}{true, viewerID}
}

func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}

// paginate runs count then page fetch over two fresh queries from build.
func paginate[R any](ctx context.Context, build func() *gorm.DB, columns string, order []string, p Page, columnArgs ...interface{}) ([]R, int64, error) {
	var total int64
	if err := build().WithContext(ctx).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]R, 0, p.Limit)
	if total == 0 {
		return rows, 0, nil
	}

	q := build().WithContext(ctx).Select(columns, columnArgs...)
	for _, o := range order {
		q = q.Order(o)
	}
	if err := q.Offset(p.Offset()).Limit(p.Limit).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
