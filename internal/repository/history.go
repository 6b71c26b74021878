package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchHistoryRepository struct {
	db *gorm.DB
}

func NewWatchHistoryRepository(db *gorm.DB) *WatchHistoryRepository {
	return &WatchHistoryRepository{db: db}
}

// Record puts the video at the front of the user's history.
func (r *WatchHistoryRepository) Record(ctx context.Context, userID, videoID uuid.UUID) error {
	entry := &models.WatchHistory{UserID: userID, VideoID: videoID, WatchedAt: time.Now()}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"watched_at"}),
		}).
		Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record watch history: %w", err)
	}
	return nil
}
