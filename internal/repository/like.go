package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Toggle removes the like if present, otherwise inserts it. The returned
// bool is the state after the call. Concurrent toggles cannot produce two
// rows for the same pair because of idx_like_actor_target.
func (r *LikeRepository) Toggle(ctx context.Context, userID uuid.UUID, target models.LikeTarget) (bool, error) {
	db := r.db.WithContext(ctx)

	res := db.Where("liked_by = ? AND target_kind = ? AND target_id = ?", userID, target.Kind, target.ID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete like: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	like := &models.Like{
		LikedBy:    userID,
		TargetKind: target.Kind,
		TargetID:   target.ID,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
		return false, fmt.Errorf("failed to create like: %w", err)
	}
	return true, nil
}

func (r *LikeRepository) Count(ctx context.Context, target models.LikeTarget) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("target_kind = ? AND target_id = ?", target.Kind, target.ID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}
