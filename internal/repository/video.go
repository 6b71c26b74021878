package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/models"
	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).First(&video, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get video by ID: %w", err)
	}
	return &video, nil
}

// UpdateDetails writes title, description and thumbnail. Owner and file never change here.
func (r *VideoRepository) UpdateDetails(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).
		Model(video).
		Select("title", "description", "thumbnail", "updated_at").
		Updates(video).Error; err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	return nil
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// TogglePublished flips the flag with an in-place NOT and reads the stored value
// back inside the same transaction.
func (r *VideoRepository) TogglePublished(ctx context.Context, id uuid.UUID) (bool, error) {
	var published bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Video{}).
			Where("id = ?", id).
			UpdateColumn("is_published", gorm.Expr("NOT is_published")).Error; err != nil {
			return err
		}
		return tx.Model(&models.Video{}).
			Where("id = ?", id).
			Pluck("is_published", &published).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle publish status: %w", err)
	}
	return published, nil
}

// Delete removes the video with everything hanging off it.
func (r *VideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("video_id = ?", id)
		if err := tx.Where("target_kind = ? AND target_id IN (?)", models.TargetComment, commentIDs).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetVideo, id).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.WatchHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Video{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return nil
}
