package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/models"
	"gorm.io/gorm"
)

type TweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) *TweetRepository {
	return &TweetRepository{db: db}
}

func (r *TweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return fmt.Errorf("failed to create tweet: %w", err)
	}
	return nil
}

func (r *TweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.db.WithContext(ctx).First(&tweet, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tweet by ID: %w", err)
	}
	return &tweet, nil
}

func (r *TweetRepository) UpdateContent(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).
		Model(tweet).
		Select("content", "updated_at").
		Updates(tweet).Error; err != nil {
		return fmt.Errorf("failed to update tweet: %w", err)
	}
	return nil
}

func (r *TweetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetTweet, id).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tweet{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete tweet: %w", err)
	}
	return nil
}
