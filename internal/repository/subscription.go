package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Toggle follows the same delete-or-insert shape as LikeRepository.Toggle.
func (r *SubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)

	res := db.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	sub := &models.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(sub).Error; err != nil {
		return false, fmt.Errorf("failed to create subscription: %w", err)
	}
	return true, nil
}

func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return count, nil
}
