package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and timestamps shared by every uuid keyed table.
type Base struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type User struct {
	Base
	Username         string `json:"username" gorm:"uniqueIndex;not null"`
	Email            string `json:"email" gorm:"uniqueIndex;not null"`
	FullName         string `json:"fullName" gorm:"not null;index"`
	Avatar           string `json:"avatar" gorm:"not null"`
	CoverImage       string `json:"coverImage"`
	Password         string `json:"-" gorm:"not null"`
	RefreshTokenHash string `json:"-"`
}

type Subscription struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SubscriberID uuid.UUID `json:"subscriber" gorm:"type:uuid;not null;uniqueIndex:idx_subscriber_channel"`
	ChannelID    uuid.UUID `json:"channel" gorm:"type:uuid;not null;uniqueIndex:idx_subscriber_channel;index"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// WatchHistory keeps one row per (user, video); re-watching only moves WatchedAt.
type WatchHistory struct {
	ID        uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID    uuid.UUID `json:"user" gorm:"type:uuid;not null;uniqueIndex:idx_history_user_video"`
	VideoID   uuid.UUID `json:"video" gorm:"type:uuid;not null;uniqueIndex:idx_history_user_video;index"`
	WatchedAt time.Time `json:"watchedAt" gorm:"not null;index"`
}

func (User) TableName() string {
	return "users"
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (WatchHistory) TableName() string {
	return "watch_histories"
}
