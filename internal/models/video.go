package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Video struct {
	Base
	VideoFile   string    `json:"videoFile" gorm:"not null"`
	Thumbnail   string    `json:"thumbnail" gorm:"not null"`
	Title       string    `json:"title" gorm:"not null;index"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Duration    float64   `json:"duration" gorm:"not null;default:0"`
	Views       int64     `json:"views" gorm:"not null;default:0"`
	IsPublished bool      `json:"isPublished" gorm:"not null"`
	OwnerID     uuid.UUID `json:"owner" gorm:"type:uuid;not null;index"`
}

type Comment struct {
	Base
	Content string    `json:"content" gorm:"type:text;not null"`
	VideoID uuid.UUID `json:"video" gorm:"type:uuid;not null;index"`
	OwnerID uuid.UUID `json:"owner" gorm:"type:uuid;not null;index"`
}

type Tweet struct {
	Base
	Content string    `json:"content" gorm:"type:text;not null"`
	OwnerID uuid.UUID `json:"owner" gorm:"type:uuid;not null;index"`
}

// TargetKind tags what a like points at.
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
)

// LikeTarget is the single thing a like refers to. Build it with
// VideoTarget, CommentTarget or TweetTarget.
type LikeTarget struct {
	Kind TargetKind
	ID   uuid.UUID
}

func VideoTarget(id uuid.UUID) LikeTarget   { return LikeTarget{Kind: TargetVideo, ID: id} }
func CommentTarget(id uuid.UUID) LikeTarget { return LikeTarget{Kind: TargetComment, ID: id} }
func TweetTarget(id uuid.UUID) LikeTarget   { return LikeTarget{Kind: TargetTweet, ID: id} }

type Like struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	LikedBy    uuid.UUID  `json:"likedBy" gorm:"type:uuid;not null;uniqueIndex:idx_like_actor_target"`
	TargetKind TargetKind `json:"targetKind" gorm:"type:varchar(16);not null;uniqueIndex:idx_like_actor_target;index:idx_like_target"`
	TargetID   uuid.UUID  `json:"targetId" gorm:"type:uuid;not null;uniqueIndex:idx_like_actor_target;index:idx_like_target"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (Video) TableName() string {
	return "videos"
}

func (Comment) TableName() string {
	return "comments"
}

func (Tweet) TableName() string {
	return "tweets"
}

func (Like) TableName() string {
	return "likes"
}

// Value stores the kind as plain text for drivers that reject named string types.
func (k TargetKind) Value() (driver.Value, error) {
	return string(k), nil
}
