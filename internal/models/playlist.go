package models

import (
	"time"

	"github.com/google/uuid"
)

type Playlist struct {
	Base
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	OwnerID     uuid.UUID `json:"owner" gorm:"type:uuid;not null;index"`

	// 由 playlist_videos 按加入顺序填充
	Videos []uuid.UUID `json:"videos" gorm:"-"`
}

// PlaylistVideo is one membership row; the serial ID gives insertion order.
type PlaylistVideo struct {
	ID         uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	PlaylistID uuid.UUID `json:"playlist" gorm:"type:uuid;not null;uniqueIndex:idx_playlist_video"`
	VideoID    uuid.UUID `json:"video" gorm:"type:uuid;not null;uniqueIndex:idx_playlist_video;index"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Playlist) TableName() string {
	return "playlists"
}

func (PlaylistVideo) TableName() string {
	return "playlist_videos"
}
