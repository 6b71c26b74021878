package views

import (
	"time"

	"github.com/google/uuid"
)

// OwnerSummary is the only slice of a user that composed views expose.
type OwnerSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Avatar   string    `json:"avatar"`
}

type VideoCard struct {
	ID          uuid.UUID    `json:"id"`
	Thumbnail   string       `json:"thumbnail"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Duration    float64      `json:"duration"`
	Views       int64        `json:"views"`
	IsPublished bool         `json:"isPublished"`
	CreatedAt   time.Time    `json:"createdAt"`
	Owner       OwnerSummary `json:"owner"`
	LikesCount  int64        `json:"likesCount"`
}

type VideoDetail struct {
	VideoCard
	VideoFile string    `json:"videoFile"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsLiked   bool      `json:"isLiked"`
	// owner channel
	SubscribersCount int64 `json:"subscribersCount"`
	IsSubscribed     bool  `json:"isSubscribed"`
}

type WatchedVideo struct {
	VideoCard
	WatchedAt time.Time `json:"watchedAt"`
}

type LikedVideo struct {
	VideoCard
	LikedAt time.Time `json:"likedAt"`
}

type CommentView struct {
	ID         uuid.UUID    `json:"id"`
	Content    string       `json:"content"`
	Video      uuid.UUID    `json:"video"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	Owner      OwnerSummary `json:"owner"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
}

type TweetView struct {
	ID         uuid.UUID    `json:"id"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	Owner      OwnerSummary `json:"owner"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
}

type ChannelProfile struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	FullName          string    `json:"fullName"`
	Email             string    `json:"email"`
	Avatar            string    `json:"avatar"`
	CoverImage        string    `json:"coverImage"`
	CreatedAt         time.Time `json:"createdAt"`
	SubscribersCount  int64     `json:"subscribersCount"`
	SubscribedToCount int64     `json:"channelsSubscribedToCount"`
	IsSubscribed      bool      `json:"isSubscribed"`
	VideosCount       int64     `json:"videosCount"`
}

// ChannelCard is one row of a subscribers or subscriptions list.
type ChannelCard struct {
	OwnerSummary
	SubscribersCount int64     `json:"subscribersCount"`
	SubscribedAt     time.Time `json:"subscribedAt"`
}

type PlaylistSummary struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Owner            uuid.UUID `json:"owner"`
	VideosCount      int64     `json:"videosCount"`
	PreviewThumbnail string    `json:"previewThumbnail"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type PlaylistDetail struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Owner       OwnerSummary `json:"owner"`
	VideosCount int          `json:"videosCount"`
	TotalViews  int64        `json:"totalViews"`
	Videos      []VideoCard  `json:"videos"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type ChannelStats struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalLikes       int64 `json:"totalLikes"`
	TotalTweets      int64 `json:"totalTweets"`
}
