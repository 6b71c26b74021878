package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventUserRegistered      EventType = "user.registered"
	EventVideoUploaded       EventType = "video.uploaded"
	EventVideoDeleted        EventType = "video.deleted"
	EventVideoViewed         EventType = "video.viewed"
	EventLikeToggled         EventType = "like.toggled"
	EventSubscriptionToggled EventType = "subscription.toggled"
	EventCommentCreated      EventType = "comment.created"
	EventTweetCreated        EventType = "tweet.created"
	EventTweetDeleted        EventType = "tweet.deleted"
	EventMediaOrphaned       EventType = "media.orphaned"
)

type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewEvent(eventType EventType, data interface{}) Event {
	return Event{Type: eventType, Timestamp: time.Now(), Data: data}
}

// RawEvent is an Event as read off the wire, with Data left undecoded.
type RawEvent struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

func DecodeEvent(msg Message) (*RawEvent, error) {
	var event RawEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return &event, nil
}

// Bind decodes the payload into dest.
func (e *RawEvent) Bind(dest interface{}) error {
	if err := json.Unmarshal(e.Data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", e.Type, err)
	}
	return nil
}

type UserEventData struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type VideoEventData struct {
	VideoID string `json:"video_id"`
	OwnerID string `json:"owner_id"`
	Title   string `json:"title,omitempty"`
}

type LikeEventData struct {
	UserID     string `json:"user_id"`
	TargetKind string `json:"target_kind"`
	TargetID   string `json:"target_id"`
	// 被点赞内容的作者，用于刷新其频道统计
	OwnerID string `json:"owner_id"`
	Liked   bool   `json:"liked"`
}

type SubscriptionEventData struct {
	SubscriberID string `json:"subscriber_id"`
	ChannelID    string `json:"channel_id"`
	Subscribed   bool   `json:"subscribed"`
}

type CommentEventData struct {
	CommentID string `json:"comment_id"`
	UserID    string `json:"user_id"`
	VideoID   string `json:"video_id"`
}

type TweetEventData struct {
	TweetID string `json:"tweet_id"`
	UserID  string `json:"user_id"`
}

type MediaEventData struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}
