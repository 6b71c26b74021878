package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/errs"
	"github.com/vidtube/vidtube/internal/models"
	"github.com/vidtube/vidtube/internal/repository"
	"github.com/vidtube/vidtube/internal/views"
	"github.com/vidtube/vidtube/pkg/logger"
	"github.com/vidtube/vidtube/pkg/queue"
)

type LikeService struct {
	likeRepo    *repository.LikeRepository
	videoRepo   *repository.VideoRepository
	commentRepo *repository.CommentRepository
	tweetRepo   *repository.TweetRepository
	composer    *views.Composer
	producer    queue.Publisher
	logger      *logger.Logger
}

func NewLikeService(likeRepo *repository.LikeRepository, videoRepo *repository.VideoRepository, commentRepo *repository.CommentRepository, tweetRepo *repository.TweetRepository, composer *views.Composer, producer queue.Publisher, logger *logger.Logger) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
		composer:    composer,
		producer:    producer,
		logger:      logger,
	}
}

// ToggleResult reports the state after the toggle.
type ToggleResult struct {
	Liked      bool  `json:"isLiked"`
	LikesCount int64 `json:"likesCount"`
}

func (s *LikeService) ToggleVideoLike(ctx context.Context, callerID, videoID string) (*ToggleResult, error) {
	return s.toggle(ctx, callerID, videoID, models.TargetVideo)
}

func (s *LikeService) ToggleCommentLike(ctx context.Context, callerID, commentID string) (*ToggleResult, error) {
	return s.toggle(ctx, callerID, commentID, models.TargetComment)
}

func (s *LikeService) ToggleTweetLike(ctx context.Context, callerID, tweetID string) (*ToggleResult, error) {
	return s.toggle(ctx, callerID, tweetID, models.TargetTweet)
}

func (s *LikeService) LikedVideos(ctx context.Context, callerID string, p views.Page) (*views.Paginated[views.LikedVideo], error) {
	caller, err := parseID(callerID, "user id")
	if err != nil {
		return nil, err
	}
	return s.composer.LikedVideos(ctx, caller, p)
}

func (s *LikeService) toggle(ctx context.Context, callerID, targetID string, kind models.TargetKind) (*ToggleResult, error) {
	caller, err := parseID(callerID, "user id")
	if err != nil {
		return nil, err
	}
	id, err := parseID(targetID, string(kind)+" id")
	if err != nil {
		return nil, err
	}

	owner, err := s.targetOwner(ctx, kind, id, caller)
	if err != nil {
		return nil, err
	}

	target := models.LikeTarget{Kind: kind, ID: id}
	liked, err := s.likeRepo.Toggle(ctx, caller, target)
	if err != nil {
		return nil, errs.Internal(err, "Failed to toggle like")
	}
	likes, err := s.likeRepo.Count(ctx, target)
	if err != nil {
		return nil, errs.Internal(err, "Failed to count likes")
	}

	publish(ctx, s.producer, s.logger, owner.String(), queue.NewEvent(queue.EventLikeToggled, queue.LikeEventData{
		UserID:     caller.String(),
		TargetKind: string(kind),
		TargetID:   id.String(),
		OwnerID:    owner.String(),
		Liked:      liked,
	}))

	s.logger.WithFields(map[string]interface{}{
		"user_id":     caller,
		"target_kind": kind,
		"target_id":   id,
		"liked":       liked,
	}).Info("Like toggled successfully")
	return &ToggleResult{Liked: liked, LikesCount: likes}, nil
}

// targetOwner resolves the author of the liked entity; drafts count as missing
// for everyone but their owner.
func (s *LikeService) targetOwner(ctx context.Context, kind models.TargetKind, id, caller uuid.UUID) (uuid.UUID, error) {
	switch kind {
	case models.TargetVideo:
		video, err := visibleVideo(ctx, s.videoRepo, id, caller)
		if err != nil {
			return uuid.Nil, err
		}
		return video.OwnerID, nil
	case models.TargetComment:
		comment, err := s.commentRepo.GetByID(ctx, id)
		if err != nil {
			return uuid.Nil, errs.Internal(err, "Failed to get comment")
		}
		if comment == nil {
			return uuid.Nil, errs.NotFound("Comment not found")
		}
		return comment.OwnerID, nil
	case models.TargetTweet:
		tweet, err := s.tweetRepo.GetByID(ctx, id)
		if err != nil {
			return uuid.Nil, errs.Internal(err, "Failed to get tweet")
		}
		if tweet == nil {
			return uuid.Nil, errs.NotFound("Tweet not found")
		}
		return tweet.OwnerID, nil
	default:
		return uuid.Nil, errs.InvalidArgument("Unknown like target")
	}
}
