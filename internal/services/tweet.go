package services

import (
	"context"
	"strings"

	"github.com/vidtube/vidtube/internal/errs"
	"github.com/vidtube/vidtube/internal/models"
	"github.com/vidtube/vidtube/internal/repository"
	"github.com/vidtube/vidtube/internal/views"
	"github.com/vidtube/vidtube/pkg/logger"
	"github.com/vidtube/vidtube/pkg/queue"
)

type TweetService struct {
	tweetRepo *repository.TweetRepository
	userRepo  *repository.UserRepository
	composer  *views.Composer
	producer  queue.Publisher
	logger    *logger.Logger
}

func NewTweetService(tweetRepo *repository.TweetRepository, userRepo *repository.UserRepository, composer *views.Composer, producer queue.Publisher, logger *logger.Logger) *TweetService {
	return &TweetService{
		tweetRepo: tweetRepo,
		userRepo:  userRepo,
		composer:  composer,
		producer:  producer,
		logger:    logger,
	}
}

type TweetRequest struct {
	Content string `json:"content"`
}

func (s *TweetService) Create(ctx context.Context, callerID string, req *TweetRequest) (*models.Tweet, error) {
	caller, err := parseID(callerID, "user id")
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errs.InvalidArgument("Tweet content is required")
	}

	tweet := &models.Tweet{Content: content, OwnerID: caller}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, errs.Internal(err, "Failed to create tweet")
	}

	publish(ctx, s.producer, s.logger, caller.String(), queue.NewEvent(queue.EventTweetCreated, queue.TweetEventData{
		TweetID: tweet.ID.String(),
		UserID:  caller.String(),
	}))

	s.logger.WithFields(map[string]interface{}{
		"tweet_id": tweet.ID,
		"user_id":  caller,
	}).Info("Tweet created successfully")
	return tweet, nil
}

func (s *TweetService) ListByUser(ctx context.Context, userID, viewerID string, p views.Page) (*views.Paginated[views.TweetView], error) {
	owner, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	viewer, err := parseOptionalID(viewerID, "user id")
	if err != nil {
		return nil, err
	}
	exists, err := s.userRepo.Exists(ctx, owner)
	if err != nil {
		return nil, errs.Internal(err, "Failed to get user")
	}
	if !exists {
		return nil, errs.NotFound("User not found")
	}
	return s.composer.ListTweets(ctx, owner, viewer, p)
}

func (s *TweetService) Update(ctx context.Context, tweetID, callerID string, req *TweetRequest) (*models.Tweet, error) {
	id, err := parseID(tweetID, "tweet id")
	if err != nil {
		return nil, err
	}
	caller, err := parseID(callerID, "user id")
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errs.InvalidArgument("Tweet content is required")
	}

	tweet, err := s.tweetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Internal(err, "Failed to get tweet")
	}
	if tweet == nil {
		return nil, errs.NotFound("Tweet not found")
	}
	if err := ensureOwner(tweet, caller, "You are not allowed to update this tweet"); err != nil {
		return nil, err
	}

	tweet.Content = content
	if err := s.tweetRepo.UpdateContent(ctx, tweet); err != nil {
		return nil, errs.Internal(err, "Failed to update tweet")
	}
	return tweet, nil
}

func (s *TweetService) Delete(ctx context.Context, tweetID, callerID string) error {
	id, err := parseID(tweetID, "tweet id")
	if err != nil {
		return err
	}
	caller, err := parseID(callerID, "user id")
	if err != nil {
		return err
	}

	tweet, err := s.tweetRepo.GetByID(ctx, id)
	if err != nil {
		return errs.Internal(err, "Failed to get tweet")
	}
	if tweet == nil {
		return errs.NotFound("Tweet not found")
	}
	if err := ensureOwner(tweet, caller, "You are not allowed to delete this tweet"); err != nil {
		return err
	}
	if err := s.tweetRepo.Delete(ctx, id); err != nil {
		return errs.Internal(err, "Failed to delete tweet")
	}

	publish(ctx, s.producer, s.logger, caller.String(), queue.NewEvent(queue.EventTweetDeleted, queue.TweetEventData{
		TweetID: id.String(),
		UserID:  caller.String(),
	}))

	s.logger.WithField("tweet_id", id).Info("Tweet deleted successfully")
	return nil
}
