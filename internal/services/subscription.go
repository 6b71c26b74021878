package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube/internal/errs"
	"github.com/vidtube/vidtube/internal/repository"
	"github.com/vidtube/vidtube/internal/views"
	"github.com/vidtube/vidtube/pkg/logger"
	"github.com/vidtube/vidtube/pkg/queue"
)

type SubscriptionService struct {
	subRepo  *repository.SubscriptionRepository
	userRepo *repository.UserRepository
	composer *views.Composer
	producer queue.Publisher
	logger   *logger.Logger
}

func NewSubscriptionService(subRepo *repository.SubscriptionRepository, userRepo *repository.UserRepository, composer *views.Composer, producer queue.Publisher, logger *logger.Logger) *SubscriptionService {
	return &SubscriptionService{
		subRepo:  subRepo,
		userRepo: userRepo,
		composer: composer,
		producer: producer,
		logger:   logger,
	}
}

type SubscriptionResult struct {
	Subscribed       bool  `json:"subscribed"`
	SubscribersCount int64 `json:"subscribersCount"`
}

func (s *SubscriptionService) Toggle(ctx context.Context, callerID, channelID string) (*SubscriptionResult, error) {
	caller, err := parseID(callerID, "user id")
	if err != nil {
		return nil, err
	}
	channel, err := parseID(channelID, "channel id")
	if err != nil {
		return nil, err
	}
	if caller == channel {
		return nil, errs.InvalidArgument("You cannot subscribe to your own channel")
	}
	if err := s.requireChannel(ctx, channel); err != nil {
		return nil, err
	}

	subscribed, err := s.subRepo.Toggle(ctx, caller, channel)
	if err != nil {
		return nil, errs.Internal(err, "Failed to toggle subscription")
	}
	subscribers, err := s.subRepo.CountSubscribers(ctx, channel)
	if err != nil {
		return nil, errs.Internal(err, "Failed to count subscribers")
	}

	publish(ctx, s.producer, s.logger, channel.String(), queue.NewEvent(queue.EventSubscriptionToggled, queue.SubscriptionEventData{
		SubscriberID: caller.String(),
		ChannelID:    channel.String(),
		Subscribed:   subscribed,
	}))

	s.logger.WithFields(map[string]interface{}{
		"subscriber_id": caller,
		"channel_id":    channel,
		"subscribed":    subscribed,
	}).Info("Subscription toggled successfully")
	return &SubscriptionResult{Subscribed: subscribed, SubscribersCount: subscribers}, nil
}

func (s *SubscriptionService) Subscribers(ctx context.Context, channelID string, p views.Page) (*views.Paginated[views.ChannelCard], error) {
	channel, err := parseID(channelID, "channel id")
	if err != nil {
		return nil, err
	}
	if err := s.requireChannel(ctx, channel); err != nil {
		return nil, err
	}
	return s.composer.ListSubscribers(ctx, channel, p)
}

func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID string, p views.Page) (*views.Paginated[views.ChannelCard], error) {
	subscriber, err := parseID(subscriberID, "subscriber id")
	if err != nil {
		return nil, err
	}
	if err := s.requireChannel(ctx, subscriber); err != nil {
		return nil, err
	}
	return s.composer.ListSubscribedChannels(ctx, subscriber, p)
}

func (s *SubscriptionService) requireChannel(ctx context.Context, id uuid.UUID) error {
	exists, err := s.userRepo.Exists(ctx, id)
	if err != nil {
		return errs.Internal(err, "Failed to get channel")
	}
	if !exists {
		return errs.NotFound("Channel not found")
	}
	return nil
}
