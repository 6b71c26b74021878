package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/vidtube/internal/middleware"
	"github.com/vidtube/vidtube/internal/response"
	"github.com/vidtube/vidtube/internal/services"
	"github.com/vidtube/vidtube/pkg/logger"
)

// ChannelHandler serves subscriptions, the creator dashboard and the health check.
type ChannelHandler struct {
	subService       *services.SubscriptionService
	dashboardService *services.DashboardService
	healthService    *services.HealthService
	logger           *logger.Logger
}

func NewChannelHandler(subService *services.SubscriptionService, dashboardService *services.DashboardService, healthService *services.HealthService, logger *logger.Logger) *ChannelHandler {
	return &ChannelHandler{
		subService:       subService,
		dashboardService: dashboardService,
		healthService:    healthService,
		logger:           logger,
	}
}

func (h *ChannelHandler) ToggleSubscription(c *gin.Context) {
	result, err := h.subService.Toggle(c.Request.Context(), middleware.GetUserID(c), c.Param("channelId"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	message := "Unsubscribed successfully"
	if result.Subscribed {
		message = "Subscribed successfully"
	}
	response.OK(c, http.StatusOK, result, message)
}

func (h *ChannelHandler) Subscribers(c *gin.Context) {
	subscribers, err := h.subService.Subscribers(c.Request.Context(), c.Param("channelId"), pageFrom(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, subscribers, "Subscribers fetched successfully")
}

func (h *ChannelHandler) SubscribedChannels(c *gin.Context) {
	channels, err := h.subService.SubscribedChannels(c.Request.Context(), middleware.GetUserID(c), pageFrom(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, channels, "Subscribed channels fetched successfully")
}

func (h *ChannelHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, stats, "Channel stats fetched successfully")
}

func (h *ChannelHandler) Videos(c *gin.Context) {
	videos, err := h.dashboardService.Videos(c.Request.Context(), middleware.GetUserID(c), pageFrom(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, videos, "Channel videos fetched successfully")
}

func (h *ChannelHandler) Health(c *gin.Context) {
	status, err := h.healthService.Check(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, status, "OK")
}
