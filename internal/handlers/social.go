package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/vidtube/internal/middleware"
	"github.com/vidtube/vidtube/internal/response"
	"github.com/vidtube/vidtube/internal/services"
	"github.com/vidtube/vidtube/pkg/logger"
)

// SocialHandler serves comments, tweets and likes.
type SocialHandler struct {
	commentService *services.CommentService
	tweetService   *services.TweetService
	likeService    *services.LikeService
	logger         *logger.Logger
}

func NewSocialHandler(commentService *services.CommentService, tweetService *services.TweetService, likeService *services.LikeService, logger *logger.Logger) *SocialHandler {
	return &SocialHandler{
		commentService: commentService,
		tweetService:   tweetService,
		likeService:    likeService,
		logger:         logger,
	}
}

func (h *SocialHandler) ListComments(c *gin.Context) {
	comments, err := h.commentService.List(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c), pageFrom(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, comments, "Comments fetched successfully")
}

func (h *SocialHandler) AddComment(c *gin.Context) {
	var req services.CommentRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	comment, err := h.commentService.Add(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusCreated, comment, "Comment added successfully")
}

func (h *SocialHandler) UpdateComment(c *gin.Context) {
	var req services.CommentRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), c.Param("commentId"), middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, comment, "Comment updated successfully")
}

func (h *SocialHandler) DeleteComment(c *gin.Context) {
	if err := h.commentService.Delete(c.Request.Context(), c.Param("commentId"), middleware.GetUserID(c)); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{}, "Comment deleted successfully")
}

func (h *SocialHandler) CreateTweet(c *gin.Context) {
	var req services.TweetRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	tweet, err := h.tweetService.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusCreated, tweet, "Tweet created successfully")
}

func (h *SocialHandler) UserTweets(c *gin.Context) {
	tweets, err := h.tweetService.ListByUser(c.Request.Context(), c.Param("userId"), middleware.GetUserID(c), pageFrom(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, tweets, "Tweets fetched successfully")
}

func (h *SocialHandler) UpdateTweet(c *gin.Context) {
	var req services.TweetRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	tweet, err := h.tweetService.Update(c.Request.Context(), c.Param("tweetId"), middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, tweet, "Tweet updated successfully")
}

func (h *SocialHandler) DeleteTweet(c *gin.Context) {
	if err := h.tweetService.Delete(c.Request.Context(), c.Param("tweetId"), middleware.GetUserID(c)); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{}, "Tweet deleted successfully")
}

func (h *SocialHandler) ToggleVideoLike(c *gin.Context) {
	result, err := h.likeService.ToggleVideoLike(c.Request.Context(), middleware.GetUserID(c), c.Param("videoId"))
	h.writeToggle(c, result, err)
}

func (h *SocialHandler) ToggleCommentLike(c *gin.Context) {
	result, err := h.likeService.ToggleCommentLike(c.Request.Context(), middleware.GetUserID(c), c.Param("commentId"))
	h.writeToggle(c, result, err)
}

func (h *SocialHandler) ToggleTweetLike(c *gin.Context) {
	result, err := h.likeService.ToggleTweetLike(c.Request.Context(), middleware.GetUserID(c), c.Param("tweetId"))
	h.writeToggle(c, result, err)
}

func (h *SocialHandler) writeToggle(c *gin.Context, result *services.ToggleResult, err error) {
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	message := "Like removed successfully"
	if result.Liked {
		message = "Like added successfully"
	}
	response.OK(c, http.StatusOK, result, message)
}

func (h *SocialHandler) LikedVideos(c *gin.Context) {
	videos, err := h.likeService.LikedVideos(c.Request.Context(), middleware.GetUserID(c), pageFrom(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, videos, "Liked videos fetched successfully")
}
