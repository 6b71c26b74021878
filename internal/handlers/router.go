package handlers

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every handler the API serves.
type Handlers struct {
	User     *UserHandler
	Video    *VideoHandler
	Social   *SocialHandler
	Channel  *ChannelHandler
	Playlist *PlaylistHandler
}

// RegisterRoutes 注册 /api/v1 下的全部路由
func (h *Handlers) RegisterRoutes(r *gin.RouterGroup, auth, authLimit gin.HandlerFunc) {
	r.GET("/healthcheck", h.Channel.Health)

	users := r.Group("/users")
	{
		users.POST("/register", authLimit, h.User.Register)
		users.POST("/login", authLimit, h.User.Login)
		users.POST("/refresh-token", h.User.RefreshToken)

		users.POST("/logout", auth, h.User.Logout)
		users.POST("/change-password", auth, h.User.ChangePassword)
		users.GET("/current-user", auth, h.User.CurrentUser)
		users.PATCH("/update-account", auth, h.User.UpdateAccount)
		users.PATCH("/avatar", auth, h.User.UpdateAvatar)
		users.PATCH("/cover-image", auth, h.User.UpdateCoverImage)
		users.GET("/c/:username", auth, h.User.ChannelProfile)
		users.GET("/history", auth, h.User.WatchHistory)
	}

	protected := r.Group("", auth)

	videos := protected.Group("/videos")
	{
		videos.GET("", h.Video.List)
		videos.POST("", h.Video.Publish)
		videos.POST("/upload", h.Video.Publish)
		videos.GET("/:videoId", h.Video.Get)
		videos.PATCH("/:videoId", h.Video.Update)
		videos.DELETE("/:videoId", h.Video.Delete)
		videos.PATCH("/toggle/publish/:videoId", h.Video.TogglePublish)
	}

	comments := protected.Group("/comments")
	{
		comments.GET("/:videoId", h.Social.ListComments)
		comments.POST("/:videoId", h.Social.AddComment)
		comments.PATCH("/c/:commentId", h.Social.UpdateComment)
		comments.DELETE("/c/:commentId", h.Social.DeleteComment)
	}

	tweets := protected.Group("/tweets")
	{
		tweets.POST("", h.Social.CreateTweet)
		tweets.GET("/user/:userId", h.Social.UserTweets)
		tweets.PATCH("/:tweetId", h.Social.UpdateTweet)
		tweets.DELETE("/:tweetId", h.Social.DeleteTweet)
	}

	likes := protected.Group("/likes")
	{
		likes.POST("/toggle/v/:videoId", h.Social.ToggleVideoLike)
		likes.POST("/toggle/c/:commentId", h.Social.ToggleCommentLike)
		likes.POST("/toggle/t/:tweetId", h.Social.ToggleTweetLike)
		likes.POST("/toggle/video/:videoId", h.Social.ToggleVideoLike)
		likes.POST("/toggle/comment/:commentId", h.Social.ToggleCommentLike)
		likes.POST("/toggle/tweet/:tweetId", h.Social.ToggleTweetLike)
		likes.GET("/videos", h.Social.LikedVideos)
	}

	subscriptions := protected.Group("/subscriptions")
	{
		subscriptions.GET("", h.Channel.SubscribedChannels)
		subscriptions.POST("/:channelId", h.Channel.ToggleSubscription)
		subscriptions.GET("/:channelId", h.Channel.Subscribers)
	}

	playlists := protected.Group("/playlists")
	{
		playlists.POST("", h.Playlist.Create)
		playlists.GET("", h.Playlist.ListMine)
		playlists.GET("/user/:userId", h.Playlist.ListByUser)
		playlists.GET("/:playlistId", h.Playlist.Get)
		playlists.PATCH("/:playlistId", h.Playlist.Update)
		playlists.DELETE("/:playlistId", h.Playlist.Delete)
		playlists.PATCH("/add/:videoId/:playlistId", h.Playlist.AddVideo)
		playlists.PATCH("/remove/:videoId/:playlistId", h.Playlist.RemoveVideo)
	}

	dashboard := protected.Group("/dashboard")
	{
		dashboard.GET("/stats", h.Channel.Stats)
		dashboard.GET("/videos", h.Channel.Videos)
	}
}
