package verify

import (
	"net/http"

	"github.com/agilsa/GorbyJump/internal/logger"
	"github.com/agilsa/GorbyJump/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handler exposes the verifier over the /api/twitter endpoints.
type Handler struct {
	service *Service

	// defaultTargetHandle is used when check-follow requests omit a
	// target username.
	defaultTargetHandle string
}

func NewHandler(service *Service, defaultTargetHandle string) *Handler {
	return &Handler{
		service:             service,
		defaultTargetHandle: defaultTargetHandle,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	api := r.Group("/api/twitter")
	api.Use(requireAuth)
	api.POST("/check-follow", h.checkFollow)
	api.POST("/check-retweet", h.checkRetweet)
	api.POST("/tweet", h.tweet)
}

type checkFollowRequest struct {
	UserID         string `json:"userId"`
	TargetUsername string `json:"targetUsername"`
}

func (h *Handler) checkFollow(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c.Request.Context())

	var req checkFollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.TargetUsername == "" {
		req.TargetUsername = h.defaultTargetHandle
	}

	result, err := h.service.CheckFollow(c.Request.Context(), identity, req.TargetUsername)
	if err != nil {
		logger.Error("check follow failed", map[string]any{
			"request_id": middleware.GetRequestID(c),
			"target":     req.TargetUsername,
			"error":      err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to check follow status",
			"details": Detail(err),
		})
		return
	}

	message := "User is not following"
	if result.IsFollowing {
		message = "User is following"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"isFollowing":  result.IsFollowing,
		"targetUserId": result.TargetUserID,
		"message":      message,
	})
}

type checkRetweetRequest struct {
	TweetID string `json:"tweetId"`
}

func (h *Handler) checkRetweet(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c.Request.Context())

	var req checkRetweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.service.CheckRetweet(c.Request.Context(), identity, req.TweetID)
	if err != nil {
		logger.Error("check retweet failed", map[string]any{
			"request_id": middleware.GetRequestID(c),
			"tweet_id":   req.TweetID,
			"error":      err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to check retweet status",
			"details": Detail(err),
		})
		return
	}

	message := "User has not retweeted"
	if result.HasRetweeted {
		message = "User has retweeted"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"hasRetweeted": result.HasRetweeted,
		"message":      message,
	})
}

type tweetRequest struct {
	Text string `json:"text"`
}

func (h *Handler) tweet(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c.Request.Context())

	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tweetID, err := h.service.PostContent(c.Request.Context(), identity, req.Text)
	if err != nil {
		logger.Error("post tweet failed", map[string]any{
			"request_id": middleware.GetRequestID(c),
			"error":      err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to post tweet",
			"details": Detail(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tweetId": tweetID,
		"message": "Tweet posted successfully",
	})
}
