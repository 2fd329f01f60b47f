package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/agilsa/GorbyJump/internal/auth"
	"github.com/agilsa/GorbyJump/internal/logger"
	"github.com/agilsa/GorbyJump/internal/middleware"
	"github.com/agilsa/GorbyJump/internal/session"
	"github.com/agilsa/GorbyJump/internal/twitter"

	"github.com/gin-gonic/gin"
)

const sessionTTL = 24 * time.Hour

// Handler drives the social identity linking flow: authorization URL
// generation, the provider handshake, and session lifecycle.
type Handler struct {
	oauth        *twitter.OAuth
	sessionStore session.Store
	frontendURL  string
}

func NewHandler(
	oauth *twitter.OAuth,
	sessionStore session.Store,
	frontendURL string,
) *Handler {
	return &Handler{
		oauth:        oauth,
		sessionStore: sessionStore,
		frontendURL:  frontendURL,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	r.GET("/auth/twitter/url", h.authURL)
	r.GET("/auth/twitter", h.login)
	r.GET("/auth/twitter/callback", h.callback)

	api := r.Group("/api/twitter")
	api.Use(requireAuth)
	api.GET("/profile", h.profile)
	api.POST("/logout", h.logout)
}

// authURL returns the provider authorization URL the frontend sends
// the browser to. It does not start the handshake itself.
func (h *Handler) authURL(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"authUrl": h.oauth.AuthorizeURL(),
	})
}

// login starts the provider handshake: obtain a request token, retain
// its secret until the callback, redirect to the provider.
func (h *Handler) login(c *gin.Context) {
	requestToken, requestSecret, err := h.oauth.RequestToken()
	if err != nil {
		logger.Error("request token failed", map[string]any{
			"request_id": middleware.GetRequestID(c),
			"error":      err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to start Twitter auth",
			"details": err.Error(),
		})
		return
	}

	setRequestSecret(c, requestSecret)

	authorizationURL, err := h.oauth.AuthorizationURL(requestToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to build authorization URL",
			"details": err.Error(),
		})
		return
	}

	c.Redirect(http.StatusFound, authorizationURL)
}

// callback completes the handshake and hands the wrapped identity to
// the frontend via the twitter_auth query parameter. The credential
// pair rides along in that payload; the client mirrors it to durable
// storage so the link survives page reloads.
func (h *Handler) callback(c *gin.Context) {
	requestToken, verifier, err := h.oauth.ParseCallback(c.Request)
	if err != nil {
		logger.Warn("oauth callback unparsable", map[string]any{
			"error": err.Error(),
		})
		c.Redirect(http.StatusFound, h.frontendURL)
		return
	}

	requestSecret := getRequestSecret(c)
	if requestSecret == "" {
		logger.Warn("oauth callback missing request secret", nil)
		c.Redirect(http.StatusFound, h.frontendURL)
		return
	}

	token, secret, err := h.oauth.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		logger.Error("access token exchange failed", map[string]any{
			"request_id": middleware.GetRequestID(c),
			"error":      err.Error(),
		})
		// No identity data on failure; the user remains unlinked.
		c.Redirect(http.StatusFound, h.frontendURL)
		return
	}

	claims, err := h.oauth.VerifyCredentials(c.Request.Context(), token, secret)
	if err != nil {
		logger.Error("credential verification failed", map[string]any{
			"request_id": middleware.GetRequestID(c),
			"error":      err.Error(),
		})
		c.Redirect(http.StatusFound, h.frontendURL)
		return
	}

	identity := auth.Identity{
		ID:          claims.ID,
		Username:    claims.ScreenName,
		DisplayName: claims.DisplayName,
		Token:       token,
		TokenSecret: secret,
	}

	if err := h.createSession(c, identity); err != nil {
		logger.Error("session creation failed", map[string]any{
			"error": err.Error(),
		})
		c.Redirect(http.StatusFound, h.frontendURL)
		return
	}

	payload, err := identity.Encode()
	if err != nil {
		c.Redirect(http.StatusFound, h.frontendURL)
		return
	}

	logger.Info("identity linked", map[string]any{
		"username": identity.Username,
	})

	c.Redirect(
		http.StatusFound,
		h.frontendURL+"?twitter_auth="+url.QueryEscape(string(payload)),
	)
}

func (h *Handler) createSession(c *gin.Context, identity auth.Identity) error {
	sessionID, err := session.GenerateID()
	if err != nil {
		return err
	}

	now := time.Now()
	expiresAt := now.Add(sessionTTL)

	sess := session.Session{
		SessionID: sessionID,
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	if err := h.sessionStore.Create(c.Request.Context(), sess); err != nil {
		return err
	}

	session.SetCookie(c.Writer, sessionID, expiresAt, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// profile returns the current identity claims without the credential.
func (h *Handler) profile(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            identity.ID,
		"username":      identity.Username,
		"displayName":   identity.DisplayName,
		"authenticated": true,
	})
}

// logout ends the server-side session. The client clears its local
// state regardless of this call's outcome.
func (h *Handler) logout(c *gin.Context) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		// best-effort delete
		_ = h.sessionStore.Delete(c.Request.Context(), cookie.Value)
	}

	session.ClearCookie(c.Writer, session.CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}
