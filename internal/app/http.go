package app

import (
	"context"

	authhandler "github.com/agilsa/GorbyJump/internal/auth/handler"
	"github.com/agilsa/GorbyJump/internal/config"
	"github.com/agilsa/GorbyJump/internal/middleware"
	"github.com/agilsa/GorbyJump/internal/twitter"
	"github.com/agilsa/GorbyJump/internal/verify"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	sessionStore, cleanup, err := setupSessionStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	apiClient := twitter.NewClient(cfg.TwitterBearerToken)

	oauth := twitter.NewOAuth(
		cfg.TwitterClientID,
		cfg.TwitterConsumerKey,
		cfg.TwitterConsumerSecret,
		cfg.TwitterCallbackURL,
	)

	verifier := verify.NewService(apiClient, oauth)

	authHandler := authhandler.NewHandler(oauth, sessionStore, cfg.FrontendURL)
	verifyHandler := verify.NewHandler(verifier, cfg.TargetHandle)

	requireAuth := middleware.GinRequireAuth(
		middleware.NewAuthMiddleware(sessionStore),
	)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	// ----------------------------
	// Routes
	// ----------------------------

	authHandler.RegisterRoutes(router, requireAuth)
	verifyHandler.RegisterRoutes(router, requireAuth)

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router, cleanup, nil
}
