package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/inkletapp/inklet/internal/config"
	"github.com/inkletapp/inklet/internal/mail"
	"github.com/inkletapp/inklet/internal/service"
	"github.com/inkletapp/inklet/internal/ws"
)

// SetupRoutes wires middleware, services and all application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, hub *ws.Hub, cfg config.Config) {
	secret := []byte(cfg.JWTSecret)

	env := &Env{
		Posts:    &service.PostService{DB: db},
		Comments: &service.CommentService{DB: db},
		Users:    &service.UserService{DB: db},
		Auth: &service.AuthService{
			DB:          db,
			Mailer:      mail.NewSendGrid(cfg.SendGridAPIKey, cfg.FromEmail),
			JWTSecret:   secret,
			TokenTTL:    cfg.TokenTTL,
			ResetTTL:    cfg.ResetTokenTTL,
			FrontendURL: cfg.FrontendURL,
		},
		Hub:       hub,
		JWTSecret: secret,
	}

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	authLimiter := NewIPRateLimiter(rate.Limit(authRateRPS), authRateBurst)
	commentLimiter := NewIPRateLimiter(rate.Limit(commentRateRPS), commentRateBurst)

	authRequired := AuthRequired(secret, db)
	optionalAuth := OptionalAuth(secret, db)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", RateLimitMiddleware(authLimiter), env.Register)
		auth.POST("/login", RateLimitMiddleware(authLimiter), env.Login)
		auth.POST("/logout", authRequired, env.Logout)
		auth.POST("/forgot-password", RateLimitMiddleware(authLimiter), env.ForgotPassword)
		auth.POST("/reset-password", env.ResetPassword)
	}

	users := api.Group("/users")
	{
		users.GET("/me", authRequired, env.GetProfile)
		users.PATCH("/me", authRequired, env.UpdateProfile)
		users.PATCH("/me/change-password", authRequired, env.ChangePassword)
	}

	posts := api.Group("/posts")
	{
		posts.GET("", optionalAuth, env.ListPosts)
		posts.POST("", authRequired, env.CreatePost)
		posts.GET("/favorites", authRequired, env.ListFavorites)
		posts.GET("/:slug", optionalAuth, env.GetPostDetails)
		posts.PATCH("/:slug", authRequired, env.UpdatePost)
		posts.DELETE("/:slug", authRequired, env.DeletePost)
		posts.POST("/:slug/toggle-favorite", authRequired, env.ToggleFavorite)
	}

	comments := api.Group("/comments")
	{
		comments.GET("/:postSlug", optionalAuth, env.ListComments)
		comments.POST("/:postSlug", RateLimitMiddleware(commentLimiter), authRequired, env.CreateComment)
		comments.PATCH("/:id", authRequired, env.UpdateComment)
		comments.DELETE("/:id", authRequired, env.DeleteComment)
	}

	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(hub, c.Writer, c.Request)
	})
}
