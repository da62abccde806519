package router

import (
	"net/http"

	"social-network-service/internal/adapter/gin/handler"
	"social-network-service/internal/adapter/gin/middleware"
	grpcmiddleware "social-network-service/internal/adapter/grpc/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config holds the router settings that come from configuration
type Config struct {
	JWTSecret      []byte
	AllowedOrigins []string
}

// SetupRouter configures and returns a Gin router with all routes and middleware.
// API routes are served both at the root and under /v1.
func SetupRouter(
	socialHandler *handler.SocialHandler,
	postHandler *handler.PostHandler,
	rateLimiter *grpcmiddleware.RateLimiter,
	cfg Config,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RateLimiter(rateLimiter, log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "social-network-service",
		})
	})

	authenticated := middleware.Auth(cfg.JWTSecret, log)
	registerRoutes(router.Group("", authenticated), socialHandler, postHandler)
	registerRoutes(router.Group("/v1", authenticated), socialHandler, postHandler)

	return router
}

func registerRoutes(g *gin.RouterGroup, social *handler.SocialHandler, posts *handler.PostHandler) {
	subscriptions := g.Group("/subscriptions")
	{
		subscriptions.POST("/:followee_id", social.Subscribe)
		subscriptions.DELETE("/:followee_id", social.Unsubscribe)
	}

	g.GET("/my-subscriptions", social.MySubscriptions)
	g.GET("/my-subscribers", social.MySubscribers)
	g.GET("/my-profile", social.MyProfile)
	g.GET("/my-profile-details", social.MyProfileDetails)
	g.GET("/top-twenty-users", social.TopUsers)
	g.GET("/users", social.ListUsers)

	g.GET("/posts", posts.ListPosts)
	g.POST("/posts", posts.CreatePost)
	g.PUT("/posts/:id", posts.UpdatePost)
}
