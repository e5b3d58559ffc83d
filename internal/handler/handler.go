package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"datefinder/backend/internal/auth"
	"datefinder/backend/internal/hub"
	"datefinder/backend/internal/relationship"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Config carries the settings handlers need from the process configuration.
type Config struct {
	JWTSecret string
	JWTTTL    time.Duration
	// Heartbeat is the interval between keep-alive events on event streams.
	Heartbeat time.Duration
}

// Handler serves the HTTP API.
type Handler struct {
	db        *gorm.DB
	store     relationship.Store
	scheduler *relationship.Scheduler
	hub       *hub.Hub
	cfg       Config
	log       *slog.Logger
}

func New(db *gorm.DB, store relationship.Store, scheduler *relationship.Scheduler, h *hub.Hub, cfg Config, log *slog.Logger) *Handler {
	if cfg.Heartbeat <= 0 {
		cfg.Heartbeat = 25 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		db:        db,
		store:     store,
		scheduler: scheduler,
		hub:       h,
		cfg:       cfg,
		log:       log,
	}
}

// RegisterRoutes mounts every endpoint on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	// Health check endpoint
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	requireUser := auth.AuthMiddleware(h.db, h.cfg.JWTSecret)

	// API v1 routes
	apiV1 := r.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", h.RegisterUser)
			authRoutes.POST("/login", h.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		{
			userRoutes.GET("/me", requireUser, h.GetMe)
			userRoutes.GET("/me/events", auth.StreamAuthMiddleware(h.db, h.cfg.JWTSecret), h.StreamEvents)
		}

		// Friend routes (protected)
		friendRoutes := apiV1.Group("/friends")
		friendRoutes.Use(requireUser)
		{
			friendRoutes.GET("", h.ListFriends)
			friendRoutes.POST("/requests", h.SendFriendRequest)
			friendRoutes.GET("/requests", h.ListFriendRequests)
			friendRoutes.POST("/requests/accept", h.AcceptFriendRequest)
			friendRoutes.POST("/requests/decline", h.DeclineFriendRequest)
			friendRoutes.POST("/remove", h.RemoveFriend)
			friendRoutes.POST("/block", h.BlockUser)
			friendRoutes.POST("/unblock", h.UnblockUser)
		}

		// Date routes (protected)
		dateRoutes := apiV1.Group("/dates")
		dateRoutes.Use(requireUser)
		{
			dateRoutes.GET("", h.ListDates)
			dateRoutes.GET("/sent", h.ListSentDates)
			dateRoutes.GET("/:id", h.GetDate)
			dateRoutes.POST("/proposals/:receiverId", h.ProposeDate)
			dateRoutes.POST("/:id/accept", h.AcceptDate)
			dateRoutes.POST("/:id/reject", h.RejectDate)
		}

		// Restaurant routes (protected)
		restaurantRoutes := apiV1.Group("/restaurants")
		restaurantRoutes.Use(requireUser)
		{
			restaurantRoutes.GET("", h.GetRestaurants)
			restaurantRoutes.GET("/discover", h.DiscoverRestaurants)
			restaurantRoutes.GET("/:id", h.GetRestaurantByID)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(requireUser, auth.AdminMiddleware())
		{
			adminRoutes.POST("/ban-users", h.BanUsers)
			adminRoutes.GET("/users", h.GetUsers)

			// Restaurants CRUD (admin-only parts)
			adminRestaurantRoutes := adminRoutes.Group("/restaurants")
			{
				adminRestaurantRoutes.POST("", h.CreateRestaurant)
				adminRestaurantRoutes.PUT("/:id", h.UpdateRestaurant)
				adminRestaurantRoutes.DELETE("/:id", h.DeleteRestaurant)
			}
		}
	}
}

// actor loads the authenticated user's relationship snapshot. On failure the
// response has already been written.
func (h *Handler) actor(c *gin.Context) (relationship.User, bool) {
	userID := c.GetUint(auth.UserIDKey)
	user, err := h.store.Users().FindByID(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, "load_user", err)
		return relationship.User{}, false
	}
	return user, true
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
