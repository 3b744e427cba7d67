package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/devtrail/bootcamp-api/internal/config"
	"github.com/devtrail/bootcamp-api/internal/db"
	"github.com/devtrail/bootcamp-api/internal/handlers"
	"github.com/devtrail/bootcamp-api/internal/middleware"
	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/services"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}

	ctx := context.Background()
	client, database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to MongoDB")
	}
	defer client.Disconnect(ctx)

	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("creating indexes")
	}
	log.Info().Str("database", cfg.MongoDatabase).Msg("connected to MongoDB")

	geocoder := services.NewMapQuestGeocoder(cfg.GeocoderBaseURL, cfg.GeocoderAPIKey)
	mailer := services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.FromName, cfg.FromEmail)
	aggregates := services.NewAggregateService(database, log)
	uploads := services.NewUploadService(cfg.FileUploadPath, cfg.MaxFileUpload)

	h := handlers.NewHandler(database, cfg, geocoder, mailer, aggregates, uploads, log)
	users := db.NewUsers(database)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	r.Static("/uploads", cfg.FileUploadPath)

	requireAuth := middleware.RequireAuth(cfg.JWTSecret, users)
	publisherOrAdmin := middleware.RequireRoles(models.RolePublisher, models.RoleAdmin)
	userOrAdmin := middleware.RequireRoles(models.RoleUser, models.RoleAdmin)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/logout", h.Logout)
		auth.GET("/me", requireAuth, h.GetMe)
		auth.PUT("/updatedetails", requireAuth, h.UpdateDetails)
		auth.PUT("/updatepassword", requireAuth, h.UpdatePassword)
		auth.POST("/forgotpassword", h.ForgotPassword)
		auth.PUT("/resetpassword/:resettoken", h.ResetPassword)
	}

	bootcamps := v1.Group("/bootcamps")
	{
		bootcamps.GET("", h.GetBootcamps)
		bootcamps.POST("", requireAuth, publisherOrAdmin, h.CreateBootcamp)
		bootcamps.GET("/radius/:zipcode/:distance", h.GetBootcampsInRadius)
		bootcamps.GET("/:id", h.GetBootcamp)
		bootcamps.PUT("/:id", requireAuth, publisherOrAdmin, h.UpdateBootcamp)
		bootcamps.DELETE("/:id", requireAuth, publisherOrAdmin, h.DeleteBootcamp)
		bootcamps.PUT("/:id/photo", requireAuth, publisherOrAdmin, h.UploadBootcampPhoto)

		bootcamps.GET("/:id/courses", h.GetCourses)
		bootcamps.POST("/:id/courses", requireAuth, publisherOrAdmin, h.AddCourse)

		bootcamps.GET("/:id/reviews", h.GetReviews)
		bootcamps.POST("/:id/reviews", requireAuth, userOrAdmin, h.AddReview)
	}

	courses := v1.Group("/courses")
	{
		courses.GET("", h.GetCourses)
		courses.GET("/:id", h.GetCourse)
		courses.PUT("/:id", requireAuth, publisherOrAdmin, h.UpdateCourse)
		courses.DELETE("/:id", requireAuth, publisherOrAdmin, h.DeleteCourse)
	}

	reviews := v1.Group("/reviews")
	{
		reviews.GET("", h.GetReviews)
		reviews.GET("/:id", h.GetReview)
		reviews.PUT("/:id", requireAuth, h.UpdateReview)
		reviews.DELETE("/:id", requireAuth, h.DeleteReview)
	}

	usersGroup := v1.Group("/users", requireAuth, adminOnly)
	{
		usersGroup.GET("", h.GetUsers)
		usersGroup.POST("", h.CreateUser)
		usersGroup.GET("/:id", h.GetUser)
		usersGroup.PUT("/:id", h.UpdateUser)
		usersGroup.DELETE("/:id", h.DeleteUser)
	}

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
