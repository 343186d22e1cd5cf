package api

import (
	"net/http"
	"time"
	"wellity/backend/internal/logger"
	"wellity/backend/internal/metrics"
	"wellity/backend/internal/service"

	"github.com/gin-gonic/gin"
)

const serviceName = "wellity-backend"

// Version is stamped at build time with -ldflags "-X wellity/backend/internal/api.Version=...".
var Version = "dev"

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

func SetupRoutes(
	router *gin.Engine,
	workoutService service.WorkoutService,
	paymentService service.PaymentService,
	limiter *RateLimiter,
	log *logger.Logger,
) {
	if log == nil {
		log = logger.NewNop()
	}
	adaptiveHandler := NewAdaptiveHandler(workoutService, log)
	paymentHandler := NewPaymentHandler(paymentService, log)

	router.Use(Recovery(log), RequestLogger(log), Metrics())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC(),
			Service:   serviceName,
			Version:   Version,
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	apiV1 := router.Group("/api/v1")
	if limiter != nil {
		apiV1.Use(limiter.Middleware())
	}
	{
		adaptiveGroup := apiV1.Group("/adaptive")
		{
			adaptiveGroup.POST("/recommend", adaptiveHandler.Recommend)
			adaptiveGroup.POST("/adapt", adaptiveHandler.Adapt)
			adaptiveGroup.GET("/intensity/:level", adaptiveHandler.GetIntensity)
			adaptiveGroup.GET("/exercises", adaptiveHandler.ListExercises)
			// Lookups need a store that can read plans back (mongo, s3).
			adaptiveGroup.GET("/workouts/:id", adaptiveHandler.GetWorkout)
			adaptiveGroup.GET("/users/:userId/workouts", adaptiveHandler.ListUserWorkouts)
		}

		workoutGroup := apiV1.Group("/workouts")
		{
			workoutGroup.POST("/:id/verify", adaptiveHandler.VerifyWorkout)
		}

		paymentGroup := apiV1.Group("/payments")
		{
			paymentGroup.POST("/subscribe", paymentHandler.Subscribe)
			paymentGroup.POST("/validate", paymentHandler.Validate)
			paymentGroup.GET("/price/:tier", paymentHandler.GetPrice)
			paymentGroup.POST("/cancel", paymentHandler.Cancel)
			paymentGroup.POST("/refund", paymentHandler.Refund)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, CodeNotFound,
			"Route "+c.Request.Method+" "+c.Request.URL.Path+" not found")
	})
}
