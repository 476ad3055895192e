package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alcyxob/marathon-trainer/internal/domain"
	"alcyxob/marathon-trainer/internal/metrics"
	"alcyxob/marathon-trainer/internal/service"
)

// corsMiddleware allows the configured origins. Tokens travel in the
// Authorization header, so credentials are not allowed.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cors.New(cfg)
}

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	allowedOrigins []string,
	authService service.AuthService,
	planService service.PlanService,
	coachService service.CoachService,
) {
	authHandler := NewAuthHandler(authService)
	planHandler := NewPlanHandler(planService)
	coachHandler := NewCoachHandler(coachService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.Use(corsMiddleware(allowedOrigins), metrics.Middleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		apiV1.POST("/pace-zones", planHandler.PreviewPaceZones)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)
		protected.PUT("/me/runner-defaults", RoleMiddleware(domain.RoleRunner), authHandler.UpdateRunnerDefaults)

		// --- Runner Routes ---
		plans := protected.Group("/plans")
		plans.Use(RoleMiddleware(domain.RoleRunner))
		{
			plans.POST("", planHandler.GeneratePlan)
			plans.GET("", planHandler.ListPlans)
			plans.GET("/active", planHandler.GetActivePlan)
			plans.GET("/:planId", planHandler.GetPlan)
			plans.DELETE("/:planId", planHandler.DeletePlan)
			plans.GET("/:planId/weeks/:week", planHandler.GetWeek)
			plans.GET("/:planId/today", planHandler.GetToday)
			plans.GET("/:planId/stats", planHandler.GetStats)
			plans.POST("/:planId/workouts/:workoutId/complete", planHandler.CompleteWorkout)
			plans.POST("/:planId/export", planHandler.ExportPlan)
		}

		// --- Coach Routes ---
		coach := protected.Group("/coach")
		coach.Use(RoleMiddleware(domain.RoleCoach))
		{
			coach.POST("/runners", coachHandler.AddRunnerByEmail)
			coach.GET("/runners", coachHandler.GetManagedRunners)
			coach.GET("/runners/:runnerId/plans/active", coachHandler.GetRunnerActivePlan)
		}
	}
}
