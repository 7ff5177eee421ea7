// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"jobkhoj-backend/internal/auth"
	"jobkhoj-backend/internal/controller"
	"jobkhoj-backend/internal/middleware"
	"jobkhoj-backend/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	lAuth := auth.NewLocalAuthHandler(s.DB)
	jobs := controller.NewJobController(s.DB)
	applications := controller.NewApplicationController(s.DB)
	users := controller.NewUserController(s.DB)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SafeHeader())
	r.Use(middleware.EnvRateLimitMiddleware())

	r.GET("/health", s.healthHandler)

	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("register", lAuth.RegisterHandler)
			authRoute.POST("login", lAuth.LoginHandler)
			authRoute.GET("me", middleware.RequireAuth(s.DB), lAuth.MeHandler)
		}

		// Job listings are public; OptionalAuth lets owners see their own
		// hidden postings.
		jobRoute := v1.Group("/jobs")
		{
			jobRoute.GET("", middleware.OptionalAuth(s.DB), jobs.GetJobs)
			jobRoute.GET(":id", middleware.OptionalAuth(s.DB), jobs.GetJobByID)

			jobRoute.Use(middleware.RequireAuth(s.DB))
			jobRoute.GET("my-jobs", middleware.CheckRole(model.RoleEmployer, model.RoleAdmin), jobs.GetMyJobs)
			jobRoute.GET("match", middleware.CheckRole(model.RoleJobseeker), jobs.GetMatchingJobs)
			jobRoute.POST("", middleware.CheckRole(model.RoleEmployer, model.RoleAdmin), jobs.CreateJobHandler)
			jobRoute.PUT(":id", middleware.CheckRole(model.RoleEmployer, model.RoleAdmin), jobs.EditJob)
			jobRoute.PATCH(":id/status", middleware.CheckRole(model.RoleEmployer, model.RoleAdmin), jobs.UpdateJobStatus)
			jobRoute.DELETE(":id", middleware.CheckRole(model.RoleEmployer, model.RoleAdmin), jobs.DeleteJob)
		}

		applicationRoute := v1.Group("/applications")
		{
			applicationRoute.Use(middleware.RequireAuth(s.DB))
			applicationRoute.POST("", middleware.CheckRole(model.RoleJobseeker), applications.CreateApplicationHandler)
			applicationRoute.GET("", applications.ListApplications)
			applicationRoute.GET(":id", applications.GetApplicationByID)
			applicationRoute.PUT(":id/status", middleware.CheckRole(model.RoleEmployer, model.RoleAdmin), applications.UpdateApplicationStatus)
			applicationRoute.PUT(":id/note", middleware.CheckRole(model.RoleEmployer, model.RoleAdmin), applications.AddApplicationNote)
		}

		userRoute := v1.Group("/users")
		{
			userRoute.Use(middleware.RequireAuth(s.DB))
			userRoute.GET("", middleware.CheckRole(model.RoleAdmin), users.ListUsers)
			userRoute.GET("analytics", middleware.CheckRole(model.RoleAdmin), users.GetUserAnalytics)
			userRoute.GET(":id", users.GetUserByID)
			userRoute.PUT(":id", users.UpdateUser)
			userRoute.PUT(":id/skills", middleware.CheckRole(model.RoleJobseeker), users.UpdateUserSkills)
			userRoute.DELETE(":id", middleware.CheckRole(model.RoleAdmin), users.DeleteUser)
		}
	}

	return r
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
