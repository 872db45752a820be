package http

import (
	"context"
	"time"

	"github.com/coursehub/backend/internal/auth"
	"github.com/coursehub/backend/internal/config"
	"github.com/coursehub/backend/internal/http/handlers"
	"github.com/coursehub/backend/internal/http/middlewares"
	"github.com/coursehub/backend/internal/observability"
	"github.com/coursehub/backend/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // 1MB

func NewRouter(pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("coursehub-api"))

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)
	r.Use(prom.GinHandleMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	health := handlers.NewHealthHandler(ping)
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	coursesRepo := postgres.NewCoursesRepo(pool, prom)
	lessonsRepo := postgres.NewLessonsRepo(pool, prom)

	// token manager + auth middleware
	jwtManager := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLDays)*24*time.Hour)
	authMW := middlewares.NewAuthMiddleware(jwtManager)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager)
	coursesHandler := handlers.NewCoursesHandler(coursesRepo)
	lessonsHandler := handlers.NewLessonsHandler(lessonsRepo, coursesRepo)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", authMW.RequireAuth(), authHandler.Me)
		authGroup.GET("/count", authMW.RequireAuth(), authMW.RequireAdmin(), authHandler.Count)
		authGroup.PUT("/users/:id/role", authMW.RequireAuth(), authMW.RequireAdmin(), authHandler.UpdateRole)
	}

	coursesGroup := r.Group("/courses")
	{
		// public catalog first so "public" never matches the :id routes
		coursesGroup.GET("/public", coursesHandler.ListPublicCourses)
		coursesGroup.GET("/public/:id", coursesHandler.GetPublicCourseByID)

		coursesGroup.POST("", authMW.RequireAuth(), coursesHandler.CreateCourse)
		coursesGroup.GET("", authMW.RequireAuth(), coursesHandler.ListCourses)
		coursesGroup.GET("/:id", authMW.RequireAuth(), coursesHandler.GetCourseByID)
		coursesGroup.PUT("/:id", authMW.RequireAuth(), coursesHandler.UpdateCourse)
		coursesGroup.DELETE("/:id", authMW.RequireAuth(), coursesHandler.DeleteCourse)
	}

	lessonsGroup := r.Group("/lessons")
	{
		lessonsGroup.GET("/public/course/:courseId", lessonsHandler.ListPublicLessonsByCourse)

		lessonsGroup.POST("", authMW.RequireAuth(), lessonsHandler.CreateLesson)
		lessonsGroup.GET("/course/:courseId", authMW.RequireAuth(), lessonsHandler.ListLessonsByCourse)
		lessonsGroup.GET("/:id", authMW.RequireAuth(), lessonsHandler.GetLessonByID)
		lessonsGroup.PUT("/:id", authMW.RequireAuth(), lessonsHandler.UpdateLesson)
		lessonsGroup.DELETE("/:id", authMW.RequireAuth(), lessonsHandler.DeleteLesson)
	}

	return r
}
