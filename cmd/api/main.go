package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/goliter/classsight-api/api/swagger"
	"github.com/goliter/classsight-api/internal/handler"
	"github.com/goliter/classsight-api/internal/middleware"
	"github.com/goliter/classsight-api/internal/models"
	"github.com/goliter/classsight-api/internal/repository"
	"github.com/goliter/classsight-api/internal/service"
	"github.com/goliter/classsight-api/pkg/cache"
	"github.com/goliter/classsight-api/pkg/config"
	"github.com/goliter/classsight-api/pkg/database"
	"github.com/goliter/classsight-api/pkg/logger"
	corsmiddleware "github.com/goliter/classsight-api/pkg/middleware/cors"
	reqidmiddleware "github.com/goliter/classsight-api/pkg/middleware/requestid"
)

// @title ClassSight API
// @version 1.0.0
// @description Course and enrollment management for students, teachers and admins
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Repositories.
	accountRepo := repository.NewAccountRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	authSvc := service.NewAuthService(accountRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	departmentSvc := service.NewDepartmentService(departmentRepo, nil, logr)
	studentSvc := service.NewStudentService(studentRepo, departmentRepo, nil, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, departmentRepo, nil, logr)
	courseSvc := service.NewCourseService(courseRepo, teacherRepo, departmentRepo, nil, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, logr)
	metricsSvc := service.NewMetricsService()
	dashboardSvc := service.NewDashboardService(statsRepo, cacheRepo, cfg.Dashboard.CacheTTL, logr).WithMetrics(metricsSvc)
	exportSvc := service.NewExportService(enrollmentSvc, courseSvc, cfg.Exports.MaxRows, cfg.Exports.PDFTitle, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	departmentHandler := handler.NewDepartmentHandler(departmentSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, enrollmentSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc, enrollmentSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, dashboardSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		authed := auth.Group("", middleware.JWT(authSvc))
		authed.POST("/logout", authHandler.Logout)
		authed.POST("/change-password", authHandler.ChangePassword)
		authed.GET("/me", authHandler.Me)
	}

	protected := api.Group("", middleware.JWT(authSvc))
	admin := middleware.RequireRoles(models.RoleAdmin)

	departments := protected.Group("/departments")
	{
		departments.GET("", departmentHandler.List)
		departments.GET("/:id", departmentHandler.Get)
		departments.POST("", admin, departmentHandler.Create)
		departments.PUT("/:id", admin, departmentHandler.Update)
		departments.DELETE("/:id", admin, departmentHandler.Delete)
	}

	selfOrStaff := middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher), middleware.RoleSelf)

	students := protected.Group("/students")
	{
		students.GET("", studentHandler.List)
		students.GET("/:id", selfOrStaff, studentHandler.Get)
		students.GET("/:id/courses", selfOrStaff, studentHandler.Courses)
		students.POST("", admin, studentHandler.Create)
		students.PUT("/:id", admin, studentHandler.Update)
		students.DELETE("/:id", admin, studentHandler.Delete)
	}

	teachers := protected.Group("/teachers")
	{
		teachers.GET("", teacherHandler.List)
		teachers.GET("/:id", teacherHandler.Get)
		teachers.GET("/:id/courses", middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher)), teacherHandler.Courses)
		teachers.POST("", admin, teacherHandler.Create)
		teachers.PUT("/:id", admin, teacherHandler.Update)
		teachers.DELETE("/:id", admin, teacherHandler.Delete)
	}

	courses := protected.Group("/courses")
	{
		courses.GET("", courseHandler.List)
		courses.GET("/:id", courseHandler.Get)
		courses.POST("", admin, courseHandler.Create)
		courses.PUT("/:id", admin, courseHandler.Update)
		courses.DELETE("/:id", admin, courseHandler.Delete)

		courses.GET("/:id/students", enrollmentHandler.Roster)
		courses.POST("/:id/students", admin, enrollmentHandler.Enroll)
		courses.DELETE("/:id/students/:studentId", admin, enrollmentHandler.Unenroll)
	}

	if cfg.Exports.Enabled {
		courses.GET("/:id/roster/export",
			middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher)),
			exportHandler.Roster)
	}

	if cfg.Dashboard.Enabled {
		dashboard := protected.Group("/dashboard")
		dashboard.GET("/overview", dashboardHandler.Overview)
		dashboard.GET("/departments", dashboardHandler.Departments)
	}

	protected.GET("/metrics/summary", admin, metricsHandler.Summary)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
