package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/schoolsync/school-admin-api/api/swagger"
	"github.com/schoolsync/school-admin-api/internal/handler"
	"github.com/schoolsync/school-admin-api/internal/identity"
	"github.com/schoolsync/school-admin-api/internal/middleware"
	"github.com/schoolsync/school-admin-api/internal/repository"
	"github.com/schoolsync/school-admin-api/internal/scope"
	"github.com/schoolsync/school-admin-api/internal/service"
	"github.com/schoolsync/school-admin-api/pkg/cache"
	"github.com/schoolsync/school-admin-api/pkg/config"
	"github.com/schoolsync/school-admin-api/pkg/database"
	"github.com/schoolsync/school-admin-api/pkg/export"
	"github.com/schoolsync/school-admin-api/pkg/logger"
	corsmiddleware "github.com/schoolsync/school-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/schoolsync/school-admin-api/pkg/middleware/requestid"
)

// @title School Admin API
// @version 1.0.0
// @description Role-scoped administration API for school management
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Cached listings degrade to direct reads when Redis is away.
		logr.Sugar().Warnw("redis unavailable, list caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	provider := identity.NewHTTPClient(cfg.Identity, logr)

	metricsService := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Listing.CacheTTL, logr, redisClient != nil)

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "school-admin-api",
		Audience:           []string{"school-admin"},
	})

	pageSize := cfg.Listing.PageSize
	lessonRepo := repository.NewLessonRepository(db)

	teacherService := service.NewTeacherService(repository.NewTeacherRepository(db), provider, validate, logr, pageSize)
	studentService := service.NewStudentService(repository.NewStudentRepository(db), provider, validate, logr, pageSize)
	parentService := service.NewParentService(repository.NewParentRepository(db), provider, validate, logr, pageSize)
	classService := service.NewClassService(repository.NewClassRepository(db), validate, logr, pageSize)
	subjectService := service.NewSubjectService(repository.NewSubjectRepository(db), validate, logr, pageSize)
	lessonService := service.NewLessonService(lessonRepo, validate, logr, pageSize)
	examService := service.NewExamService(repository.NewExamRepository(db), lessonRepo, validate, logr, pageSize)
	resultService := service.NewResultService(repository.NewResultRepository(db), export.NewCSVExporter(), export.NewPDFExporter(), validate, logr, pageSize)
	announcementService := service.NewAnnouncementService(repository.NewAnnouncementRepository(db), cacheService, validate, logr, pageSize)
	eventService := service.NewEventService(repository.NewEventRepository(db), cacheService, validate, logr, pageSize)

	r := buildRouter(cfg, logr, routerDeps{
		auth:          handler.NewAuthHandler(authService),
		teachers:      handler.NewTeacherHandler(teacherService),
		students:      handler.NewStudentHandler(studentService),
		parents:       handler.NewParentHandler(parentService),
		classes:       handler.NewClassHandler(classService),
		subjects:      handler.NewSubjectHandler(subjectService),
		lessons:       handler.NewLessonHandler(lessonService),
		exams:         handler.NewExamHandler(examService),
		results:       handler.NewResultHandler(resultService),
		announcements: handler.NewAnnouncementHandler(announcementService),
		events:        handler.NewEventHandler(eventService),
		metrics:       handler.NewMetricsHandler(metricsService),
		authService:   authService,
		metricsSvc:    metricsService,
		userRepo:      userRepo,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	if err := cacheRepo.Close(); err != nil {
		logr.Sugar().Warnw("redis close failed", "error", err)
	}
}

type routerDeps struct {
	auth          *handler.AuthHandler
	teachers      *handler.TeacherHandler
	students      *handler.StudentHandler
	parents       *handler.ParentHandler
	classes       *handler.ClassHandler
	subjects      *handler.SubjectHandler
	lessons       *handler.LessonHandler
	exams         *handler.ExamHandler
	results       *handler.ResultHandler
	announcements *handler.AnnouncementHandler
	events        *handler.EventHandler
	metrics       *handler.MetricsHandler

	authService *service.AuthService
	metricsSvc  *service.MetricsService
	userRepo    *repository.UserRepository
}

func buildRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", deps.metrics.Health)
	r.GET("/ready", deps.metrics.Health)
	r.GET("/metrics", deps.metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", deps.auth.Login)
	auth.POST("/refresh", deps.auth.Refresh)
	auth.POST("/logout", middleware.JWT(deps.authService), deps.auth.Logout)

	// Reads resolve the caller when a token is present but never demand one;
	// visibility scoping downstream handles the anonymous case.
	read := api.Group("", middleware.OptionalJWT(deps.authService))
	read.GET("/teachers", deps.teachers.List)
	read.GET("/teachers/:id", deps.teachers.Get)
	read.GET("/students", deps.students.List)
	read.GET("/students/:id", deps.students.Get)
	read.GET("/parents", deps.parents.List)
	read.GET("/parents/:id", deps.parents.Get)
	read.GET("/classes", deps.classes.List)
	read.GET("/classes/:id", deps.classes.Get)
	read.GET("/subjects", deps.subjects.List)
	read.GET("/subjects/:id", deps.subjects.Get)
	read.GET("/lessons", deps.lessons.List)
	read.GET("/lessons/:id", deps.lessons.Get)
	read.GET("/exams", deps.exams.List)
	read.GET("/exams/:id", deps.exams.Get)
	read.GET("/results", deps.results.List)
	read.GET("/results/:id", deps.results.Get)
	read.GET("/announcements", deps.announcements.List)
	read.GET("/announcements/:id", deps.announcements.Get)
	read.GET("/events", deps.events.List)
	read.GET("/events/:id", deps.events.Get)

	// Export carries row-level data out of the system, so it stays behind a
	// real session even though plain reads do not.
	api.GET("/results/export",
		middleware.JWT(deps.authService),
		middleware.RequireRoles(scope.RoleAdmin, scope.RoleTeacher),
		deps.results.Export)

	admin := api.Group("", middleware.JWT(deps.authService), middleware.RequireRoles(scope.RoleAdmin))
	admin.POST("/teachers", middleware.Audit(deps.userRepo, "CREATE", "teachers"), deps.teachers.Create)
	admin.PUT("/teachers/:id", middleware.Audit(deps.userRepo, "UPDATE", "teachers"), deps.teachers.Update)
	admin.DELETE("/teachers/:id", middleware.Audit(deps.userRepo, "DELETE", "teachers"), deps.teachers.Delete)
	admin.POST("/students", middleware.Audit(deps.userRepo, "CREATE", "students"), deps.students.Create)
	admin.PUT("/students/:id", middleware.Audit(deps.userRepo, "UPDATE", "students"), deps.students.Update)
	admin.DELETE("/students/:id", middleware.Audit(deps.userRepo, "DELETE", "students"), deps.students.Delete)
	admin.POST("/parents", middleware.Audit(deps.userRepo, "CREATE", "parents"), deps.parents.Create)
	admin.PUT("/parents/:id", middleware.Audit(deps.userRepo, "UPDATE", "parents"), deps.parents.Update)
	admin.DELETE("/parents/:id", middleware.Audit(deps.userRepo, "DELETE", "parents"), deps.parents.Delete)
	admin.POST("/classes", middleware.Audit(deps.userRepo, "CREATE", "classes"), deps.classes.Create)
	admin.PUT("/classes/:id", middleware.Audit(deps.userRepo, "UPDATE", "classes"), deps.classes.Update)
	admin.DELETE("/classes/:id", middleware.Audit(deps.userRepo, "DELETE", "classes"), deps.classes.Delete)
	admin.POST("/subjects", middleware.Audit(deps.userRepo, "CREATE", "subjects"), deps.subjects.Create)
	admin.PUT("/subjects/:id", middleware.Audit(deps.userRepo, "UPDATE", "subjects"), deps.subjects.Update)
	admin.DELETE("/subjects/:id", middleware.Audit(deps.userRepo, "DELETE", "subjects"), deps.subjects.Delete)
	admin.POST("/lessons", middleware.Audit(deps.userRepo, "CREATE", "lessons"), deps.lessons.Create)
	admin.PUT("/lessons/:id", middleware.Audit(deps.userRepo, "UPDATE", "lessons"), deps.lessons.Update)
	admin.DELETE("/lessons/:id", middleware.Audit(deps.userRepo, "DELETE", "lessons"), deps.lessons.Delete)
	admin.POST("/announcements", middleware.Audit(deps.userRepo, "CREATE", "announcements"), deps.announcements.Create)
	admin.PUT("/announcements/:id", middleware.Audit(deps.userRepo, "UPDATE", "announcements"), deps.announcements.Update)
	admin.DELETE("/announcements/:id", middleware.Audit(deps.userRepo, "DELETE", "announcements"), deps.announcements.Delete)
	admin.POST("/events", middleware.Audit(deps.userRepo, "CREATE", "events"), deps.events.Create)
	admin.PUT("/events/:id", middleware.Audit(deps.userRepo, "UPDATE", "events"), deps.events.Update)
	admin.DELETE("/events/:id", middleware.Audit(deps.userRepo, "DELETE", "events"), deps.events.Delete)

	assessments := api.Group("", middleware.JWT(deps.authService), middleware.RequireRoles(scope.RoleAdmin, scope.RoleTeacher))
	assessments.POST("/exams", middleware.Audit(deps.userRepo, "CREATE", "exams"), deps.exams.Create)
	assessments.PUT("/exams/:id", middleware.Audit(deps.userRepo, "UPDATE", "exams"), deps.exams.Update)
	assessments.DELETE("/exams/:id", middleware.Audit(deps.userRepo, "DELETE", "exams"), deps.exams.Delete)
	assessments.POST("/results", middleware.Audit(deps.userRepo, "CREATE", "results"), deps.results.Create)
	assessments.PUT("/results/:id", middleware.Audit(deps.userRepo, "UPDATE", "results"), deps.results.Update)
	assessments.DELETE("/results/:id", middleware.Audit(deps.userRepo, "DELETE", "results"), deps.results.Delete)

	return r
}
