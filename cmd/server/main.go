package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/auth"
	"github.com/iliyamo/learning-platform/internal/config"
	"github.com/iliyamo/learning-platform/internal/database"
	"github.com/iliyamo/learning-platform/internal/handler"
	"github.com/iliyamo/learning-platform/internal/queue"
	"github.com/iliyamo/learning-platform/internal/repository"
	"github.com/iliyamo/learning-platform/internal/router"
	"github.com/iliyamo/learning-platform/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	courses := repository.NewCourseRepo(db)
	lessons := repository.NewLessonRepo(db)
	enrollments := repository.NewEnrollmentRepo(db)
	progress := repository.NewProgressRepo(db)
	chats := repository.NewChatRepo(db)
	templates := repository.NewTemplateRepo(db)

	issuer := auth.NewIssuer(cfg.JWTSecret)
	verifier := auth.NewVerifier(cfg.JWTSecret, users)
	reconciler := service.NewProgressReconciler(progress)

	authHandler := handler.NewAuthHandler(cfg, users, issuer)
	courseHandler := handler.NewCourseHandler(courses, lessons)
	enrollHandler := handler.NewEnrollHandler(courses, enrollments)
	progressHandler := handler.NewProgressHandler(lessons, enrollments, reconciler, progress, service.PublishLessonCompleted)
	chatHandler := handler.NewChatHandler(chats, users, courses, enrollments)
	templateHandler := handler.NewTemplateHandler(templates)

	go func() {
		if err := queue.StartCompletionConsumer(); err != nil {
			log.Printf("completion consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterPublic(e, courseHandler, templateHandler, config.LoadCacheConfig(), rdb)
	router.RegisterAuth(e, authHandler, config.LoadRateLimitConfig(), rdb)
	router.RegisterProtected(e, verifier, authHandler, courseHandler, enrollHandler, progressHandler, chatHandler)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
