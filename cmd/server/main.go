package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/opencampus/unispace/internal/config"
	"github.com/opencampus/unispace/internal/database"
	"github.com/opencampus/unispace/internal/handler"
	"github.com/opencampus/unispace/internal/middleware"
	"github.com/opencampus/unispace/internal/queue"
	"github.com/opencampus/unispace/internal/repository"
	"github.com/opencampus/unispace/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the response cache and rate limiter are
	// simply skipped and every request hits the database.
	rdb := config.NewRedisClient()

	universities := repository.NewUniversityRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	spaces := repository.NewSpaceRepo(db)

	auth := handler.NewAuthHandler(cfg, users, universities, tokens)
	space := handler.NewSpaceHandler(cfg, spaces, users, universities)
	university := handler.NewUniversityHandler(universities)

	e := echo.New()
	e.Validator = handler.NewValidator()

	var cache echo.MiddlewareFunc
	if rdb != nil {
		if rl := config.LoadRateLimitConfig(); rl.Enabled {
			e.Use(middleware.NewTokenBucket(rl, rdb))
		}
		if cc := config.LoadCacheConfig(); cc.Enabled {
			cache = middleware.NewRedisCache(cc, rdb)
		}
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterPublic(e, university, cache)
	router.RegisterSpaces(e, space, cfg.JWTSecret)
	router.RegisterAdmin(e, university, auth, cfg.JWTSecret)

	// Drain broker events into the activity log. The consumer reconnects on
	// its own; a missing broker only costs the log, not the API.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
