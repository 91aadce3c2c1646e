package main // Entry point package

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/rovel/ticket-express/internal/config"
	"github.com/rovel/ticket-express/internal/database"
	"github.com/rovel/ticket-express/internal/handler"
	"github.com/rovel/ticket-express/internal/issuance"
	"github.com/rovel/ticket-express/internal/logger"
	"github.com/rovel/ticket-express/internal/mailer"
	"github.com/rovel/ticket-express/internal/middleware"
	"github.com/rovel/ticket-express/internal/queue"
	"github.com/rovel/ticket-express/internal/repository"
	"github.com/rovel/ticket-express/internal/router"
	queuepublisher "github.com/rovel/ticket-express/internal/service"
)

func main() {
	// .env is a development convenience; in production the variables are
	// injected by the environment and the file is simply absent.
	_ = godotenv.Load()

	logger.Init()
	log := logger.With("main")

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	// Redis backs the response cache and the rate limiter.  A nil client
	// disables both; the API itself keeps working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, cache and rate limiting disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	ticketRepo := repository.NewTicketRepo(db)
	statsRepo := repository.NewStatsRepo(db)

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	pipeline := issuance.New(ticketRepo, userRepo, mail, queuepublisher.PublishTicketIssued)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	userHandler := handler.NewUserHandler(cfg, userRepo, tokenRepo)
	ticketHandler := handler.NewTicketHandler(ticketRepo, pipeline)
	statsHandler := handler.NewStatsHandler(statsRepo)

	var cacheMW, rateMW echo.MiddlewareFunc
	if rdb != nil {
		if cc := config.LoadCacheConfig(); cc.Enabled {
			cacheMW = middleware.ResponseCache(cc, rdb)
		}
		if rc := config.LoadRateLimitConfig(); rc.Enabled {
			rateMW = middleware.RateLimit(rc, rdb)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterTickets(e, ticketHandler, cfg.JWTSecret, cacheMW, rateMW)
	router.RegisterAdmin(e, userHandler, statsHandler, cfg.JWTSecret, cacheMW)

	// The consumer appends issued-ticket events to the audit log.  It
	// reconnects with backoff on its own and never takes the API down.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Warn().Err(err).Msg("ticket consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
