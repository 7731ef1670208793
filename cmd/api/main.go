package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/JooruBackend/jooru-backend-sub001/internal/adapters/chat"
	server "github.com/JooruBackend/jooru-backend-sub001/internal/adapters/http_server"
	"github.com/JooruBackend/jooru-backend-sub001/internal/adapters/observability"
	redisad "github.com/JooruBackend/jooru-backend-sub001/internal/adapters/redis"
	"github.com/JooruBackend/jooru-backend-sub001/internal/app"
	"github.com/JooruBackend/jooru-backend-sub001/internal/auth"
	"github.com/JooruBackend/jooru-backend-sub001/internal/shared"
	mysqlrepo "github.com/JooruBackend/jooru-backend-sub001/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, cfg.RefreshTTL)

	notifications := app.NewNotificationService(repo, cache, cfg.CacheTTL)
	professionals := app.NewProfessionalService(repo, cache, cfg.CacheTTL)
	chats := app.NewChatService(repo, notifications)
	hub := chat.NewHub(chats)

	handlers := &server.Handlers{
		Auth:          app.NewAuthService(repo, issuer),
		Users:         app.NewUserService(repo),
		Professionals: professionals,
		Requests:      app.NewRequestService(repo, repo, repo, notifications),
		Payments:      app.NewPaymentService(repo, repo, notifications),
		Reviews:       app.NewReviewService(repo, repo, professionals, notifications),
		Chats:         chats,
		Notifications: notifications,
		Hub:           hub,
		Stats:         repo,
		ChatMsgRate:   cfg.ChatMsgRate,
		ChatMsgBurst:  cfg.ChatMsgBurst,
	}

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(handlers, issuer)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
