package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/pakin/account-api/services/account-service/internal/config"
	"github.com/pakin/account-api/services/account-service/internal/handler"
	"github.com/pakin/account-api/services/account-service/internal/repository"
	"github.com/pakin/account-api/services/account-service/internal/usecase"
	"github.com/pakin/account-api/shared/auth"
	"github.com/pakin/account-api/shared/logger"
	"github.com/pakin/account-api/shared/mailer"
	"github.com/pakin/account-api/shared/validator"
)

func main() {
	log := logger.New("account-service")
	cfg := config.NewAccountServiceConfig(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		log.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	db := client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserMongoRepository(ctx, log, db)
	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Issuer, cfg.Token.Issuer)
	smtpMailer := mailer.NewMailer(log)

	sessionUsecase := usecase.NewSessionUsecase(userRepo, jwtAuth, cfg)
	accountUsecase := usecase.NewAccountUsecase(userRepo, sessionUsecase, smtpMailer, cfg, log)

	payloadValidator, err := validator.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create payload validator")
	}

	accountHandler := handler.NewAccountHTTPHandler(accountUsecase, sessionUsecase, payloadValidator, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	accountHandler.RegisterRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("account service listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start HTTP server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down HTTP server")
	}
}
