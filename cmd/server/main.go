package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hospitalmgmt/auth-service/auth"
	"github.com/hospitalmgmt/auth-service/cleanup"
	departmentspg "github.com/hospitalmgmt/auth-service/departments/postgres"
	departmentfakes "github.com/hospitalmgmt/auth-service/departments/repofakes"
	"github.com/hospitalmgmt/auth-service/internal/config"
	"github.com/hospitalmgmt/auth-service/internal/migrations"
	"github.com/hospitalmgmt/auth-service/server"
	"github.com/hospitalmgmt/auth-service/sessions"
	sessionspg "github.com/hospitalmgmt/auth-service/sessions/postgres"
	sessionfakes "github.com/hospitalmgmt/auth-service/sessions/repofakes"
	"github.com/hospitalmgmt/auth-service/token"
	userspg "github.com/hospitalmgmt/auth-service/users/postgres"
	userfakes "github.com/hospitalmgmt/auth-service/users/repofakes"
)

const minSecretLength = 32 // HMAC-SHA512 wants at least a 256-bit key

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg := config.New()
	setupLogging(cfg)
	displayAppname(cfg.GetAppName())

	secret := cfg.GetJWTSecret()
	if len(secret) < minSecretLength {
		if cfg.GetEnv() != "DEV" {
			return fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength)
		}
		log.Warn().Msg("JWT_SECRET missing or short, using an ephemeral development secret")
		secret = devSecret()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, sessionRepo, closeDB, err := buildRepos(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	codec := token.NewCodec(token.NewHMACSigner(secret), cfg.GetJWTIssuer(), cfg.GetAccessTokenExpiry())
	sessionService := sessions.NewService(sessionRepo, cfg.GetRefreshTokenExpiry())
	authService, err := auth.NewService(repos.Users, codec, sessionService)
	if err != nil {
		return fmt.Errorf("create auth service: %w", err)
	}

	scheduler := cleanup.NewScheduler(sessionRepo, cfg.GetCleanupInterval())
	go scheduler.Run(ctx)

	httpServer := &http.Server{
		Addr:    cfg.GetPort(),
		Handler: server.New(cfg, repos, authService, sessionService),
	}
	go listenAndServe(httpServer)

	<-ctx.Done()
	return shutdown(httpServer)
}

// buildRepos wires Postgres repositories when DATABASE_URL is set and falls
// back to in-memory repositories for database-less development.
func buildRepos(ctx context.Context, cfg config.Config) (server.Repos, sessions.Repo, func(), error) {
	databaseURL := cfg.GetDatabaseURL()
	if databaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, using in-memory repositories")
		repos := server.Repos{
			Users:       userfakes.NewFakeUserRepo(),
			Departments: departmentfakes.NewFakeDepartmentRepo(),
		}
		return repos, sessionfakes.NewFakeSessionRepo(), func() {}, nil
	}

	if err := migrations.Up(databaseURL); err != nil {
		return server.Repos{}, nil, nil, err
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return server.Repos{}, nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return server.Repos{}, nil, nil, fmt.Errorf("ping database: %w", err)
	}

	repos := server.Repos{
		Users:       userspg.NewRepo(pool),
		Departments: departmentspg.NewRepo(pool),
	}
	return repos, sessionspg.NewRepo(pool), pool.Close, nil
}

func setupLogging(cfg config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func listenAndServe(httpServer *http.Server) {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server.ListenAndServe")
	}
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

// devSecret returns a random per-process secret. Tokens do not survive a
// restart, which is fine for development.
func devSecret() string {
	buf := make([]byte, minSecretLength)
	if _, err := rand.Read(buf); err != nil {
		log.Fatal().Err(err).Msg("failed to generate development secret")
	}
	return hex.EncodeToString(buf)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
