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

	"github.com/joho/godotenv"

	"github.com/dtarqui/project-ci-cd-sub000/internal/auth"
	"github.com/dtarqui/project-ci-cd-sub000/internal/cache"
	"github.com/dtarqui/project-ci-cd-sub000/internal/config"
	"github.com/dtarqui/project-ci-cd-sub000/internal/httpapi"
	"github.com/dtarqui/project-ci-cd-sub000/internal/report"
	"github.com/dtarqui/project-ci-cd-sub000/internal/service"
	"github.com/dtarqui/project-ci-cd-sub000/internal/store"
	"github.com/dtarqui/project-ci-cd-sub000/internal/store/memory"
	pgstore "github.com/dtarqui/project-ci-cd-sub000/internal/store/postgres"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("ignoring unreadable .env: %v", err)
	}

	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with in-memory fallback", err)
		}
		if cfg.DBAutoMigrate {
			if err := pg.Migrate(ctx); err != nil {
				log.Fatalf("migrate postgres schema: %v", err)
			}
			log.Println("postgres schema migrated")
		}
		if cfg.DBSeedUsers {
			users, err := store.SeedUsers(time.Now().UTC())
			if err != nil {
				log.Fatalf("build seed users: %v", err)
			}
			added, err := pg.SeedUsers(ctx, users)
			if err != nil {
				log.Fatalf("seed postgres users: %v", err)
			}
			log.Printf("postgres users seeded: %d added", added)
		}
		repo = pg
		closers = append(closers, pg.Close)
		log.Println("repository: postgres")
	} else {
		repo = memory.NewSeeded()
		log.Println("repository: in-memory")
	}

	cacheStore := cache.SummaryCache(cache.NoopSummaryCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisSummaryCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), using noop cache", err)
		} else {
			cacheStore = redisCache
			closers = append(closers, redisCache.Close)
			log.Println("cache: redis")
		}
	} else {
		log.Println("cache: noop")
	}

	tokens := newTokens(cfg)
	log.Printf("auth mode: %s", cfg.AuthMode)

	summaries := report.NewEngine(cacheStore, time.Duration(cfg.SummaryTTLSeconds)*time.Second)
	svc := service.New(repo, summaries)
	manager := httpapi.NewAuthManager(repo, tokens)
	api := httpapi.New(svc, manager, auth.NewGate(tokens), cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("back-office API listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

func newTokens(cfg config.Config) auth.Tokens {
	ttl := time.Duration(cfg.AccessTokenTTLMinutes) * time.Minute
	if cfg.AuthMode == config.AuthModeJWT {
		return auth.NewJWTTokens(cfg.AuthSecret, ttl)
	}
	return auth.NewPlaceholderTokens(ttl)
}

func validateSecurityConfig(cfg config.Config) error {
	switch cfg.AuthMode {
	case config.AuthModePlaceholder:
		return nil
	case config.AuthModeJWT:
		if len(cfg.AuthSecret) < 32 {
			return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters in jwt mode")
		}
		if err := validateSecretStrength(cfg.AuthSecret); err != nil {
			return fmt.Errorf("AUTH_SECRET is too weak: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", cfg.AuthMode)
	}
}

// validateSecretStrength rejects secrets with too few distinct characters.
func validateSecretStrength(secret string) error {
	distinct := make(map[rune]struct{})
	for _, r := range secret {
		distinct[r] = struct{}{}
	}
	if len(distinct) < 8 {
		return fmt.Errorf("secret must use at least 8 distinct characters")
	}
	return nil
}
