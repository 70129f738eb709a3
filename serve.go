package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"room-service/internal/catalog"
	"room-service/internal/geo"
	"room-service/internal/handler"
	"room-service/internal/mongo"
	"room-service/internal/repository"
	"room-service/internal/service"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateServer(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

// draftStore picks Redis when configured, otherwise keeps drafts in memory.
func draftStore(ctx context.Context) (repository.DraftStore, func() error, error) {
	if cfg.RedisAddr == "" {
		s := repository.NewMemoryDraftStore(cfg.DraftTTL, time.Minute)
		log.Info("drafts kept in memory")
		return s, s.Close, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	s := repository.NewRedisDraftStore(rdb, cfg.DraftTTL)
	log.WithField("addr", cfg.RedisAddr).Info("drafts kept in redis")
	return s, s.Close, nil
}

func serve(ctx context.Context) error {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	drafts, closeDrafts, err := draftStore(ctx)
	if err != nil {
		return err
	}
	defer closeDrafts()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	maps := geo.NewGoogleClient(cfg.MapsAPIKey, cfg.MapsBaseURL, httpClient)
	c := catalog.Default()

	roomSvc := service.NewRoomService(repository.NewRoomRepository(db), c)
	handlers := handler.Handlers{
		Rooms:  &handler.RoomHandler{Service: roomSvc},
		Drafts: &handler.DraftHandler{Service: service.NewDraftService(drafts, roomSvc, c, maps)},
		Auth:   &handler.AuthHandler{Service: service.NewAuthService(repository.NewUserRepository(db), cfg.JWTSecret, cfg.JWTTTL)},
	}
	if cfg.MapsAPIKey != "" {
		handlers.Maps = &handler.MapHandler{Maps: maps}
	} else {
		log.Warn("MAPS_API_KEY not set, map endpoints disabled")
	}

	if cfg.MongoURI != "" {
		mc, err := mongo.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = mc.Disconnect(dctx)
		}()
		handlers.Photos = &handler.PhotoHandler{Repo: repository.NewPhotoRepository(mc, cfg.MongoDB)}
	} else {
		log.Warn("MONGO_URI not set, photo endpoints disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(handlers, cfg.JWTSecret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("room service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
