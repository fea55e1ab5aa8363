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

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/configuration"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/metrics"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/realtime"
	httpHandler "github.com/Shumail-AbdulRehman/Shahmeer-Backend/interfaces/http"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/server"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/usecase"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
		os.Exit(2)
	}
}

func main() {
	defer recoverPanic()
	if err := newRootCmd().Execute(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "shahmeer",
		Short:        "Video feed and engagement API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema or indexes of the configured data source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, err := openStores(ctx, configuration.C.Data.Source)
			if err != nil {
				return err
			}
			defer st.close(context.Background())
			if err := st.migrate(ctx); err != nil {
				return fmt.Errorf("migrate %s: %w", configuration.C.Data.Source, err)
			}

			usersDB, _ := openUserDirectory()
			if err := migrateUsers(usersDB); err != nil {
				return fmt.Errorf("migrate users: %w", err)
			}
			logger.GetLogger().WithField("source", configuration.C.Data.Source).Info("Migration finished")
			return nil
		},
	}
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := configuration.C

	st, err := openStores(ctx, cfg.Data.Source)
	if err != nil {
		return err
	}
	defer st.close(context.Background())
	if err := st.migrate(ctx); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed ensuring store schema")
	}

	m := metrics.NewMetrics()
	countCache := openCountCache(ctx)
	mediaStorage := openMediaStorage(ctx)
	_, userRepository := openUserDirectory()

	hub := realtime.NewEngagementHub()
	publishers := []usecase.NamedPublisher{{Name: "hub", Publisher: hub}}
	broker, closeBroker, err := openBroker(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("driver", cfg.Events.Driver).
			Warn("Event broker not available - events stay in-process")
	} else if broker != nil {
		publishers = append(publishers, *broker)
	}
	defer closeBroker(context.Background())

	selector := usecase.NewFeedSelector(st.videos, m)
	feedUsecase := usecase.NewFeedUsecase(st.videos, selector, st.reactions, st.comments, countCache, usecase.FeedOptions{
		MaxPageSize:    cfg.Feed.MaxPageSize,
		SearchPageSize: cfg.Feed.SearchPageSize,
	})
	engagementUsecase := usecase.NewEngagementUsecase(st.videos, st.reactions, st.comments, countCache, m, publishers...)
	videoUsecase := usecase.NewVideoUsecase(st.videos, st.reactions, st.comments, mediaStorage, countCache)

	router := server.InitiateRouter(
		httpHandler.NewHealthHandler(cfg.Data.Source),
		httpHandler.NewVideoHandler(feedUsecase, engagementUsecase, videoUsecase, cfg.Feed.DefaultPageSize),
		hub,
		m,
		userRepository,
		cfg.App.SecretKey,
		cfg.Cors.AllowOrigins,
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpServer.RegisterOnShutdown(hub.Close)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.GetLogger().WithFields(map[string]interface{}{
			"port":   cfg.App.Port,
			"tls":    cfg.App.TLSEnabled,
			"source": cfg.Data.Source,
			"events": cfg.Events.Driver,
		}).Info("Starting application")
		return listen(httpServer, cfg.App)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.GetLogger().Info("Application shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.GetLogger().Info("Application stopped")
	return nil
}

func listen(srv *http.Server, app configuration.App) error {
	var err error
	switch {
	case app.TLSEnabled && (app.TLSCertFile == "" || app.TLSKeyFile == ""):
		logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
		err = srv.ListenAndServe()
	case app.TLSEnabled:
		logger.GetLogger().WithFields(map[string]interface{}{"cert": app.TLSCertFile, "key": app.TLSKeyFile}).Info("Serving HTTPS")
		err = srv.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile)
	default:
		err = srv.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
