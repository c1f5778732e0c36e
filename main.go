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

	"github.com/couchbase/gocb/v2"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sales_backend/api"
	"sales_backend/internal/config"
	"sales_backend/internal/returns"
	returnscb "sales_backend/internal/returns/couchbase"
	"sales_backend/internal/sales"
	salescb "sales_backend/internal/sales/couchbase"
	"sales_backend/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("unable to get config: %s", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("unable to initialize logger: %s", err)
	}
	defer logger.Sync()

	salesStorage, returnsStorage, err := getStorage(cfg, logger)
	if err != nil {
		log.Fatalf("unable to initialize storage: %s", err)
	}

	userClient := users.NewClient(cfg.UserServiceURL, logger)
	defer userClient.Close()

	salesService := sales.NewService(salesStorage, returnsStorage, userClient, logger)
	returnsService := returns.NewService(returnsStorage, salesStorage, logger)

	r := gin.Default()
	api.InitRoutes(r, salesService, returnsService, logger)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error trying to start server: %w", err)
		}
		return nil
	})

	// handle interrupts
	g.Go(func() error {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		select {
		case <-gctx.Done():
			return nil
		case <-c:
		}

		const waitShutdown = time.Second * 5
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), waitShutdown)
		defer shutdownCancel()

		logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

func getStorage(cfg *config.Config, logger *zap.Logger) (sales.Storage, returns.Storage, error) {
	if !cfg.UseCouchbase() {
		logger.Info("no couchbase endpoint configured, using in-memory storage")
		return sales.NewLocalStorage(), returns.NewLocalStorage(), nil
	}

	cluster, err := getCluster(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to initialize cluster: %w", err)
	}

	salesStorage, err := salescb.NewStorage(logger, cluster, cfg.CouchbaseBucket)
	if err != nil {
		return nil, nil, err
	}

	returnsStorage, err := returnscb.NewStorage(logger, cluster, cfg.CouchbaseBucket)
	if err != nil {
		return nil, nil, err
	}

	return salesStorage, returnsStorage, nil
}

func getCluster(cfg *config.Config) (*gocb.Cluster, error) {
	c, err := gocb.Connect(
		"couchbase://"+cfg.CouchbaseEndpoint,
		gocb.ClusterOptions{
			Username: cfg.CouchbaseUsername,
			Password: cfg.CouchbasePassword,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to cluster: %w", err)
	}

	if err := c.WaitUntilReady(time.Second*5, nil); err != nil {
		return nil, fmt.Errorf("unable to wait until cluster ready: %w", err)
	}

	return c, nil
}
