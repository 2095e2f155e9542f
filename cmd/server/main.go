package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"grubdash/internal/config"
	"grubdash/internal/infrastructure/idgen"
	"grubdash/internal/infrastructure/logger"
	"grubdash/internal/infrastructure/mysql"
	"grubdash/internal/order"
	"grubdash/internal/order/repository"
	"grubdash/internal/order/service"
	"grubdash/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	repo, closeStore, err := newOrderRepository(context.Background(), cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("initialising order store", zap.Error(err))
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := server.NewHTTPMetrics(registry)

	orderCtrl := order.NewModule(repo, idgen.NewUUIDGenerator(), zapLogger)

	router := server.NewRouter(orderCtrl, metrics, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

func newOrderRepository(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (service.OrderRepository, func(), error) {
	if cfg.Store.Driver != config.StoreDriverMySQL {
		zapLogger.Info("using in-memory order store")
		return repository.NewMemoryOrderRepository(), func() {}, nil
	}

	db, err := mysql.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	zapLogger.Info("database connected", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))

	repo := repository.NewMySQLOrderRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	return repo, func() { closeDB(db, zapLogger) }, nil
}

func closeDB(db *sql.DB, zapLogger *zap.Logger) {
	if err := db.Close(); err != nil {
		zapLogger.Warn("closing database", zap.Error(err))
	}
}
