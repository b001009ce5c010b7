package main

import (
	"context"

	"omnistock/internal/channel"
	"omnistock/internal/config"
	"omnistock/internal/domain/model"
	"omnistock/internal/handler"
	"omnistock/internal/infra/db"
	infraRepo "omnistock/internal/infra/repository"
	"omnistock/internal/scheduler"
	"omnistock/internal/server"
	"omnistock/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional outside dev
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	gormDB, err := db.Connect()
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.InventoryAdjustment{},
	); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	// Repositories
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)

	// Channel registry, built once and passed in explicitly.
	registry := channel.NewRegistry(
		channel.NewMercadoLibreAdapter(cfg.AdapterLatency),
		channel.NewTiendaNubeAdapter(cfg.AdapterLatency),
		channel.NewShopifyAdapter(cfg.AdapterLatency),
	)

	// Usecases
	stockUC := usecase.NewStockUsecase(productRepo, inventoryRepo, logger)
	syncUC := usecase.NewSyncUsecase(productRepo, stockUC, registry, cfg.SyncConcurrency, logger)
	webhookUC := usecase.NewWebhookUsecase(stockUC, logger)
	productUC := usecase.NewProductUsecase(productRepo)
	seedUC := usecase.NewSeedUsecase(productRepo, registry, logger)

	// Scheduler
	sched := scheduler.New(syncUC, cfg.SyncInterval, cfg.DailySyncInterval, logger)
	sched.Start(context.Background())
	defer sched.Stop()

	// HTTP
	e := server.New(cfg, server.Handlers{
		Product: handler.NewProductHandler(productUC, syncUC),
		Stock:   handler.NewStockHandler(stockUC),
		Sync:    handler.NewSyncHandler(syncUC, sched),
		Webhook: handler.NewWebhookHandler(webhookUC),
		Seed:    handler.NewSeedHandler(seedUC),
	})

	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}

	logger.Info("listening", zap.String("addr", addr), zap.Strings("channels", registry.Names()))
	if err := server.Start(e, addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
