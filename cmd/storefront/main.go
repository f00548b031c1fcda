package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pedidos/internal/config"
	"pedidos/internal/infra/api"
	"pedidos/internal/infra/db"
	"pedidos/internal/infra/events"
	infraRepo "pedidos/internal/infra/repository"
	repo "pedidos/internal/repository"
	"pedidos/internal/server"
	"pedidos/internal/usecase"
	"pedidos/internal/validator"

	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(server.ParseLevel(cfg.LogLevel))
	logger := log.New("main")
	logger.SetLevel(server.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//端末側ストレージ
	kv, gormDB, closeStorage, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}
	defer closeStorage()

	if cfg.Storage.Key != nil {
		sealed, err := infraRepo.NewSealedStorage(kv, cfg.Storage.Key)
		if err != nil {
			logger.Fatalf("storage key: %v", err)
		}
		kv = sealed
	}
	identities := infraRepo.NewIdentityStorageRepository(kv)

	//APIクライアント
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client, err := api.NewClient(cfg.API, identities, api.WithMetrics(api.NewMetrics(reg)))
	if err != nil {
		logger.Fatalf("api client: %v", err)
	}

	//Usecase生成
	app := usecase.NewApp(usecase.Deps{
		Tokens:     api.NewTokenAPI(client),
		Identities: identities,
		Carts:      infraRepo.NewCartStorageRepository(kv),
		Products:   api.NewProductAPI(client),
		Orders:     api.NewOrderAPI(client),
		Deliveries: api.NewDeliveryAPI(client),
		Profiles:   api.NewProfileAPI(client),
		Audit:      newAuditPublisher(cfg, gormDB),
		Validator:  validator.NewInputValidator(),
	})
	client.OnAuthExpired(app.Session.Expire)
	client.OnTokenRefreshed(app.Session.Refreshed)

	if err := app.Start(ctx); err != nil {
		logger.Fatalf("start: %v", err)
	}

	//Server起動
	e := server.New(app, reg, cfg.LogLevel)
	go func() {
		if err := server.Start(e, cfg.Port); err != nil {
			logger.Errorf("server: %v", err)
			stop()
		}
	}()
	logger.Infof("listening on :%s (api=%s storage=%s)", cfg.Port, cfg.API.BaseURL, cfg.Storage.Driver)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx, e); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	if err := app.Close(); err != nil {
		logger.Errorf("close: %v", err)
	}
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (repo.KeyValueStore, *gorm.DB, func(), error) {
	switch cfg.Driver {
	case config.StoragePostgres:
		gormDB, err := db.Connect(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Migrate(gormDB); err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := gormDB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return infraRepo.NewStorageGormRepository(gormDB), gormDB, closeFn, nil

	case config.StorageRedis:
		r := infraRepo.NewStorageRedisRepository(cfg)
		if err := r.Ping(ctx); err != nil {
			_ = r.Close()
			return nil, nil, nil, err
		}
		return r, nil, func() { _ = r.Close() }, nil

	default:
		return infraRepo.NewStorageMemoryRepository(), nil, func() {}, nil
	}
}

// Kafka > postgres > ログ
func newAuditPublisher(cfg config.Config, gormDB *gorm.DB) repo.AuditPublisher {
	if len(cfg.Kafka.Brokers) > 0 {
		return events.NewKafkaPublisher(cfg.Kafka)
	}
	if gormDB != nil {
		return infraRepo.NewAuditGormPublisher(gormDB)
	}
	return events.NewLogPublisher()
}
