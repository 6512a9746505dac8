package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	lcache "github.com/radieske/numbers-ledger-poc/internal/ledger-service/cache"
	lhttp "github.com/radieske/numbers-ledger-poc/internal/ledger-service/http"
	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/producer"
	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/store"
	"github.com/radieske/numbers-ledger-poc/internal/shared/config"
	"github.com/radieske/numbers-ledger-poc/internal/shared/db"
	"github.com/radieske/numbers-ledger-poc/internal/shared/kafka"
	"github.com/radieske/numbers-ledger-poc/internal/shared/logger"
	"github.com/radieske/numbers-ledger-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "ledger-service"
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var be store.Backend
	var health []metrics.HealthFunc

	// Storage: Postgres por padrão; "memory" roda tudo em processo (dev local)
	if cfg.PostgresDSN == "memory" {
		log.Warn("using in-memory backend; data will not survive restarts")
		be = store.NewMemory()
	} else {
		pg, err := db.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("pg", zap.Error(err))
		}
		defer pg.Close()

		if err := db.Migrate(pg); err != nil {
			log.Fatal("migrate", zap.Error(err))
		}
		be = store.NewPostgres(pg)
		health = append(health, func(ctx context.Context) error { return pg.PingContext(ctx) })
	}

	// Redis: cache dos relatórios; sem Redis o serviço segue sem cache
	var rcache lhttp.ReportCache
	if rdb, err := lcache.ConnectRedis(cfg.RedisAddr); err != nil {
		log.Warn("redis unavailable; running without report cache", zap.Error(err))
	} else {
		rcache = lcache.New(rdb)
		health = append(health, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	// Kafka writers (bet_placed / bet_settled)
	placedW := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	defer placedW.Close()
	settledW := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
	defer settledW.Close()
	publ := producer.NewKafkaPublisher(placedW, settledW)

	api := lhttp.NewServer(log, be, publ, rcache, cfg)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health em porta separada
	metrics.StartMetricsServer(cfg.MetricsPort, metrics.Combine(health...))
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	log.Info("ledger-service listening", zap.String("addr", ":"+cfg.HTTPPort))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
