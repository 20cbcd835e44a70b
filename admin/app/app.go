package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashmetov/booklib/admin/config"
	"github.com/ashmetov/booklib/admin/internal/handler"
	"github.com/ashmetov/booklib/admin/internal/repository"
	"github.com/ashmetov/booklib/admin/internal/service"
	syncpkg "github.com/ashmetov/booklib/admin/internal/sync"
	"github.com/ashmetov/booklib/admin/migrations"
	"github.com/ashmetov/booklib/pkg/circuit_breaker"
	"github.com/ashmetov/booklib/pkg/kafka"
	"github.com/ashmetov/booklib/pkg/logger"
	"github.com/ashmetov/booklib/pkg/postgres"
	"github.com/ashmetov/booklib/pkg/server"
	"go.uber.org/zap"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "admin")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}
	svc := service.NewService(repo, log)

	var transport syncpkg.Transport
	if cfg.Sync.KafkaEnabled {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		defer producer.Close() //nolint:errcheck
		transport = syncpkg.NewKafkaTransport(producer, kafka.SyncTopic)
	} else {
		cb := circuit_breaker.New(20, 10*time.Second, 0.5, 5)
		transport = syncpkg.NewHTTPTransport(cfg.Sync.PublicURL, cfg.Sync.Token, cb)
	}
	dispatcher := syncpkg.NewDispatcher(transport, repo, log, syncpkg.Options{
		Workers:   cfg.Sync.Workers,
		QueueSize: cfg.Sync.QueueSize,
	})
	dispatcher.Start()

	h := handler.New(svc, dispatcher, log)
	srv := server.NewServer(server.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if err = dispatcher.Close(closeCtx); err != nil {
		log.Error("dispatcher.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
