package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashmetov/booklib/pkg/kafka"
	"github.com/ashmetov/booklib/pkg/logger"
	"github.com/ashmetov/booklib/pkg/postgres"
	"github.com/ashmetov/booklib/pkg/server"
	"github.com/ashmetov/booklib/public/config"
	"github.com/ashmetov/booklib/public/internal/handler"
	"github.com/ashmetov/booklib/public/internal/repository"
	"github.com/ashmetov/booklib/public/internal/service"
	"github.com/ashmetov/booklib/public/migrations"
	"go.uber.org/zap"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "public")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}
	svc := service.NewService(repo, log)

	consumeCtx, consumeCancel := context.WithCancel(context.Background())
	defer consumeCancel()
	if cfg.Sync.KafkaEnabled {
		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.SyncConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		go kafka.Consume(consumeCtx, consumer, handler.NewConsumer(svc.UpsertBook, svc.DeleteBook, log), log, kafka.SyncTopic)
	}

	h := handler.New(svc, cfg.Sync.Token, log)
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
	consumeCancel()
	db.Close()
	log.Info("Graceful shutdown finished")
}
