package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"Sawa_Community/internal/config"
	"Sawa_Community/internal/pkg"
	"Sawa_Community/internal/repository/mysql"
	"Sawa_Community/internal/repository/redis"
	"Sawa_Community/internal/router"
	"Sawa_Community/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	pkg.SetSecrets(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret)

	if err := mysql.InitDB(cfg.MySQL.DSN); err != nil {
		logger.Fatal("mysql init failed", zap.Error(err))
	}
	if err := mysql.Migrate(mysql.DB); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	if err := redis.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		logger.Fatal("redis init failed", zap.Error(err))
	}
	defer redis.Close()

	// kafka 没配 broker 就不建 producer，通知走库内表即可
	var producer *pkg.KafkaProducer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		if err != nil {
			logger.Fatal("kafka init failed", zap.Error(err))
		}
		defer producer.Close()
	}

	smtp := pkg.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 出站事件 -> 通知的后台链路
	dispatcher := service.NewDispatcher(mysql.DB, producer, smtp, logger)
	relayer := service.NewOutboxRelayer(mysql.DB, dispatcher.Sender(), logger)
	go relayer.Run(ctx)

	reminder := service.NewEventReminder(mysql.DB, logger)
	go reminder.Run(ctx)

	hub := service.NewRoomHub()
	r := router.InitRouter(mysql.DB, hub)

	logger.Info("server starting", zap.String("addr", cfg.Server.Addr))
	if err := r.Run(cfg.Server.Addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
