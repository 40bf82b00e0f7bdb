package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/laseropolis/marketplace-api/internal/config"
	"github.com/laseropolis/marketplace-api/internal/lib/sl"
	"github.com/laseropolis/marketplace-api/internal/lib/smtp"
	"github.com/laseropolis/marketplace-api/internal/rabbitmq"
	"github.com/laseropolis/marketplace-api/internal/services/sender"
)

func main() {
	ctx := context.Background()
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("starting notification-sender", slog.String("env", cfg.Env))

	conn, err := rabbitmq.Connect(cfg.RabbitMQConnection, 5, 3*time.Second)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("success to connect to RabbitMQ", slog.String("URL", cfg.RabbitMQConnection))
	defer func() {
		_ = conn.Close()
	}()

	queues := rabbitmq.GetPaymentQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		logger.Error("failed to setup RabbitMQ channel", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("success to setup RabbitMQ channel")
	defer func() {
		_ = ch.Close()
	}()

	newTransport := smtp.NewTransport(cfg, logger)

	senderService := sender.NewSenderService(logger, newTransport)

	err = rabbitmq.ConsumerMessage(ctx, ch, rabbitmq.QueuePaymentReceipts, senderService.SendPaymentReceipt)
	if err != nil {
		logger.Error("failed to start consumer", sl.Err(err))
		os.Exit(1)
	}

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)
	<-sigterm

	logger.Info("notification sender shutting down gracefully")
}
