package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/tasafe/tasafe-api/pkg/config"
	"github.com/tasafe/tasafe-api/pkg/eventbus"
	"github.com/tasafe/tasafe-api/pkg/logger"
	"github.com/tasafe/tasafe-api/pkg/models"
)

const serviceName = "tasafe-realtime"

// notificationSubject covers the per-user fanout published by the API
const notificationSubject = "notifications.user.*"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	bus, err := eventbus.Connect(cfg.NATS.URL)
	if err != nil {
		logger.Fatal("failed to connect to nats", zap.Error(err))
	}
	defer bus.Close()
	logger.Info("connected to nats", zap.String("url", cfg.NATS.URL))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = bus.Subscribe(ctx, notificationSubject, "realtime", func(ctx context.Context, event *eventbus.Event) error {
		var notification models.Notification
		if err := json.Unmarshal(event.Data, &notification); err != nil {
			logger.Warn("dropped malformed notification event", zap.Error(err))
			return err
		}

		// Delivery target for push channels once they exist; until then
		// the consumer makes the fanout observable in the logs.
		logger.Info("notification delivered",
			zap.String("user_id", notification.UserID.String()),
			zap.String("kind", notification.Kind),
			zap.String("title", notification.Title),
		)
		return nil
	})
	if err != nil {
		logger.Fatal("failed to subscribe", zap.Error(err))
	}

	logger.Info("realtime consumer started", zap.String("subject", notificationSubject))

	<-ctx.Done()
	logger.Info("realtime consumer stopped")
}
