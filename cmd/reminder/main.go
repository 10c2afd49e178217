// Deadline reminder, meant to be run from cron during the first half of the
// month. It dispatches a reminder to all volunteers while the submission
// window is open and exits.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/config"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/coordinator"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/dispatch"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("unable to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("unable to create database pool", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("unable to reach the database", "error", err)
		os.Exit(1)
	}

	repo := repository.NewRepository(cfg, dbpool)

	// admins can switch the reminder off without a redeploy
	if value, err := repo.GetSetting("deadline_reminder_enabled"); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Error("unable to read the reminder toggle", "error", err)
			os.Exit(1)
		}
	} else if value == "false" {
		logger.Info("deadline reminder is disabled, nothing to do")
		return
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("unable to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("unable to open a channel", "error", err)
		os.Exit(1)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(dispatch.QueueName, true, false, false, false, nil); err != nil {
		logger.Error("unable to declare the notification queue", "error", err)
		os.Exit(1)
	}

	publisher := dispatch.NewAMQPPublisher(ch, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
	dispatcher := dispatch.NewDispatcher(repo, publisher, cfg.App.BaseURL)
	coord := coordinator.New(repo, dispatcher)

	if coord.SendDeadlineReminder(context.Background()) {
		logger.Info("deadline reminder dispatched")
	} else {
		logger.Info("submission window is closed, no reminder sent")
	}
}
