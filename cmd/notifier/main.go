package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/config"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/dispatch"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/repository"
	"github.com/wneessen/go-mail"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type worker struct {
	cfg        *config.Config
	repo       *repository.Repository
	mailClient *mail.Client
	httpClient *http.Client
}

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("unable to load configuration", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * database (push subscriptions and chat IDs)
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("unable to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()
	if err := dbpool.PingContext(pingCtx); err != nil {
		logger.Error("unable to reach the database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * mail client
	 **********************************************/
	mailClient, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("unable to create mail client", slog.String("error", err.Error()))
		return
	}
	defer mailClient.Close()

	dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := mailClient.DialWithContext(dialCtx); err != nil {
		logger.Error("unable to reach the mail server", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("unable to connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("unable to open a channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		dispatch.QueueName,
		true,  // durable
		false, // do not auto-delete while consumers are away
		false, // not exclusive
		false, // wait for the broker to confirm
		nil,
	)
	if err != nil {
		logger.Error("unable to declare the notification queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("unable to consume messages", slog.String("error", err.Error()))
		os.Exit(1)
	}

	w := &worker{
		cfg:        cfg,
		repo:       repo,
		mailClient: mailClient,
		httpClient: &http.Client{Timeout: time.Duration(cfg.ChatBot.SendTimeout) * time.Second},
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				w.handle(msg)
			}
		}
	}()

	logger.Info("waiting for notifications... (CTRL+C to exit)")
	<-sigChan

	slog.Info("shutting down notifier...")
	cancel()
	wg.Wait()
	slog.Info("notifier stopped")
}

func (w *worker) handle(msg amqp.Delivery) {
	notification := domain.NotificationMessage{}
	if err := json.Unmarshal(msg.Body, &notification); err != nil {
		slog.Error("notification message unmarshal failed", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	switch notification.Channel {
	case domain.ChannelPush:
		// push failures are not retried, a stale notification is worse
		// than a missing one
		w.sendPush(notification)
		_ = msg.Ack(false)
	case domain.ChannelChatBot:
		w.sendChatBot(notification)
		_ = msg.Ack(false)
	case domain.ChannelEmail:
		if err := w.sendEmail(notification); err != nil {
			slog.Error("email delivery failed", slog.String("error", err.Error()))
			_ = msg.Nack(false, true) // requeue, SMTP hiccups are transient
			return
		}
		_ = msg.Ack(false)
	default:
		slog.Error("unsupported notification channel", slog.String("channel", string(notification.Channel)))
		_ = msg.Nack(false, false)
	}
}

func (w *worker) sendPush(notification domain.NotificationMessage) {
	subscriptions, err := w.repo.GetPushSubscriptionsByEmail(notification.To)
	if err != nil {
		slog.Error("unable to load push subscriptions", slog.String("to", notification.To), slog.String("error", err.Error()))
		return
	}

	payload, err := json.Marshal(notification.Payload)
	if err != nil {
		slog.Error("unable to marshal push payload", slog.String("error", err.Error()))
		return
	}

	for _, subscription := range subscriptions {
		resp, err := webpush.SendNotification(payload, &webpush.Subscription{
			Endpoint: subscription.Endpoint,
			Keys: webpush.Keys{
				P256dh: subscription.P256dh,
				Auth:   subscription.Auth,
			},
		}, &webpush.Options{
			Subscriber:      w.cfg.Push.Subject,
			VAPIDPublicKey:  w.cfg.Push.VAPIDPublicKey,
			VAPIDPrivateKey: w.cfg.Push.VAPIDPrivateKey,
			TTL:             w.cfg.Push.TTL,
		})
		if err != nil {
			slog.Error("push delivery failed", slog.String("to", notification.To), slog.String("error", err.Error()))
			continue
		}

		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			// the browser unsubscribed, drop the record
			if err := w.repo.DeletePushSubscriptionByEndpoint(subscription.Endpoint); err != nil {
				slog.Error("unable to delete a gone push subscription", slog.String("error", err.Error()))
			}
		}
		resp.Body.Close()
	}
}

func (w *worker) sendChatBot(notification domain.NotificationMessage) {
	user, err := w.repo.GetUserByEmail(notification.To)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return
		}
		slog.Error("unable to load user for chat-bot delivery", slog.String("to", notification.To), slog.String("error", err.Error()))
		return
	}

	if user.ChatID == "" {
		// the volunteer never linked the chat bot
		return
	}

	body, err := json.Marshal(map[string]string{
		"chat_id": user.ChatID,
		"text":    notification.Payload.Title + "\n" + notification.Payload.Body,
	})
	if err != nil {
		slog.Error("unable to marshal chat-bot payload", slog.String("error", err.Error()))
		return
	}

	resp, err := w.httpClient.Post(w.cfg.ChatBot.WebhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Error("chat-bot delivery failed", slog.String("to", notification.To), slog.String("error", err.Error()))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		slog.Error("chat-bot rejected the message", slog.String("to", notification.To), slog.Int("status", resp.StatusCode))
	}
}

func (w *worker) sendEmail(notification domain.NotificationMessage) error {
	m := mail.NewMsg()
	if err := m.From(w.cfg.Email.SMTP.Username); err != nil {
		return err
	}
	if err := m.To(notification.To); err != nil {
		return err
	}
	m.Subject(notification.Payload.Title)
	m.SetBodyString(mail.TypeTextPlain, notification.Payload.Body)

	return w.mailClient.DialAndSend(m)
}
