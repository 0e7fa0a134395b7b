package amqp_client

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/init-pkg/trade-disclosure/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends JSON events to a topic exchange.
type Publisher struct {
	mu       sync.Mutex
	ch       channel
	exchange string
	log      *slog.Logger
}

var _ app.EventPublisher = &Publisher{}

// Noop is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) errs.Error { return nil }

func New(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) (app.EventPublisher, error) {
	amqpCfg := cfg.Infrastructure.Amqp
	if amqpCfg.Url == "" {
		log.Info("amqp disabled, events are dropped")
		return Noop{}, nil
	}

	conn, err := amqp.Dial(amqpCfg.Url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(amqpCfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			ch.Close()
			return conn.Close()
		},
	})

	log.Info("amqp publisher ready", "exchange", amqpCfg.Exchange)
	return NewWithChannel(ch, amqpCfg.Exchange, log), nil
}

func NewWithChannel(ch channel, exchange string, log *slog.Logger) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, log: log}
}

func (this *Publisher) Publish(ctx context.Context, routingKey string, payload any) errs.Error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errs.WrapAppError(err, &errs.ErrorOpts{})
	}

	// amqp channels are not safe for concurrent publishing
	this.mu.Lock()
	defer this.mu.Unlock()

	err = this.ch.PublishWithContext(ctx, this.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return errs.Transport(err, "publish "+routingKey)
	}

	this.log.Debug("event published", "routingKey", routingKey, "bytes", len(body))
	return nil
}
