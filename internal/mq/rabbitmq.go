package mq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nordicmaskin/kma/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	appID = "kma"

	// queueSuffix names the consumer queue bound to a channel's exchange.
	queueSuffix = ".events"

	defaultBindingKey = "#"
)

// RabbitMQClient publishes events to a topic exchange named after the
// channel. The event type is the routing key, so consumers can bind to a
// subset such as "inspection.*".
type RabbitMQClient struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	durable    bool
	autoDelete bool
	bindingKey string
}

// NewRabbitMQClient dials the broker and opens one channel.
func NewRabbitMQClient(cfg config.RabbitMQConfig) (*RabbitMQClient, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("rabbitmq url is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if cfg.PrefetchCount > 0 {
		if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("set rabbitmq prefetch: %w", err)
		}
	}

	bindingKey := strings.TrimSpace(cfg.BindingKey)
	if bindingKey == "" {
		bindingKey = defaultBindingKey
	}
	return &RabbitMQClient{
		conn:       conn,
		channel:    ch,
		durable:    cfg.QueueDurable,
		autoDelete: cfg.QueueAutoDelete,
		bindingKey: bindingKey,
	}, nil
}

// Publish routes data by its event type attribute. The consumer queue is
// declared first so events published before any subscriber are kept.
func (r *RabbitMQClient) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("rabbitmq channel is required")
	}
	msg, err := r.publishing(data, attrs, time.Now())
	if err != nil {
		return "", err
	}
	if _, err := r.declareTopology(channel); err != nil {
		return "", err
	}

	if err := r.channel.PublishWithContext(ctx, channel, msg.Type, false, false, msg); err != nil {
		return "", fmt.Errorf("publish %s: %w", msg.Type, err)
	}
	return msg.MessageId, nil
}

func (r *RabbitMQClient) publishing(data []byte, attrs map[string]string, now time.Time) (amqp.Publishing, error) {
	eventType := strings.TrimSpace(attrs[AttrEventType])
	if eventType == "" {
		return amqp.Publishing{}, errors.New("rabbitmq event type is required")
	}

	headers := make(amqp.Table, len(attrs))
	for key, value := range attrs {
		headers[key] = value
	}
	mode := amqp.Transient
	if r.durable {
		mode = amqp.Persistent
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: mode,
		MessageId:    uuid.NewString(),
		AppId:        appID,
		Timestamp:    now,
		Type:         eventType,
		Headers:      headers,
		Body:         data,
	}, nil
}

// Subscribe consumes the channel's queue until ctx is done. A message
// whose handler fails is requeued once and dropped on the second failure.
func (r *RabbitMQClient) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("rabbitmq channel is required")
	}
	queue, err := r.declareTopology(channel)
	if err != nil {
		return err
	}

	consumerTag := appID + "-" + uuid.NewString()
	deliveries, err := r.channel.Consume(queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue, err)
	}
	defer func() {
		_ = r.channel.Cancel(consumerTag, false)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			if err := handler(ctx, deliveryMessage(delivery)); err != nil {
				_ = delivery.Nack(false, !delivery.Redelivered)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

func (r *RabbitMQClient) Close() error {
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// declareTopology declares the channel's exchange and its bound consumer
// queue, returning the queue name.
func (r *RabbitMQClient) declareTopology(channel string) (string, error) {
	if err := r.channel.ExchangeDeclare(channel, amqp.ExchangeTopic, r.durable, r.autoDelete, false, false, nil); err != nil {
		return "", fmt.Errorf("declare exchange %s: %w", channel, err)
	}
	queue := channel + queueSuffix
	if _, err := r.channel.QueueDeclare(queue, r.durable, r.autoDelete, false, false, nil); err != nil {
		return "", fmt.Errorf("declare queue %s: %w", queue, err)
	}
	if err := r.channel.QueueBind(queue, r.bindingKey, channel, false, nil); err != nil {
		return "", fmt.Errorf("bind queue %s: %w", queue, err)
	}
	return queue, nil
}

// deliveryMessage converts a delivery. The event type falls back to the
// AMQP type property and then the routing key for messages published by
// other producers without the header.
func deliveryMessage(d amqp.Delivery) Message {
	attrs := headersToAttributes(d.Headers)
	if attrs[AttrEventType] == "" {
		eventType := d.Type
		if eventType == "" {
			eventType = d.RoutingKey
		}
		if eventType != "" {
			if attrs == nil {
				attrs = make(map[string]string, 1)
			}
			attrs[AttrEventType] = eventType
		}
	}
	return Message{ID: d.MessageId, Data: d.Body, Attributes: attrs}
}

func headersToAttributes(headers amqp.Table) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(headers))
	for key, value := range headers {
		switch typed := value.(type) {
		case string:
			attrs[key] = typed
		case []byte:
			attrs[key] = string(typed)
		default:
			attrs[key] = fmt.Sprint(value)
		}
	}
	return attrs
}
