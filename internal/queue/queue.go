package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Nexo9/hermes-news-hub-sub001/internal/models"
)

// Producer публикует синтезированные новости в очередь RabbitMQ,
// откуда их забирают подписчики ленты.
type Producer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewProducer(url, queue string) (*Producer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Producer{conn: conn, ch: ch, queue: queue}, nil
}

// PublishNews сериализует новость в JSON и отправляет её в очередь.
// Очередь объявляется durable, сообщения — persistent.
func (p *Producer) PublishNews(ctx context.Context, news models.News) error {
	body, err := json.Marshal(news)
	if err != nil {
		return err
	}

	_, err = p.ch.QueueDeclare(
		p.queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(
		ctx,
		"",      // exchange
		p.queue, // routing key (имя очереди)
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		},
	)
}

func (p *Producer) Close() {
	p.ch.Close()
	p.conn.Close()
}
