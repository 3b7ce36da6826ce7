package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// RabbitMQServiceImpl wraps a connection and channel against the payment
// events exchange. All payment queues and their DLQs are declared up front.
type RabbitMQServiceImpl struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewRabbitMQService(host, exchange, queueName string, eventQueues []string) (*RabbitMQServiceImpl, error) {
	conn, err := amqp.Dial(host)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare an exchange: %w", err)
	}

	// dead-letter exchange
	dlxName := exchange + ".dlx"
	err = ch.ExchangeDeclare(
		dlxName,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare a dead-letter exchange: %w", err)
	}

	dlqName := queueName + ".dlq"
	_, err = ch.QueueDeclare(
		dlqName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare a dead-letter queue: %w", err)
	}

	err = ch.QueueBind(
		dlqName,
		"",
		dlxName,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to bind dead-letter queue: %w", err)
	}

	// Declare the main queue with dead-lettering enabled
	args := amqp.Table{
		"x-dead-letter-exchange": dlxName,
	}
	_, err = ch.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		args,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}

	// Declare event-specific queues with their DLQs
	for _, eventQueue := range eventQueues {
		_, err = ch.QueueDeclare(
			eventQueue,
			true,
			false,
			false,
			false,
			args,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to declare event queue %s: %w", eventQueue, err)
		}

		err = ch.QueueBind(
			eventQueue, // queue name
			eventQueue, // routing key (same as queue name)
			exchange,   // exchange
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to bind event queue %s: %w", eventQueue, err)
		}

		eventDLQ := eventQueue + ".dlq"
		_, err = ch.QueueDeclare(
			eventDLQ,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to declare DLQ %s: %w", eventDLQ, err)
		}

		err = ch.QueueBind(
			eventDLQ,
			eventDLQ,
			exchange,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to bind DLQ %s: %w", eventDLQ, err)
		}
	}

	return &RabbitMQServiceImpl{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
	}, nil
}

// Publish sends a persistent message to a topic on the exchange.
// Returns an error if the connection is closed or publishing fails.
func (s *RabbitMQServiceImpl) Publish(topic string, body []byte) error {
	if topic == "" {
		return fmt.Errorf("topic cannot be empty")
	}
	if body == nil {
		return fmt.Errorf("message body cannot be nil")
	}

	if s.conn.IsClosed() {
		return fmt.Errorf("connection to RabbitMQ is closed")
	}
	if s.channel == nil {
		return fmt.Errorf("channel is not initialized")
	}

	err := s.channel.Publish(
		s.exchange, // exchange
		topic,      // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    fmt.Sprintf("%s_%d", topic, len(body)),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message to topic '%s': %w", topic, err)
	}
	return nil
}

// Close closes the connection to RabbitMQ.
func (s *RabbitMQServiceImpl) Close() {
	s.channel.Close()
	s.conn.Close()
}

// Consume starts consuming messages from a queue.
func (s *RabbitMQServiceImpl) Consume(queueName string) (<-chan amqp.Delivery, error) {
	if s.conn.IsClosed() {
		return nil, fmt.Errorf("connection is closed")
	}

	msgs, err := s.channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming queue: %w", err)
	}
	return msgs, nil
}

// IsHealthy checks if the RabbitMQ connection is healthy
func (s *RabbitMQServiceImpl) IsHealthy() bool {
	return !s.conn.IsClosed() && s.channel != nil
}
