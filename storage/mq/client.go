package mq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"MomCare/config"
	"MomCare/pkg/logger"
)

const (
	// ExchangeEvents 业务事件交换机
	ExchangeEvents = "momcare.events"

	// QueueVisitRecorded 产检记录事件队列
	QueueVisitRecorded = "momcare.visit.recorded"

	// RoutingKeyVisitRecorded 产检记录事件路由键
	RoutingKeyVisitRecorded = "visit.recorded"
)

var (
	conn    *amqp.Connection
	mqOnce  sync.Once
	initErr error
)

func Init() error {
	mqOnce.Do(func() {
		conn, initErr = amqp.Dial(config.Cfg.GetRabbitMQURL())
		if initErr != nil {
			return
		}

		initErr = declareTopology()
		if initErr != nil {
			return
		}

		logger.Logger.Info("RabbitMQ initialized successfully")
	})

	return initErr
}

func Connection() *amqp.Connection {
	return conn
}

// declareTopology 声明交换机、队列和绑定，幂等
func declareTopology() error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		ExchangeEvents,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(
		QueueVisitRecorded,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(
		QueueVisitRecorded,
		RoutingKeyVisitRecorded,
		ExchangeEvents,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	return nil
}

func Close(ctx context.Context) error {
	if conn == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
