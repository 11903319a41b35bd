package app

import (
	"fmt"
	"servly/pkg/kafka"
	kafka_config "servly/pkg/kafka/config"
	kafka_middleware "servly/pkg/kafka/middleware"
)

func (a *Application) kafkaConfig() (*kafka_config.Config, error) {
	if a.kafkaCfg != nil {
		return a.kafkaCfg, nil
	}
	cfg, err := kafka_config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load kafka config: %w", err)
	}
	cfg.LogConfiguration(a.cfg.Log)
	a.kafkaCfg = cfg
	return cfg, nil
}

// NewProducer connects a producer for topic and closes it on shutdown. It
// returns nil, nil when Kafka is disabled.
func (a *Application) NewProducer(topic string) (*kafka.Producer, error) {
	if !a.cfg.KafkaEnabled {
		return nil, nil
	}
	kcfg, err := a.kafkaConfig()
	if err != nil {
		return nil, err
	}

	producer, err := kafka.NewProducer(kcfg, topic, a.cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer for %s: %w", topic, err)
	}
	if kcfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(a.cfg.Log))
	}

	a.AddCloser("kafka-producer:"+topic, producer.Close)
	return producer, nil
}

// AddConsumer runs handler over topic as a background worker. It is a no-op
// when Kafka is disabled.
func (a *Application) AddConsumer(topic, groupID string, handler kafka.MessageHandler) error {
	if !a.cfg.KafkaEnabled {
		return nil
	}
	kcfg, err := a.kafkaConfig()
	if err != nil {
		return err
	}

	consumer, err := kafka.NewConsumer(kcfg, topic, groupID, handler, a.cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create consumer for %s: %w", topic, err)
	}
	if kcfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(a.cfg.Log))
	}

	a.AddWorker("kafka-consumer:"+topic, consumer.Start)
	a.AddCloser("kafka-consumer:"+topic, consumer.Close)
	return nil
}
