package eventsink

import (
	"fmt"

	"tableorder/internal/config"
	"tableorder/internal/infra/eventbus"

	"go.uber.org/zap"
)

// Open はEVENT_SINKに応じたsinkを作る。noneのときはnil。
func Open(cfg config.Config, log *zap.Logger) (eventbus.Sink, error) {
	switch cfg.EventSink {
	case config.SinkKafka:
		log.Info("event sink: kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
		return NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case config.SinkRabbitMQ:
		s, err := NewRabbitMQSink(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return nil, err
		}
		log.Info("event sink: rabbitmq", zap.String("exchange", cfg.RabbitMQExchange))
		return s, nil
	case config.SinkRedis:
		s, err := NewRedisSink(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisStream, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.SinkNone, "":
		log.Info("event sink: none")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown event sink %q", cfg.EventSink)
	}
}
