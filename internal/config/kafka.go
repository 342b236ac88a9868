package config

import (
	"github.com/segmentio/kafka-go"
)

// NewKafkaWriter builds a writer for the task event stream. A nil writer is
// returned when no brokers are configured; the stream is optional.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	if len(brokers) == 0 {
		return nil
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{}, // Balancer for selecting partition
		AllowAutoTopicCreation: true,
	}
}
