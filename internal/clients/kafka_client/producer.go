package kafka_client

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/postpulse/postpulse/internal/clients"
	"github.com/postpulse/postpulse/internal/models"
	"github.com/postpulse/postpulse/internal/utils"
)

var producer *kafka.Producer

func InitProducer(cfg KafkaConfig) error {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   cfg.Broker,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
		"enable.idempotence":  true,
		"acks":                "all",
	})
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	producer = p
	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return nil
}

func CloseProducer() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if producer != nil {
		if remaining := producer.Flush(5000); remaining > 0 {
			slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
				slog.Int("remaining", remaining))
		}
		producer.Close()
		slog.Info("[KafkaClient] Kafka producer shut down")
	}
}

// PublishAuditRecord sends one analysis snapshot to the audit topic, keyed
// by record ID so replays land on the same partition.
func PublishAuditRecord(record models.AnalysisRecord) error {
	if producer == nil {
		return fmt.Errorf("[KafkaClient] producer has not been initialized")
	}

	jsonData, err := utils.SerializeToJSON(record)
	if err != nil {
		return err
	}

	topic := KAFKA_TOPIC_ANALYSIS_AUDIT
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(record.RecordID),
		Value:          jsonData,
	}

	backoff := clients.INITIAL_BACKOFF
	for i := 0; i < 3; i++ {
		err = producer.Produce(msg, nil)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce audit record, retrying...",
			slog.Int("attempt", i+1))
		time.Sleep(backoff)
		backoff *= 2
		if backoff > clients.MAX_BACKOFF {
			backoff = clients.MAX_BACKOFF
		}
	}
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce audit record: %w", err)
	}

	slog.Info("[KafkaClient] Published audit record",
		slog.String("record_id", record.RecordID),
		slog.String("operation", record.Operation))

	return nil
}
