package utils

import (
	"sync"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

var messageMap sync.Map

// TrackMessage remembers which Kafka message carried a given audit record
// so the offset can be committed once the record is persisted.
func TrackMessage(recordID string, msg *kafka.Message) {
	messageMap.Store(recordID, msg)
}

func GetMessageForRecord(recordID string) (*kafka.Message, bool) {
	msg, ok := messageMap.Load(recordID)
	if !ok {
		return nil, false
	}
	messageMap.Delete(recordID)
	return msg.(*kafka.Message), true
}
