package consumers

import (
	"context"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/postpulse/postpulse/internal/clients/kafka_client"
	"github.com/postpulse/postpulse/internal/db"
	"github.com/postpulse/postpulse/internal/models"
	"github.com/postpulse/postpulse/internal/utils"
)

var insertBuffer = utils.NewBatchBuffer[models.AnalysisRecord]()

// StartAuditConsumer drains the audit topic and batch-writes records to
// DynamoDB. Offsets are only committed after the record is persisted, so a
// crash replays rather than drops.
func StartAuditConsumer(ctx context.Context, consumer *kafka.Consumer) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
	committer := kafka_client.NewCommitHandler(ctx, consumer)

	ticker := time.NewTicker(utils.BATCH_TIMEOUT)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[AuditConsumer] Consumer shutting down...")
			flushRecords(ctx, committer)
			return
		case <-ticker.C:
			if insertBuffer.HasData() {
				flushRecords(ctx, committer)
			}
		default:
			msg, err := iterator.Next()
			if err != nil {
				utils.HandleConsumerError(err)
				continue
			}

			var record models.AnalysisRecord
			if err := utils.DeserializeFromJSON(msg.Value, &record); err != nil {
				utils.HandleConsumerError(err)
				continue
			}

			utils.TrackMessage(record.RecordID, msg)
			insertBuffer.Add(record)
			if insertBuffer.Size() >= utils.DYNAMODB_BATCH_SIZE {
				flushRecords(ctx, committer)
			}
		}
	}
}

func flushRecords(ctx context.Context, committer *kafka_client.KafkaCommitHandler) {
	insertBuffer.LogBatchProcessing("analysis_records")
	batch := insertBuffer.GetAndClear()
	if len(batch) == 0 {
		return
	}

	var insertErr error
	for i := 0; i < 3; i++ {
		insertErr = db.BatchInsertAnalysisRecords(ctx, batch)
		if insertErr == nil {
			break
		}
		slog.Error("[AuditConsumer] Failed to write records to DB",
			slog.String("error", insertErr.Error()),
			slog.Int("attempt", i+1))
	}
	if insertErr != nil {
		// Leave offsets uncommitted; the batch will be redelivered.
		return
	}

	for _, record := range batch {
		msg, found := utils.GetMessageForRecord(record.RecordID)
		if !found {
			continue
		}
		if err := committer.Commit(msg); err != nil {
			slog.Warn("[AuditConsumer] Failed to commit offset",
				slog.String("error", err.Error()))
		}
	}
}
