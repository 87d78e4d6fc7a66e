package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/postpulse/postpulse/internal/clients"
	"github.com/postpulse/postpulse/internal/models"
)

const (
	ANALYSIS_RECORDS_TABLE_NAME = "AnalysisRecords"

	recordTTL = 90 * 24 * time.Hour
)

var dbClient *dynamodb.Client

func InitDynamoDB() {
	dbClient = clients.GetDynamoDBClient()
}

// BatchInsertAnalysisRecords writes audit snapshots in BatchWriteItem
// chunks, retrying unprocessed items with exponential backoff.
func BatchInsertAnalysisRecords(ctx context.Context, records []models.AnalysisRecord) error {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	const maxBatchSize = 25
	for i := 0; i < len(records); i += maxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
		}

		end := i + maxBatchSize
		if end > len(records) {
			end = len(records)
		}

		writeRequests := make([]types.WriteRequest, 0, maxBatchSize)
		for _, record := range records[i:end] {
			item, err := RecordToDynamoDBItem(record)
			if err != nil {
				slog.Error("[DynamoDB] Skipping unmarshalable record",
					slog.String("record_id", record.RecordID),
					slog.String("error", err.Error()))
				continue
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}
		if len(writeRequests) == 0 {
			continue
		}

		out, err := dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				ANALYSIS_RECORDS_TABLE_NAME: writeRequests,
			},
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Failed to batch write analysis records: %w", err)
		}

		retryCount := 0
		backoff := 500 * time.Millisecond
		for len(out.UnprocessedItems) > 0 && retryCount < 3 {
			time.Sleep(backoff)
			backoff *= 2
			slog.Warn("[DynamoDB] Retrying unprocessed items...",
				slog.Int("retry_attempt", retryCount+1),
				slog.Int("remaining_items", len(out.UnprocessedItems[ANALYSIS_RECORDS_TABLE_NAME])))

			out, err = dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: out.UnprocessedItems,
			})
			if err != nil {
				return fmt.Errorf("[DynamoDB] Failed to retry batch write: %w", err)
			}
			retryCount++
		}

		if len(out.UnprocessedItems) > 0 {
			slog.Error("[DynamoDB] Some records were not written even after retries",
				slog.Int("remaining_items", len(out.UnprocessedItems[ANALYSIS_RECORDS_TABLE_NAME])))
		}
	}

	slog.Info("[DynamoDB] Successfully stored analysis records",
		slog.Int("count", len(records)))
	return nil
}

// GetRecordsForUser returns a user's audit trail, newest first.
func GetRecordsForUser(ctx context.Context, userID string, limit int32) ([]models.AnalysisRecord, error) {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	out, err := dbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(ANALYSIS_RECORDS_TABLE_NAME),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Query for analysis records failed: %w", err)
	}

	var records []models.AnalysisRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		slog.Error("[DynamoDB] Unable to unmarshal analysis records",
			slog.String("error", err.Error()))
		return nil, err
	}

	slog.Info("[DynamoDB] Successfully retrieved analysis records",
		slog.String("user_id", userID),
		slog.Int("count", len(records)))
	return records, nil
}

// RecordToDynamoDBItem marshals a record and stamps the TTL attribute the
// table expires on.
func RecordToDynamoDBItem(record models.AnalysisRecord) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Unix(record.CreatedAt, 0).Add(recordTTL).Unix()
	item["ttl"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expiresAt)}

	return item, nil
}
