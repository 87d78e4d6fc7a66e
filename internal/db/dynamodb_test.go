package db

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postpulse/postpulse/internal/models"
)

func TestRecordToDynamoDBItem(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Unix()
	record := models.AnalysisRecord{
		RecordID:  "r-1",
		UserID:    "u-1",
		Email:     "user@example.com",
		Operation: models.OperationAnalyze,
		Tone:      models.ToneCasual,
		Text:      "Hello world!",
		Analysis: models.Analysis{
			Features: models.FeatureSet{WordCount: 2, CharCount: 12, Hashtags: []string{}},
			Scores:   models.ScoreSet{Sentiment: 50, Readability: 80},
			Recommendation: models.Recommendation{
				SentimentLabel: models.SentimentNeutral,
				ViralPotential: models.ViralPotentialMedium,
				Strengths:      []string{"s"},
				Improvements:   []string{"i"},
			},
		},
		CreatedAt: createdAt,
	}

	item, err := RecordToDynamoDBItem(record)
	require.NoError(t, err)

	uid, ok := item["user_id"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "u-1", uid.Value)

	created, ok := item["created_at"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "1748779200", created.Value)

	ttl, ok := item["ttl"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Greater(t, ttl.Value, created.Value)

	// Round-trips back into the same record.
	var decoded models.AnalysisRecord
	require.NoError(t, attributevalue.UnmarshalMap(item, &decoded))
	assert.Equal(t, record, decoded)
}
