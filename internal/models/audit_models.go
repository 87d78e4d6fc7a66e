package models

// AnalysisRecord is the immutable audit snapshot of one pipeline run,
// published to Kafka by the API server and persisted to DynamoDB by the
// audit consumer. The pipeline itself never reads these back.
type AnalysisRecord struct {
	RecordID  string   `json:"record_id" dynamodbav:"record_id"`
	UserID    string   `json:"user_id" dynamodbav:"user_id"`
	Email     string   `json:"email,omitempty" dynamodbav:"email,omitempty"`
	Operation string   `json:"operation" dynamodbav:"operation"`
	Niche     string   `json:"niche,omitempty" dynamodbav:"niche,omitempty"`
	Tone      string   `json:"tone,omitempty" dynamodbav:"tone,omitempty"`
	Text      string   `json:"text" dynamodbav:"text"`
	Analysis  Analysis `json:"analysis" dynamodbav:"analysis"`
	CreatedAt int64    `json:"created_at" dynamodbav:"created_at"` // unix seconds, table sort key
}

// Audit operation names, one per HTTP surface that runs the pipeline.
const (
	OperationAnalyze = "analyze"
	OperationImprove = "improve"
	OperationPlan    = "plan"
)
