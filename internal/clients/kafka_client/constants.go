package kafka_client

import "time"

const (
	KAFKA_TOPIC_ANALYSIS_AUDIT = "analysis-audit" // immutable pipeline-run snapshots from the API server
)

const (
	BATCH_SIZE    = 25
	BATCH_TIMEOUT = 5 * time.Second
	MAX_RETRIES   = 5
	RETRY_DELAY   = 2 * time.Second
)
