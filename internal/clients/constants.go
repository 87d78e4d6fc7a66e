package clients

import "time"

const (
	MAX_RETRIES     = 3
	INITIAL_BACKOFF = 1 * time.Second
	MAX_BACKOFF     = 16 * time.Second
	USER_AGENT      = "postpulse-client/1.0 (+https://github.com/postpulse/postpulse)"
)
