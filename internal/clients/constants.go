package clients

import "time"

const (
	MAX_RETRIES     = 3
	INITIAL_BACKOFF = 250 * time.Millisecond
	MAX_BACKOFF     = 4 * time.Second
	USER_AGENT      = "factcheck-client/1.0 (+https://github.com/spacesedan/factcheck)"

	PREDICT_PATH = "/api/predict"
	HEALTH_PATH  = "/health"

	// responses larger than this are treated as undecodable
	MAX_RESPONSE_BYTES = 1 << 20

	SESSION_KEY_PREFIX = "factcheck:session:"
)
