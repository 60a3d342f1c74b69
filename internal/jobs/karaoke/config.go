package karaoke

import (
	"time"

	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
	"github.com/yungbote/neurobridge-backend/internal/platform/retry"
)

// Config bundles every env-tunable knob the karaoke phase workers share.
type Config struct {
	Policy retry.Policy

	SplitPollThreshold      time.Duration
	TranscriptPollThreshold time.Duration

	BatchSize int

	TickInterval time.Duration

	// PresignTTL bounds how long a presigned vocal-object URL handed to the
	// ASR provider stays valid.
	PresignTTL time.Duration
}

func ConfigFromEnv() Config {
	policy := retry.DefaultPolicy()
	policy.MaxAttempts = envutil.Int("KARAOKE_MAX_ATTEMPTS", policy.MaxAttempts)

	return Config{
		Policy:                  policy,
		SplitPollThreshold:      envutil.Duration("SPLIT_POLL_THRESHOLD", 15*time.Second),
		TranscriptPollThreshold: envutil.Duration("TRANSCRIPT_POLL_THRESHOLD", 15*time.Second),
		BatchSize:               envutil.Int("KARAOKE_BATCH_SIZE", 100),
		TickInterval:            envutil.Duration("KARAOKE_TICK_INTERVAL", 15*time.Second),
		PresignTTL:              envutil.Duration("KARAOKE_PRESIGN_TTL", 1*time.Hour),
	}
}
