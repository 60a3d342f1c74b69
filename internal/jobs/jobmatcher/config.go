package jobmatcher

import (
	"time"

	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
)

// Config bundles the env-tunable knobs the duplicate detector and the
// matcher share.
type Config struct {
	// DuplicateThreshold is the minimum CheckDuplicate probability (1-10) to
	// declare a vacancy a duplicate.
	DuplicateThreshold int

	// RecommendThreshold is the minimum Match score (1-10) to mark a Match as
	// recommended.
	RecommendThreshold int

	// DuplicateWindow bounds how far back a duplicate candidate may have been
	// created relative to the vacancy under check.
	DuplicateWindow time.Duration

	BatchSize int

	TickInterval time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		DuplicateThreshold: envutil.Int("DUPLICATE_THRESHOLD", 7),
		RecommendThreshold: envutil.Int("RECOMMEND_THRESHOLD", 7),
		DuplicateWindow:    envutil.Duration("DUPLICATE_WINDOW", 2*time.Hour),
		BatchSize:          envutil.Int("JOBMATCHER_BATCH_SIZE", 20),
		TickInterval:       envutil.Duration("JOBMATCHER_TICK_INTERVAL", 15*time.Second),
	}
}
