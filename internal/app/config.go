package app

import (
	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
)

// Config bundles the knobs that are neither a phase worker's own Config nor a
// provider client's own Config: just the HTTP bind address and the GCS
// bucket every uploaded asset is keyed under.
type Config struct {
	HTTPAddr string
	Bucket   string
}

func LoadConfig() Config {
	return Config{
		HTTPAddr: envutil.String("HTTP_ADDR", ":8080"),
		Bucket:   envutil.String("KARAOKE_BUCKET", "neurobridge-karaoke-assets"),
	}
}
