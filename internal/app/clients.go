package app

import (
	"fmt"

	"github.com/yungbote/neurobridge-backend/internal/clients/aligner"
	"github.com/yungbote/neurobridge-backend/internal/clients/asr"
	"github.com/yungbote/neurobridge-backend/internal/clients/languagemodel"
	"github.com/yungbote/neurobridge-backend/internal/clients/notifier"
	"github.com/yungbote/neurobridge-backend/internal/clients/objectstore"
	"github.com/yungbote/neurobridge-backend/internal/clients/splitter"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// Clients bundles every out-of-scope provider contract the pipeline and the
// vacancy matcher consume (spec §6). Notifier is best-effort: a process with
// no NOTIFIER_BOT_TOKEN configured still runs, it just never gets paged.
type Clients struct {
	ObjectStore   objectstore.ObjectStore
	Splitter      splitter.Splitter
	ASR           asr.ASR
	Aligner       aligner.Aligner
	LanguageModel languagemodel.LanguageModel
	Notifier      notifier.Notifier
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	store, err := objectstore.New(log, cfg.Bucket)
	if err != nil {
		return Clients{}, fmt.Errorf("init object store: %w", err)
	}

	split, err := splitter.New(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init splitter client: %w", err)
	}

	asrClient, err := asr.New(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init asr client: %w", err)
	}

	lm, err := languagemodel.New(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init language model client: %w", err)
	}

	n, err := notifier.NewFromEnv(log)
	if err != nil {
		log.Warn("notifier disabled", "error", err)
		n = nil
	}

	return Clients{
		ObjectStore:   store,
		Splitter:      split,
		ASR:           asrClient,
		Aligner:       aligner.New(),
		LanguageModel: lm,
		Notifier:      n,
	}, nil
}
