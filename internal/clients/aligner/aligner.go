// Package aligner turns a completed ASR job's words into WebVTT cues. The
// glossary allows the Aligner to be "the same provider as ASR"; since the ASR
// provider here already returns word-level timing in one response, caption
// chunking is local formatting rather than a second remote round trip. It is
// still expressed behind the Aligner interface so a future provider-backed
// implementation (a real captioning API) can be swapped in without touching
// callers.
package aligner

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
)

type Format string

const FormatVTT Format = "vtt"

// Aligner produces a VTT document from a transcript's words.
type Aligner interface {
	GetSubtitles(ctx context.Context, words []domain.Word, format Format, charsPerCaption int) (vttText string, err error)
}

type localAligner struct{}

func New() Aligner {
	return &localAligner{}
}

func (a *localAligner) GetSubtitles(_ context.Context, words []domain.Word, format Format, charsPerCaption int) (string, error) {
	if format != FormatVTT {
		return "", fmt.Errorf("aligner: unsupported format %q", format)
	}
	if charsPerCaption <= 0 {
		charsPerCaption = 80
	}

	cues := chunkIntoCaptions(words, charsPerCaption)

	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, c := range cues {
		b.WriteString(formatVTTTime(c.startMs))
		b.WriteString(" --> ")
		b.WriteString(formatVTTTime(c.endMs))
		b.WriteString("\n")
		b.WriteString(c.text)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

type caption struct {
	text    string
	startMs int
	endMs   int
}

// chunkIntoCaptions greedily packs consecutive words into a cue until adding
// the next word would exceed charsPerCaption, mirroring a simple
// reading-speed-bounded captioning heuristic.
func chunkIntoCaptions(words []domain.Word, charsPerCaption int) []caption {
	var cues []caption
	var cur []domain.Word
	curLen := 0

	flush := func() {
		if len(cur) == 0 {
			return
		}
		texts := make([]string, len(cur))
		for i, w := range cur {
			texts[i] = w.Text
		}
		cues = append(cues, caption{
			text:    strings.Join(texts, " "),
			startMs: cur[0].StartMs,
			endMs:   cur[len(cur)-1].EndMs,
		})
		cur = nil
		curLen = 0
	}

	for _, w := range words {
		addLen := len(w.Text)
		if curLen > 0 {
			addLen++ // separating space
		}
		if curLen+addLen > charsPerCaption && len(cur) > 0 {
			flush()
		}
		cur = append(cur, w)
		curLen += addLen
	}
	flush()
	return cues
}

func formatVTTTime(ms int) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3600000
	ms -= hours * 3600000
	minutes := ms / 60000
	ms -= minutes * 60000
	seconds := ms / 1000
	ms -= seconds * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, ms)
}
