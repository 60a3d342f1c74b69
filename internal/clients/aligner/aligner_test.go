package aligner

import (
	"context"
	"strings"
	"testing"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
)

func word(text string, startMs, endMs int) domain.Word {
	return domain.Word{Text: text, StartMs: startMs, EndMs: endMs, Confidence: 0.99}
}

func TestGetSubtitlesRejectsUnsupportedFormat(t *testing.T) {
	a := New()
	_, err := a.GetSubtitles(context.Background(), []domain.Word{word("hi", 0, 100)}, Format("srt"), 80)
	if err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}

func TestGetSubtitlesProducesWellFormedVTT(t *testing.T) {
	a := New()
	words := []domain.Word{
		word("hello", 0, 500),
		word("world", 600, 1100),
	}
	doc, err := a.GetSubtitles(context.Background(), words, FormatVTT, 80)
	if err != nil {
		t.Fatalf("GetSubtitles: %v", err)
	}
	if !strings.HasPrefix(doc, "WEBVTT\n\n") {
		t.Fatalf("expected a WEBVTT header, got %q", doc)
	}
	if !strings.Contains(doc, "hello world") {
		t.Fatalf("expected both words packed into one cue, got %q", doc)
	}
	if !strings.Contains(doc, "00:00:00.000 --> 00:00:01.100") {
		t.Fatalf("expected the cue window to span both words, got %q", doc)
	}
}

func TestChunkIntoCaptionsSplitsWhenCharLimitExceeded(t *testing.T) {
	words := []domain.Word{
		word("aaaaa", 0, 100),
		word("bbbbb", 100, 200),
		word("ccccc", 200, 300),
	}
	cues := chunkIntoCaptions(words, 11)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues from a tight char budget, got %d: %+v", len(cues), cues)
	}
	if cues[0].text != "aaaaa bbbbb" {
		t.Fatalf("expected first cue to pack two words, got %q", cues[0].text)
	}
	if cues[1].text != "ccccc" {
		t.Fatalf("expected second cue to hold the overflow word, got %q", cues[1].text)
	}
	if cues[0].startMs != 0 || cues[0].endMs != 200 {
		t.Fatalf("expected first cue window [0,200], got [%d,%d]", cues[0].startMs, cues[0].endMs)
	}
}

func TestChunkIntoCaptionsEmptyInputYieldsNoCues(t *testing.T) {
	cues := chunkIntoCaptions(nil, 80)
	if len(cues) != 0 {
		t.Fatalf("expected no cues for empty input, got %+v", cues)
	}
}

func TestFormatVTTTimeHoursMinutesSecondsMillis(t *testing.T) {
	cases := []struct {
		ms   int
		want string
	}{
		{0, "00:00:00.000"},
		{1500, "00:00:01.500"},
		{61000, "00:01:01.000"},
		{3661001, "01:01:01.001"},
		{-5, "00:00:00.000"},
	}
	for _, c := range cases {
		got := formatVTTTime(c.ms)
		if got != c.want {
			t.Errorf("formatVTTTime(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}
