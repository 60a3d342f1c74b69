// Package fuse implements the Fuse operation: it stitches ASR words and
// parsed subtitle cues into the karaoke lines a Track stores, grounded on the
// word-end-time membership algorithm the transcript step originally used.
package fuse

import (
	"fmt"
	"sort"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
)

// CoverageStats summarizes how much of the word list made it into a line,
// mirroring the original diagnostic pass so low-coverage fusions are visible
// in a StepLog entry instead of silently producing a thin transcript.
type CoverageStats struct {
	TotalWords         int                      `json:"total_words"`
	MatchedWords       int                      `json:"matched_words"`
	CoveragePercentage float64                  `json:"coverage_percentage"`
	UnmatchedWords     int                      `json:"unmatched_words"`
	UnmatchedExamples  []map[string]interface{} `json:"unmatched_examples,omitempty"`
}

// TimingIssue is one entry in Validate's issue list.
type TimingIssue struct {
	Type          string `json:"type"`
	LineIndex     int    `json:"line_index,omitempty"`
	LineText      string `json:"line_text,omitempty"`
	WordText      string `json:"word_text,omitempty"`
	WordStartMs   int    `json:"word_start_ms,omitempty"`
	WordEndMs     int    `json:"word_end_ms,omitempty"`
	SubtitleStart int    `json:"subtitle_start_ms,omitempty"`
	SubtitleEnd   int    `json:"subtitle_end_ms,omitempty"`
}

func wordID(w domain.Word, index int) string {
	speaker := "unknown"
	if w.Speaker != nil {
		speaker = *w.Speaker
	}
	return fmt.Sprintf("%s_%d_%d_%s_%d", w.Text, w.StartMs, w.EndMs, speaker, index)
}

// Fuse assigns each word to the first subtitle cue whose [start,end] window
// contains the word's end time, clamping the word's start time to the cue's
// start if it began earlier, then reports coverage across all input words.
func Fuse(words []domain.Word, subtitles []domain.Subtitle) ([]domain.TranscriptLine, CoverageStats) {
	if len(words) == 0 || len(subtitles) == 0 {
		return nil, CoverageStats{CoveragePercentage: 100.0}
	}

	sortedWords := make([]domain.Word, len(words))
	copy(sortedWords, words)
	sort.SliceStable(sortedWords, func(i, j int) bool { return sortedWords[i].StartMs < sortedWords[j].StartMs })

	sortedSubs := make([]domain.Subtitle, len(subtitles))
	copy(sortedSubs, subtitles)
	sort.SliceStable(sortedSubs, func(i, j int) bool { return sortedSubs[i].StartMs < sortedSubs[j].StartMs })

	used := make(map[string]bool, len(sortedWords))
	lines := make([]domain.TranscriptLine, 0, len(sortedSubs))

	for _, sub := range sortedSubs {
		var lineWords []domain.Word
		for i, w := range sortedWords {
			id := wordID(w, i)
			if used[id] {
				continue
			}
			if w.EndMs >= sub.StartMs && w.EndMs <= sub.EndMs {
				adjusted := w
				if adjusted.StartMs < sub.StartMs {
					adjusted.StartMs = sub.StartMs
				}
				lineWords = append(lineWords, adjusted)
				used[id] = true
			}
		}
		lines = append(lines, domain.TranscriptLine{
			Text:    sub.Text,
			StartMs: sub.StartMs,
			EndMs:   sub.EndMs,
			Words:   lineWords,
		})
	}

	return lines, calculateCoverage(sortedWords, used)
}

func calculateCoverage(allWords []domain.Word, used map[string]bool) CoverageStats {
	total := len(allWords)
	matched := len(used)
	if total == 0 {
		return CoverageStats{CoveragePercentage: 100.0}
	}

	var unmatched []map[string]interface{}
	for i, w := range allWords {
		if used[wordID(w, i)] {
			continue
		}
		if len(unmatched) < 5 {
			unmatched = append(unmatched, map[string]interface{}{
				"text":     w.Text,
				"start_ms": w.StartMs,
				"end_ms":   w.EndMs,
				"speaker":  w.Speaker,
			})
		}
	}

	pct := float64(matched) / float64(total) * 100
	return CoverageStats{
		TotalWords:         total,
		MatchedWords:       matched,
		CoveragePercentage: roundTo2(pct),
		UnmatchedWords:     total - matched,
		UnmatchedExamples:  unmatched,
	}
}

func roundTo2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// Validate checks a fused transcript for lines that start before the previous
// line ends and words that spilled outside their owning line's window; gaps
// between lines are not reported. It is a diagnostic pass only,
// never a reason to fail the ASSEMBLE step.
func Validate(lines []domain.TranscriptLine) []TimingIssue {
	var issues []TimingIssue
	for i := 1; i < len(lines); i++ {
		if lines[i].StartMs < lines[i-1].EndMs {
			issues = append(issues, TimingIssue{
				Type:      "overlap",
				LineIndex: i,
				LineText:  truncate(lines[i].Text, 50),
			})
		}
	}
	for i, line := range lines {
		for _, w := range line.Words {
			if w.StartMs < line.StartMs {
				issues = append(issues, TimingIssue{
					Type:          "word_start_before_subtitle",
					LineIndex:     i,
					LineText:      truncate(line.Text, 50),
					WordText:      w.Text,
					WordStartMs:   w.StartMs,
					SubtitleStart: line.StartMs,
				})
			}
			if w.EndMs > line.EndMs {
				issues = append(issues, TimingIssue{
					Type:        "word_end_after_subtitle",
					LineIndex:   i,
					LineText:    truncate(line.Text, 50),
					WordText:    w.Text,
					WordEndMs:   w.EndMs,
					SubtitleEnd: line.EndMs,
				})
			}
		}
	}
	return issues
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
