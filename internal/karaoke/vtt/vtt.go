// Package vtt parses WebVTT subtitle documents into domain.Subtitle cues,
// grounded on the SubtitleItem.from_vtt_block / _parse_vtt_time algorithm.
package vtt

import (
	"fmt"
	"strconv"
	"strings"

	domain "github.com/yungbote/neurobridge-backend/internal/domain/karaoke"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// Parse splits a WebVTT document into cue blocks separated by blank lines and
// parses each into a Subtitle. The leading "WEBVTT" header line, if present,
// is dropped before splitting. A block whose timestamp line fails to parse is
// skipped (with a warning if log is non-nil) rather than aborting the whole
// document; only a payload with zero parseable blocks yields an empty slice.
func Parse(doc string, log *logger.Logger) ([]domain.Subtitle, error) {
	doc = strings.TrimPrefix(strings.TrimSpace(doc), "WEBVTT")
	blocks := strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n\n")

	var out []domain.Subtitle
	for _, block := range blocks {
		sub, ok, err := parseBlock(block)
		if err != nil {
			if log != nil {
				log.Warn("vtt: skipping malformed block", "error", err)
			}
			continue
		}
		if ok {
			out = append(out, sub)
		}
	}
	return out, nil
}

func parseBlock(block string) (domain.Subtitle, bool, error) {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	if len(lines) < 2 {
		return domain.Subtitle{}, false, nil
	}

	timeLine := lines[0]
	// a cue identifier line may precede the timestamp line
	if !strings.Contains(timeLine, " --> ") && len(lines) >= 3 {
		timeLine = lines[1]
		lines = lines[1:]
	}
	if !strings.Contains(timeLine, " --> ") {
		return domain.Subtitle{}, false, nil
	}

	parts := strings.SplitN(timeLine, " --> ", 2)
	if len(parts) != 2 {
		return domain.Subtitle{}, false, nil
	}

	startMs, err := parseVTTTime(strings.TrimSpace(parts[0]))
	if err != nil {
		return domain.Subtitle{}, false, err
	}
	endStr := strings.Fields(parts[1])
	if len(endStr) == 0 {
		return domain.Subtitle{}, false, fmt.Errorf("vtt: missing end timestamp in %q", timeLine)
	}
	endMs, err := parseVTTTime(endStr[0])
	if err != nil {
		return domain.Subtitle{}, false, err
	}

	text := strings.TrimSpace(strings.Join(lines[1:], "\n"))

	return domain.Subtitle{Text: text, StartMs: startMs, EndMs: endMs}, true, nil
}

// parseVTTTime parses HH:MM:SS.mmm or MM:SS.mmm into milliseconds.
func parseVTTTime(s string) (int, error) {
	s = strings.TrimSpace(s)

	var timePart string
	ms := 0
	if idx := strings.LastIndex(s, "."); idx >= 0 {
		timePart = s[:idx]
		msPart := s[idx+1:]
		if len(msPart) < 3 {
			msPart = msPart + strings.Repeat("0", 3-len(msPart))
		}
		msPart = msPart[:3]
		v, err := strconv.Atoi(msPart)
		if err != nil {
			return 0, fmt.Errorf("vtt: invalid milliseconds in %q: %w", s, err)
		}
		ms = v
	} else {
		timePart = s
	}

	components := strings.Split(timePart, ":")
	var hours, minutes, seconds int
	var err error
	switch len(components) {
	case 3:
		if hours, err = strconv.Atoi(components[0]); err != nil {
			return 0, fmt.Errorf("vtt: invalid hours in %q: %w", s, err)
		}
		if minutes, err = strconv.Atoi(components[1]); err != nil {
			return 0, fmt.Errorf("vtt: invalid minutes in %q: %w", s, err)
		}
		if seconds, err = strconv.Atoi(components[2]); err != nil {
			return 0, fmt.Errorf("vtt: invalid seconds in %q: %w", s, err)
		}
	case 2:
		hours = 0
		if minutes, err = strconv.Atoi(components[0]); err != nil {
			return 0, fmt.Errorf("vtt: invalid minutes in %q: %w", s, err)
		}
		if seconds, err = strconv.Atoi(components[1]); err != nil {
			return 0, fmt.Errorf("vtt: invalid seconds in %q: %w", s, err)
		}
	default:
		return 0, fmt.Errorf("vtt: invalid time format %q", s)
	}

	total := hours*3600000 + minutes*60000 + seconds*1000 + ms
	return total, nil
}
