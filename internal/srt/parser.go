// Package srt parses SubRip subtitle documents into timed cues.
package srt

import (
	"regexp"
	"strconv"
	"strings"
)

// Cue is one subtitle block's time range and text. Cues are transient:
// ingestion turns them into sentences and never stores them directly.
type Cue struct {
	StartMS int
	EndMS   int
	Text    string
}

var (
	indexLineRe = regexp.MustCompile(`^\d+$`)
	timestampRe = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2}),(\d{3})$`)
)

// Parse extracts cues from SRT text. Block grammar: optional blank lines,
// optional pure-numeric index line, a mandatory "start --> end" timestamp
// line, then text lines until a blank line. Multi-line text is joined with
// a single space.
//
// Malformed blocks are skipped entirely; parsing resumes at the next
// blank-line boundary. Cues whose text is empty after joining are dropped.
func Parse(text string) []Cue {
	lines := strings.Split(normalizeNewlines(text), "\n")

	var cues []Cue
	i, n := 0, len(lines)
	for i < n {
		// Skip leading blanks.
		for i < n && strings.TrimSpace(lines[i]) == "" {
			i++
		}
		if i >= n {
			break
		}

		// Optional index line.
		if indexLineRe.MatchString(strings.TrimSpace(lines[i])) {
			i++
			if i >= n {
				break
			}
		}

		// Timestamp line.
		if !strings.Contains(lines[i], "-->") {
			i = skipBlock(lines, i)
			continue
		}
		tsLine := strings.TrimSpace(lines[i])
		i++

		startMS, endMS, ok := parseTimestampLine(tsLine)
		if !ok {
			i = skipBlock(lines, i)
			continue
		}

		// Text lines until blank.
		var textLines []string
		for i < n && strings.TrimSpace(lines[i]) != "" {
			textLines = append(textLines, strings.TrimSpace(lines[i]))
			i++
		}

		cueText := strings.TrimSpace(strings.Join(textLines, " "))
		if cueText != "" {
			cues = append(cues, Cue{StartMS: startMS, EndMS: endMS, Text: cueText})
		}
	}

	return cues
}

// parseTimestampLine parses "HH:MM:SS,mmm --> HH:MM:SS,mmm".
func parseTimestampLine(line string) (startMS, endMS int, ok bool) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	startMS, ok = parseTimestamp(strings.TrimSpace(parts[0]))
	if !ok {
		return 0, 0, false
	}
	endMS, ok = parseTimestamp(strings.TrimSpace(parts[1]))
	if !ok {
		return 0, 0, false
	}
	return startMS, endMS, true
}

// parseTimestamp converts an SRT timestamp (HH:MM:SS,mmm) to milliseconds.
func parseTimestamp(ts string) (int, bool) {
	m := timestampRe.FindStringSubmatch(ts)
	if m == nil {
		return 0, false
	}

	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	ss, _ := strconv.Atoi(m[3])
	ms, _ := strconv.Atoi(m[4])

	return ((hh*60+mm)*60+ss)*1000 + ms, true
}

// skipBlock advances past the remainder of a malformed block, up to and
// not including the next blank line.
func skipBlock(lines []string, i int) int {
	for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
		i++
	}
	return i
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
