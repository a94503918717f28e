package series

import (
	"regexp"
	"strconv"
	"strings"
)

// Episode marker: "<name> S01E05 - ...". Case-insensitive S/E markers,
// zero padding tolerated, separators around the marker optional.
var episodePattern = regexp.MustCompile(`(?i)^(.*?)[\s._-]*\bS(\d{1,4})\s*E(\d{1,4})\b`)

// Separator runs collapsed when normalizing series keys.
var separatorRun = regexp.MustCompile(`[\s._-]+`)

// ParsedTitle is the result of successfully parsing an episode title.
type ParsedTitle struct {
	Series  string // Series name as written, trimmed
	Season  int
	Episode int
}

// SeriesKey returns the normalized grouping key for the parsed series
// name: lowercase with separator runs collapsed to single spaces.
func (p ParsedTitle) SeriesKey() string {
	return NormalizeKey(p.Series)
}

// ParseTitle extracts series/season/episode structure from a title.
// The second return is false for titles without a recognizable episode
// marker; such items cannot be organized without playlist data.
func ParseTitle(title string) (ParsedTitle, bool) {
	m := episodePattern.FindStringSubmatch(title)
	if m == nil {
		return ParsedTitle{}, false
	}

	name := strings.TrimSpace(separatorRun.ReplaceAllString(m[1], " "))
	if name == "" {
		return ParsedTitle{}, false
	}

	season, err := strconv.Atoi(m[2])
	if err != nil {
		return ParsedTitle{}, false
	}
	episode, err := strconv.Atoi(m[3])
	if err != nil {
		return ParsedTitle{}, false
	}

	return ParsedTitle{Series: name, Season: season, Episode: episode}, true
}

// NormalizeKey lowercases a series name and collapses separator runs so
// "The_Show", "the show" and "The  Show" merge to one key.
func NormalizeKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSpace(separatorRun.ReplaceAllString(key, " "))
}
