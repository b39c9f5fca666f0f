package simulator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatLapTime formats seconds as M:SS.mmm
func FormatLapTime(seconds float64) string {
	ms := int64(math.Round(seconds * 1000))
	if ms < 0 {
		ms = 0
	}
	minutes := ms / 60000
	rem := ms % 60000
	return fmt.Sprintf("%d:%02d.%03d", minutes, rem/1000, rem%1000)
}

// ParseLapTime converts M:SS.mmm (or plain seconds) back into seconds.
func ParseLapTime(s string) (float64, error) {
	s = strings.TrimSpace(s)
	minPart, secPart, found := strings.Cut(s, ":")
	if !found {
		secPart = minPart
		minPart = "0"
	}
	minutes, err := strconv.Atoi(minPart)
	if err != nil || minutes < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	secs, err := strconv.ParseFloat(secPart, 64)
	if err != nil || secs < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return float64(minutes)*60 + secs, nil
}

// FormatGap formats the gap to the leader, "0s" for no gap, "+1.234s" otherwise.
func FormatGap(seconds float64) string {
	if seconds == 0 {
		return "0s"
	}
	return fmt.Sprintf("+%.3fs", seconds)
}

// ParseGap converts a gap created by FormatGap back into seconds.
func ParseGap(s string) (float64, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "+"), "s")
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return v, nil
}
