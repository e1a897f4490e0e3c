package dump

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const secondsLayout = "2006-01-02T15:04:05"

// formatDate renders t as YYYY-MM-DDThh:mm:ss.ffffffffffffffZ, 14 fractional
// digits, UTC. time.Time only carries nanosecond (9-digit) resolution, so
// the trailing 5 digits are always zero; they're written anyway to match
// the reference field width.
func formatDate(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s.%09d00000Z", t.Format(secondsLayout), t.Nanosecond())
}

// parseDate is the inverse of formatDate. It tolerates any number of
// fractional digits, to stay lenient with hand-edited dump files.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	// Reference format carries more fractional digits than RFC3339Nano
	// accepts cleanly; truncate to nanosecond precision and retry.
	dot := strings.IndexByte(s, '.')
	if dot < 0 || !strings.HasSuffix(s, "Z") {
		return time.Time{}, fmt.Errorf("parse date %q: not in expected format", s)
	}
	frac := s[dot+1 : len(s)-1]
	if len(frac) > 9 {
		frac = frac[:9]
	}
	truncated := fmt.Sprintf("%s.%sZ", s[:dot], frac)
	t, err := time.Parse(time.RFC3339Nano, truncated)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t.UTC(), nil
}

// formatFloat renders f the way the reference dump format does: scientific
// notation, field width 22, 15 digits after the decimal point.
func formatFloat(f float64) string {
	return fmt.Sprintf("%22.15e", f)
}

// parseFloat is the inverse of formatFloat; strconv.ParseFloat accepts the
// %e-style text directly once whitespace padding is trimmed.
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func parseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}
