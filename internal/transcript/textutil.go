package transcript

import (
	"fmt"

	"github.com/anatolykoptev/go-kit/strutil"
)

// FormatTimestamp renders seconds as H:MM:SS, or M:SS under an hour.
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// TruncatePreview caps s at limit runes, appending "..." if truncated.
// Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncatePreview(s string, limit int) string {
	return strutil.TruncateWith(s, limit, "...")
}
