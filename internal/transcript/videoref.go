package transcript

import (
	"fmt"
	"regexp"
)

// VideoRef is a normalized video identifier: the canonical 11-character ID,
// whatever URL form it arrived in. Two inputs denoting the same video always
// normalize to the same VideoRef.
type VideoRef string

func (r VideoRef) String() string { return string(r) }

// URL form patterns, in match priority order. Each captures the 11-char ID.
var videoRefPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/v/|youtu\.be/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:embed/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:shorts/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:live/)([a-zA-Z0-9_-]{11})`),
}

var rawVideoIDRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ParseVideoRef normalizes a raw video ID or any accepted YouTube URL form.
// Pure and total except for ErrInvalidReference on unrecognized input.
func ParseVideoRef(raw string) (VideoRef, error) {
	for _, re := range videoRefPatterns {
		if m := re.FindStringSubmatch(raw); len(m) == 2 {
			return VideoRef(m[1]), nil
		}
	}
	if rawVideoIDRe.MatchString(raw) {
		return VideoRef(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidReference, raw)
}
