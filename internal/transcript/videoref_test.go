package transcript

import (
	"errors"
	"testing"
)

func TestParseVideoRef(t *testing.T) {
	const want = VideoRef("dQw4w9WgXcQ")

	// All accepted forms denoting the same video normalize identically.
	inputs := []string{
		"dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?si=abc",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"https://www.youtube.com/live/dQw4w9WgXcQ",
		"https://www.youtube.com/v/dQw4w9WgXcQ",
		"http://youtube.com/watch?v=dQw4w9WgXcQ",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, err := ParseVideoRef(in)
			if err != nil {
				t.Fatalf("ParseVideoRef(%q) error: %v", in, err)
			}
			if got != want {
				t.Errorf("ParseVideoRef(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestParseVideoRefInvalid(t *testing.T) {
	inputs := []string{
		"",
		"not a url",
		"https://example.com/watch?v=tooshort",
		"https://www.youtube.com/watch",
		"abc",                // too short for a raw ID
		"dQw4w9WgXcQextra",   // too long for a raw ID
		"dQw4w9WgXc!",        // invalid character
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := ParseVideoRef(in)
			if !errors.Is(err, ErrInvalidReference) {
				t.Errorf("ParseVideoRef(%q) error = %v, want ErrInvalidReference", in, err)
			}
		})
	}
}
