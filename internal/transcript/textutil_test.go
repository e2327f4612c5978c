package transcript

import "testing"

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{5.9, "0:05"},
		{65, "1:05"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
		{7325, "2:02:05"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestTruncatePreview(t *testing.T) {
	if got := TruncatePreview("short", 10); got != "short" {
		t.Errorf("under limit: got %q, want unchanged", got)
	}
	got := TruncatePreview("привет мир и все остальные", 10)
	if len([]rune(got)) > 13 { // 10 runes + ellipsis
		t.Errorf("truncated preview too long: %q", got)
	}
}
