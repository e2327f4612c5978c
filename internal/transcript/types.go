package transcript

import "strings"

// TimedSegment is one timestamped span of transcript text. Start and Duration
// are seconds. Sequences are sorted by Start ascending and immutable once
// produced by a source.
type TimedSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript is one transcript in one language, as returned by a Source.
type Transcript struct {
	VideoID  string         `json:"video_id"`
	Language string         `json:"language"`
	Segments []TimedSegment `json:"segments"`
	Text     string         `json:"text"`
	Method   string         `json:"method"` // extraction path: backend, page_scrape, player, engagement_panel
}

// JoinSegments concatenates segment text with single spaces, the plain-text
// rendering of a transcript.
func JoinSegments(segs []TimedSegment) string {
	var sb strings.Builder
	for _, s := range segs {
		if s.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Output format selectors for GetTranscript.
const (
	FormatText     = "text"
	FormatSegments = "segments"
	FormatBoth     = "both"
)

// SearchMatch is one keyword hit: the matching segment plus its surrounding
// context, clamped at sequence boundaries.
type SearchMatch struct {
	Index   int            `json:"index"`   // index of the matching segment in the full sequence
	Segment TimedSegment   `json:"segment"` // the matching segment itself
	Context []TimedSegment `json:"context"` // window including the match, in order
	First   int            `json:"first"`   // index of Context[0] in the full sequence
}

// SummaryChunk is one contiguous time chunk of a transcript. ChunkStart and
// ChunkEnd are the chunk's nominal boundaries in seconds; membership is decided
// by segment Start only, never Duration.
type SummaryChunk struct {
	ChunkStart float64        `json:"chunk_start"`
	ChunkEnd   float64        `json:"chunk_end"`
	Segments   []TimedSegment `json:"segments"`
	Text       string         `json:"text"`
}

// BatchResult is the per-video outcome of a batch call. Exactly one of
// Transcript or Err is set; one item's failure never affects its siblings.
type BatchResult struct {
	Ref        VideoRef
	Raw        string // input string as given, for invalid-reference reporting
	Transcript *Transcript
	Err        error
}
