package transcript

import (
	"context"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_transcript/internal/transcript/innertube"
)

// StandaloneSource extracts transcripts locally through the Innertube client,
// no backend service involved. It adapts the extractor's failures onto the
// shared source error kinds.
type StandaloneSource struct {
	client *innertube.Client
}

func NewStandaloneSource(client *innertube.Client) *StandaloneSource {
	return &StandaloneSource{client: client}
}

func (s *StandaloneSource) Fetch(ctx context.Context, ref VideoRef, language string) (*Transcript, error) {
	metrics.SourceFetches.Add(1)

	// Requested language first, English as fallback.
	langs := []string{language}
	if language != "en" {
		langs = append(langs, "en")
	}

	segs, method, err := s.client.Fetch(ctx, string(ref), langs)
	if err != nil {
		metrics.SourceErrors.Add(1)
		return nil, mapExtractError(err, ref, language)
	}

	out := make([]TimedSegment, len(segs))
	for i, seg := range segs {
		out[i] = TimedSegment{Text: seg.Text, Start: seg.Start, Duration: seg.Duration}
	}
	return &Transcript{
		VideoID:  string(ref),
		Language: language,
		Segments: out,
		Text:     JoinSegments(out),
		Method:   method,
	}, nil
}

func mapExtractError(err error, ref VideoRef, language string) error {
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, innertube.ErrNoTranscript):
		return fmt.Errorf("%w: %s", ErrNotFound, ref)
	case errors.Is(err, innertube.ErrLanguageNotFound):
		return fmt.Errorf("%w: %s for %s: %v", ErrLanguageUnavailable, language, ref, err)
	default:
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
}
