package transcript

import (
	"context"
	"fmt"
	"strings"
)

// Service orchestrates the cache→limiter→source pipeline for a single video
// and derives the read-only views from the cached segment sequence. The
// transformations are pure; only parameter validation and the underlying
// fetch can fail.
type Service struct {
	cache   *Cache
	limiter *Limiter
	source  Source
}

// NewService wires the single cache, limiter, and source instances built at
// startup. The same instances are shared by every request.
func NewService(cache *Cache, limiter *Limiter, source Source) *Service {
	return &Service{cache: cache, limiter: limiter, source: source}
}

// fetch runs the shared pipeline. Cache hits return without touching the
// limiter; on a miss the limiter gates the source call, and the admit
// decision happens inside the per-key singleflight so concurrent callers for
// one key spend at most one admission.
func (s *Service) fetch(ctx context.Context, ref VideoRef, language string) (*Transcript, error) {
	key := CacheKey{Ref: ref, Language: language}
	return s.cache.GetOrFetch(ctx, key, func(ctx context.Context) (*Transcript, error) {
		if ok, retryAfter := s.limiter.TryAdmit(); !ok {
			metrics.RateLimited.Add(1)
			return nil, &RateLimitedError{Limit: s.limiter.Limit(), RetryAfter: retryAfter}
		}
		return s.source.Fetch(ctx, ref, language)
	})
}

// TranscriptView is a transcript rendered per the requested format: Text for
// "text", Segments for "segments", both for "both".
type TranscriptView struct {
	VideoID  string         `json:"video_id"`
	Language string         `json:"language"`
	Method   string         `json:"method"`
	Text     string         `json:"text,omitempty"`
	Segments []TimedSegment `json:"segments,omitempty"`
}

// GetTranscript fetches the transcript for ref and renders it per format.
func (s *Service) GetTranscript(ctx context.Context, ref VideoRef, language, format string) (*TranscriptView, error) {
	switch format {
	case FormatText, FormatSegments, FormatBoth:
	default:
		return nil, fmt.Errorf("%w: format %q (want text, segments, or both)", ErrInvalidParameter, format)
	}

	tr, err := s.fetch(ctx, ref, language)
	if err != nil {
		return nil, err
	}

	view := &TranscriptView{VideoID: tr.VideoID, Language: tr.Language, Method: tr.Method}
	if format == FormatText || format == FormatBoth {
		view.Text = tr.Text
	}
	if format == FormatSegments || format == FormatBoth {
		view.Segments = tr.Segments
	}
	return view, nil
}

// Search finds case-insensitive substring matches of query in the transcript,
// returning each matching segment with contextSegments neighbors on both
// sides, clamped at sequence boundaries. Zero matches is an empty slice, not
// an error.
func (s *Service) Search(ctx context.Context, ref VideoRef, language, query string, contextSegments int) ([]SearchMatch, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query cannot be empty", ErrInvalidParameter)
	}
	if contextSegments < 0 {
		return nil, fmt.Errorf("%w: context_segments must be >= 0", ErrInvalidParameter)
	}

	tr, err := s.fetch(ctx, ref, language)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := []SearchMatch{}
	for i, seg := range tr.Segments {
		if !strings.Contains(strings.ToLower(seg.Text), needle) {
			continue
		}
		first := i - contextSegments
		if first < 0 {
			first = 0
		}
		last := i + contextSegments + 1
		if last > len(tr.Segments) {
			last = len(tr.Segments)
		}
		matches = append(matches, SearchMatch{
			Index:   i,
			Segment: seg,
			Context: tr.Segments[first:last],
			First:   first,
		})
	}
	return matches, nil
}

// Summary partitions the transcript into contiguous chunks of chunkMinutes of
// video time, measured from the first segment's start. A segment belongs to
// the chunk whose range contains its start; duration never moves a segment
// across a boundary. Empty chunks are omitted, so the final chunk may span
// less than chunkMinutes.
func (s *Service) Summary(ctx context.Context, ref VideoRef, language string, chunkMinutes int) ([]SummaryChunk, error) {
	if chunkMinutes <= 0 {
		return nil, fmt.Errorf("%w: chunk_minutes must be positive", ErrInvalidParameter)
	}

	tr, err := s.fetch(ctx, ref, language)
	if err != nil {
		return nil, err
	}
	if len(tr.Segments) == 0 {
		return []SummaryChunk{}, nil
	}

	chunkSeconds := float64(chunkMinutes) * 60
	base := tr.Segments[0].Start

	var chunks []SummaryChunk
	idx := -1
	for _, seg := range tr.Segments {
		ci := int((seg.Start - base) / chunkSeconds)
		if ci != idx || len(chunks) == 0 {
			idx = ci
			chunks = append(chunks, SummaryChunk{
				ChunkStart: base + float64(ci)*chunkSeconds,
				ChunkEnd:   base + float64(ci+1)*chunkSeconds,
			})
		}
		last := &chunks[len(chunks)-1]
		last.Segments = append(last.Segments, seg)
	}
	for i := range chunks {
		chunks[i].Text = JoinSegments(chunks[i].Segments)
	}
	return chunks, nil
}
