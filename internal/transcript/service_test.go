package transcript

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource scripts transcript responses per video and counts fetches.
type fakeSource struct {
	calls       atomic.Int64
	transcripts map[VideoRef]*Transcript
	errs        map[VideoRef]error
}

func (f *fakeSource) Fetch(_ context.Context, ref VideoRef, language string) (*Transcript, error) {
	f.calls.Add(1)
	if err, ok := f.errs[ref]; ok {
		return nil, err
	}
	if tr, ok := f.transcripts[ref]; ok {
		return tr, nil
	}
	return nil, ErrNotFound
}

func newTestService(t *testing.T, src Source, ratePerMinute int) *Service {
	t.Helper()
	cache, err := NewCache(100, time.Hour, 0, "")
	require.NoError(t, err)
	return NewService(cache, NewLimiter(ratePerMinute, time.Minute), src)
}

func segs(texts ...string) []TimedSegment {
	out := make([]TimedSegment, len(texts))
	for i, txt := range texts {
		out[i] = TimedSegment{Text: txt, Start: float64(i) * 10, Duration: 10}
	}
	return out
}

func sampleTranscript(ref VideoRef, segments []TimedSegment) *Transcript {
	return &Transcript{
		VideoID:  string(ref),
		Language: "en",
		Segments: segments,
		Text:     JoinSegments(segments),
		Method:   "page_scrape",
	}
}

func TestGetTranscriptFormats(t *testing.T) {
	ref := VideoRef("aaaaaaaaaaa")
	src := &fakeSource{transcripts: map[VideoRef]*Transcript{
		ref: sampleTranscript(ref, segs("hello", "world")),
	}}
	svc := newTestService(t, src, 100)
	ctx := context.Background()

	t.Run("text", func(t *testing.T) {
		view, err := svc.GetTranscript(ctx, ref, "en", FormatText)
		require.NoError(t, err)
		assert.Equal(t, "hello world", view.Text)
		assert.Nil(t, view.Segments)
	})

	t.Run("segments", func(t *testing.T) {
		view, err := svc.GetTranscript(ctx, ref, "en", FormatSegments)
		require.NoError(t, err)
		assert.Empty(t, view.Text)
		assert.Len(t, view.Segments, 2)
	})

	t.Run("both", func(t *testing.T) {
		view, err := svc.GetTranscript(ctx, ref, "en", FormatBoth)
		require.NoError(t, err)
		assert.Equal(t, "hello world", view.Text)
		assert.Len(t, view.Segments, 2)
	})

	t.Run("invalid format rejected before fetch", func(t *testing.T) {
		before := src.calls.Load()
		_, err := svc.GetTranscript(ctx, ref, "en", "xml")
		assert.ErrorIs(t, err, ErrInvalidParameter)
		assert.Equal(t, before, src.calls.Load())
	})
}

func TestSearch(t *testing.T) {
	ref := VideoRef("bbbbbbbbbbb")
	src := &fakeSource{transcripts: map[VideoRef]*Transcript{
		ref: sampleTranscript(ref, segs("intro music", "Welcome Everyone", "today we cover Go", "thanks for watching")),
	}}
	svc := newTestService(t, src, 100)
	ctx := context.Background()

	t.Run("case insensitive match with context", func(t *testing.T) {
		matches, err := svc.Search(ctx, ref, "en", "welcome", 1)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		m := matches[0]
		assert.Equal(t, 1, m.Index)
		assert.Equal(t, "Welcome Everyone", m.Segment.Text)
		assert.Equal(t, 0, m.First)
		require.Len(t, m.Context, 3)
		assert.Equal(t, "intro music", m.Context[0].Text)
		assert.Equal(t, "today we cover Go", m.Context[2].Text)
	})

	t.Run("zero context is just the segment", func(t *testing.T) {
		matches, err := svc.Search(ctx, ref, "en", "welcome", 0)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		require.Len(t, matches[0].Context, 1)
		assert.Equal(t, matches[0].Segment, matches[0].Context[0])
	})

	t.Run("context clamps at boundaries", func(t *testing.T) {
		matches, err := svc.Search(ctx, ref, "en", "intro", 2)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, 0, matches[0].First)
		assert.Len(t, matches[0].Context, 3) // 0..2, nothing before index 0
	})

	t.Run("no matches is empty result, not error", func(t *testing.T) {
		matches, err := svc.Search(ctx, ref, "en", "quantum", 1)
		require.NoError(t, err)
		assert.NotNil(t, matches)
		assert.Empty(t, matches)
	})

	t.Run("empty query rejected", func(t *testing.T) {
		_, err := svc.Search(ctx, ref, "en", "   ", 1)
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("negative context rejected", func(t *testing.T) {
		_, err := svc.Search(ctx, ref, "en", "welcome", -1)
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})
}

func TestSummary(t *testing.T) {
	ref := VideoRef("ccccccccccc")
	// 12 minutes of speech, one segment per minute.
	segments := make([]TimedSegment, 12)
	for i := range segments {
		segments[i] = TimedSegment{Text: "minute", Start: float64(i) * 60, Duration: 5}
	}
	src := &fakeSource{transcripts: map[VideoRef]*Transcript{
		ref: sampleTranscript(ref, segments),
	}}
	svc := newTestService(t, src, 100)
	ctx := context.Background()

	t.Run("five minute chunks", func(t *testing.T) {
		chunks, err := svc.Summary(ctx, ref, "en", 5)
		require.NoError(t, err)
		require.Len(t, chunks, 3)
		assert.Equal(t, 0.0, chunks[0].ChunkStart)
		assert.Equal(t, 300.0, chunks[0].ChunkEnd)
		assert.Len(t, chunks[0].Segments, 5)
		assert.Len(t, chunks[1].Segments, 5)
		assert.Len(t, chunks[2].Segments, 2)
		assert.Equal(t, 600.0, chunks[2].ChunkStart)
	})

	t.Run("empty chunks omitted", func(t *testing.T) {
		ref2 := VideoRef("ddddddddddd")
		gappy := []TimedSegment{
			{Text: "start", Start: 0, Duration: 5},
			{Text: "after long silence", Start: 700, Duration: 5},
		}
		src.transcripts[ref2] = sampleTranscript(ref2, gappy)
		chunks, err := svc.Summary(ctx, ref2, "en", 5)
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, 0.0, chunks[0].ChunkStart)
		assert.Equal(t, 600.0, chunks[1].ChunkStart)
	})

	t.Run("non-positive chunk rejected", func(t *testing.T) {
		_, err := svc.Summary(ctx, ref, "en", 0)
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})
}

func TestServiceRateLimited(t *testing.T) {
	refA := VideoRef("aaaaaaaaaaa")
	refB := VideoRef("bbbbbbbbbbb")
	src := &fakeSource{transcripts: map[VideoRef]*Transcript{
		refA: sampleTranscript(refA, segs("a")),
		refB: sampleTranscript(refB, segs("b")),
	}}
	svc := newTestService(t, src, 1)
	ctx := context.Background()

	_, err := svc.GetTranscript(ctx, refA, "en", FormatText)
	require.NoError(t, err)

	_, err = svc.GetTranscript(ctx, refB, "en", FormatText)
	require.ErrorIs(t, err, ErrRateLimited)
	assert.Positive(t, RetryAfter(err))
}

func TestServiceCacheHitSkipsLimiterAndSource(t *testing.T) {
	ref := VideoRef("eeeeeeeeeee")
	src := &fakeSource{transcripts: map[VideoRef]*Transcript{
		ref: sampleTranscript(ref, segs("cached")),
	}}
	svc := newTestService(t, src, 1) // budget for exactly one fetch
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.GetTranscript(ctx, ref, "en", FormatText)
		require.NoError(t, err, "request %d", i+1)
	}
	assert.Equal(t, int64(1), src.calls.Load())
}
