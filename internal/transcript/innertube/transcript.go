package innertube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Transcript fetching.
// Primary:  scrape watch page ytInitialPlayerResponse → caption XML (works from any IP)
// Fallback: ANDROID Innertube /player → captionTracks
// Fallback: /next → engagement panel → /get_transcript (default language only)

// Segment is one timestamped caption line. Start and Duration are seconds.
type Segment struct {
	Text     string
	Start    float64
	Duration float64
}

// Extraction method names, reported back through the transcript Method field.
const (
	MethodPageScrape      = "page_scrape"
	MethodPlayer          = "player"
	MethodEngagementPanel = "engagement_panel"
)

var (
	// ErrNoTranscript means the video is missing, unplayable, or has no
	// caption tracks at all.
	ErrNoTranscript = errors.New("no transcript available")

	// ErrLanguageNotFound means caption tracks exist, but none in any of the
	// requested languages.
	ErrLanguageNotFound = errors.New("no caption track in requested language")
)

// Fetch extracts the transcript for a YouTube video, trying each extraction
// path in turn. langs is the language preference order; a language miss on a
// track-listing path is terminal (other paths see the same track list).
func (c *Client) Fetch(ctx context.Context, videoID string, langs []string) ([]Segment, string, error) {
	segs, err := c.fetchViaPageScrape(ctx, videoID, langs)
	if err == nil {
		return segs, MethodPageScrape, nil
	}
	if errors.Is(err, ErrLanguageNotFound) {
		return nil, "", err
	}
	slog.Warn("innertube: page scrape failed, trying player",
		slog.String("id", videoID), slog.Any("err", err))

	segs, err = c.fetchViaPlayer(ctx, videoID, langs)
	if err == nil {
		return segs, MethodPlayer, nil
	}
	if errors.Is(err, ErrLanguageNotFound) || errors.Is(err, ErrNoTranscript) {
		return nil, "", err
	}
	slog.Warn("innertube: player failed, trying engagement panel",
		slog.String("id", videoID), slog.Any("err", err))

	segs, err = c.fetchViaEngagementPanel(ctx, videoID)
	if err != nil {
		return nil, "", err
	}
	return segs, MethodEngagementPanel, nil
}

// getTranscriptRE extracts the continuation token from a raw /next JSON response.
var getTranscriptRE = regexp.MustCompile(`"getTranscriptEndpoint":\{"params":"([^"]+)"`)

func extractTranscriptToken(data []byte) (string, error) {
	if m := getTranscriptRE.FindSubmatch(data); len(m) >= 2 {
		// The params value in the /next JSON response is URL-encoded.
		// /get_transcript expects the decoded (raw base64) form.
		decoded, err := url.QueryUnescape(string(m[1]))
		if err != nil {
			return string(m[1]), nil
		}
		return decoded, nil
	}
	return "", errors.New("getTranscriptEndpoint not found in engagement panels")
}

// fetchViaEngagementPanel fetches a transcript via:
//  1. POST /next → engagementPanels containing the transcript continuation token
//  2. POST /get_transcript with the token → JSON segments
//
// Works from datacenter IPs where /player returns LOGIN_REQUIRED. Always the
// video's default transcript language.
func (c *Client) fetchViaEngagementPanel(ctx context.Context, videoID string) ([]Segment, error) {
	visitorData := generateVisitorData()

	nextData, err := c.postWEB(ctx, nextURL, map[string]any{
		"videoId": videoID,
		"context": webContext(visitorData),
	}, visitorData)
	if err != nil {
		return nil, fmt.Errorf("/next: %w", err)
	}

	token, err := extractTranscriptToken(nextData)
	if err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}

	transcriptData, err := c.postWEB(ctx, getTranscriptURL, map[string]any{
		"params": token,
		"context": map[string]any{
			"client": webClientCtx{
				ClientName:    "WEB",
				ClientVersion: webVersion,
				VisitorData:   visitorData,
				Hl:            "en",
				Gl:            "US",
			},
		},
	}, visitorData)
	if err != nil {
		return nil, fmt.Errorf("/get_transcript: %w", err)
	}

	var resp getTranscriptResp
	if err := json.Unmarshal(transcriptData, &resp); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}

	segs := parsePanelSegments(resp)
	if len(segs) == 0 {
		return nil, ErrNoTranscript
	}
	return segs, nil
}

// parsePanelSegments converts a /get_transcript response into segments.
// startMs/endMs arrive as decimal strings.
func parsePanelSegments(resp getTranscriptResp) []Segment {
	var segs []Segment
	for _, action := range resp.Actions {
		if action.UpdateEngagementPanelAction == nil {
			continue
		}
		initial := action.UpdateEngagementPanelAction.Content.
			TranscriptRenderer.Content.
			TranscriptSearchPanelRenderer.Body.
			TranscriptSegmentListRenderer.InitialSegments
		for _, s := range initial {
			r := s.TranscriptSegmentRenderer
			if r == nil {
				continue
			}
			var sb strings.Builder
			for _, run := range r.Snippet.Runs {
				if run.Text == "" {
					continue
				}
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(run.Text)
			}
			if sb.Len() == 0 {
				continue
			}
			startMs, _ := strconv.ParseFloat(r.StartMs, 64)
			endMs, _ := strconv.ParseFloat(r.EndMs, 64)
			seg := Segment{Text: sb.String(), Start: startMs / 1000}
			if endMs > startMs {
				seg.Duration = (endMs - startMs) / 1000
			}
			segs = append(segs, seg)
		}
	}
	return segs
}

// needsPoToken reports whether a caption track URL requires a PoToken
// (browser-only). Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickTrack selects a usable caption track matching the language preference
// order: manual track first, then auto-generated. Tracks requiring a PoToken
// are skipped. A non-empty track list with no language match is
// ErrLanguageNotFound — retrying another path will see the same list.
func pickTrack(tracks []captionTrack, langs []string) (captionTrack, error) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, errors.New("all caption tracks require PoToken")
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, nil
			}
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, nil
			}
		}
	}
	available := make([]string, 0, len(usable))
	for _, t := range usable {
		available = append(available, t.LanguageCode)
	}
	return captionTrack{}, fmt.Errorf("%w (available: %s)", ErrLanguageNotFound, strings.Join(available, ", "))
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// cleanText strips markup tags left inside timedtext lines.
func cleanText(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, ""))
}

// fetchTimedText fetches and parses a YouTube timedtext XML caption URL.
func (c *Client) fetchTimedText(ctx context.Context, baseURL string) ([]Segment, error) {
	resp, err := retryHTTPGet(ctx, c, baseURL, map[string]string{
		"User-Agent": chromeUA,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil, err
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	segs := make([]Segment, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := cleanText(line.Text)
		if text == "" {
			continue
		}
		segs = append(segs, Segment{Text: text, Start: line.Start, Duration: line.Dur})
	}
	if len(segs) == 0 {
		return nil, errors.New("empty timedtext track")
	}
	return segs, nil
}

// fetchViaPlayer uses the ANDROID Innertube /player endpoint. Works from
// non-blocked (residential/cloud) IP addresses.
func (c *Client) fetchViaPlayer(ctx context.Context, videoID string, langs []string) ([]Segment, error) {
	reqBody, err := json.Marshal(playerReq{
		VideoID: videoID,
		Context: clientCtx{
			Client: clientInfo{
				ClientName:        "ANDROID",
				ClientVersion:     androidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	resp, err := retryHTTPPost(ctx, c, playerURL+"?prettyPrint=false", reqBody, map[string]string{
		"Content-Type":             "application/json",
		"User-Agent":               androidUA,
		"X-Youtube-Client-Name":    "3",
		"X-Youtube-Client-Version": androidVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("android innertube: %w", err)
	}
	defer resp.Body.Close()

	var pr playerResp
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	return c.segmentsFromPlayerResp(ctx, &pr, langs)
}

// segmentsFromPlayerResp picks a caption track from a player response and
// downloads its timedtext.
func (c *Client) segmentsFromPlayerResp(ctx context.Context, pr *playerResp, langs []string) ([]Segment, error) {
	if pr.Captions == nil {
		if pr.PlayabilityStatus != nil && pr.PlayabilityStatus.Reason != "" {
			return nil, fmt.Errorf("%w: %s", ErrNoTranscript, pr.PlayabilityStatus.Reason)
		}
		return nil, ErrNoTranscript
	}
	tracks := pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, ErrNoTranscript
	}
	track, err := pickTrack(tracks, langs)
	if err != nil {
		return nil, err
	}
	return c.fetchTimedText(ctx, track.BaseURL)
}

// initialPlayerResponseMarker marks the start of the player response JSON in
// watch page HTML.
const initialPlayerResponseMarker = "ytInitialPlayerResponse = "

// fetchViaPageScrape scrapes the YouTube watch page HTML and extracts the
// caption track XML URL from ytInitialPlayerResponse. Works from any IP.
func (c *Client) fetchViaPageScrape(ctx context.Context, videoID string, langs []string) ([]Segment, error) {
	watchURL := "https://www.youtube.com/watch?v=" + videoID

	resp, err := retryHTTPGet(ctx, c, watchURL, map[string]string{
		"User-Agent":      chromeUA,
		"Accept-Language": "en-US,en;q=0.9",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 6*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read watch page: %w", err)
	}

	idx := strings.Index(string(body), initialPlayerResponseMarker)
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(initialPlayerResponseMarker):])
	if jsonData == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var pr playerResp
	if err := json.Unmarshal(jsonData, &pr); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return c.segmentsFromPlayerResp(ctx, &pr, langs)
}
