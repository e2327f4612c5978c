package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RemoteSource fetches transcripts from a configured backend service over
// HTTP. One GET per fetch, an X-API-Key header when a credential is
// configured, and a bounded per-call timeout; non-2xx statuses and transport
// failures map onto the shared error kinds.
type RemoteSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewRemoteSource builds a backend source. When client is nil a dedicated
// client with the given timeout is used.
func NewRemoteSource(baseURL, apiKey string, timeout time.Duration, client *http.Client) *RemoteSource {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &RemoteSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

// backendResponse is the backend's success payload.
type backendResponse struct {
	VideoID  string         `json:"video_id"`
	Language string         `json:"language"`
	Text     string         `json:"text"`
	Segments []TimedSegment `json:"segments"`
	Method   string         `json:"method"`
	Metadata struct {
		IsGenerated bool `json:"is_generated"`
	} `json:"metadata"`
}

// backendError is the backend's error payload on 4xx.
type backendError struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (s *RemoteSource) Fetch(ctx context.Context, ref VideoRef, language string) (*Transcript, error) {
	metrics.SourceFetches.Add(1)

	u := fmt.Sprintf("%s/transcript/%s?lang=%s&format=both", s.baseURL, ref, url.QueryEscape(language))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.SourceErrors.Add(1)
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.SourceErrors.Add(1)
		return nil, mapBackendStatus(resp, ref, language)
	}

	var br backendResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8*1024*1024)).Decode(&br); err != nil {
		metrics.SourceErrors.Add(1)
		return nil, fmt.Errorf("%w: decode backend response: %v", ErrSourceUnavailable, err)
	}

	tr := &Transcript{
		VideoID:  br.VideoID,
		Language: br.Language,
		Segments: br.Segments,
		Text:     br.Text,
		Method:   br.Method,
	}
	if tr.VideoID == "" {
		tr.VideoID = string(ref)
	}
	if tr.Language == "" {
		tr.Language = language
	}
	if tr.Method == "" {
		tr.Method = "backend"
	}
	if tr.Text == "" {
		tr.Text = JoinSegments(tr.Segments)
	}
	return tr, nil
}

// mapTransportError folds timeouts and connection failures into
// ErrSourceUnavailable. Context cancellation passes through untouched.
func mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: backend timeout: %v", ErrSourceUnavailable, err)
	}
	return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
}

// mapBackendStatus implements the wire contract: 404 → NotFound, 400/422 →
// LanguageUnavailable or InvalidParameter depending on payload, everything
// else → SourceUnavailable.
func mapBackendStatus(resp *http.Response, ref VideoRef, language string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var be backendError
	_ = json.Unmarshal(body, &be)
	detail := be.Detail
	if detail == "" {
		detail = be.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, ref)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if strings.Contains(strings.ToLower(detail), "language") {
			return fmt.Errorf("%w: %s for %s", ErrLanguageUnavailable, language, ref)
		}
		return fmt.Errorf("%w: backend rejected request: %s", ErrInvalidParameter, detail)
	default:
		return fmt.Errorf("%w: backend HTTP %d", ErrSourceUnavailable, resp.StatusCode)
	}
}
