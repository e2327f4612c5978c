package ytserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/transcript"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type SearchTranscriptInput struct {
	URL             string `json:"url" jsonschema:"YouTube video URL or video ID"`
	Query           string `json:"query" jsonschema:"Search query (case-insensitive substring)"`
	Language        string `json:"language,omitempty" jsonschema:"Language code. Default: en"`
	ContextSegments *int   `json:"context_segments,omitempty" jsonschema:"Number of surrounding segments to include around each match. Default: 1"`
}

type SearchTranscriptOutput struct {
	VideoID string                   `json:"video_id"`
	Query   string                   `json:"query"`
	Total   int                      `json:"total"`
	Matches []transcript.SearchMatch `json:"matches"`
}

func (s *Server) registerSearchTranscript(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_transcript",
		Description: "Search for keywords in a YouTube video transcript. Case-insensitive; each match comes with surrounding context segments and timestamps.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input SearchTranscriptInput) (*mcp.CallToolResult, SearchTranscriptOutput, error) {
		transcript.IncrSearchRequests()

		ref, err := transcript.ParseVideoRef(input.URL)
		if err != nil {
			return nil, SearchTranscriptOutput{}, err
		}
		lang := normLang(input.Language)
		contextSegments := 1
		if input.ContextSegments != nil {
			contextSegments = *input.ContextSegments
		}

		matches, err := s.svc.Search(ctx, ref, lang, input.Query, contextSegments)
		if err != nil {
			return nil, SearchTranscriptOutput{}, fmt.Errorf("search in %s: %w", ref, err)
		}

		out := SearchTranscriptOutput{
			VideoID: string(ref),
			Query:   input.Query,
			Total:   len(matches),
			Matches: matches,
		}
		return textResult(renderSearch(string(ref), input.Query, matches)), out, nil
	})
}

func renderSearch(videoID, query string, matches []transcript.SearchMatch) string {
	if len(matches) == 0 {
		return fmt.Sprintf("No matches found for %q in %s.", query, videoID)
	}

	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		var sb strings.Builder
		for j, seg := range m.Context {
			marker := "  "
			if m.First+j == m.Index {
				marker = "> "
			}
			if j > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "%s**[%s]** %s", marker, transcript.FormatTimestamp(seg.Start), seg.Text)
		}
		blocks = append(blocks, sb.String())
	}

	header := fmt.Sprintf("## Search Results: %q in %s\n**%d match(es) found**\n", query, videoID, len(matches))
	return header + "\n" + strings.Join(blocks, "\n\n---\n\n")
}
