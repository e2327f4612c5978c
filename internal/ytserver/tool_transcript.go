package ytserver

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_transcript/internal/transcript"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type GetTranscriptInput struct {
	URL      string `json:"url" jsonschema:"YouTube video URL or 11-character video ID"`
	Language string `json:"language,omitempty" jsonschema:"Language code (e.g. en, de, es). Default: en"`
	Format   string `json:"format,omitempty" jsonschema:"Output format: text (plain text), segments (timestamped), or both. Default: text"`
}

type GetTranscriptOutput struct {
	VideoID  string                    `json:"video_id"`
	Language string                    `json:"language"`
	Method   string                    `json:"method"`
	Text     string                    `json:"text,omitempty"`
	Segments []transcript.TimedSegment `json:"segments,omitempty"`
}

func (s *Server) registerGetTranscript(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_transcript",
		Description: "Get the transcript of a YouTube video. Accepts a video URL or ID, optional language code, and an output format: 'text' (plain text), 'segments' (timestamped), or 'both'.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input GetTranscriptInput) (*mcp.CallToolResult, GetTranscriptOutput, error) {
		transcript.IncrTranscriptRequests()

		ref, err := transcript.ParseVideoRef(input.URL)
		if err != nil {
			return nil, GetTranscriptOutput{}, err
		}
		lang := normLang(input.Language)
		format := input.Format
		if format == "" {
			format = transcript.FormatText
		}

		view, err := s.svc.GetTranscript(ctx, ref, lang, format)
		if err != nil {
			return nil, GetTranscriptOutput{}, fmt.Errorf("transcript for %s: %w", ref, err)
		}

		out := GetTranscriptOutput{
			VideoID:  view.VideoID,
			Language: view.Language,
			Method:   view.Method,
			Text:     view.Text,
			Segments: view.Segments,
		}
		return textResult(renderTranscript(view, format)), out, nil
	})
}

func renderTranscript(view *transcript.TranscriptView, format string) string {
	header := fmt.Sprintf("## Transcript: %s\n**Language:** %s | **Method:** %s\n",
		view.VideoID, view.Language, view.Method)

	var body string
	switch format {
	case transcript.FormatSegments:
		body = segmentsToMarkdown(view.Segments)
	case transcript.FormatBoth:
		body = fmt.Sprintf("### Full Text\n%s\n\n### Timestamped Segments\n%s",
			view.Text, segmentsToMarkdown(view.Segments))
	default:
		body = view.Text
	}
	return header + "\n" + body
}
