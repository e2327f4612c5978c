package ytserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/transcript"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// previewRunes caps the per-video text preview in batch output.
const previewRunes = 500

type BatchTranscriptsInput struct {
	URLs     []string `json:"urls" jsonschema:"List of YouTube video URLs or IDs (max 10)"`
	Language string   `json:"language,omitempty" jsonschema:"Language code. Default: en"`
}

type BatchItemOutput struct {
	VideoID  string `json:"video_id,omitempty"`
	Input    string `json:"input"`
	Language string `json:"language,omitempty"`
	Segments int    `json:"segments,omitempty"`
	Preview  string `json:"preview,omitempty"`
	Error    string `json:"error,omitempty"`
}

type BatchTranscriptsOutput struct {
	Total   int               `json:"total"`
	Failed  int               `json:"failed"`
	Results []BatchItemOutput `json:"results"`
}

func (s *Server) registerBatchTranscripts(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "batch_transcripts",
		Description: "Get transcripts for multiple YouTube videos at once (max 10). Each video succeeds or fails independently; results keep input order and include a text preview.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input BatchTranscriptsInput) (*mcp.CallToolResult, BatchTranscriptsOutput, error) {
		transcript.IncrBatchRequests()

		results, err := s.batch.Process(ctx, input.URLs, normLang(input.Language))
		if err != nil {
			return nil, BatchTranscriptsOutput{}, err
		}

		out := BatchTranscriptsOutput{Total: len(results)}
		for _, r := range results {
			item := BatchItemOutput{Input: r.Raw, VideoID: string(r.Ref)}
			if r.Err != nil {
				item.Error = r.Err.Error()
				out.Failed++
			} else {
				item.Language = r.Transcript.Language
				item.Segments = len(r.Transcript.Segments)
				item.Preview = transcript.TruncatePreview(r.Transcript.Text, previewRunes)
			}
			out.Results = append(out.Results, item)
		}
		return textResult(renderBatch(out)), out, nil
	})
}

func renderBatch(out BatchTranscriptsOutput) string {
	header := fmt.Sprintf("## Batch Transcripts (%d videos)\n", out.Total)

	sections := make([]string, 0, len(out.Results))
	for _, item := range out.Results {
		name := item.VideoID
		if name == "" {
			name = item.Input
		}
		if item.Error != "" {
			sections = append(sections, fmt.Sprintf("### %s\n**Error:** %s\n", name, item.Error))
			continue
		}
		sections = append(sections, fmt.Sprintf("### %s\n**Language:** %s | **Segments:** %d\n\n%s\n",
			name, item.Language, item.Segments, item.Preview))
	}
	return header + strings.Join(sections, "\n---\n\n")
}
