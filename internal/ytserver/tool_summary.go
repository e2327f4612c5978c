package ytserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/transcript"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type TranscriptSummaryInput struct {
	URL          string `json:"url" jsonschema:"YouTube video URL or video ID"`
	Language     string `json:"language,omitempty" jsonschema:"Language code. Default: en"`
	ChunkMinutes *int   `json:"chunk_minutes,omitempty" jsonschema:"Size of each time chunk in minutes. Default: 5"`
}

type TranscriptSummaryOutput struct {
	VideoID      string                    `json:"video_id"`
	Language     string                    `json:"language"`
	ChunkMinutes int                       `json:"chunk_minutes"`
	Chunks       []transcript.SummaryChunk `json:"chunks"`
}

func (s *Server) registerTranscriptSummary(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_transcript_summary",
		Description: "Get a transcript structured in time chunks for easier analysis of long videos. Each chunk covers a fixed number of minutes of video time.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input TranscriptSummaryInput) (*mcp.CallToolResult, TranscriptSummaryOutput, error) {
		transcript.IncrSummaryRequests()

		ref, err := transcript.ParseVideoRef(input.URL)
		if err != nil {
			return nil, TranscriptSummaryOutput{}, err
		}
		lang := normLang(input.Language)
		chunkMinutes := 5
		if input.ChunkMinutes != nil {
			chunkMinutes = *input.ChunkMinutes
		}

		chunks, err := s.svc.Summary(ctx, ref, lang, chunkMinutes)
		if err != nil {
			return nil, TranscriptSummaryOutput{}, fmt.Errorf("summary for %s: %w", ref, err)
		}

		out := TranscriptSummaryOutput{
			VideoID:      string(ref),
			Language:     lang,
			ChunkMinutes: chunkMinutes,
			Chunks:       chunks,
		}
		return textResult(renderSummary(string(ref), lang, chunkMinutes, chunks)), out, nil
	})
}

func renderSummary(videoID, lang string, chunkMinutes int, chunks []transcript.SummaryChunk) string {
	header := fmt.Sprintf("## Transcript Summary: %s\n**Language:** %s | **Chunk size:** %dmin\n",
		videoID, lang, chunkMinutes)

	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, fmt.Sprintf("### [%s - %s]\n%s",
			transcript.FormatTimestamp(c.ChunkStart), transcript.FormatTimestamp(c.ChunkEnd), c.Text))
	}
	return header + "\n" + strings.Join(parts, "\n\n")
}
