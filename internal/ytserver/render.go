package ytserver

import (
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/transcript"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// segmentsToMarkdown renders segments as timestamped markdown lines.
func segmentsToMarkdown(segs []transcript.TimedSegment) string {
	lines := make([]string, 0, len(segs))
	for _, seg := range segs {
		lines = append(lines, fmt.Sprintf("**[%s]** %s", transcript.FormatTimestamp(seg.Start), seg.Text))
	}
	return strings.Join(lines, "\n")
}

// textResult wraps markdown into a tool result.
func textResult(md string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: md}},
	}
}
