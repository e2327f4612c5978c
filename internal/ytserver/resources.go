package ytserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const helpURI = "youtube://help"

const helpText = `# YouTube Transcript MCP Server - Help Guide

## Available Tools

### get_transcript
Extract the full transcript from a YouTube video.
- Supports multiple languages (en, de, es, fr, ja, ko, zh, etc.)
- Three output formats: text, segments (with timestamps), or both
- Example: get_transcript(url="https://youtube.com/watch?v=VIDEO_ID", language="en", format="segments")

### search_transcript
Search for specific keywords within a video transcript.
- Case-insensitive search
- Shows surrounding context segments
- Example: search_transcript(url="VIDEO_ID", query="machine learning", context_segments=2)

### get_transcript_summary
Get the transcript organized in time chunks for analysis.
- Configurable chunk size (default: 5 minutes)
- Great for long videos
- Example: get_transcript_summary(url="VIDEO_ID", chunk_minutes=10)

### batch_transcripts
Process multiple videos at once (max 10).
- Returns preview of each transcript
- Example: batch_transcripts(urls=["VIDEO1", "VIDEO2"], language="en")

## Tips
- Use video IDs or full YouTube URLs
- Try different language codes if default transcript isn't available
- Use search_transcript to quickly find specific topics in long videos
- Use get_transcript_summary for videos over 20 minutes
`

// registerHelpResource exposes the usage guide as an MCP resource.
func registerHelpResource(server *mcp.Server) {
	server.AddResource(&mcp.Resource{
		URI:         helpURI,
		Name:        "help",
		Description: "Help guide for the YouTube Transcript MCP server",
		MIMEType:    "text/markdown",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: helpURI, MIMEType: "text/markdown", Text: helpText},
			},
		}, nil
	})
}
