package ytserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerPrompts registers workflow prompts that chain the transcript tools.
func registerPrompts(server *mcp.Server) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "summarize_video",
		Description: "Generate a comprehensive summary of a YouTube video from its transcript",
		Arguments: []*mcp.PromptArgument{
			{Name: "url", Description: "YouTube video URL or video ID to summarize", Required: true},
		},
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		url := req.Params.Arguments["url"]
		text := fmt.Sprintf(`Please use the get_transcript tool to fetch the transcript for this YouTube video: %s

Then provide a comprehensive summary including:
1. Main topic and key points
2. Important quotes or statements
3. A brief conclusion

Keep the summary concise but informative.`, url)
		return promptResult(text), nil
	})

	server.AddPrompt(&mcp.Prompt{
		Name:        "compare_videos",
		Description: "Compare the content of two YouTube videos side by side",
		Arguments: []*mcp.PromptArgument{
			{Name: "url1", Description: "First YouTube video URL or ID", Required: true},
			{Name: "url2", Description: "Second YouTube video URL or ID", Required: true},
		},
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		text := fmt.Sprintf(`Please use the batch_transcripts tool to fetch transcripts for these two videos:
- Video 1: %s
- Video 2: %s

Then compare them:
1. What topics does each video cover?
2. Where do they agree or disagree?
3. Which provides more depth on the subject?
4. Key differences in perspective or approach`, req.Params.Arguments["url1"], req.Params.Arguments["url2"])
		return promptResult(text), nil
	})

	server.AddPrompt(&mcp.Prompt{
		Name:        "find_key_moments",
		Description: "Find and analyze key moments in a video related to a specific topic",
		Arguments: []*mcp.PromptArgument{
			{Name: "url", Description: "YouTube video URL or video ID", Required: true},
			{Name: "topic", Description: "The topic or keyword to search for", Required: true},
		},
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		url := req.Params.Arguments["url"]
		topic := req.Params.Arguments["topic"]
		text := fmt.Sprintf(`Please use the search_transcript tool to find mentions of %q in this video: %s

Then use get_transcript_summary to get the full time-chunked transcript.

Analyze and present:
1. All timestamps where %q is discussed
2. Context around each mention
3. The speaker's main points about this topic
4. A summary of the overall stance on %q`, topic, url, topic, topic)
		return promptResult(text), nil
	})
}

func promptResult(text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}
}
