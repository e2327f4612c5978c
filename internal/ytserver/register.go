// Package ytserver is the MCP tool layer: it validates incoming tool calls,
// invokes the transcript service, and renders results as markdown the way
// tool-calling clients expect. All transcript semantics live in
// internal/transcript; nothing here touches the cache, limiter, or sources
// directly.
package ytserver

import (
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/transcript"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server bundles the shared handles the tools use. One instance per process,
// wired in main.
type Server struct {
	svc   *transcript.Service
	batch *transcript.BatchCoordinator
}

// RegisterTools registers the four transcript tools plus the prompts and the
// help resource on the given MCP server.
func RegisterTools(server *mcp.Server, svc *transcript.Service, batch *transcript.BatchCoordinator) {
	s := &Server{svc: svc, batch: batch}
	s.registerGetTranscript(server)
	s.registerSearchTranscript(server)
	s.registerTranscriptSummary(server)
	s.registerBatchTranscripts(server)
	registerPrompts(server)
	registerHelpResource(server)
}

// normLang defaults an empty language field to English and lowercases the
// code, so "EN" and "en" share one cache entry.
func normLang(lang string) string {
	if lang == "" {
		return "en"
	}
	return strings.ToLower(lang)
}
