package mcp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/homepro/siteforge/agent"
	"github.com/homepro/siteforge/preview"
	"github.com/homepro/siteforge/service"
)

// httpRequestKey is a custom context key for storing the original HTTP request
type httpRequestKey struct{}

// withHTTPRequest adds the original HTTP request to the context
func withHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, req)
}

// httpRequestFromContext extracts the original HTTP request from the context
func httpRequestFromContext(ctx context.Context) (*http.Request, bool) {
	req, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	return req, ok
}

// httpContextFunc extracts the original HTTP request and adds it to the context
func httpContextFunc(ctx context.Context, r *http.Request) context.Context {
	return withHTTPRequest(ctx, r)
}

// EditorHTTPServer serves the MCP tool endpoint next to the editor's plain
// JSON metadata endpoints and the preview surface.
type EditorHTTPServer struct {
	mux *http.ServeMux
}

// NewEditorHTTPServer wires everything the admin console talks to:
//   - the streamable MCP endpoint hosting the mutation tools
//   - read-only registry metadata for the add-section flow
//   - the current config
//   - the preview reload event stream and the rendered preview page
//   - the chat endpoint driving one agent turn, when a runner is configured
func NewEditorHTTPServer(logger *zap.Logger, s *server.MCPServer, svc service.Service, sync *preview.Synchronizer, runner *agent.Runner, endpoint string) *EditorHTTPServer {
	mux := http.NewServeMux()

	mcpHandler := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath(endpoint),
		server.WithHTTPContextFunc(httpContextFunc),
	)
	mux.Handle(endpoint, mcpHandler)

	mux.HandleFunc("/editor/section-types", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(logger, w, svc.SectionTypes())
	})
	mux.HandleFunc("/editor/section-defaults", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(logger, w, svc.SectionDefaults())
	})
	mux.HandleFunc("/editor/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(logger, w, svc.Config())
	})

	if runner != nil {
		mux.HandleFunc("/editor/chat", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			var turn agent.TurnRequest
			if err := json.NewDecoder(r.Body).Decode(&turn); err != nil {
				http.Error(w, "invalid turn request", http.StatusBadRequest)
				return
			}
			result, err := runner.Run(r.Context(), turn)
			if err != nil {
				logger.Warn("agent turn failed", zap.Error(err))
				writeJSON(logger, w, map[string]any{"error": err.Error(), "result": result})
				return
			}
			writeJSON(logger, w, result)
		})
	}

	mux.HandleFunc("/preview/events", sync.ServeSSE)
	mux.HandleFunc("/preview/page", func(w http.ResponseWriter, r *http.Request) {
		slug := r.URL.Query().Get("slug")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write([]byte(svc.RenderPage(slug, sync.Token())))
	})
	mux.HandleFunc("/preview/scroll-target", func(w http.ResponseWriter, r *http.Request) {
		slug := r.URL.Query().Get("slug")
		id := r.URL.Query().Get("section_id")
		markup := svc.RenderPage(slug, sync.Token())
		anchor, ok := preview.ScrollTarget(markup, id)
		writeJSON(logger, w, map[string]any{"anchor": anchor, "found": ok})
	})

	return &EditorHTTPServer{mux: mux}
}

// ServeHTTP implements http.Handler
func (s *EditorHTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}
