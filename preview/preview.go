// Package preview keeps the live preview in sync with the edited site config.
// A Synchronizer watches tool results streamed during one agent turn and
// schedules exactly one debounced reload when any structural tool ran; direct
// form-editor mutations report in through ConfigChanged. A reload increments a
// monotonic refresh token and notifies SSE subscribers.
package preview

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/homepro/siteforge/render"
)

// structuralTools are the tools whose successful result implies the rendered
// output changed. Read-only tools must never trigger a reload.
var structuralTools = map[string]bool{
	"update_section":   true,
	"add_section":      true,
	"remove_section":   true,
	"reorder_sections": true,
	"update_theme":     true,
}

// IsStructural reports whether a tool name belongs to the structural set.
func IsStructural(toolName string) bool {
	return structuralTools[toolName]
}

type Config struct {
	Debounce time.Duration
}

func DefaultConfig() Config {
	return Config{Debounce: 500 * time.Millisecond}
}

type Synchronizer struct {
	logger   *zap.Logger
	debounce time.Duration

	token atomic.Uint64

	mu    sync.Mutex
	dirty bool
	timer *time.Timer
	subs  map[chan struct{}]struct{}
}

func NewSynchronizer(logger *zap.Logger, config Config) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultConfig().Debounce
	}
	return &Synchronizer{
		logger:   logger,
		debounce: config.Debounce,
		subs:     make(map[chan struct{}]struct{}),
	}
}

// Token returns the current refresh token. It is embedded in the rendered
// preview's cache-busting key; a change means the preview must re-fetch.
func (s *Synchronizer) Token() uint64 {
	return s.token.Load()
}

// ObserveToolResult records one tool_result event from the agent stream.
// Only structural tool names mark the turn dirty.
func (s *Synchronizer) ObserveToolResult(toolName string) {
	if !IsStructural(toolName) {
		return
	}
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// EndTurn closes out one streamed turn. If any structural tool ran during the
// turn, exactly one reload is scheduled after the debounce window.
func (s *Synchronizer) EndTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return
	}
	s.dirty = false
	s.scheduleLocked()
}

// ConfigChanged schedules a debounced reload for a direct (non-agent) mutation.
func (s *Synchronizer) ConfigChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduleLocked()
}

// scheduleLocked collapses bursts of changes into one reload. Callers hold mu.
func (s *Synchronizer) scheduleLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.reload)
}

func (s *Synchronizer) reload() {
	token := s.token.Add(1)
	s.logger.Debug("preview reload", zap.Uint64("token", token))

	s.mu.Lock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Synchronizer) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *Synchronizer) unsubscribe(ch chan struct{}) {
	s.mu.Lock()
	delete(s.subs, ch)
	s.mu.Unlock()
	close(ch)
}

// ServeSSE streams reload events to the preview frame. Each event carries the
// refresh token so the frame can rebuild its cache-busting key.
func (s *Synchronizer) ServeSSE(w http.ResponseWriter, req *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	writeReloadEvent(w, "ready", s.Token())
	flusher.Flush()

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	for {
		select {
		case <-req.Context().Done():
			return
		case <-ch:
			writeReloadEvent(w, "reload", s.Token())
			flusher.Flush()
		}
	}
}

func writeReloadEvent(w http.ResponseWriter, event string, token uint64) {
	_, _ = w.Write([]byte("event: " + event + "\n"))
	_, _ = w.Write([]byte("data: " + strconv.FormatUint(token, 10) + "\n\n"))
}

// ScrollTarget locates the stable per-section anchor inside rendered markup.
// It is a best-effort capability: the second return is false when the anchor
// cannot be found, which callers treat as "do not scroll", not as an error.
func ScrollTarget(markup, sectionID string) (string, bool) {
	doc, err := render.ParseDocument(markup)
	if err != nil {
		return "", false
	}
	anchor := "section-" + sectionID
	if _, err := render.FindNodeByID(doc, anchor); err != nil {
		return "", false
	}
	return anchor, true
}
