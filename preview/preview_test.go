package preview

import (
	"bufio"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSynchronizer() *Synchronizer {
	return NewSynchronizer(nil, Config{Debounce: 20 * time.Millisecond})
}

func waitForToken(t *testing.T, s *Synchronizer, want uint64) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if s.Token() == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("token never reached %d, is %d", want, s.Token())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStructuralToolSchedulesExactlyOneReload(t *testing.T) {
	s := newTestSynchronizer()

	s.ObserveToolResult("update_theme")
	s.EndTurn()

	waitForToken(t, s, 1)
	// Wait past another debounce window to be sure no second reload fires.
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, uint64(1), s.Token())
}

func TestReadOnlyToolSchedulesNoReload(t *testing.T) {
	s := newTestSynchronizer()

	s.ObserveToolResult("get_page")
	s.ObserveToolResult("list_section_types")
	s.EndTurn()

	time.Sleep(60 * time.Millisecond)
	require.Zero(t, s.Token())
}

func TestMultipleStructuralResultsCollapseToOneReload(t *testing.T) {
	s := newTestSynchronizer()

	s.ObserveToolResult("add_section")
	s.ObserveToolResult("update_section")
	s.ObserveToolResult("reorder_sections")
	s.EndTurn()

	waitForToken(t, s, 1)
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, uint64(1), s.Token())
}

func TestEndTurnWithoutDirtyIsNoop(t *testing.T) {
	s := newTestSynchronizer()
	s.EndTurn()
	time.Sleep(60 * time.Millisecond)
	require.Zero(t, s.Token())
}

func TestConfigChangedDebouncesBursts(t *testing.T) {
	s := newTestSynchronizer()

	// A burst of direct form edits collapses into one reload.
	for i := 0; i < 5; i++ {
		s.ConfigChanged()
		time.Sleep(2 * time.Millisecond)
	}

	waitForToken(t, s, 1)
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, uint64(1), s.Token())
}

func TestIsStructural(t *testing.T) {
	for _, name := range []string{"update_section", "add_section", "remove_section", "reorder_sections", "update_theme"} {
		require.True(t, IsStructural(name), name)
	}
	require.False(t, IsStructural("get_page"))
	require.False(t, IsStructural(""))
}

func TestServeSSEEmitsReadyAndReload(t *testing.T) {
	s := newTestSynchronizer()

	req := httptest.NewRequest("GET", "/preview/events", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 500*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	recorder := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		s.ServeSSE(recorder, req)
		close(done)
	}()

	// Give the handler time to subscribe, then trigger a reload.
	time.Sleep(10 * time.Millisecond)
	s.ConfigChanged()
	<-done

	require.Equal(t, "text/event-stream", recorder.Header().Get("Content-Type"))
	scanner := bufio.NewScanner(recorder.Body)
	var events []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event: ") {
			events = append(events, strings.TrimPrefix(line, "event: "))
		}
	}
	require.GreaterOrEqual(t, len(events), 1)
	require.Equal(t, "ready", events[0])
	if len(events) > 1 {
		require.Equal(t, "reload", events[1])
	}
}

func TestScrollTarget(t *testing.T) {
	markup := `<html><body><div id="section-hero-1"><section>hi</section></div></body></html>`

	anchor, ok := ScrollTarget(markup, "hero-1")
	require.True(t, ok)
	require.Equal(t, "section-hero-1", anchor)

	// Best-effort: a missing anchor is not an error, just "do not scroll".
	_, ok = ScrollTarget(markup, "ghost")
	require.False(t, ok)
}
