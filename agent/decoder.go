package agent

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Decoder reads the newline-delimited JSON event stream incrementally. A
// trailing partial line is buffered until the next chunk completes it; each
// complete line is parsed independently and a line that fails to parse is
// counted and skipped, never aborting the lines after it.
type Decoder struct {
	logger  *zap.Logger
	scanner *bufio.Scanner
	skipped int
}

func NewDecoder(logger *zap.Logger, r io.Reader) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Decoder{logger: logger, scanner: scanner}
}

// Next returns the next well-formed event, or io.EOF when the stream ends.
func (d *Decoder) Next() (Event, error) {
	for d.scanner.Scan() {
		line := strings.TrimSpace(d.scanner.Text())
		if line == "" {
			continue
		}
		var event Event
		if err := json.Unmarshal([]byte(line), &event); err != nil || event.Type == "" {
			d.skipped++
			d.logger.Warn("skipping malformed stream line",
				zap.Int("skipped_total", d.skipped),
				zap.Int("line_len", len(line)))
			continue
		}
		return event, nil
	}
	if err := d.scanner.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}

// Skipped reports how many malformed lines were dropped so far. Pervasive
// malformed output is a signal worth alerting on even though each individual
// line is tolerated.
func (d *Decoder) Skipped() int {
	return d.skipped
}
