package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// Client talks to the conversational agent service over HTTP.
type Client struct {
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
}

func NewClient(logger *zap.Logger, httpClient *http.Client, baseURL string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{logger: logger, httpClient: httpClient, baseURL: baseURL}
}

// StreamTurn posts one turn to the agent service and decodes the response
// stream on a goroutine. Events arrive on the first channel strictly in line
// order; a transport or decode failure arrives on the second. Both channels
// are closed when the stream ends. Cancelling ctx discards the turn.
func (c *Client) StreamTurn(ctx context.Context, turn TurnRequest) (<-chan Event, <-chan error) {
	events := make(chan Event)
	errs := make(chan error, 1)

	go func() {
		defer close(events)
		defer close(errs)

		payload, err := json.Marshal(turn)
		if err != nil {
			errs <- fmt.Errorf("failed to marshal turn: %w", err)
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
		if err != nil {
			errs <- fmt.Errorf("failed to create request: %w", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/x-ndjson")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			errs <- fmt.Errorf("agent request failed: %w", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			errs <- fmt.Errorf("agent request failed with status %d: %s", resp.StatusCode, string(body))
			return
		}

		decoder := NewDecoder(c.logger, resp.Body)
		for {
			event, err := decoder.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				errs <- fmt.Errorf("stream read failed: %w", err)
				return
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
		if skipped := decoder.Skipped(); skipped > 0 {
			c.logger.Warn("agent stream contained malformed lines", zap.Int("skipped", skipped))
		}
	}()

	return events, errs
}
