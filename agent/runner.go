package agent

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// PreviewNotifier is the part of the preview synchronizer a turn feeds:
// every tool_result is observed, and EndTurn closes out the turn.
type PreviewNotifier interface {
	ObserveToolResult(toolName string)
	EndTurn()
}

// TurnResult is what one completed streamed turn produced.
type TurnResult struct {
	// Transcript is the accumulated narration, with recoverable errors
	// appended as visible text rather than raised.
	Transcript string
	// SessionID is the last session id the stream established or confirmed.
	SessionID string
	// ToolCalls lists tool names in the order their results arrived.
	ToolCalls []string
}

// Runner drives one streamed turn: events are applied strictly in the order
// received, one at a time, before the next line is processed.
type Runner struct {
	logger  *zap.Logger
	client  *Client
	preview PreviewNotifier
}

func NewRunner(logger *zap.Logger, client *Client, preview PreviewNotifier) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, client: client, preview: preview}
}

// Run sends the turn and consumes its event stream to completion. A stream
// transport failure is returned as an error with the partial result; error
// events inside the stream are recoverable and only annotate the transcript.
func (r *Runner) Run(ctx context.Context, turn TurnRequest) (TurnResult, error) {
	result := TurnResult{SessionID: turn.SessionID}
	var transcript strings.Builder

	events, errs := r.client.StreamTurn(ctx, turn)
	defer r.preview.EndTurn()

	for event := range events {
		if event.SessionID != "" {
			result.SessionID = event.SessionID
		}
		switch event.Type {
		case EventText:
			transcript.WriteString(event.Content)
		case EventToolCall:
			r.logger.Debug("tool call", zap.String("tool", event.ToolName))
		case EventToolResult:
			result.ToolCalls = append(result.ToolCalls, event.ToolName)
			r.preview.ObserveToolResult(event.ToolName)
		case EventError:
			r.logger.Warn("agent reported error", zap.String("message", event.Content))
			transcript.WriteString("\n[error] " + event.Content + "\n")
		case EventDone:
			// Terminal; the channel closes right after.
		default:
			r.logger.Debug("ignoring unknown event type", zap.String("type", event.Type))
		}
		result.Transcript = transcript.String()
	}

	if err := <-errs; err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}
