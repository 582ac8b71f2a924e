package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dantetu1995723/MolyMemo-sub002/protocol"
)

const (
	defaultChatPath = "/api/v1/chat/stream"
	defaultTimeout  = 5 * time.Minute

	// maxErrorBody bounds how much of a non-2xx body is kept for the error.
	maxErrorBody = 64 * 1024
)

// Config carries the explicit collaborators the client needs. Nothing is
// read from process-wide state; construct one Config per backend.
type Config struct {
	// BaseURL is the backend origin, e.g. "https://api.example.com".
	BaseURL string
	// ChatPath overrides the chat endpoint path.
	ChatPath string
	// Header is sent on every request. Authentication tokens and any other
	// request shaping belong to the calling service.
	Header http.Header
	// HTTPClient overrides the default client.
	HTTPClient *http.Client
	// Logger receives debug/warn records. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client talks to the backend chat endpoint.
type Client struct {
	endpoint *url.URL
	header   http.Header
	http     *http.Client
	logger   *slog.Logger
}

// NewClient validates the configuration and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("assistant: base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("assistant: invalid base URL %q", cfg.BaseURL)
	}

	path := cfg.ChatPath
	if path == "" {
		path = defaultChatPath
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		endpoint: base.JoinPath(path),
		header:   cfg.Header.Clone(),
		http:     httpClient,
		logger:   logger,
	}, nil
}

// DeltaHandler receives one delta per non-trivial chunk, in arrival order.
type DeltaHandler func(Delta)

// Stream posts the payload to the chat endpoint and reduces the streamed
// reply. onDelta, when non-nil, is invoked once per non-trivial delta for
// progressive rendering.
//
// Caller cancellation is not an error: a cancelled context returns
// (nil, nil), as if the caller walked away mid-stream. A non-2xx status
// returns a *TransportError; a stream that produces nothing returns
// ErrEmptyResponse.
func (c *Client) Stream(ctx context.Context, payload interface{}, onDelta DeltaHandler) (*StructuredOutput, error) {
	resp, err := c.post(ctx, payload)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil
		}
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	framer := protocol.NewFramer(resp.Body)
	interp := NewInterpreter()
	reducer := NewReducer()
	var seen []protocol.Chunk

	for {
		chunk, err := framer.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Debug("chat stream cancelled", "chunks", len(seen))
				return nil, nil
			}
			return nil, fmt.Errorf("assistant: read stream: %w", err)
		}
		seen = append(seen, chunk)

		delta := interp.Interpret(chunk)
		if delta.Empty() {
			continue
		}
		reducer.Apply(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}

	out := reducer.Output()
	if out.Text == "" {
		// Live accumulation came up without display text; replay the full
		// buffered chunk set once for the canonical result.
		out = ReduceChunks(seen)
	}
	if out.Empty() {
		return nil, ErrEmptyResponse
	}
	c.logger.Debug("chat stream complete",
		"task_id", out.TaskID,
		"chunks", len(seen),
		"schedules", len(out.Schedules),
		"contacts", len(out.Contacts),
		"invoices", len(out.Invoices),
		"meetings", len(out.Meetings))
	return &out, nil
}

// Complete posts the payload and parses the whole reply in one pass. Used
// against backend deployments that answer with a single JSON document
// instead of a stream.
func (c *Client) Complete(ctx context.Context, payload interface{}) (*StructuredOutput, error) {
	resp, err := c.post(ctx, payload)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil
		}
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil
		}
		return nil, fmt.Errorf("assistant: read response: %w", err)
	}

	out := ReduceChunks(protocol.ParseChunkDocument(body))
	if out.Empty() {
		return nil, ErrEmptyResponse
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("assistant: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("assistant: build request: %w", err)
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream, application/x-ndjson, application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assistant: post chat: %w", err)
	}
	return resp, nil
}

// checkStatus drains a non-2xx body as diagnostic text. It is never framed.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &TransportError{StatusCode: resp.StatusCode, Body: string(body)}
}
