package protocol

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
)

// framing is the transport encoding committed to after sniffing the stream.
type framing int

const (
	framingUnknown framing = iota
	framingNDJSON
	framingSSE
)

// doneSentinel ends an SSE stream. It is dropped, never parsed.
const doneSentinel = "[DONE]"

// maxLineSize bounds a single response line. Card payloads can carry whole
// entity arrays on one line.
const maxLineSize = 1 << 20

// Framer decodes one open streaming response body into discrete chunks
// without prior knowledge of which of the three encodings the backend
// chose. It is single-pass and not restartable; create a new Framer per
// request.
type Framer struct {
	scanner  *bufio.Scanner
	mode     framing
	sseData  []string // data: payload lines of the event being accumulated
	buffered []string // lines seen before any framing signature appeared
	pending  []Chunk  // decoded but not yet returned (buffered document)
	eof      bool
	finished bool
}

// NewFramer creates a Framer over a response body.
func NewFramer(r io.Reader) *Framer {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Framer{scanner: scanner}
}

// Next returns the next chunk in stream order. It returns io.EOF once the
// stream is exhausted and ctx.Err() if the caller cancelled; malformed
// lines are skipped, never surfaced.
func (f *Framer) Next(ctx context.Context) (Chunk, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(f.pending) > 0 {
			chunk := f.pending[0]
			f.pending = f.pending[1:]
			return chunk, nil
		}
		if f.eof {
			if chunk := f.finish(); chunk != nil {
				return chunk, nil
			}
			if len(f.pending) > 0 {
				continue
			}
			return nil, io.EOF
		}
		if !f.scanner.Scan() {
			if err := f.scanner.Err(); err != nil {
				return nil, err
			}
			f.eof = true
			continue
		}
		line := strings.TrimRight(f.scanner.Text(), "\r")
		if chunk := f.feed(line); chunk != nil {
			return chunk, nil
		}
	}
}

// feed consumes one line and returns a chunk when the line completes one.
func (f *Framer) feed(line string) Chunk {
	trimmed := strings.TrimSpace(line)

	if f.mode == framingUnknown {
		if trimmed == "" {
			return nil
		}
		switch {
		case strings.HasPrefix(trimmed, "data:"):
			f.mode = framingSSE
			f.buffered = nil
		case strings.HasPrefix(trimmed, "{"):
			f.mode = framingNDJSON
			f.buffered = nil
		default:
			f.buffered = append(f.buffered, line)
			return nil
		}
	}

	switch f.mode {
	case framingNDJSON:
		if trimmed == "" {
			return nil
		}
		return f.parseLine(trimmed)
	case framingSSE:
		return f.feedSSE(trimmed)
	}
	return nil
}

// feedSSE handles one line of an SSE stream. Consecutive data: lines
// accumulate until a blank line flushes them as one newline-joined payload.
// A data: line that alone is a complete JSON object flushes immediately so
// single-line events are not held back waiting for the separator.
func (f *Framer) feedSSE(line string) Chunk {
	if line == "" {
		return f.flushSSE()
	}
	payload, ok := strings.CutPrefix(line, "data:")
	if !ok {
		// event:, id:, retry: and comment lines carry no chunk payload.
		return nil
	}
	payload = strings.TrimSpace(payload)
	if payload == doneSentinel {
		return nil
	}
	if len(f.sseData) == 0 && strings.HasPrefix(payload, "{") && json.Valid([]byte(payload)) {
		return f.parseLine(payload)
	}
	f.sseData = append(f.sseData, payload)
	return nil
}

// flushSSE joins the accumulated data: lines into one parse attempt.
func (f *Framer) flushSSE() Chunk {
	if len(f.sseData) == 0 {
		return nil
	}
	payload := strings.Join(f.sseData, "\n")
	f.sseData = nil
	if payload == doneSentinel {
		return nil
	}
	return f.parseLine(payload)
}

// finish flushes state held back until the stream ended: a trailing SSE
// event with no closing blank line, or the unknown-mode buffer parsed once
// as a whole JSON document.
func (f *Framer) finish() Chunk {
	if f.finished {
		return nil
	}
	f.finished = true
	if f.mode == framingSSE {
		return f.flushSSE()
	}
	if f.mode == framingUnknown && len(f.buffered) > 0 {
		f.pending = ParseChunkDocument([]byte(strings.Join(f.buffered, "\n")))
		f.buffered = nil
	}
	return nil
}

// parseLine parses one payload as a chunk, skipping malformed input.
func (f *Framer) parseLine(payload string) Chunk {
	chunk, err := ParseChunk([]byte(payload))
	if err != nil {
		slog.Debug("skipping malformed chunk", "error", err)
		return nil
	}
	return chunk
}
