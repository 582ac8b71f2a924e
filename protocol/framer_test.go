package protocol

import (
	"context"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

// collect drains a framer into a slice, failing the test on any error other
// than io.EOF.
func collect(t *testing.T, f *Framer) []Chunk {
	t.Helper()
	var chunks []Chunk
	for {
		chunk, err := f.Next(context.Background())
		if err == io.EOF {
			return chunks
		}
		if err != nil {
			t.Fatalf("unexpected framer error: %v", err)
		}
		chunks = append(chunks, chunk)
	}
}

func TestFramer_NDJSON(t *testing.T) {
	body := `{"type":"task_id","task_id":"t1"}
{"type":"markdown","content":"a"}

{"type":"markdown","content":"b"}
`
	chunks := collect(t, NewFramer(strings.NewReader(body)))
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if c, ok := chunks[0].(TaskIDChunk); !ok || c.TaskID != "t1" {
		t.Errorf("unexpected first chunk: %#v", chunks[0])
	}
	if c, ok := chunks[2].(MarkdownChunk); !ok || c.Content != "b" {
		t.Errorf("unexpected last chunk: %#v", chunks[2])
	}
}

func TestFramer_NDJSONMalformedLineSkipped(t *testing.T) {
	body := `{"type":"markdown","content":"a"}
{"type":"markdown","content":
{"type":"markdown","content":"b"}
`
	chunks := collect(t, NewFramer(strings.NewReader(body)))
	if len(chunks) != 2 {
		t.Fatalf("expected malformed line to be skipped, got %d chunks", len(chunks))
	}
}

// Framing does not depend on delivery boundaries: a byte-at-a-time reader
// yields the same chunks as a single read.
func TestFramer_NDJSONDeliveryBoundaries(t *testing.T) {
	body := `{"type":"markdown","content":"a"}
{"type":"markdown","content":"b"}
`
	whole := collect(t, NewFramer(strings.NewReader(body)))
	byByte := collect(t, NewFramer(iotest.OneByteReader(strings.NewReader(body))))
	if len(whole) != 2 || len(byByte) != 2 {
		t.Fatalf("expected 2 chunks from both deliveries, got %d and %d", len(whole), len(byByte))
	}
	for i := range whole {
		a := whole[i].(MarkdownChunk)
		b := byByte[i].(MarkdownChunk)
		if a.Content != b.Content {
			t.Errorf("chunk %d differs: %q vs %q", i, a.Content, b.Content)
		}
	}
}

func TestFramer_SSEMultiLineJoin(t *testing.T) {
	body := "data: {\"type\":\"markdown\",\ndata: \"content\":\"joined\"}\n\n"
	chunks := collect(t, NewFramer(strings.NewReader(body)))
	if len(chunks) != 1 {
		t.Fatalf("expected exactly 1 chunk from joined payload, got %d", len(chunks))
	}
	c, ok := chunks[0].(MarkdownChunk)
	if !ok {
		t.Fatalf("expected MarkdownChunk, got %T", chunks[0])
	}
	if c.Content != "joined" {
		t.Errorf("expected content 'joined', got %q", c.Content)
	}
}

func TestFramer_SSEImmediateFlush(t *testing.T) {
	// Complete single-line objects flush without waiting for the blank
	// separator.
	body := "data: {\"type\":\"markdown\",\"content\":\"a\"}\ndata: {\"type\":\"markdown\",\"content\":\"b\"}\n"
	chunks := collect(t, NewFramer(strings.NewReader(body)))
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
}

func TestFramer_SSEDoneSentinel(t *testing.T) {
	body := "data: [DONE]\n\n"
	chunks := collect(t, NewFramer(strings.NewReader(body)))
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks for [DONE], got %d", len(chunks))
	}
}

func TestFramer_SSEIgnoresNonDataFields(t *testing.T) {
	body := "event: message\nid: 3\ndata: {\"type\":\"markdown\",\"content\":\"x\"}\n\n"
	chunks := collect(t, NewFramer(strings.NewReader(body)))
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
}

func TestFramer_SSETrailingEventWithoutBlankLine(t *testing.T) {
	body := "data: {\"type\":\"markdown\",\ndata: \"content\":\"tail\"}"
	chunks := collect(t, NewFramer(strings.NewReader(body)))
	if len(chunks) != 1 {
		t.Fatalf("expected trailing event flushed at EOF, got %d chunks", len(chunks))
	}
}

func TestFramer_BufferedJSONArrayDocument(t *testing.T) {
	body := `[{"type":"task_id","task_id":"t"},{"type":"markdown","content":"doc"}]`
	chunks := collect(t, NewFramer(strings.NewReader(body)))
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks from buffered document, got %d", len(chunks))
	}
}

func TestFramer_BufferedGarbageYieldsNothing(t *testing.T) {
	body := "some html error page\nmore text\n"
	chunks := collect(t, NewFramer(strings.NewReader(body)))
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks for garbage, got %d", len(chunks))
	}
}

func TestFramer_CRLFLines(t *testing.T) {
	body := "data: {\"type\":\"markdown\",\"content\":\"x\"}\r\n\r\n"
	chunks := collect(t, NewFramer(strings.NewReader(body)))
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk with CRLF framing, got %d", len(chunks))
	}
}

func TestFramer_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFramer(strings.NewReader(`{"type":"markdown","content":"x"}`))
	if _, err := f.Next(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
