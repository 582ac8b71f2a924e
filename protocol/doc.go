// Package protocol defines the wire format of the MolyMemo assistant
// backend: the chunk types carried in a streamed chat response, and the
// Framer that decodes one response body into discrete chunks regardless of
// which framing (NDJSON, SSE, or a single buffered JSON document) the
// backend chose for that reply.
package protocol
