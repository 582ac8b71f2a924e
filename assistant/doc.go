// Package assistant is the client for the MolyMemo backend chat endpoint.
// It interprets streamed protocol chunks into typed deltas and reduces them
// into one stable, de-duplicated StructuredOutput that screens can render
// as it arrives.
package assistant
