package protocol

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ChunkType discriminates between chunk kinds.
type ChunkType string

const (
	ChunkTypeTaskID   ChunkType = "task_id"
	ChunkTypeMarkdown ChunkType = "markdown"
	ChunkTypeTool     ChunkType = "tool"
	ChunkTypeCard     ChunkType = "card"
)

// CardType tags the entity kind carried by a card chunk.
type CardType string

const (
	CardTypeSchedule CardType = "schedule"
	CardTypeContact  CardType = "contact"
	CardTypeInvoice  CardType = "invoice"
	CardTypeMeeting  CardType = "meeting"
)

// Chunk is the interface for all streamed chunk kinds.
type Chunk interface {
	ChunkType() ChunkType
}

// TaskIDChunk carries the correlation id for the whole exchange.
type TaskIDChunk struct {
	Type   ChunkType `json:"type"`
	TaskID string    `json:"task_id"`
}

// ChunkType returns the chunk type.
func (c TaskIDChunk) ChunkType() ChunkType { return ChunkTypeTaskID }

// MarkdownChunk carries a plain text fragment.
type MarkdownChunk struct {
	Type    ChunkType `json:"type"`
	Content string    `json:"content"`
}

// ChunkType returns the chunk type.
func (c MarkdownChunk) ChunkType() ChunkType { return ChunkTypeMarkdown }

// ToolPayload is the nested object inside a tool chunk. Observation, when
// present, is itself a JSON-encoded string describing the tool result.
type ToolPayload struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Observation string `json:"observation,omitempty"`
}

// ToolChunk reports tool activity on the backend.
type ToolChunk struct {
	Type ChunkType   `json:"type"`
	Tool ToolPayload `json:"tool"`
}

// ChunkType returns the chunk type.
func (c ToolChunk) ChunkType() ChunkType { return ChunkTypeTool }

// CardChunk carries one or more structured domain entities.
type CardChunk struct {
	Type     ChunkType    `json:"type"`
	CardType CardType     `json:"card_type"`
	CardID   string       `json:"card_id,omitempty"`
	Data     FlexibleData `json:"data"`
}

// ChunkType returns the chunk type.
func (c CardChunk) ChunkType() ChunkType { return ChunkTypeCard }

// UnknownChunk preserves unrecognized chunk types. A plain string content
// field is still surfaced as opportunistic text.
type UnknownChunk struct {
	Type    ChunkType
	Content string
}

// ChunkType returns the chunk type.
func (c UnknownChunk) ChunkType() ChunkType { return c.Type }

// FlexibleData wraps a card payload that can be either a single object or
// an array of objects.
type FlexibleData struct {
	raw json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler.
func (fd *FlexibleData) UnmarshalJSON(data []byte) error {
	fd.raw = data
	return nil
}

// MarshalJSON implements json.Marshaler.
func (fd FlexibleData) MarshalJSON() ([]byte, error) {
	if fd.raw == nil {
		return []byte("null"), nil
	}
	return fd.raw, nil
}

// Objects returns the payload as a slice of objects: a single object yields
// one element, an array yields its object elements (non-objects are
// dropped), anything else yields nil.
func (fd FlexibleData) Objects() []map[string]interface{} {
	trimmed := bytes.TrimSpace(fd.raw)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '{':
		var obj map[string]interface{}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil
		}
		return []map[string]interface{}{obj}
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil
		}
		objs := make([]map[string]interface{}, 0, len(elems))
		for _, e := range elems {
			var obj map[string]interface{}
			if err := json.Unmarshal(e, &obj); err != nil {
				continue
			}
			objs = append(objs, obj)
		}
		return objs
	default:
		return nil
	}
}

// ParseChunk parses one chunk object. Unrecognized types come back as an
// UnknownChunk rather than an error; only malformed JSON is an error.
func ParseChunk(data []byte) (Chunk, error) {
	var base struct {
		Type    ChunkType       `json:"type"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, err
	}

	switch base.Type {
	case ChunkTypeTaskID:
		var c TaskIDChunk
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case ChunkTypeMarkdown:
		// content occasionally arrives as the wrong JSON kind; a lenient
		// read keeps one odd chunk from aborting the stream.
		return MarkdownChunk{Type: base.Type, Content: stringContent(base.Content)}, nil
	case ChunkTypeTool:
		var c ToolChunk
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case ChunkTypeCard:
		var c CardChunk
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return UnknownChunk{Type: base.Type, Content: stringContent(base.Content)}, nil
	}
}

// ParseChunkDocument parses a complete JSON document as a chunk set: an
// array yields one chunk per well-formed element, an object yields one
// chunk. Malformed elements are skipped.
func ParseChunkDocument(data []byte) []Chunk {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '[' {
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil
		}
		chunks := make([]Chunk, 0, len(elems))
		for _, e := range elems {
			if chunk, err := ParseChunk(e); err == nil {
				chunks = append(chunks, chunk)
			}
		}
		return chunks
	}
	chunk, err := ParseChunk(trimmed)
	if err != nil {
		return nil
	}
	return []Chunk{chunk}
}

// stringContent reads a raw content field as a string, tolerating absent or
// wrong-kind values.
func stringContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
