package assistant

import (
	"strings"

	"github.com/dantetu1995723/MolyMemo-sub002/protocol"
)

// StructuredOutput is the accumulated result of one streamed exchange.
// Each entity slice holds at most one entry per logical identity.
type StructuredOutput struct {
	TaskID    string
	Text      string
	Schedules []ScheduleEvent
	Contacts  []Contact
	Invoices  []Invoice
	Meetings  []Meeting
}

// Empty reports whether the output carries no usable text and no entities.
func (o StructuredOutput) Empty() bool {
	return o.Text == "" && len(o.Schedules) == 0 && len(o.Contacts) == 0 &&
		len(o.Invoices) == 0 && len(o.Meetings) == 0
}

// Reducer folds an ordered sequence of deltas into one StructuredOutput.
type Reducer struct {
	out       StructuredOutput
	fragments []string
}

// NewReducer creates a reducer for one stream.
func NewReducer() *Reducer { return &Reducer{} }

// Apply folds one delta into the accumulated state. Text fragments are
// collected in order; entities upsert by identity.
func (r *Reducer) Apply(d Delta) {
	if d.TaskID != "" {
		r.out.TaskID = d.TaskID
	}
	if d.Text != "" {
		r.fragments = append(r.fragments, d.Text)
	}
	for _, ev := range d.Schedules {
		r.out.Schedules = upsert(r.out.Schedules, ev)
	}
	for _, ct := range d.Contacts {
		r.out.Contacts = upsert(r.out.Contacts, ct)
	}
	for _, inv := range d.Invoices {
		r.out.Invoices = upsert(r.out.Invoices, inv)
	}
	for _, mt := range d.Meetings {
		r.out.Meetings = upsert(r.out.Meetings, mt)
	}
}

// Output returns the canonical result: fragments joined by blank lines and
// normalized into display text. Safe to call repeatedly as the stream
// progresses.
func (r *Reducer) Output() StructuredOutput {
	out := r.out
	out.Text = NormalizeMarkdown(strings.Join(r.fragments, "\n\n"))
	return out
}

// ReduceChunks replays a pre-parsed chunk set through a fresh interpreter
// and reducer. This drives the non-streaming path and the fallback pass
// when live accumulation yielded no usable text.
func ReduceChunks(chunks []protocol.Chunk) StructuredOutput {
	in := NewInterpreter()
	r := NewReducer()
	for _, c := range chunks {
		r.Apply(in.Interpret(c))
	}
	return r.Output()
}

// upsert inserts or replaces by identity. An incoming entity of equal or
// higher source priority replaces the stored one; a tool-observation entity
// never clobbers a card entity, regardless of arrival order. Duplicates are
// never appended.
func upsert[E entity](list []E, in E) []E {
	for i, cur := range list {
		if cur.Identity() != in.Identity() {
			continue
		}
		if in.origin() >= cur.origin() {
			list[i] = in
		}
		return list
	}
	return append(list, in)
}
