package assistant

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dantetu1995723/MolyMemo-sub002/protocol"
)

// completionSentinel is the placeholder the backend emits when a tool flow
// finishes without narrative text. It is dropped rather than displayed.
const completionSentinel = "处理完成"

// Interpreter maps chunks to deltas. Its only state is classification
// bookkeeping (the tool-running flag); entity parsing itself is stateless.
type Interpreter struct {
	toolRunning bool
}

// NewInterpreter creates an interpreter for one stream.
func NewInterpreter() *Interpreter { return &Interpreter{} }

// Interpret converts one chunk into a Delta. Malformed or unrecognized
// content degrades to an empty delta, never an error.
func (in *Interpreter) Interpret(chunk protocol.Chunk) Delta {
	switch c := chunk.(type) {
	case protocol.TaskIDChunk:
		return Delta{TaskID: strings.TrimSpace(c.TaskID)}
	case protocol.MarkdownChunk:
		return Delta{Text: textFragment(c.Content)}
	case protocol.ToolChunk:
		return in.interpretTool(c)
	case protocol.CardChunk:
		return interpretCard(c)
	case protocol.UnknownChunk:
		return Delta{Text: textFragment(c.Content)}
	default:
		return Delta{}
	}
}

// textFragment trims a text payload and drops the completion sentinel.
func textFragment(s string) string {
	s = strings.TrimSpace(s)
	if s == completionSentinel {
		return ""
	}
	return s
}

// mutationToolPrefixes and mutationToolSubjects describe the tool name
// families that represent create/update flows for contacts and schedules.
var (
	mutationToolPrefixes = []string{"create_", "update_", "add_", "save_"}
	mutationToolSubjects = []string{"schedule", "contact", "event"}
)

func isMutationTool(name string) bool {
	name = strings.ToLower(name)
	for _, prefix := range mutationToolPrefixes {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		for _, subject := range mutationToolSubjects {
			if strings.Contains(rest, subject) {
				return true
			}
		}
	}
	return false
}

func (in *Interpreter) interpretTool(c protocol.ToolChunk) Delta {
	var d Delta
	if isMutationTool(c.Tool.Name) {
		switch strings.ToLower(c.Tool.Status) {
		case "start", "running", "pending":
			if !in.toolRunning {
				in.toolRunning = true
				d.ToolRunning = boolPtr(true)
			}
		case "success", "error", "failed", "failure":
			if in.toolRunning {
				in.toolRunning = false
				d.ToolRunning = boolPtr(false)
			}
		}
	}
	if strings.EqualFold(c.Tool.Status, "success") && c.Tool.Observation != "" {
		extractObservation(c.Tool.Name, c.Tool.Observation, &d)
	}
	return d
}

// extractObservation recovers a minimal entity from a successful tool's
// observation payload. These entities are provisional: they populate a slot
// only until a card for the same identity arrives.
func extractObservation(toolName, observation string, d *Delta) {
	var payload struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(observation), &payload); err != nil || len(payload.Data) == 0 {
		return
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(payload.Data, &obj); err != nil {
		return
	}

	name := strings.ToLower(toolName)
	switch {
	case strings.Contains(name, "contact"):
		if ct, ok := parseContact(obj, SourceToolObservation); ok {
			d.Contacts = append(d.Contacts, ct)
		}
	case strings.Contains(name, "schedule"), strings.Contains(name, "event"):
		if ev, ok := parseSchedule(obj, SourceToolObservation); ok {
			d.Schedules = append(d.Schedules, ev)
		}
	}
}

// interpretCard dispatches a card chunk to the parser for its card type.
// A card_id stands in as the remote identity when the payload is a single
// object that carries none of its own.
func interpretCard(c protocol.CardChunk) Delta {
	var d Delta
	objs := c.Data.Objects()
	applyCardID := c.CardID != "" && len(objs) == 1

	for _, obj := range objs {
		switch c.CardType {
		case protocol.CardTypeSchedule:
			if ev, ok := parseSchedule(obj, SourceCard); ok {
				if ev.RemoteID == "" && applyCardID {
					ev.RemoteID = c.CardID
				}
				d.Schedules = append(d.Schedules, ev)
			}
		case protocol.CardTypeContact:
			if ct, ok := parseContact(obj, SourceCard); ok {
				if ct.RemoteID == "" && applyCardID {
					ct.RemoteID = c.CardID
				}
				d.Contacts = append(d.Contacts, ct)
			}
		case protocol.CardTypeInvoice:
			if inv, ok := parseInvoice(obj, SourceCard); ok {
				if inv.RemoteID == "" && applyCardID {
					inv.RemoteID = c.CardID
				}
				d.Invoices = append(d.Invoices, inv)
			}
		case protocol.CardTypeMeeting:
			if mt, ok := parseMeeting(obj, SourceCard); ok {
				if mt.RemoteID == "" && applyCardID {
					mt.RemoteID = c.CardID
				}
				d.Meetings = append(d.Meetings, mt)
			}
		}
	}
	return d
}

func parseSchedule(m map[string]interface{}, source EntitySource) (ScheduleEvent, bool) {
	ev := ScheduleEvent{
		ID:       uuid.NewString(),
		RemoteID: stringField(m, "id", "schedule_id", "event_id", "remote_id", "remoteId"),
		Title:    stringField(m, "title", "name", "summary"),
		Location: stringField(m, "location", "place", "address"),
		Notes:    stringField(m, "notes", "note", "description", "content", "remark"),
		Source:   source,
	}
	start, ok := timestampField(m, "start_time", "startTime", "start", "begin_time")
	if !ok {
		start = time.Now().UTC()
	}
	ev.StartTime = start
	if end, ok := timestampField(m, "end_time", "endTime", "end", "finish_time"); ok {
		ev.EndTime = end
		ev.EndTimeProvided = true
	} else {
		// Absent is recorded distinctly: the UI must not fabricate a
		// default duration from an equal end time.
		ev.EndTime = ev.StartTime
	}
	return ev, ev.Title != "" || ev.RemoteID != ""
}

func parseContact(m map[string]interface{}, source EntitySource) (Contact, bool) {
	ct := Contact{
		ID:         uuid.NewString(),
		RemoteID:   stringField(m, "id", "contact_id", "remote_id", "remoteId"),
		Name:       stringField(m, "name", "contact_name"),
		Phone:      stringField(m, "phone", "phone_number", "mobile", "tel"),
		Email:      stringField(m, "email"),
		Company:    stringField(m, "company", "organization"),
		Position:   stringField(m, "position", "job_title", "role"),
		Impression: stringField(m, "impression", "notes", "note", "remark", "description"),
		Source:     source,
	}
	return ct, ct.Name != "" || ct.RemoteID != ""
}

func parseInvoice(m map[string]interface{}, source EntitySource) (Invoice, bool) {
	inv := Invoice{
		ID:       uuid.NewString(),
		RemoteID: stringField(m, "id", "invoice_id", "remote_id", "remoteId"),
		Title:    stringField(m, "title", "seller", "company", "name"),
		Amount:   stringField(m, "amount", "total_amount", "total", "money"),
		Remark:   stringField(m, "remark", "notes", "note", "description"),
		Source:   source,
	}
	if issued, ok := timestampField(m, "date", "invoice_date", "issued_at", "issue_date"); ok {
		inv.IssuedAt = issued
	}
	return inv, inv.Title != "" || inv.Amount != "" || inv.RemoteID != ""
}

func parseMeeting(m map[string]interface{}, source EntitySource) (Meeting, bool) {
	mt := Meeting{
		ID:           uuid.NewString(),
		RemoteID:     stringField(m, "id", "meeting_id", "remote_id", "remoteId"),
		Title:        stringField(m, "title", "name", "subject"),
		Location:     stringField(m, "location", "place", "address", "room"),
		Participants: stringField(m, "participants", "attendees", "members"),
		Summary:      stringField(m, "summary", "minutes", "content", "notes"),
		Source:       source,
	}
	start, ok := timestampField(m, "start_time", "startTime", "start", "begin_time")
	if !ok {
		start = time.Now().UTC()
	}
	mt.StartTime = start
	if end, ok := timestampField(m, "end_time", "endTime", "end", "finish_time"); ok {
		mt.EndTime = end
		mt.EndTimeProvided = true
	} else {
		mt.EndTime = mt.StartTime
	}
	return mt, mt.Title != "" || mt.RemoteID != ""
}

func boolPtr(b bool) *bool { return &b }
