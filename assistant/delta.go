package assistant

// Delta is the interpreted result of one chunk: a text fragment, zero or
// more typed entities, a change to the tool-activity flag, and/or a task
// id. Deltas arrive in stream order; two deltas may describe the same
// entity at different completeness levels.
type Delta struct {
	TaskID      string
	Text        string
	ToolRunning *bool
	Schedules   []ScheduleEvent
	Contacts    []Contact
	Invoices    []Invoice
	Meetings    []Meeting
}

// Empty reports whether the delta carries nothing worth emitting.
func (d Delta) Empty() bool {
	return d.TaskID == "" && d.Text == "" && d.ToolRunning == nil &&
		len(d.Schedules) == 0 && len(d.Contacts) == 0 &&
		len(d.Invoices) == 0 && len(d.Meetings) == 0
}
