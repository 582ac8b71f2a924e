package assistant

import "time"

// EntitySource ranks how authoritative an entity delta is. Card-sourced
// entities always win over tool-observation entities for the same identity.
type EntitySource int

const (
	// SourceToolObservation marks provisional entities recovered from a
	// tool observation payload.
	SourceToolObservation EntitySource = iota
	// SourceCard marks entities delivered by a card chunk.
	SourceCard
)

// entity is implemented by all four entity kinds so the reducer can upsert
// them generically.
type entity interface {
	Identity() string
	origin() EntitySource
}

// ScheduleEvent is one calendar entry extracted from the stream.
type ScheduleEvent struct {
	ID              string
	RemoteID        string
	Title           string
	Location        string
	Notes           string
	StartTime       time.Time
	EndTime         time.Time
	EndTimeProvided bool
	Source          EntitySource
}

// Identity returns the remote identifier when present, else the locally
// generated one.
func (e ScheduleEvent) Identity() string {
	if e.RemoteID != "" {
		return e.RemoteID
	}
	return e.ID
}

func (e ScheduleEvent) origin() EntitySource { return e.Source }

// Contact is one address-book entry extracted from the stream.
type Contact struct {
	ID         string
	RemoteID   string
	Name       string
	Phone      string
	Email      string
	Company    string
	Position   string
	Impression string
	Source     EntitySource
}

// Identity returns the remote identifier when present, else the locally
// generated one.
func (c Contact) Identity() string {
	if c.RemoteID != "" {
		return c.RemoteID
	}
	return c.ID
}

func (c Contact) origin() EntitySource { return c.Source }

// Invoice is one invoice record extracted from the stream. Amount stays a
// string because the backend sends it in inconsistent numeric shapes.
type Invoice struct {
	ID       string
	RemoteID string
	Title    string
	Amount   string
	Remark   string
	IssuedAt time.Time
	Source   EntitySource
}

// Identity returns the remote identifier when present, else the locally
// generated one.
func (i Invoice) Identity() string {
	if i.RemoteID != "" {
		return i.RemoteID
	}
	return i.ID
}

func (i Invoice) origin() EntitySource { return i.Source }

// Meeting is one meeting record extracted from the stream.
type Meeting struct {
	ID              string
	RemoteID        string
	Title           string
	Location        string
	Participants    string
	Summary         string
	StartTime       time.Time
	EndTime         time.Time
	EndTimeProvided bool
	Source          EntitySource
}

// Identity returns the remote identifier when present, else the locally
// generated one.
func (m Meeting) Identity() string {
	if m.RemoteID != "" {
		return m.RemoteID
	}
	return m.ID
}

func (m Meeting) origin() EntitySource { return m.Source }
