package calls

import "time"

// Call is a single phone call record as returned by the call source.
//
// Calls are immutable once fetched. Filtering and grouping build new slices
// and never write into a Call.
type Call struct {
	ID        string    `json:"id"`
	CallType  CallType  `json:"call_type"`
	Direction Direction `json:"direction"`

	From string `json:"from"`
	To   string `json:"to"`
	Via  string `json:"via,omitempty"`

	// Duration is the call duration in milliseconds.
	Duration int64 `json:"duration"`

	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`

	// Notes is nil when the source did not return a notes list. An empty list
	// must survive a JSON round trip as [], not as a missing key.
	Notes []Note `json:"notes"`
}

type Note struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type CallType string

const (
	CallTypeAnswered  CallType = "answered"
	CallTypeMissed    CallType = "missed"
	CallTypeVoicemail CallType = "voicemail"
)

type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// Title is the row heading shown for a call.
func (c Call) Title() string {
	switch c.CallType {
	case CallTypeMissed:
		return "Missed call"
	case CallTypeAnswered:
		return "Call answered"
	default:
		return "Voicemail"
	}
}

// Subtitle names the other party: the caller for inbound calls, the callee otherwise.
func (c Call) Subtitle() string {
	if c.Direction == DirectionInbound {
		return "from " + c.From
	}
	return "to " + c.To
}

// DurationSeconds truncates Duration to whole seconds.
func (c Call) DurationSeconds() int64 {
	return c.Duration / 1000
}
