package calls

// FilterState is the user's current filter selection.
// An empty field means "no filter" for that dimension.
type FilterState struct {
	CallType  CallType  `json:"call_type"`
	Direction Direction `json:"direction"`
}

// Option is one entry of a filter select input.
type Option struct {
	Value string
	Label string
}

var CallTypeOptions = []Option{
	{Value: "", Label: "All"},
	{Value: string(CallTypeAnswered), Label: "Answered"},
	{Value: string(CallTypeMissed), Label: "Missed"},
	{Value: string(CallTypeVoicemail), Label: "Voicemail"},
}

var DirectionOptions = []Option{
	{Value: "", Label: "All"},
	{Value: string(DirectionInbound), Label: "Inbound"},
	{Value: string(DirectionOutbound), Label: "Outbound"},
}

// ParseFilterState maps raw query values onto the fixed option sets.
// Anything outside those sets is treated as no filter.
func ParseFilterState(callType, direction string) FilterState {
	var fs FilterState
	if hasOption(CallTypeOptions, callType) {
		fs.CallType = CallType(callType)
	}
	if hasOption(DirectionOptions, direction) {
		fs.Direction = Direction(direction)
	}
	return fs
}

// IsZero reports whether no filter is selected.
func (fs FilterState) IsZero() bool {
	return fs.CallType == "" && fs.Direction == ""
}

// Match reports whether c passes both filters.
func (fs FilterState) Match(c Call) bool {
	if fs.CallType != "" && c.CallType != fs.CallType {
		return false
	}
	if fs.Direction != "" && c.Direction != fs.Direction {
		return false
	}
	return true
}

// Filter returns the calls matching fs, in input order.
// The input slice is never modified.
func Filter(in []Call, fs FilterState) []Call {
	out := make([]Call, 0, len(in))
	for _, c := range in {
		if fs.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

func hasOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}
