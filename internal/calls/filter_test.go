package calls

import (
	"reflect"
	"testing"
)

func sampleCalls() []Call {
	return []Call{
		{ID: "1", CallType: CallTypeMissed, Direction: DirectionInbound},
		{ID: "2", CallType: CallTypeAnswered, Direction: DirectionOutbound},
		{ID: "3", CallType: CallTypeMissed, Direction: DirectionOutbound},
		{ID: "4", CallType: CallTypeVoicemail, Direction: DirectionInbound},
	}
}

func ids(in []Call) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		out = append(out, c.ID)
	}
	return out
}

func TestFilter_EmptyStateIsIdentity(t *testing.T) {
	in := sampleCalls()
	out := Filter(in, FilterState{})
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("expected identity, got %v", ids(out))
	}
}

func TestFilter_ByCallType(t *testing.T) {
	out := Filter(sampleCalls(), FilterState{CallType: CallTypeMissed})
	if got := ids(out); !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Fatalf("unexpected ids: %v", got)
	}
	for _, c := range out {
		if c.CallType != CallTypeMissed {
			t.Fatalf("unexpected call type %q", c.CallType)
		}
	}
}

func TestFilter_ByBothDimensions(t *testing.T) {
	out := Filter(sampleCalls(), FilterState{CallType: CallTypeMissed, Direction: DirectionOutbound})
	if got := ids(out); !reflect.DeepEqual(got, []string{"3"}) {
		t.Fatalf("unexpected ids: %v", got)
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	in := sampleCalls()
	before := ids(in)
	_ = Filter(in, FilterState{Direction: DirectionInbound})
	if !reflect.DeepEqual(before, ids(in)) {
		t.Fatalf("input was modified")
	}
}

func TestParseFilterState_DropsUnknownValues(t *testing.T) {
	fs := ParseFilterState("missed", "sideways")
	if fs.CallType != CallTypeMissed {
		t.Fatalf("expected missed, got %q", fs.CallType)
	}
	if fs.Direction != "" {
		t.Fatalf("expected empty direction, got %q", fs.Direction)
	}
	if !ParseFilterState("", "").IsZero() {
		t.Fatalf("expected zero state")
	}
}
