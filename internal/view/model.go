package view

import (
	"fmt"

	"call-history/internal/calls"
	"call-history/internal/navigation"
	"call-history/internal/paging"
	"call-history/internal/source"
)

const (
	msgLoading  = "Loading calls..."
	msgError    = "ERROR"
	msgNotFound = "Not found"
)

// Model is everything the call list screen renders, for HTML and JSON alike.
type Model struct {
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
	// Refresh asks the page to reload itself while a fetch is still running.
	Refresh bool `json:"-"`

	Params paging.Params     `json:"params"`
	Filter calls.FilterState `json:"filter"`

	CallTypeOptions  []SelectOption `json:"-"`
	DirectionOptions []SelectOption `json:"-"`

	Groups     []Group            `json:"groups"`
	Pagination *paging.Pagination `json:"pagination,omitempty"`
}

type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}

// Group is a date bucket; Date is the bucket key, not a per-row date.
type Group struct {
	Date string `json:"date"`
	Rows []Row  `json:"rows"`
}

type Row struct {
	Call calls.Call `json:"call"`

	URL      string `json:"url"`
	Icon     string `json:"icon"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Duration string `json:"duration"`
	Date     string `json:"date"`
	Notes    string `json:"notes,omitempty"`
}

// Builder turns fetch results into screen models.
type Builder struct {
	Dates calls.DateFormatter
	Nav   navigation.Navigator
}

// Build derives the model for one render. Loading, error and not-found
// states carry no list and no pagination; a ready page with a zero total
// count carries no pagination either.
func (b Builder) Build(params paging.Params, fs calls.FilterState, res source.Result) Model {
	m := Model{
		State:            res.State.String(),
		Params:           params,
		Filter:           fs,
		CallTypeOptions:  selectOptions(calls.CallTypeOptions, string(fs.CallType)),
		DirectionOptions: selectOptions(calls.DirectionOptions, string(fs.Direction)),
		Groups:           []Group{},
	}

	switch res.State {
	case source.StateLoading:
		m.Message = msgLoading
		m.Refresh = true
		return m
	case source.StateError:
		m.Message = msgError
		return m
	case source.StateNotFound:
		m.Message = msgNotFound
		return m
	}

	filtered := calls.Filter(res.Page.Nodes, fs)
	for _, g := range calls.GroupByDate(filtered, b.Dates.CallKey) {
		group := Group{Date: g.Key, Rows: make([]Row, 0, len(g.Calls))}
		for _, c := range g.Calls {
			group.Rows = append(group.Rows, b.row(c))
		}
		m.Groups = append(m.Groups, group)
	}

	m.Pagination = paging.NewPagination(params.ActivePage, params.Limit, res.Page.TotalCount, func(page, size int) string {
		return b.Nav.PageURL(page, size, fs)
	})
	return m
}

func (b Builder) row(c calls.Call) Row {
	r := Row{
		Call:     c,
		URL:      b.Nav.CallURL(c.ID),
		Icon:     string(calls.DirectionOutbound),
		Title:    c.Title(),
		Subtitle: c.Subtitle(),
		Duration: calls.FormatDuration(c.DurationSeconds()),
		Date:     b.Dates.FormatDate(c.CreatedAt),
	}
	if c.Direction == calls.DirectionInbound {
		r.Icon = string(calls.DirectionInbound)
	}
	if c.Notes != nil {
		r.Notes = fmt.Sprintf("Call has %d notes", len(c.Notes))
	}
	return r
}

func selectOptions(opts []calls.Option, selected string) []SelectOption {
	out := make([]SelectOption, 0, len(opts))
	for _, o := range opts {
		out = append(out, SelectOption{Value: o.Value, Label: o.Label, Selected: o.Value == selected})
	}
	return out
}
