package paging

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// DefaultPageSize is the number of calls per page when none is chosen.
const DefaultPageSize = 25

// PageSizeOptions are the page sizes offered by the pagination control.
var PageSizeOptions = []int{10, 25, 50, 100}

// Params is the fetch window derived from navigation state.
type Params struct {
	ActivePage int `json:"active_page"`
	Offset     int `json:"offset"`
	Limit      int `json:"limit"`
}

// Resolve derives the active page and fetch window.
//
// An empty rawPage means page 1. Otherwise the leading integer of rawPage is
// used ("3abc" is page 3); input with no leading integer also falls back to 1.
// Out-of-range values are not corrected: page 0 yields a negative offset and
// callers must cope with that. Pages whose offset would overflow int are
// clamped to the largest representable window.
func Resolve(rawPage string, callsPerPage int) Params {
	page := 1
	if n, ok := parseLeadingInt(rawPage); ok {
		page = n
	}
	if callsPerPage > 0 {
		maxPage := math.MaxInt / callsPerPage
		page = min(max(page, 1-maxPage), maxPage)
	}
	return Params{
		ActivePage: page,
		Offset:     (page - 1) * callsPerPage,
		Limit:      callsPerPage,
	}
}

// ResolvePageSize parses a per-page value. Only the offered PageSizeOptions
// and def itself are accepted; anything else falls back to def.
func ResolvePageSize(raw string, def int) int {
	if def <= 0 {
		def = DefaultPageSize
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	if n != def && !containsInt(PageSizeOptions, n) {
		return def
	}
	return n
}

func parseLeadingInt(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	end := 0
	if s[0] == '-' || s[0] == '+' {
		end = 1
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if errors.Is(err, strconv.ErrRange) {
		// Atoi saturates at the int bounds.
		return n, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}
