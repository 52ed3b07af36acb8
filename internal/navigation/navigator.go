package navigation

import (
	"net/url"
	"strconv"
	"strings"

	"call-history/internal/calls"
)

// Navigator is the write side of URL state. The page number lives in the URL;
// the HTTP layer reads it and passes it in explicitly.
type Navigator interface {
	PageURL(page, perPage int, fs calls.FilterState) string
	CallURL(callID string) string
}

// PathNavigator targets /calls/?page={n} and /calls/{id}.
// per_page and the filters are only added when they differ from their defaults.
type PathNavigator struct {
	Base           string
	DefaultPerPage int
}

func NewPathNavigator(defaultPerPage int) PathNavigator {
	return PathNavigator{Base: "/calls/", DefaultPerPage: defaultPerPage}
}

func (n PathNavigator) PageURL(page, perPage int, fs calls.FilterState) string {
	var b strings.Builder
	b.WriteString(n.base())
	b.WriteString("?page=")
	b.WriteString(strconv.Itoa(page))
	if perPage > 0 && perPage != n.DefaultPerPage {
		b.WriteString("&per_page=")
		b.WriteString(strconv.Itoa(perPage))
	}
	if fs.CallType != "" {
		b.WriteString("&call_type=")
		b.WriteString(url.QueryEscape(string(fs.CallType)))
	}
	if fs.Direction != "" {
		b.WriteString("&direction=")
		b.WriteString(url.QueryEscape(string(fs.Direction)))
	}
	return b.String()
}

func (n PathNavigator) CallURL(callID string) string {
	return n.base() + url.PathEscape(callID)
}

func (n PathNavigator) base() string {
	if n.Base == "" {
		return "/calls/"
	}
	return n.Base
}
