package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"call-history/internal/auth"
	"call-history/internal/calls"
)

const paginatedCallsQuery = `query paginatedCalls($offset: Float = 0, $limit: Float = 10) {
  paginatedCalls(offset: $offset, limit: $limit) {
    nodes {
      id
      direction
      from
      to
      duration
      via
      is_archived
      call_type
      created_at
      notes {
        id
        content
      }
    }
    totalCount
    hasNextPage
  }
}`

// GraphQL fetches call pages from the remote call API.
type GraphQL struct {
	endpoint   string
	tokens     auth.TokenSource
	httpClient *http.Client
}

func NewGraphQL(endpoint string, tokens auth.TokenSource, timeout time.Duration) *GraphQL {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if tokens == nil {
		tokens = auth.StaticToken("")
	}
	return &GraphQL{
		endpoint:   endpoint,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type gqlRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data *struct {
		PaginatedCalls *wirePage `json:"paginatedCalls"`
	} `json:"data"`
	Errors []gqlError `json:"errors"`
}

type wirePage struct {
	Nodes       []wireCall `json:"nodes"`
	TotalCount  int        `json:"totalCount"`
	HasNextPage bool       `json:"hasNextPage"`
}

type wireCall struct {
	ID         string       `json:"id"`
	Direction  string       `json:"direction"`
	From       string       `json:"from"`
	To         string       `json:"to"`
	Duration   float64      `json:"duration"`
	Via        string       `json:"via"`
	IsArchived bool         `json:"is_archived"`
	CallType   string       `json:"call_type"`
	CreatedAt  time.Time    `json:"created_at"`
	Notes      []calls.Note `json:"notes"`
}

func (w wireCall) toCall() calls.Call {
	return calls.Call{
		ID:         w.ID,
		CallType:   calls.CallType(w.CallType),
		Direction:  calls.Direction(w.Direction),
		From:       w.From,
		To:         w.To,
		Via:        w.Via,
		Duration:   int64(w.Duration),
		IsArchived: w.IsArchived,
		CreatedAt:  w.CreatedAt,
		Notes:      w.Notes,
	}
}

func (g *GraphQL) FetchPage(ctx context.Context, offset, limit int) (Page, error) {
	body, err := json.Marshal(gqlRequest{
		OperationName: "paginatedCalls",
		Query:         paginatedCallsQuery,
		Variables:     map[string]any{"offset": offset, "limit": limit},
	})
	if err != nil {
		return Page{}, fmt.Errorf("%w: encode request: %v", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return Page{}, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	tok, err := g.tokens.Token(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("%w: token: %v", ErrUpstream, err)
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Page{}, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Page{}, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		return Page{}, fmt.Errorf("%w: graphql: %s", ErrUpstream, strings.Join(msgs, "; "))
	}
	if out.Data == nil || out.Data.PaginatedCalls == nil {
		return Page{}, ErrNotFound
	}

	wp := out.Data.PaginatedCalls
	page := Page{
		TotalCount:  wp.TotalCount,
		HasNextPage: wp.HasNextPage,
		Nodes:       make([]calls.Call, 0, len(wp.Nodes)),
	}
	for _, n := range wp.Nodes {
		page.Nodes = append(page.Nodes, n.toCall())
	}
	return page, nil
}
