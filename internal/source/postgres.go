package source

import (
	"context"
	"database/sql"
	"fmt"

	"call-history/internal/calls"
	"call-history/pkg/utils"
)

// Postgres reads call pages from a local replica of the call store.
//
// Expected tables:
//   calls(id, direction, "from", "to", duration, via, is_archived, call_type, created_at)
//   notes(id, call_id, content, created_at)
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const (
	countCallsSQL = `SELECT count(*) FROM calls`

	pageCallsSQL = `
SELECT id, direction, "from", "to", duration, via, is_archived, call_type, created_at
FROM calls
ORDER BY created_at DESC, id
OFFSET $1 LIMIT $2
`

	notesForCallsSQL = `
SELECT call_id, id, content
FROM notes
WHERE call_id = ANY($1)
ORDER BY created_at, id
`
)

func (p *Postgres) FetchPage(ctx context.Context, offset, limit int) (Page, error) {
	if offset < 0 || limit <= 0 {
		return Page{}, fmt.Errorf("%w: offset=%d limit=%d", ErrInvalidWindow, offset, limit)
	}
	if p.db == nil {
		return Page{}, fmt.Errorf("%w: database not configured", ErrUpstream)
	}

	var page Page
	err := utils.WithTx(ctx, p.db, utils.ReadSnapshot, func(ctx context.Context, tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, countCallsSQL).Scan(&page.TotalCount); err != nil {
			return err
		}

		nodes, err := scanCalls(ctx, tx, offset, limit)
		if err != nil {
			return err
		}
		if err := attachNotes(ctx, tx, nodes); err != nil {
			return err
		}
		page.Nodes = nodes
		return nil
	})
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	page.HasNextPage = offset+len(page.Nodes) < page.TotalCount
	return page, nil
}

func scanCalls(ctx context.Context, tx *sql.Tx, offset, limit int) ([]calls.Call, error) {
	rows, err := tx.QueryContext(ctx, pageCallsSQL, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []calls.Call{}
	for rows.Next() {
		var (
			c         calls.Call
			callType  string
			direction string
			via       sql.NullString
		)
		if err := rows.Scan(&c.ID, &direction, &c.From, &c.To, &c.Duration, &via, &c.IsArchived, &callType, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.CallType = calls.CallType(callType)
		c.Direction = calls.Direction(direction)
		c.Via = via.String
		// The API always returns a notes list; mirror that so rows render alike.
		c.Notes = []calls.Note{}
		out = append(out, c)
	}
	return out, rows.Err()
}

func attachNotes(ctx context.Context, tx *sql.Tx, nodes []calls.Call) error {
	if len(nodes) == 0 {
		return nil
	}
	ids := make([]string, 0, len(nodes))
	byID := make(map[string]int, len(nodes))
	for i, c := range nodes {
		ids = append(ids, c.ID)
		byID[c.ID] = i
	}

	rows, err := tx.QueryContext(ctx, notesForCallsSQL, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var callID string
		var n calls.Note
		if err := rows.Scan(&callID, &n.ID, &n.Content); err != nil {
			return err
		}
		if i, ok := byID[callID]; ok {
			nodes[i].Notes = append(nodes[i].Notes, n)
		}
	}
	return rows.Err()
}
