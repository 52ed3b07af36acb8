package source

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"call-history/internal/calls"

	"github.com/redis/go-redis/v9"
)

func TestMemoryCache_ExpiresEntries(t *testing.T) {
	c := NewMemoryCache()
	now := time.Unix(1700000000, 0)
	c.now = func() time.Time { return now }

	key := Key{Offset: 0, Limit: 25}
	if err := c.Set(context.Background(), key, Page{TotalCount: 3}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	p, ok, _ := c.Get(context.Background(), key)
	if !ok || p.TotalCount != 3 {
		t.Fatalf("expected hit, got %v %+v", ok, p)
	}
	if _, ok, _ := c.Get(context.Background(), Key{Offset: 25, Limit: 25}); ok {
		t.Fatalf("expected miss for other key")
	}

	now = now.Add(time.Minute)
	if _, ok, _ := c.Get(context.Background(), key); ok {
		t.Fatalf("expected expiry")
	}
}

func TestMemoryCache_SetSweepsExpired(t *testing.T) {
	c := NewMemoryCache()
	now := time.Unix(1700000000, 0)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 50; i++ {
		if err := c.Set(ctx, Key{Offset: i * 25, Limit: 25}, Page{}, time.Minute); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	if len(c.entries) != 50 {
		t.Fatalf("expected 50 entries, got %d", len(c.entries))
	}

	now = now.Add(2 * time.Minute)
	if err := c.Set(ctx, Key{Offset: 0, Limit: 10}, Page{}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(c.entries) != 1 {
		t.Fatalf("expected expired entries to be swept, got %d", len(c.entries))
	}
}

func TestMemoryCache_EvictsClosestToExpiry(t *testing.T) {
	c := NewMemoryCache()
	c.maxEntries = 3
	now := time.Unix(1700000000, 0)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_ = c.Set(ctx, Key{Offset: i, Limit: 25}, Page{TotalCount: i}, time.Minute)
		now = now.Add(time.Second)
	}
	if len(c.entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(c.entries))
	}
	for i := 0; i < 2; i++ {
		if _, ok, _ := c.Get(ctx, Key{Offset: i, Limit: 25}); ok {
			t.Fatalf("expected key %d to be evicted", i)
		}
	}
	if p, ok, _ := c.Get(ctx, Key{Offset: 4, Limit: 25}); !ok || p.TotalCount != 4 {
		t.Fatalf("expected newest key to stay, got %v %+v", ok, p)
	}

	// Overwriting an existing key never evicts another one.
	_ = c.Set(ctx, Key{Offset: 4, Limit: 25}, Page{TotalCount: 40}, time.Minute)
	if len(c.entries) != 3 {
		t.Fatalf("expected 3 entries after overwrite, got %d", len(c.entries))
	}
}

func TestRedisCache_KeyPrefix(t *testing.T) {
	c := NewRedisCache(nil, "")
	if got := c.key(Key{Offset: 50, Limit: 25}); got != "call-history:calls:50:25" {
		t.Fatalf("unexpected redis key %q", got)
	}
}

// kvHook answers GET and SET in process so RedisCache runs without a server.
type kvHook struct {
	mu   sync.Mutex
	data map[string]string
	sets [][]any
}

func newKVClient(t *testing.T) (*redis.Client, *kvHook) {
	t.Helper()
	h := &kvHook{data: map[string]string{}}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	rdb.AddHook(h)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, h
}

func (h *kvHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, fmt.Errorf("dial disabled in tests")
	}
}

func (h *kvHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		return fmt.Errorf("pipelines not supported")
	}
}

func (h *kvHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.mu.Lock()
		defer h.mu.Unlock()

		args := cmd.Args()
		switch c := cmd.(type) {
		case *redis.StringCmd:
			v, ok := h.data[fmt.Sprint(args[1])]
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(v)
			return nil
		case *redis.StatusCmd:
			switch v := args[2].(type) {
			case []byte:
				h.data[fmt.Sprint(args[1])] = string(v)
			default:
				h.data[fmt.Sprint(args[1])] = fmt.Sprint(v)
			}
			h.sets = append(h.sets, args)
			c.SetVal("OK")
			return nil
		}
		err := fmt.Errorf("unexpected command %q", cmd.Name())
		cmd.SetErr(err)
		return err
	}
}

func TestRedisCache_RoundTrip(t *testing.T) {
	rdb, h := newKVClient(t)
	c := NewRedisCache(rdb, "")
	ctx := context.Background()
	key := Key{Offset: 25, Limit: 25}

	if _, ok, err := c.Get(ctx, key); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	created := time.Date(2022, 9, 16, 12, 0, 0, 0, time.UTC)
	in := Page{
		TotalCount:  30,
		HasNextPage: false,
		Nodes: []calls.Call{
			{ID: "1", CallType: calls.CallTypeMissed, Direction: calls.DirectionInbound, CreatedAt: created, Notes: []calls.Note{{ID: "n1", Content: "call back"}}},
			{ID: "2", CallType: calls.CallTypeAnswered, Direction: calls.DirectionOutbound, CreatedAt: created, Notes: []calls.Note{}},
			{ID: "3", CallType: calls.CallTypeVoicemail, Direction: calls.DirectionInbound, CreatedAt: created},
		},
	}
	if err := c.Set(ctx, key, in, 30*time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(h.sets) != 1 || len(h.sets[0]) != 5 || h.sets[0][1] != "call-history:calls:25:25" {
		t.Fatalf("unexpected SET args: %v", h.sets)
	}

	out, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if out.TotalCount != 30 || len(out.Nodes) != 3 {
		t.Fatalf("unexpected page: %+v", out)
	}
	if !out.Nodes[0].CreatedAt.Equal(created) || len(out.Nodes[0].Notes) != 1 {
		t.Fatalf("unexpected first call: %+v", out.Nodes[0])
	}
	if out.Nodes[1].Notes == nil || len(out.Nodes[1].Notes) != 0 {
		t.Fatalf("expected empty notes list to survive, got %#v", out.Nodes[1].Notes)
	}
	if out.Nodes[2].Notes != nil {
		t.Fatalf("expected missing notes to stay nil, got %#v", out.Nodes[2].Notes)
	}
}

func TestRedisCache_CorruptValueIsError(t *testing.T) {
	rdb, h := newKVClient(t)
	h.data["call-history:calls:0:25"] = "{not json"

	if _, ok, err := NewRedisCache(rdb, "").Get(context.Background(), Key{Offset: 0, Limit: 25}); ok || err == nil {
		t.Fatalf("expected decode error, got ok=%v err=%v", ok, err)
	}
}
