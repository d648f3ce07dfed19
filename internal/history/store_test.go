package history

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeDurable struct {
	rows     map[string][]string
	writeErr error
	writes   int
}

func (f *fakeDurable) LoadHeard(ctx context.Context, userKey string) ([]string, error) {
	return f.rows[userKey], nil
}

func (f *fakeDurable) MarkHeard(ctx context.Context, userKey, poiKey string, firstSeenAt time.Time) error {
	f.writes++
	if f.writeErr != nil {
		return f.writeErr
	}
	f.rows[userKey] = append(f.rows[userKey], poiKey)
	return nil
}

func TestHeardSetLoadsDurableRowsOnce(t *testing.T) {
	durable := &fakeDurable{rows: map[string][]string{"u1": {"poi-a", "poi-b"}}}
	store := New(durable)

	set := store.HeardSet(context.Background(), "u1")
	if len(set) != 2 {
		t.Fatalf("expected 2 heard pois, got %d", len(set))
	}

	durable.rows["u1"] = append(durable.rows["u1"], "poi-c")
	set2 := store.HeardSet(context.Background(), "u1")
	if len(set2) != 2 {
		t.Fatalf("expected memory-served set to stay at 2 after durable mutated out of band, got %d", len(set2))
	}
}

func TestMarkHeardIsIdempotent(t *testing.T) {
	durable := &fakeDurable{rows: map[string][]string{}}
	store := New(durable)

	store.MarkHeard(context.Background(), "u1", "poi-a")
	store.MarkHeard(context.Background(), "u1", "poi-a")

	if durable.writes != 1 {
		t.Fatalf("expected exactly 1 durable write for a repeated mark, got %d", durable.writes)
	}
	set := store.HeardSet(context.Background(), "u1")
	if _, ok := set["poi-a"]; !ok {
		t.Fatalf("expected poi-a in heard set")
	}
}

func TestMarkHeardSurvivesDurableFailure(t *testing.T) {
	durable := &fakeDurable{rows: map[string][]string{}, writeErr: errors.New("connection reset")}
	store := New(durable)

	store.MarkHeard(context.Background(), "u1", "poi-a")

	set := store.HeardSet(context.Background(), "u1")
	if _, ok := set["poi-a"]; !ok {
		t.Fatalf("expected memory state to remain authoritative despite durable write failure")
	}
}

func TestNilDurableIsMemoryOnly(t *testing.T) {
	store := New(nil)
	store.MarkHeard(context.Background(), "u1", "poi-a")
	set := store.HeardSet(context.Background(), "u1")
	if len(set) != 1 {
		t.Fatalf("expected 1 heard poi in memory-only mode, got %d", len(set))
	}
}
