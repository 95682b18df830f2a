package slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/edvros/viewgate-go/internal/core/domain"
)

// storeContract runs the behavior every backend must share.
func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	// Unknown session loads as logged out.
	p, err := store.Load(ctx, "sess-unknown")
	if err != nil {
		t.Fatalf("Load(unknown) error: %v", err)
	}
	if !p.Current.IsNull() || !p.Last.IsNull() {
		t.Errorf("unknown session pair = %+v, want null", p)
	}

	// Save then load round-trips.
	want := Pair{Current: "vgtk_current", Last: "vgtk_last"}
	if err := store.Save(ctx, "sess-1", want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	p, err = store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if p != want {
		t.Errorf("pair = %+v, want %+v", p, want)
	}

	// Empty slots normalize to the sentinel.
	if err := store.Save(ctx, "sess-2", Pair{}); err != nil {
		t.Fatalf("Save(empty) error: %v", err)
	}
	p, err = store.Load(ctx, "sess-2")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !p.Current.IsNull() || !p.Last.IsNull() {
		t.Errorf("empty pair = %+v, want null sentinel", p)
	}

	// Empty session ID is rejected.
	if err := store.Save(ctx, "", want); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("Save(empty id) err = %v", err)
	}

	// Delete removes, and deleting again is fine.
	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	p, err = store.Load(ctx, "sess-1")
	if err != nil || !p.Current.IsNull() {
		t.Errorf("post-delete load = (%+v, %v)", p, err)
	}
	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Errorf("double delete error: %v", err)
	}
}

func TestMemoryStoreContract(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	storeContract(t, store)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	if err := store.Save(ctx, "sess-1", Pair{Current: "vgtk_x", Last: "vgtk_x"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	p, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !p.Current.IsNull() {
		t.Errorf("expired pair = %+v", p)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Save(ctx, id, NullPair()); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	time.Sleep(20 * time.Millisecond)

	if removed := store.Sweep(); removed != 3 {
		t.Errorf("Sweep() = %d, want 3", removed)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

func TestRedisStoreContract(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisStore(context.Background(), RedisConfig{Addr: mr.Addr(), TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewRedisStore() error: %v", err)
	}
	defer store.Close()

	storeContract(t, store)
}

func TestRedisStoreExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, err := NewRedisStore(ctx, RedisConfig{Addr: mr.Addr(), TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewRedisStore() error: %v", err)
	}
	defer store.Close()

	if err := store.Save(ctx, "sess-1", Pair{Current: "vgtk_x", Last: "vgtk_x"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	p, err := store.Load(ctx, "sess-1")
	if err != nil || !p.Current.IsNull() {
		t.Errorf("expired load = (%+v, %v)", p, err)
	}
}

func TestRedisStoreCorruptEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, err := NewRedisStore(ctx, RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedisStore() error: %v", err)
	}
	defer store.Close()

	mr.Set(redisKeyPrefix+"sess-1", "{not json")

	p, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !p.Current.IsNull() {
		t.Errorf("corrupt entry pair = %+v, want null", p)
	}
}

func TestRedisStoreConnectFailure(t *testing.T) {
	_, err := NewRedisStore(context.Background(), RedisConfig{Addr: "127.0.0.1:1"})
	if !errors.Is(err, domain.ErrStorageError) {
		t.Errorf("err = %v, want ErrStorageError", err)
	}

	_, err = NewRedisStore(context.Background(), RedisConfig{})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("missing addr err = %v", err)
	}
}

func TestBadgerStoreContract(t *testing.T) {
	store, err := NewBadgerStore(BadgerConfig{InMemory: true, TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewBadgerStore() error: %v", err)
	}
	defer store.Close()

	storeContract(t, store)
}

func TestBadgerStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewBadgerStore(BadgerConfig{Dir: dir, TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewBadgerStore() error: %v", err)
	}
	want := Pair{Current: "vgtk_x", Last: "vgtk_x"}
	if err := store.Save(ctx, "sess-1", want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	store, err = NewBadgerStore(BadgerConfig{Dir: dir, TTL: time.Hour})
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer store.Close()

	p, err := store.Load(ctx, "sess-1")
	if err != nil || p != want {
		t.Errorf("reopened load = (%+v, %v), want %+v", p, err, want)
	}
}

func TestBadgerStoreRequiresDir(t *testing.T) {
	_, err := NewBadgerStore(BadgerConfig{})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}
