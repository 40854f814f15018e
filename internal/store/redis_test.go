package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"binduty-service/internal/models"
)

func newTestStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &Redis{Client: client}, mr
}

func TestGetMissingKey(t *testing.T) {
	s, _ := newTestStore(t)
	_, found, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("found = true for missing key")
	}
}

func TestJSONRoundTripThroughStore(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	if err := SetJSON(ctx, s, "list", []string{"a", "b"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got []string
	found, err := GetJSON(ctx, s, "list", &got)
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v", got)
	}
}

func TestGetJSONAcceptsDoubleEncodedValue(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Set("list", `"[\"x\"]"`)
	var got []string
	if _, err := GetJSON(context.Background(), s, "list", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0] != "x" {
		t.Fatalf("got %v, want [x]", got)
	}
}

func TestGetJSONRejectsWrongShape(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Set("list", `{"not":"a list"}`)
	var got []string
	_, err := GetJSON(context.Background(), s, "list", &got)
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestUpdateJSONAbortsOnCallbackError(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	if err := SetJSON(ctx, s, "n", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	boom := errors.New("boom")
	err := UpdateJSON(ctx, s, "n", func(n *int) error {
		*n = 99
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	var n int
	if _, err := GetJSON(ctx, s, "n", &n); err != nil {
		t.Fatalf("get: %v", err)
	}
	if n != 1 {
		t.Fatalf("n = %d, want unchanged 1", n)
	}
}

func TestConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			// Contention is expected; keep trying until committed.
			for attempt := 0; attempt < 20; attempt++ {
				err = UpdateJSON(ctx, s, "counter", func(n *int) error {
					*n++
					return nil
				})
				if !errors.Is(err, ErrContention) {
					break
				}
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	var n int
	if _, err := GetJSON(ctx, s, "counter", &n); err != nil {
		t.Fatalf("get: %v", err)
	}
	if n != writers {
		t.Fatalf("counter = %d, want %d", n, writers)
	}
}
