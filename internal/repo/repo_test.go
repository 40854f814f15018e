package repo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"binduty-service/internal/store"
)

func newStore(t *testing.T) store.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &store.Redis{Client: client}
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

var ctx = context.Background()
