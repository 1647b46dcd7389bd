package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"spamwatch-admin/models"
)

func stores(t *testing.T) map[string]ViewStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]ViewStore{
		"memory": NewMemoryViewStore(time.Minute),
		"redis":  NewRedisViewStore(client, time.Minute),
	}
}

func msgs(ids ...int) []models.Message {
	out := make([]models.Message, len(ids))
	for i, id := range ids {
		out[i] = models.Message{ID: id, User: models.MessageUser{Name: "u"}, Type: models.MessageTypeEmail, Confidence: 0.5}
	}
	return out
}

func ids(ms []models.Message) []int {
	out := make([]int, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestViewStoreLifecycle(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			v, err := store.Create(ctx, "v1", models.DefaultFilters())
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if !v.Loading || v.Loaded || len(v.Records) != 0 {
				t.Fatalf("new view should be loading and empty: %+v", v)
			}

			v, err = store.Begin(ctx, "v1", models.DefaultFilters())
			if err != nil || v.IssuedSeq != 1 {
				t.Fatalf("Begin() = %+v, %v", v, err)
			}

			if v.Current(models.DefaultFilters()) {
				t.Error("view with a fetch in flight should not be current")
			}

			v, applied, err := store.Apply(ctx, "v1", 1, models.DefaultFilters(), msgs(3, 1, 2))
			if err != nil || !applied {
				t.Fatalf("Apply() = %v, %v", applied, err)
			}
			if v.Loading || !v.Loaded {
				t.Errorf("view should be ready: %+v", v)
			}
			if !v.Current(models.DefaultFilters()) {
				t.Errorf("view should be current for its applied filters: %+v", v)
			}
			if got := ids(v.Records); len(got) != 3 || got[0] != 3 || got[1] != 1 || got[2] != 2 {
				t.Errorf("records = %v, want backend order [3 1 2]", got)
			}

			got, err := store.Get(ctx, "v1")
			if err != nil || len(got.Records) != 3 || got.AppliedSeq != 1 {
				t.Errorf("Get() = %+v, %v", got, err)
			}
		})
	}
}

func TestViewStoreDiscardsStaleResults(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			store.Create(ctx, "v", models.DefaultFilters())
			store.Begin(ctx, "v", models.DefaultFilters())
			spamOnly := models.DefaultFilters().Set(models.FieldIsSpam, "true")
			v, _ := store.Begin(ctx, "v", spamOnly)
			if v.IssuedSeq != 2 || v.Filters != spamOnly {
				t.Fatalf("second Begin() = %+v", v)
			}

			// The later request resolves first.
			v, applied, _ := store.Apply(ctx, "v", 2, spamOnly, msgs(10))
			if !applied || v.Loading {
				t.Fatalf("newest result not applied: %+v", v)
			}

			// The slow earlier request must not overwrite fresher data.
			v, applied, _ = store.Apply(ctx, "v", 1, models.DefaultFilters(), msgs(1, 2, 3))
			if applied {
				t.Error("stale result was applied")
			}
			if v.AppliedFilters != spamOnly {
				t.Errorf("applied filters = %+v, want %+v", v.AppliedFilters, spamOnly)
			}
			if got := ids(v.Records); len(got) != 1 || got[0] != 10 {
				t.Errorf("records = %v, want [10]", got)
			}
		})
	}
}

func TestViewStoreFailKeepsRecords(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			store.Create(ctx, "v", models.DefaultFilters())
			store.Begin(ctx, "v", models.DefaultFilters())
			store.Apply(ctx, "v", 1, models.DefaultFilters(), msgs(1, 2))

			smsOnly := models.DefaultFilters().Set(models.FieldType, "sms")
			store.Begin(ctx, "v", smsOnly)
			v, applied, err := store.Fail(ctx, "v", 2)
			if err != nil || !applied {
				t.Fatalf("Fail() = %v, %v", applied, err)
			}
			if v.Loading {
				t.Error("loading not cleared after failure")
			}
			if got := ids(v.Records); len(got) != 2 {
				t.Errorf("records = %v, want previous [1 2]", got)
			}
			// The held rows still answer the old selection.
			if v.Filters != smsOnly || v.AppliedFilters != models.DefaultFilters() {
				t.Errorf("filters = %+v, applied = %+v", v.Filters, v.AppliedFilters)
			}
			if v.Current(smsOnly) {
				t.Error("failed selection should not be current")
			}
		})
	}
}

func TestViewStoreOlderResultKeepsLoading(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			store.Create(ctx, "v", models.DefaultFilters())
			store.Begin(ctx, "v", models.DefaultFilters())
			store.Begin(ctx, "v", models.DefaultFilters())

			v, applied, _ := store.Apply(ctx, "v", 1, models.DefaultFilters(), msgs(5))
			if !applied {
				t.Fatal("older result should apply while nothing newer has resolved")
			}
			if !v.Loading {
				t.Error("view should stay loading while a newer fetch is in flight")
			}
		})
	}
}

func TestViewStoreUnknownView(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrViewNotFound) {
				t.Errorf("Get() error = %v", err)
			}
			if _, err := store.Begin(ctx, "missing", models.DefaultFilters()); !errors.Is(err, ErrViewNotFound) {
				t.Errorf("Begin() error = %v", err)
			}
			if _, _, err := store.Apply(ctx, "missing", 1, models.DefaultFilters(), nil); !errors.Is(err, ErrViewNotFound) {
				t.Errorf("Apply() error = %v", err)
			}
		})
	}
}

func TestRedisViewExpires(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisViewStore(client, time.Minute)
	store.Create(ctx, "v", models.DefaultFilters())

	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(ctx, "v"); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("Get() after expiry error = %v, want ErrViewNotFound", err)
	}
}
