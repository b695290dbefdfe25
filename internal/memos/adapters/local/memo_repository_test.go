package local_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoboard/internal/memos/adapters/kv"
	"memoboard/internal/memos/adapters/local"
	"memoboard/internal/memos/domain/entities"
	"memoboard/internal/memos/ports/storage"
)

var (
	t0 = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	errStoreDown = errors.New("store down")
)

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) { return "", false, errStoreDown }
func (brokenStore) Set(context.Context, string, string) error         { return errStoreDown }
func (brokenStore) Delete(context.Context, string) error              { return errStoreDown }
func (brokenStore) Close() error                                      { return nil }

func sqliteStore(t *testing.T) storage.KeyValueStore {
	t.Helper()
	store, err := kv.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "memos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func redisStore(t *testing.T) storage.KeyValueStore {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return kv.NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: s.Addr()}))
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newMemo(title string, at time.Time) *entities.Memo {
	return entities.NewMemo(entities.Draft{
		Title: title, Content: "content of " + title, Category: "work", Tags: []string{"x"},
	}, at)
}

func TestMemoRepository_Lifecycle(t *testing.T) {
	backends := map[string]func(*testing.T) storage.KeyValueStore{
		"sqlite": sqliteStore,
		"redis":  redisStore,
	}

	for name, backend := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := local.NewMemoRepository(backend(t), local.WithIDGenerator(sequentialIDs()))

			memos, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, memos)

			first, err := repo.Create(ctx, newMemo("first", t0))
			require.NoError(t, err)
			assert.Equal(t, "id-1", first.ID)
			second, err := repo.Create(ctx, newMemo("second", t0.Add(time.Hour)))
			require.NoError(t, err)

			memos, err = repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, memos, 2)
			assert.Equal(t, second.ID, memos[0].ID)
			assert.Equal(t, first.ID, memos[1].ID)

			require.NoError(t, repo.AttachSummary(ctx, first.ID, "summary"))
			edit := first.Clone()
			edit.Title = "first edited"
			edit.UpdatedAt = t0.Add(2 * time.Hour)
			updated, err := repo.Update(ctx, edit)
			require.NoError(t, err)
			assert.Equal(t, "first edited", updated.Title)
			assert.Equal(t, first.CreatedAt, updated.CreatedAt)
			require.NotNil(t, updated.AISummary)
			assert.Equal(t, "summary", *updated.AISummary)

			got, err := repo.Get(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, updated, got)

			require.NoError(t, repo.Delete(ctx, second.ID))
			assert.ErrorIs(t, repo.Delete(ctx, second.ID), entities.ErrNotFound)

			require.NoError(t, repo.Clear(ctx))
			memos, err = repo.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, memos)
		})
	}
}

func TestMemoRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := local.NewMemoRepository(sqliteStore(t))

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = repo.Update(ctx, &entities.Memo{ID: "missing", Title: "t", Content: "c"})
	assert.ErrorIs(t, err, entities.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "missing"), entities.ErrNotFound)
	assert.ErrorIs(t, repo.AttachSummary(ctx, "missing", "s"), entities.ErrNotFound)
}

func TestMemoRepository_AttachSummaryKeepsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	repo := local.NewMemoRepository(sqliteStore(t))

	created, err := repo.Create(ctx, newMemo("m", t0))
	require.NoError(t, err)
	require.NoError(t, repo.AttachSummary(ctx, created.ID, "s"))

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.UpdatedAt, got.UpdatedAt)
}

func TestMemoRepository_ReadsLegacyRecords(t *testing.T) {
	ctx := context.Background()
	store := sqliteStore(t)
	legacy := `[
		{"id":"a","title":"Old","content":"c","category":"idea","tags":["t"],
		 "createdAt":"2024-05-01T10:00:00.000Z","updatedAt":"2024-05-02T10:00:00.000Z","aiSummary":"old summary"},
		{"id":"b","title":"Bare","content":"c"}
	]`
	require.NoError(t, store.Set(ctx, local.DefaultKey, legacy))

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := local.NewMemoRepository(store, local.WithClock(func() time.Time { return now }))

	a, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), a.CreatedAt.UTC())
	assert.Equal(t, time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC), a.UpdatedAt.UTC())
	require.NotNil(t, a.AISummary)
	assert.Equal(t, "old summary", *a.AISummary)

	b, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{}, b.Tags)
	assert.Equal(t, now, b.CreatedAt)
	assert.Equal(t, "personal", b.Category)

	// Любая запись переписывает массив в каноническом виде.
	require.NoError(t, repo.AttachSummary(ctx, "b", "s"))
	raw, _, err := store.Get(ctx, local.DefaultKey)
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &records))
	for _, rec := range records {
		assert.Contains(t, rec, "created_at")
		assert.Contains(t, rec, "updated_at")
		assert.NotContains(t, rec, "createdAt")
		assert.NotContains(t, rec, "aiSummary")
	}
}

func TestMemoRepository_NormalizesRecordsOnFirstRead(t *testing.T) {
	ctx := context.Background()
	store := sqliteStore(t)
	legacy := `[
		{"title":"No id one","content":"c","created_at":"2024-05-01T10:00:00Z"},
		{"title":"No id two","content":"c","created_at":"2024-05-01T09:00:00Z"},
		{"id":"u","title":"Only updated","content":"c","updated_at":"2024-06-01T12:00:00Z"},
		{"id":"bare","title":"Bare","content":"c"}
	]`
	require.NoError(t, store.Set(ctx, local.DefaultKey, legacy))

	tick := t0
	clock := func() time.Time {
		tick = tick.Add(time.Hour)
		return tick
	}
	repo := local.NewMemoRepository(store,
		local.WithClock(clock),
		local.WithIDGenerator(sequentialIDs()),
	)

	first, err := repo.List(ctx)
	require.NoError(t, err)
	second, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 4)
	require.Len(t, second, 4)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.True(t, first[i].CreatedAt.Equal(second[i].CreatedAt), first[i].Title)
	}

	u, err := repo.Get(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), u.CreatedAt.UTC())
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)

	ids := map[string]string{}
	for _, memo := range first {
		require.NotEmpty(t, memo.ID)
		ids[memo.Title] = memo.ID
	}
	assert.NotEqual(t, ids["No id one"], ids["No id two"])

	got, err := repo.Get(ctx, ids["No id two"])
	require.NoError(t, err)
	assert.Equal(t, "No id two", got.Title)

	raw, _, err := store.Get(ctx, local.DefaultKey)
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &records))
	for _, rec := range records {
		assert.NotEmpty(t, rec["id"])
		assert.Contains(t, rec, "created_at")
	}
}

func TestMemoRepository_SearchAndCategory(t *testing.T) {
	ctx := context.Background()
	repo := local.NewMemoRepository(sqliteStore(t))

	trip := entities.NewMemo(entities.Draft{Title: "Trip plan", Content: "bags", Category: "personal", Tags: []string{}}, t0)
	budget := entities.NewMemo(entities.Draft{Title: "Budget", Content: "sum", Category: "work", Tags: []string{"trip"}}, t0.Add(time.Minute))
	_, err := repo.Create(ctx, trip)
	require.NoError(t, err)
	_, err = repo.Create(ctx, budget)
	require.NoError(t, err)

	found, err := repo.Search(ctx, "TRIP")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.Search(ctx, "bags")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Trip plan", found[0].Title)

	work, err := repo.ListByCategory(ctx, "work")
	require.NoError(t, err)
	require.Len(t, work, 1)
	assert.Equal(t, "Budget", work[0].Title)

	all, err := repo.ListByCategory(ctx, entities.CategoryAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoRepository_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	repo := local.NewMemoRepository(sqliteStore(t))

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, newMemo(fmt.Sprintf("memo %d", i), t0))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	memos, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, memos, n)
}

func TestMemoRepository_StoreErrors(t *testing.T) {
	ctx := context.Background()
	repo := local.NewMemoRepository(brokenStore{})

	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, errStoreDown)

	_, err = repo.Create(ctx, newMemo("m", t0))
	assert.ErrorIs(t, err, errStoreDown)

	assert.ErrorIs(t, repo.Clear(ctx), errStoreDown)
}

func TestMemoRepository_CorruptPayload(t *testing.T) {
	ctx := context.Background()
	store := sqliteStore(t)
	require.NoError(t, store.Set(ctx, local.DefaultKey, "{not json"))

	_, err := local.NewMemoRepository(store).List(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), local.ErrMsgDecode)
}
