package upload_store

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*UploadStatusStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{}
	cfg.Infrastructure.Redis.Namespace = "td"
	return New(rdb, cfg, slog.New(slog.DiscardHandler)), mr
}

func TestPutGet(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.Nil(t, store.Put(ctx, app.UploadStatus{UploadID: "u1", Status: app.UploadStatusProcessing, Progress: 10}))
	require.Nil(t, store.Put(ctx, app.UploadStatus{UploadID: "u1", Status: app.UploadStatusCompleted, Progress: 100}))

	got, err := store.Get(ctx, "u1")
	require.Nil(t, err)
	assert.Equal(t, app.UploadStatusCompleted, got.Status)
	assert.False(t, got.UpdatedAt.IsZero())

	_, err = store.Get(ctx, "nope")
	require.NotNil(t, err)
	assert.Equal(t, errs.KindNotFound, err.Kind())
}

func TestListNewestFirstWithPaging(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.Nil(t, store.Put(ctx, app.UploadStatus{
			UploadID:  fmt.Sprintf("u%d", i),
			Status:    app.UploadStatusCompleted,
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, total, err := store.List(ctx, 2, 1)
	require.Nil(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, "u3", page[0].UploadID)
	assert.Equal(t, "u2", page[1].UploadID)

	page, _, err = store.List(ctx, 10, 10)
	require.Nil(t, err)
	assert.Empty(t, page)
}

func TestListPrunesExpired(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.Nil(t, store.Put(ctx, app.UploadStatus{UploadID: "old", Status: app.UploadStatusCompleted}))
	require.Nil(t, store.Put(ctx, app.UploadStatus{UploadID: "new", Status: app.UploadStatusCompleted}))
	mr.Del("td:upload:old")

	page, total, err := store.List(ctx, 10, 0)
	require.Nil(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, page, 1)
	assert.Equal(t, "new", page[0].UploadID)

	members, _ := mr.ZMembers("td:upload:history")
	assert.Equal(t, []string{"new"}, members)
}
