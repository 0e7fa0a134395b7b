package upload_store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	redis_client "github.com/init-pkg/trade-disclosure/internal/clients/redis"
	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/redis/go-redis/v9"
)

const statusTTL = 7 * 24 * time.Hour

// UploadStatusStore keeps one JSON value per upload plus a sorted index by
// last update for history paging.
type UploadStatusStore struct {
	rdb       *redis.Client
	namespace string
	log       *slog.Logger
}

var _ app.UploadStatusStore = &UploadStatusStore{}

func New(rdb *redis.Client, cfg *config.Config, log *slog.Logger) *UploadStatusStore {
	return &UploadStatusStore{rdb: rdb, namespace: cfg.Infrastructure.Redis.Namespace, log: log}
}

func (this *UploadStatusStore) key(id string) string {
	return redis_client.Key(this.namespace, "upload", id)
}

func (this *UploadStatusStore) indexKey() string {
	return redis_client.Key(this.namespace, "upload", "history")
}

func (this *UploadStatusStore) Put(ctx context.Context, status app.UploadStatus) errs.Error {
	if status.UpdatedAt.IsZero() {
		status.UpdatedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(status)
	if err != nil {
		return errs.WrapAppError(err, &errs.ErrorOpts{})
	}

	_, err = this.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, this.key(status.UploadID), raw, statusTTL)
		p.ZAdd(ctx, this.indexKey(), redis.Z{Score: float64(status.UpdatedAt.UnixMilli()), Member: status.UploadID})
		return nil
	})
	if err != nil {
		return errs.Transport(err, "上传状态存储不可用")
	}
	return nil
}

func (this *UploadStatusStore) Get(ctx context.Context, id string) (*app.UploadStatus, errs.Error) {
	raw, err := this.rdb.Get(ctx, this.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errs.Newf(errs.KindNotFound, "上传记录不存在: %s", id)
	}
	if err != nil {
		return nil, errs.Transport(err, "上传状态存储不可用")
	}

	var status app.UploadStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, errs.WrapAppError(err, &errs.ErrorOpts{})
	}
	return &status, nil
}

// List pages newest first. Index entries whose value expired are skipped and
// pruned.
func (this *UploadStatusStore) List(ctx context.Context, limit, offset int) ([]app.UploadStatus, int64, errs.Error) {
	total, err := this.rdb.ZCard(ctx, this.indexKey()).Result()
	if err != nil {
		return nil, 0, errs.Transport(err, "上传状态存储不可用")
	}

	ids, err := this.rdb.ZRevRange(ctx, this.indexKey(), int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, errs.Transport(err, "上传状态存储不可用")
	}
	if len(ids) == 0 {
		return []app.UploadStatus{}, total, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = this.key(id)
	}
	values, err := this.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, 0, errs.Transport(err, "上传状态存储不可用")
	}

	out := make([]app.UploadStatus, 0, len(values))
	var stale []any
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var status app.UploadStatus
		if err := json.Unmarshal([]byte(s), &status); err != nil {
			this.log.Warn("unreadable upload status", "uploadId", ids[i], "error", err)
			continue
		}
		out = append(out, status)
	}

	if len(stale) > 0 {
		this.rdb.ZRem(ctx, this.indexKey(), stale...)
		total -= int64(len(stale))
	}
	return out, total, nil
}
