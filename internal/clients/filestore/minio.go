package filestore_client

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore keeps files in an S3-compatible bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

var _ app.FileStore = &MinioStore{}

func NewMinio(cfg *config.Storage, log *slog.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		log.Info("bucket created", "bucket", cfg.Bucket)
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, log: log}, nil
}

func (this *MinioStore) Put(ctx context.Context, key string, content []byte, contentType string) errs.Error {
	key, appErr := CleanKey(key)
	if appErr != nil {
		return appErr
	}
	_, err := this.client.PutObject(ctx, this.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return errs.Transport(err, "文件存储失败")
	}
	return nil
}

func (this *MinioStore) Get(ctx context.Context, key string) ([]byte, errs.Error) {
	key, appErr := CleanKey(key)
	if appErr != nil {
		return nil, appErr
	}
	obj, err := this.client.GetObject(ctx, this.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, this.readErr(err, key)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, this.readErr(err, key)
	}
	return data, nil
}

func (this *MinioStore) Delete(ctx context.Context, key string) errs.Error {
	key, appErr := CleanKey(key)
	if appErr != nil {
		return appErr
	}
	if err := this.client.RemoveObject(ctx, this.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errs.Transport(err, "文件删除失败")
	}
	return nil
}

func (this *MinioStore) readErr(err error, key string) errs.Error {
	if minio.ToErrorResponse(err).StatusCode == http.StatusNotFound {
		return errs.Newf(errs.KindNotFound, "文件不存在: %s", key)
	}
	return errs.Transport(err, "文件读取失败")
}
