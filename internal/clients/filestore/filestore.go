package filestore_client

import (
	"log/slog"
	"path"
	"strings"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/init-pkg/trade-disclosure/internal/config"
)

const (
	DriverLocal = "local"
	DriverMinio = "minio"
)

// New picks the store named by storage.driver.
func New(cfg *config.Config, log *slog.Logger) (app.FileStore, error) {
	storage := cfg.Infrastructure.Storage
	switch storage.Driver {
	case DriverMinio:
		return NewMinio(&storage, log)
	default:
		return NewLocal(storage.LocalDir, log)
	}
}

// CleanKey rejects keys that would escape the store root.
func CleanKey(key string) (string, errs.Error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if key == "" {
		return "", errs.Validation("文件名不能为空", map[string]string{"key": "required"})
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") || strings.HasPrefix(key, "/") {
		return "", errs.Validation("非法的文件路径", map[string]string{"key": "invalid"})
	}
	for _, part := range strings.Split(cleaned, "/") {
		if part == ".." || part == "." {
			return "", errs.Validation("非法的文件路径", map[string]string{"key": "invalid"})
		}
	}
	return cleaned, nil
}
