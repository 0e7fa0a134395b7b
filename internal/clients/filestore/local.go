package filestore_client

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
)

// LocalStore keeps files under a directory on disk.
type LocalStore struct {
	root string
	log  *slog.Logger
}

var _ app.FileStore = &LocalStore{}

func NewLocal(dir string, log *slog.Logger) (*LocalStore, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	log.Info("local file store ready", "dir", root)
	return &LocalStore{root: root, log: log}, nil
}

func (this *LocalStore) path(key string) (string, errs.Error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(this.root, filepath.FromSlash(cleaned)), nil
}

func (this *LocalStore) Put(_ context.Context, key string, content []byte, _ string) errs.Error {
	p, appErr := this.path(key)
	if appErr != nil {
		return appErr
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errs.WrapAppError(err, &errs.ErrorOpts{})
	}

	// write then rename so readers never see a partial file
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return errs.WrapAppError(err, &errs.ErrorOpts{})
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return errs.WrapAppError(err, &errs.ErrorOpts{})
	}
	return nil
}

func (this *LocalStore) Get(_ context.Context, key string) ([]byte, errs.Error) {
	p, appErr := this.path(key)
	if appErr != nil {
		return nil, appErr
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Newf(errs.KindNotFound, "文件不存在: %s", key)
	}
	if err != nil {
		return nil, errs.WrapAppError(err, &errs.ErrorOpts{})
	}
	return data, nil
}

func (this *LocalStore) Delete(_ context.Context, key string) errs.Error {
	p, appErr := this.path(key)
	if appErr != nil {
		return appErr
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errs.WrapAppError(err, &errs.ErrorOpts{})
	}
	return nil
}
