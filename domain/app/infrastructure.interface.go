package app

import (
	"context"

	"github.com/init-pkg/trade-disclosure/domain/errs"
)

const (
	EventPortfolioSaved   = "portfolio.saved"
	EventPortfolioDeleted = "portfolio.deleted"
	EventUploadProcessed  = "upload.processed"
)

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) errs.Error
}

// FileStore keeps uploaded originals and generated spreadsheets.
type FileStore interface {
	Put(ctx context.Context, key string, content []byte, contentType string) errs.Error
	Get(ctx context.Context, key string) ([]byte, errs.Error)
	Delete(ctx context.Context, key string) errs.Error
}

// SpreadsheetFetcher resolves a spreadsheet reference to its bytes.
type SpreadsheetFetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, errs.Error)
}
