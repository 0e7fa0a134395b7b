package app

import (
	"context"

	"github.com/init-pkg/trade-disclosure/domain/errs"
)

const (
	DefaultDownloadName = "edited_excel.xlsx"
	XlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Download struct {
	FileName    string
	ContentType string
	Content     []byte
}

// PersistenceBridge writes a reconciled sheet either as a client download or
// to the durable store.
type PersistenceBridge interface {
	SaveAsFile(rows Sheet, fileName string) (*Download, errs.Error)
	SaveToStore(ctx context.Context, creds Credentials, rows Sheet, fileName string, key *PortfolioKey, existingID *uint64) (*SaveResult, errs.Error)
}
