package bridge_service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/init-pkg/trade-disclosure/internal/validation"
)

type BridgeService struct {
	codec     app.WorkbookCodec
	store     app.PortfolioStore
	validator *validation.Validator
	log       *slog.Logger
}

var _ app.PersistenceBridge = &BridgeService{}

func New(codec app.WorkbookCodec, store app.PortfolioStore, validator *validation.Validator, log *slog.Logger) *BridgeService {
	return &BridgeService{codec, store, validator, log}
}

// DownloadName applies the default name and the .xlsx extension.
func DownloadName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return app.DefaultDownloadName
	}
	if !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		name += ".xlsx"
	}
	return name
}

func (this *BridgeService) SaveAsFile(rows app.Sheet, fileName string) (*app.Download, errs.Error) {
	content, err := this.codec.Encode(rows, app.DefaultSheetName)
	if err != nil {
		this.log.Error("encode for download failed", "error", err)
		return nil, err
	}

	name := DownloadName(fileName)
	this.log.Info("sheet encoded for download", "fileName", name, "rows", len(rows), "bytes", len(content))

	return &app.Download{FileName: name, ContentType: app.XlsxContentType, Content: content}, nil
}

// SaveToStore updates existingID when known, else creates a record under key.
func (this *BridgeService) SaveToStore(
	ctx context.Context,
	creds app.Credentials,
	rows app.Sheet,
	fileName string,
	key *app.PortfolioKey,
	existingID *uint64,
) (*app.SaveResult, errs.Error) {
	if key == nil && existingID == nil {
		return nil, errs.Validation("请填写投资人ID、季度和年份", map[string]string{
			"investorId": "is required",
			"quarter":    "is required",
			"year":       "is required",
		})
	}
	if key != nil {
		if err := this.validator.Struct(key); err != nil {
			return nil, err
		}
	}
	if existingID != nil && *existingID == 0 {
		return nil, errs.Validation("invalid id", map[string]string{"portfolioId": "must be a positive integer"})
	}

	if rows == nil {
		rows = app.Sheet{}
	}
	payload := app.SheetPayload{Data: rows, FileName: DownloadName(fileName)}

	var (
		res *app.SaveResult
		err errs.Error
	)
	if existingID != nil {
		res, err = this.store.Update(ctx, creds, *existingID, payload)
	} else {
		res, err = this.store.Create(ctx, creds, *key, payload)
	}
	if err != nil {
		this.log.Warn("store save failed", "update", existingID != nil, "kind", err.Kind(), "error", err)
		if err.Kind() == errs.KindPersistence {
			return nil, err
		}
		return nil, errs.Persistence(err, err.Message())
	}

	this.log.Info("sheet saved to store", "portfolioId", res.RecordID, "created", res.Created, "by", creds.Username)
	return res, nil
}
