package portfolio_service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	portfolio_repository "github.com/init-pkg/trade-disclosure/internal/app/portfolio/repository"
	"github.com/init-pkg/trade-disclosure/internal/validation"
)

const (
	defaultPageSize = 20
	searchLimit     = 20
)

type PortfolioService struct {
	repo      *portfolio_repository.PortfolioRepository
	index     app.PortfolioIndex
	events    app.EventPublisher
	validator *validation.Validator
	log       *slog.Logger
}

var _ app.PortfolioService = &PortfolioService{}

func New(
	repo *portfolio_repository.PortfolioRepository,
	index app.PortfolioIndex,
	events app.EventPublisher,
	validator *validation.Validator,
	log *slog.Logger,
) *PortfolioService {
	return &PortfolioService{repo, index, events, validator, log}
}

type savedEvent struct {
	PortfolioID uint64      `json:"portfolioId"`
	InvestorID  uint64      `json:"investorId"`
	Quarter     app.Quarter `json:"quarter"`
	Year        int         `json:"year"`
	Created     bool        `json:"created"`
	FileHash    string      `json:"fileHash"`
	By          string      `json:"by,omitempty"`
	At          time.Time   `json:"at"`
}

func (this *PortfolioService) Create(ctx context.Context, creds app.Credentials, key app.PortfolioKey, payload app.SheetPayload) (*app.SaveResult, errs.Error) {
	if err := this.validator.Struct(key); err != nil {
		return nil, err
	}

	existing, err := this.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.New(errs.KindConflict, "该投资人在此季度已有投资记录")
	}

	data, hash, e := encodeSheet(payload.Data)
	if e != nil {
		return nil, e
	}

	m := &portfolio_repository.PortfolioModel{
		InvestorID:       key.InvestorID,
		Quarter:          string(key.Quarter),
		Year:             key.Year,
		OriginalFilename: payload.FileName,
		FileHash:         hash,
		PortfolioData:    data,
		RowsCount:        len(payload.Data),
		ColumnsCount:     payload.Data.MaxCols(),
		Status:           app.PortfolioStatusPending,
		IsEditable:       true,
		CreatedBy:        creds.Username,
	}
	if err := this.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	this.log.Info("portfolio created", "id", m.ID, "investorId", m.InvestorID, "quarter", m.Quarter, "year", m.Year)
	this.afterSave(ctx, creds, m, payload.Data, true)

	return &app.SaveResult{RecordID: m.ID, Created: true, Message: "投资组合已创建"}, nil
}

func (this *PortfolioService) Update(ctx context.Context, creds app.Credentials, id uint64, payload app.SheetPayload) (*app.SaveResult, errs.Error) {
	m, err := this.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.IsEditable {
		return nil, errs.New(errs.KindConflict, "该投资组合不可编辑")
	}

	data, hash, e := encodeSheet(payload.Data)
	if e != nil {
		return nil, e
	}

	m.PortfolioData = data
	m.FileHash = hash
	m.RowsCount = len(payload.Data)
	m.ColumnsCount = payload.Data.MaxCols()
	if payload.FileName != "" {
		m.OriginalFilename = payload.FileName
	}
	if err := this.repo.Save(ctx, m); err != nil {
		return nil, err
	}

	this.log.Info("portfolio updated", "id", m.ID, "rows", m.RowsCount)
	this.afterSave(ctx, creds, m, payload.Data, false)

	return &app.SaveResult{RecordID: m.ID, Created: false, Message: "投资组合已更新"}, nil
}

// afterSave indexes and announces a stored sheet. Failures are logged only;
// the record itself is already committed.
func (this *PortfolioService) afterSave(ctx context.Context, creds app.Credentials, m *portfolio_repository.PortfolioModel, rows app.Sheet, created bool) {
	if err := this.index.Index(ctx, m.ToDomain(), rows); err != nil {
		this.log.Warn("portfolio index failed", "id", m.ID, "error", err)
	}

	err := this.events.Publish(ctx, app.EventPortfolioSaved, savedEvent{
		PortfolioID: m.ID,
		InvestorID:  m.InvestorID,
		Quarter:     app.Quarter(m.Quarter),
		Year:        m.Year,
		Created:     created,
		FileHash:    m.FileHash,
		By:          creds.Username,
		At:          time.Now().UTC(),
	})
	if err != nil {
		this.log.Warn("portfolio event publish failed", "id", m.ID, "error", err)
	}
}

func (this *PortfolioService) Get(ctx context.Context, id uint64) (*app.Portfolio, errs.Error) {
	m, err := this.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

func (this *PortfolioService) Sheet(ctx context.Context, id uint64) (*app.SheetPayload, errs.Error) {
	m, err := this.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var rows app.Sheet
	if e := json.Unmarshal([]byte(m.PortfolioData), &rows); e != nil {
		return nil, errs.WrapAppError(e, &errs.ErrorOpts{Message: "stored sheet is corrupt"})
	}
	return &app.SheetPayload{Data: rows, FileName: m.OriginalFilename}, nil
}

func (this *PortfolioService) Review(ctx context.Context, id uint64, review app.PortfolioReview) (*app.Portfolio, errs.Error) {
	if err := this.validator.Struct(review); err != nil {
		return nil, err
	}

	m, err := this.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.Status != nil {
		m.Status = *review.Status
	}
	if review.IsEditable != nil {
		m.IsEditable = *review.IsEditable
	}
	if review.Notes != nil {
		m.Notes = *review.Notes
	}
	if err := this.repo.Save(ctx, m); err != nil {
		return nil, err
	}

	this.log.Info("portfolio reviewed", "id", id, "status", m.Status, "editable", m.IsEditable)
	return m.ToDomain(), nil
}

func (this *PortfolioService) List(ctx context.Context, filter app.PortfolioFilter) (*app.PortfolioPage, errs.Error) {
	if filter.Limit == 0 {
		filter.Limit = defaultPageSize
	}
	if err := this.validator.Struct(filter); err != nil {
		return nil, err
	}

	items, total, err := this.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &app.PortfolioPage{
		Portfolios: make([]app.Portfolio, 0, len(items)),
		Total:      total,
		Page:       filter.Skip/filter.Limit + 1,
		Size:       filter.Limit,
		Pages:      int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
	}
	for i := range items {
		page.Portfolios = append(page.Portfolios, *items[i].ToDomain())
	}
	return page, nil
}

func (this *PortfolioService) Delete(ctx context.Context, id uint64) errs.Error {
	if err := this.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := this.index.Remove(ctx, id); err != nil {
		this.log.Warn("portfolio index removal failed", "id", id, "error", err)
	}
	if err := this.events.Publish(ctx, app.EventPortfolioDeleted, map[string]uint64{"portfolioId": id}); err != nil {
		this.log.Warn("portfolio event publish failed", "id", id, "error", err)
	}

	this.log.Info("portfolio deleted", "id", id)
	return nil
}

func (this *PortfolioService) Stats(ctx context.Context) (*app.PortfolioStats, errs.Error) {
	total, err := this.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	byQuarter, err := this.repo.CountBy(ctx, "quarter")
	if err != nil {
		return nil, err
	}
	byStatus, err := this.repo.CountBy(ctx, "status")
	if err != nil {
		return nil, err
	}
	byYear, err := this.repo.CountByYear(ctx)
	if err != nil {
		return nil, err
	}
	last, err := this.repo.LastUpdated(ctx)
	if err != nil {
		return nil, err
	}

	return &app.PortfolioStats{
		TotalPortfolios:      total,
		PortfoliosByQuarter:  byQuarter,
		PortfoliosByStatus:   byStatus,
		PortfoliosByYear:     byYear,
		LastUpdatedPortfolio: last,
	}, nil
}

// Search uses the search index when one is configured and falls back to a
// substring match in the database.
func (this *PortfolioService) Search(ctx context.Context, query string, limit int) ([]app.PortfolioHit, errs.Error) {
	if query == "" {
		return nil, errs.Validation("search query is required", map[string]string{"q": "is required"})
	}
	if limit <= 0 || limit > 100 {
		limit = searchLimit
	}

	if this.index.Enabled() {
		return this.index.Search(ctx, query, limit)
	}

	items, _, err := this.repo.List(ctx, app.PortfolioFilter{Search: query, Limit: limit})
	if err != nil {
		return nil, err
	}

	hits := make([]app.PortfolioHit, 0, len(items))
	for _, m := range items {
		hits = append(hits, app.PortfolioHit{
			ID:         m.ID,
			InvestorID: m.InvestorID,
			Quarter:    app.Quarter(m.Quarter),
			Year:       m.Year,
			FileName:   m.OriginalFilename,
		})
	}
	return hits, nil
}

func encodeSheet(rows app.Sheet) (string, string, errs.Error) {
	if rows == nil {
		rows = app.Sheet{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "", "", errs.WrapAppError(err, &errs.ErrorOpts{Kind: errs.KindValidation, Message: "sheet cannot be serialized"})
	}
	sum := sha256.Sum256(data)
	return string(data), hex.EncodeToString(sum[:]), nil
}
