package portfolio_service

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	portfolio_repository "github.com/init-pkg/trade-disclosure/internal/app/portfolio/repository"
	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/init-pkg/trade-disclosure/internal/db"
	"github.com/init-pkg/trade-disclosure/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingIndex struct {
	mu      sync.Mutex
	indexed []uint64
	removed []uint64
	enabled bool
}

func (r *recordingIndex) Enabled() bool { return r.enabled }

func (r *recordingIndex) Index(_ context.Context, p *app.Portfolio, _ app.Sheet) errs.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexed = append(r.indexed, p.ID)
	return nil
}

func (r *recordingIndex) Remove(_ context.Context, id uint64) errs.Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, id)
	return nil
}

func (r *recordingIndex) Search(_ context.Context, q string, _ int) ([]app.PortfolioHit, errs.Error) {
	return []app.PortfolioHit{{ID: 99, FileName: q, Score: 1.5}}, nil
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) errs.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

type fixture struct {
	svc    *PortfolioService
	index  *recordingIndex
	events *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.DiscardHandler)

	cfg := &config.Db{Driver: db.DriverSqlite, Dsn: filepath.Join(t.TempDir(), "portfolios.db"), MaxOpenConns: 1, MaxIdleConns: 1}
	gdb, err := db.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, db.Migrate(context.Background(), gdb, cfg.Driver, log))

	f := &fixture{index: &recordingIndex{}, events: &recordingPublisher{}}
	f.svc = New(portfolio_repository.New(gdb), f.index, f.events, validation.New(), log)
	return f
}

func sheet() app.Sheet {
	return app.Sheet{
		{app.Text("证券代码"), app.Text("交易数量")},
		{app.Text("600000"), app.Number(decimal.NewFromInt(100))},
	}
}

var creds = app.Credentials{Token: "t", Username: "zhangsan"}

func TestCreateThenUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := app.PortfolioKey{InvestorID: 7, Quarter: app.QuarterQ3, Year: 2024}

	created, err := f.svc.Create(ctx, creds, key, app.SheetPayload{Data: sheet(), FileName: "q3.xlsx"})
	require.Nil(t, err)
	assert.True(t, created.Created)
	assert.NotZero(t, created.RecordID)

	edited := sheet()
	edited[1][1] = app.Text("200")
	updated, err := f.svc.Update(ctx, creds, created.RecordID, app.SheetPayload{Data: edited})
	require.Nil(t, err)
	assert.False(t, updated.Created)
	assert.Equal(t, created.RecordID, updated.RecordID)

	payload, err := f.svc.Sheet(ctx, created.RecordID)
	require.Nil(t, err)
	assert.Equal(t, "q3.xlsx", payload.FileName)
	assert.Equal(t, "200", payload.Data[1][1].String())
	assert.True(t, payload.Data[0][0].IsText())

	p, err := f.svc.Get(ctx, created.RecordID)
	require.Nil(t, err)
	assert.Equal(t, "zhangsan", p.CreatedBy)
	assert.Equal(t, app.PortfolioStatusPending, p.Status)
	assert.Len(t, p.FileHash, 64)

	assert.Equal(t, []string{app.EventPortfolioSaved, app.EventPortfolioSaved}, f.events.keys)
	assert.Equal(t, []uint64{created.RecordID, created.RecordID}, f.index.indexed)
}

func TestCreateRejectsDuplicateKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := app.PortfolioKey{InvestorID: 1, Quarter: app.QuarterQ1, Year: 2025}

	_, err := f.svc.Create(ctx, creds, key, app.SheetPayload{Data: sheet()})
	require.Nil(t, err)

	_, err = f.svc.Create(ctx, creds, key, app.SheetPayload{Data: sheet()})
	require.NotNil(t, err)
	assert.Equal(t, errs.KindConflict, err.Kind())
}

func TestCreateValidatesKey(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), creds, app.PortfolioKey{InvestorID: 1, Quarter: "Q9", Year: 2025}, app.SheetPayload{})
	require.NotNil(t, err)
	assert.Equal(t, errs.KindValidation, err.Kind())
}

func TestUpdateRefusesLockedRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, creds, app.PortfolioKey{InvestorID: 2, Quarter: app.QuarterQ2, Year: 2024}, app.SheetPayload{Data: sheet()})
	require.Nil(t, err)

	locked, approved := false, app.PortfolioStatusApproved
	p, err := f.svc.Review(ctx, res.RecordID, app.PortfolioReview{Status: &approved, IsEditable: &locked})
	require.Nil(t, err)
	assert.Equal(t, approved, p.Status)

	_, err = f.svc.Update(ctx, creds, res.RecordID, app.SheetPayload{Data: sheet()})
	require.NotNil(t, err)
	assert.Equal(t, errs.KindConflict, err.Kind())

	_, err = f.svc.Update(ctx, creds, 12345, app.SheetPayload{Data: sheet()})
	require.NotNil(t, err)
	assert.Equal(t, errs.KindNotFound, err.Kind())
}

func TestListStatsDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i, q := range []app.Quarter{app.QuarterQ1, app.QuarterQ2, app.QuarterQ2} {
		_, err := f.svc.Create(ctx, creds, app.PortfolioKey{InvestorID: uint64(i + 1), Quarter: q, Year: 2024}, app.SheetPayload{Data: sheet(), FileName: "file.xlsx"})
		require.Nil(t, err)
	}

	page, err := f.svc.List(ctx, app.PortfolioFilter{Quarter: app.QuarterQ2, Limit: 1})
	require.Nil(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Portfolios, 1)

	page, err = f.svc.List(ctx, app.PortfolioFilter{Skip: 1, Limit: 1, Quarter: app.QuarterQ2})
	require.Nil(t, err)
	assert.Equal(t, 2, page.Page)

	_, err = f.svc.List(ctx, app.PortfolioFilter{Limit: 101})
	require.NotNil(t, err)
	assert.Equal(t, errs.KindValidation, err.Kind())

	stats, err := f.svc.Stats(ctx)
	require.Nil(t, err)
	assert.Equal(t, int64(3), stats.TotalPortfolios)
	assert.Equal(t, map[string]int64{"Q1": 1, "Q2": 2}, stats.PortfoliosByQuarter)
	assert.Equal(t, map[string]int64{"pending": 3}, stats.PortfoliosByStatus)
	assert.Equal(t, map[int]int64{2024: 3}, stats.PortfoliosByYear)
	require.NotNil(t, stats.LastUpdatedPortfolio)

	id := page.Portfolios[0].ID
	require.Nil(t, f.svc.Delete(ctx, id))
	assert.Equal(t, []uint64{id}, f.index.removed)

	err = f.svc.Delete(ctx, id)
	require.NotNil(t, err)
	assert.Equal(t, errs.KindNotFound, err.Kind())
}

func TestSearchFallsBackToDatabase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, creds, app.PortfolioKey{InvestorID: 3, Quarter: app.QuarterQ4, Year: 2023}, app.SheetPayload{Data: sheet(), FileName: "spouse-trades.xlsx"})
	require.Nil(t, err)

	hits, err := f.svc.Search(ctx, "600000", 10)
	require.Nil(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "spouse-trades.xlsx", hits[0].FileName)

	f.index.enabled = true
	hits, err = f.svc.Search(ctx, "anything", 10)
	require.Nil(t, err)
	assert.Equal(t, uint64(99), hits[0].ID)

	_, err = f.svc.Search(ctx, "", 10)
	require.NotNil(t, err)
}
