package editor_service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	bridge_service "github.com/init-pkg/trade-disclosure/internal/app/bridge/service"
	grid_service "github.com/init-pkg/trade-disclosure/internal/app/grid/service"
	template_service "github.com/init-pkg/trade-disclosure/internal/app/template/service"
	workbook_service "github.com/init-pkg/trade-disclosure/internal/app/workbook/service"
	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/init-pkg/trade-disclosure/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeStore struct {
	mu      sync.Mutex
	gate    chan struct{}
	entered chan struct{}
	fail    errs.Error
	creates int
	updates []uint64
	last    app.SheetPayload
}

func (this *fakeStore) wait() {
	if this.gate != nil {
		this.entered <- struct{}{}
		<-this.gate
	}
}

func (this *fakeStore) Create(_ context.Context, _ app.Credentials, _ app.PortfolioKey, payload app.SheetPayload) (*app.SaveResult, errs.Error) {
	this.wait()
	this.mu.Lock()
	defer this.mu.Unlock()
	if this.fail != nil {
		return nil, this.fail
	}
	this.creates++
	this.last = payload
	return &app.SaveResult{RecordID: 500 + uint64(this.creates), Created: true}, nil
}

func (this *fakeStore) Update(_ context.Context, _ app.Credentials, id uint64, payload app.SheetPayload) (*app.SaveResult, errs.Error) {
	this.wait()
	this.mu.Lock()
	defer this.mu.Unlock()
	if this.fail != nil {
		return nil, this.fail
	}
	this.updates = append(this.updates, id)
	this.last = payload
	return &app.SaveResult{RecordID: id}, nil
}

type fakePortfolios struct {
	app.PortfolioService
	portfolio *app.Portfolio
	payload   *app.SheetPayload
}

func (this *fakePortfolios) Get(_ context.Context, id uint64) (*app.Portfolio, errs.Error) {
	if this.portfolio == nil || this.portfolio.ID != id {
		return nil, errs.Newf(errs.KindNotFound, "投资组合不存在: %d", id)
	}
	return this.portfolio, nil
}

func (this *fakePortfolios) Sheet(_ context.Context, id uint64) (*app.SheetPayload, errs.Error) {
	return this.payload, nil
}

type fakeFetcher struct{ data []byte }

func (this fakeFetcher) Fetch(context.Context, string) ([]byte, errs.Error) {
	return this.data, nil
}

type harness struct {
	svc   *EditorService
	codec *workbook_service.WorkbookService
	store *fakeStore
	lc    *fxtest.Lifecycle
}

func newHarness(t *testing.T, portfolios app.PortfolioService) *harness {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	cfg := &config.Config{}
	cfg.Editor.IdleTTL = time.Hour
	cfg.Editor.SweepInterval = time.Hour

	codec := workbook_service.New(cfg, log)
	store := &fakeStore{}
	templates, err := template_service.New(log)
	require.NoError(t, err)
	if portfolios == nil {
		portfolios = &fakePortfolios{}
	}

	lc := fxtest.NewLifecycle(t)
	svc := New(Params{
		Lc:         lc,
		Cfg:        cfg,
		Codec:      codec,
		Grid:       grid_service.New(),
		Bridge:     bridge_service.New(codec, store, validation.New(), log),
		Portfolios: portfolios,
		Templates:  templates,
		Fetcher:    fakeFetcher{},
		Log:        log,
	})
	lc.RequireStart()
	t.Cleanup(lc.RequireStop)

	return &harness{svc: svc, codec: codec, store: store, lc: lc}
}

func (this *harness) xlsx(t *testing.T, rows app.Sheet) []byte {
	data, err := this.codec.Encode(rows, "")
	require.Nil(t, err)
	return data
}

func (this *harness) open(t *testing.T, rows app.Sheet) *app.EditorSnapshot {
	snap, err := this.svc.Open(context.Background(), app.OpenRequest{FileName: "in.xlsx", Data: this.xlsx(t, rows)})
	require.Nil(t, err)
	return snap
}

var people = app.Sheet{
	{app.Text("Name"), app.Text("Age")},
	{app.Text("Carol"), app.ParseCell("41")},
	{app.Text("alice"), app.ParseCell("30")},
	{app.Text("Bob"), app.ParseCell("25")},
}

func TestOpenInfersHeader(t *testing.T) {
	h := newHarness(t, nil)
	snap := h.open(t, people)

	assert.True(t, snap.HasHeaderRow)
	assert.Equal(t, []string{"Sheet1"}, snap.SheetNames)
	require.Len(t, snap.Grid.ColumnDefs, 2)
	assert.Equal(t, "Name", snap.Grid.ColumnDefs[0].HeaderName)
	require.Len(t, snap.Grid.RowData, 3)
	assert.Equal(t, "Carol", snap.Grid.RowData[0].Get("col0").String())
	assert.False(t, snap.Dirty)
	assert.False(t, snap.CanUndo)
}

func TestOpenRejectsGarbage(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.svc.Open(context.Background(), app.OpenRequest{Data: []byte("not a workbook")})
	require.NotNil(t, err)
	assert.Equal(t, errs.KindDecode, err.Kind())
	assert.Empty(t, h.svc.sessions)
}

func TestReloadFailureKeepsState(t *testing.T) {
	h := newHarness(t, nil)
	snap := h.open(t, people)
	rowID := snap.Grid.RowData[0].ID

	_, err := h.svc.EditCell(snap.ID, rowID, "col0", "Dave")
	require.Nil(t, err)

	_, err = h.svc.Reload(context.Background(), snap.ID, app.OpenRequest{Data: []byte("garbage")})
	require.NotNil(t, err)
	assert.Equal(t, errs.KindDecode, err.Kind())

	after, err := h.svc.Snapshot(snap.ID)
	require.Nil(t, err)
	assert.True(t, after.Dirty)
	assert.Equal(t, "Dave", after.Grid.RowData[0].Get("col0").String())
}

func TestEditUndoRedo(t *testing.T) {
	h := newHarness(t, nil)
	snap := h.open(t, people)
	rowID := snap.Grid.RowData[1].ID

	edit, err := h.svc.EditCell(snap.ID, rowID, "col0", "Alicia")
	require.Nil(t, err)
	assert.Equal(t, "alice", edit.Old.String())
	assert.True(t, edit.New.IsText())

	edit, err = h.svc.EditCell(snap.ID, rowID, "col1", "31")
	require.Nil(t, err)
	assert.True(t, edit.New.IsNumber())

	_, err = h.svc.Undo(snap.ID)
	require.Nil(t, err)
	rows, _ := h.svc.Sheet(snap.ID)
	assert.Equal(t, "30", rows[2][1].String())

	_, err = h.svc.Redo(snap.ID)
	require.Nil(t, err)
	rows, _ = h.svc.Sheet(snap.ID)
	assert.Equal(t, "31", rows[2][1].String())
	assert.Equal(t, "Alicia", rows[2][0].String())

	_, err = h.svc.Redo(snap.ID)
	require.NotNil(t, err)
	assert.Equal(t, errs.KindConflict, err.Kind())
}

func TestHistoryIsBoundedToTwenty(t *testing.T) {
	h := newHarness(t, nil)
	snap := h.open(t, people)
	rowID := snap.Grid.RowData[0].ID

	for i := 1; i <= 21; i++ {
		_, err := h.svc.EditCell(snap.ID, rowID, "col0", fmt.Sprintf("v%d", i))
		require.Nil(t, err)
	}

	undone := 0
	for {
		if _, err := h.svc.Undo(snap.ID); err != nil {
			break
		}
		undone++
	}
	assert.Equal(t, app.HistoryLimit, undone)

	rows, _ := h.svc.Sheet(snap.ID)
	assert.Equal(t, "v1", rows[1][0].String())
}

func TestNewEditDropsRedoTail(t *testing.T) {
	h := newHarness(t, nil)
	snap := h.open(t, people)
	rowID := snap.Grid.RowData[0].ID

	h.svc.EditCell(snap.ID, rowID, "col0", "a")
	h.svc.EditCell(snap.ID, rowID, "col0", "b")
	h.svc.Undo(snap.ID)
	h.svc.EditCell(snap.ID, rowID, "col0", "c")

	after, _ := h.svc.Snapshot(snap.ID)
	assert.False(t, after.CanRedo)
	assert.True(t, after.CanUndo)
}

func TestUnchangedEditIsNotRecorded(t *testing.T) {
	h := newHarness(t, nil)
	snap := h.open(t, people)

	_, err := h.svc.EditCell(snap.ID, snap.Grid.RowData[0].ID, "col0", "Carol")
	require.Nil(t, err)

	after, _ := h.svc.Snapshot(snap.ID)
	assert.False(t, after.CanUndo)
	assert.False(t, after.Dirty)
}

func TestEditUnknownRowOrField(t *testing.T) {
	h := newHarness(t, nil)
	snap := h.open(t, people)

	_, err := h.svc.EditCell(snap.ID, 999999, "col0", "x")
	require.NotNil(t, err)
	assert.Equal(t, errs.KindNotFound, err.Kind())

	_, err = h.svc.EditCell(snap.ID, snap.Grid.RowData[0].ID, "col9", "x")
	require.NotNil(t, err)
	assert.Equal(t, errs.KindValidation, err.Kind())
}

func TestViewDoesNotReorderCanonicalRows(t *testing.T) {
	h := newHarness(t, nil)
	snap := h.open(t, people)

	view, err := h.svc.View(snap.ID, app.ViewOptions{SortField: "col1"})
	require.Nil(t, err)
	require.Len(t, view, 3)
	assert.Equal(t, "Bob", view[0].Get("col0").String())
	assert.Equal(t, "Carol", view[2].Get("col0").String())

	view, err = h.svc.View(snap.ID, app.ViewOptions{SortField: "col0", Desc: true, Filters: map[string]string{"col0": "O"}})
	require.Nil(t, err)
	require.Len(t, view, 2)
	assert.Equal(t, "Carol", view[0].Get("col0").String())
	assert.Equal(t, "Bob", view[1].Get("col0").String())

	view[0].Cells["col0"] = app.Text("mutated")

	rows, _ := h.svc.Sheet(snap.ID)
	assert.Equal(t, people.Strings(), rows.Strings())

	_, err = h.svc.View(snap.ID, app.ViewOptions{SortField: "col7"})
	require.NotNil(t, err)
}

func TestSheetAddsHeaderWhenSourceHadNone(t *testing.T) {
	h := newHarness(t, nil)
	snap := h.open(t, app.Sheet{
		{app.ParseCell("5"), app.ParseCell("6")},
		{app.ParseCell("7"), app.ParseCell("8")},
	})
	assert.False(t, snap.HasHeaderRow)

	rows, err := h.svc.Sheet(snap.ID)
	require.Nil(t, err)
	assert.Equal(t, [][]string{{"Column 1", "Column 2"}, {"5", "6"}, {"7", "8"}}, rows.Strings())
}

func TestSaveCreatesThenUpdates(t *testing.T) {
	h := newHarness(t, nil)
	snap := h.open(t, people)
	h.svc.EditCell(snap.ID, snap.Grid.RowData[0].ID, "col0", "Caroline")

	creds := app.Credentials{Token: "t"}
	_, err := h.svc.Save(context.Background(), snap.ID, creds, nil)
	require.NotNil(t, err)
	assert.Equal(t, errs.KindValidation, err.Kind())

	key := &app.PortfolioKey{InvestorID: 3, Quarter: app.QuarterQ4, Year: 2024}
	res, err := h.svc.Save(context.Background(), snap.ID, creds, key)
	require.Nil(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "in.xlsx", h.store.last.FileName)
	assert.Equal(t, "Caroline", h.store.last.Data[1][0].String())

	after, _ := h.svc.Snapshot(snap.ID)
	assert.False(t, after.Dirty)
	require.NotNil(t, after.PortfolioID)
	assert.Equal(t, res.RecordID, *after.PortfolioID)

	res2, err := h.svc.Save(context.Background(), snap.ID, creds, nil)
	require.Nil(t, err)
	assert.False(t, res2.Created)
	assert.Equal(t, []uint64{res.RecordID}, h.store.updates)
}

func TestUpdateKeepsSessionKey(t *testing.T) {
	h := newHarness(t, nil)
	snap := h.open(t, people)
	creds := app.Credentials{Token: "t"}

	key := &app.PortfolioKey{InvestorID: 3, Quarter: app.QuarterQ4, Year: 2024}
	created, err := h.svc.Save(context.Background(), snap.ID, creds, key)
	require.Nil(t, err)

	other := &app.PortfolioKey{InvestorID: 8, Quarter: app.QuarterQ1, Year: 2025}
	res, err := h.svc.Save(context.Background(), snap.ID, creds, other)
	require.Nil(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, []uint64{created.RecordID}, h.store.updates)

	after, _ := h.svc.Snapshot(snap.ID)
	require.NotNil(t, after.Key)
	assert.Equal(t, *key, *after.Key)
	assert.Equal(t, created.RecordID, *after.PortfolioID)
}

func TestSaveFailureKeepsEditsAndClearsBusy(t *testing.T) {
	h := newHarness(t, nil)
	h.store.fail = errs.New(errs.KindPersistence, "该投资组合不可编辑")
	snap := h.open(t, people)
	h.svc.EditCell(snap.ID, snap.Grid.RowData[0].ID, "col0", "Caroline")

	_, err := h.svc.Save(context.Background(), snap.ID, app.Credentials{}, &app.PortfolioKey{InvestorID: 1, Quarter: app.QuarterQ1, Year: 2024})
	require.NotNil(t, err)
	assert.Equal(t, errs.KindPersistence, err.Kind())

	after, _ := h.svc.Snapshot(snap.ID)
	assert.True(t, after.Dirty)
	assert.False(t, after.Busy)
	assert.True(t, after.CanUndo)
	assert.Nil(t, after.PortfolioID)
}

func TestConcurrentSaveIsBusy(t *testing.T) {
	h := newHarness(t, nil)
	h.store.gate = make(chan struct{})
	h.store.entered = make(chan struct{})
	snap := h.open(t, people)
	key := &app.PortfolioKey{InvestorID: 1, Quarter: app.QuarterQ1, Year: 2024}

	done := make(chan errs.Error)
	go func() {
		_, err := h.svc.Save(context.Background(), snap.ID, app.Credentials{}, key)
		done <- err
	}()
	<-h.store.entered

	during, _ := h.svc.Snapshot(snap.ID)
	assert.True(t, during.Busy)

	_, err := h.svc.Save(context.Background(), snap.ID, app.Credentials{}, key)
	require.NotNil(t, err)
	assert.Equal(t, errs.KindBusy, err.Kind())

	_, err = h.svc.Download(context.Background(), snap.ID, "")
	require.NotNil(t, err)
	assert.Equal(t, errs.KindBusy, err.Kind())

	// edits are still allowed while a save is in flight
	_, err = h.svc.EditCell(snap.ID, snap.Grid.RowData[0].ID, "col0", "during")
	require.Nil(t, err)

	close(h.store.gate)
	require.Nil(t, <-done)

	after, _ := h.svc.Snapshot(snap.ID)
	assert.False(t, after.Busy)
	assert.True(t, after.Dirty)
}

func TestDownloadClearsDirty(t *testing.T) {
	h := newHarness(t, nil)
	snap := h.open(t, people)
	h.svc.EditCell(snap.ID, snap.Grid.RowData[2].ID, "col1", "26")

	d, err := h.svc.Download(context.Background(), snap.ID, "edited")
	require.Nil(t, err)
	assert.Equal(t, "edited.xlsx", d.FileName)

	wb, err := h.codec.Decode(d.Content)
	require.Nil(t, err)
	assert.Equal(t, "26", wb.Sheets[0].Rows[3][1].String())

	after, _ := h.svc.Snapshot(snap.ID)
	assert.False(t, after.Dirty)
}

func TestSelectSheetKeepsEdits(t *testing.T) {
	h := newHarness(t, nil)
	data, err := h.codec.EncodeWorkbook(&app.Workbook{Sheets: []app.NamedSheet{
		{Name: "Trades", Rows: people},
		{Name: "Person", Rows: app.Sheet{{app.Text("k"), app.Text("v")}, {app.Text("name"), app.Text("张三")}}},
	}})
	require.Nil(t, err)

	snap, err := h.svc.Open(context.Background(), app.OpenRequest{Data: data, PreferredSheet: "Person"})
	require.Nil(t, err)
	assert.Equal(t, "Person", snap.CurrentSheet)

	snap, err = h.svc.SelectSheet(snap.ID, "Trades")
	require.Nil(t, err)
	h.svc.EditCell(snap.ID, snap.Grid.RowData[0].ID, "col0", "Caroline")

	_, err = h.svc.SelectSheet(snap.ID, "Person")
	require.Nil(t, err)
	back, err := h.svc.SelectSheet(snap.ID, "Trades")
	require.Nil(t, err)
	assert.Equal(t, "Caroline", back.Grid.RowData[0].Get("col0").String())
	assert.False(t, back.CanUndo)

	_, err = h.svc.SelectSheet(snap.ID, "Missing")
	require.NotNil(t, err)
	assert.Equal(t, errs.KindNotFound, err.Kind())
}

func TestOpenPortfolioRemembersRecord(t *testing.T) {
	portfolios := &fakePortfolios{
		portfolio: &app.Portfolio{ID: 12, InvestorID: 8, Quarter: app.QuarterQ2, Year: 2023},
		payload:   &app.SheetPayload{Data: people, FileName: "q2.xlsx"},
	}
	h := newHarness(t, portfolios)

	snap, err := h.svc.OpenPortfolio(context.Background(), 12)
	require.Nil(t, err)
	require.NotNil(t, snap.PortfolioID)
	assert.Equal(t, uint64(12), *snap.PortfolioID)
	assert.Equal(t, app.QuarterQ2, snap.Key.Quarter)
	assert.Equal(t, "q2.xlsx", snap.FileName)

	res, err := h.svc.Save(context.Background(), snap.ID, app.Credentials{}, nil)
	require.Nil(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, []uint64{12}, h.store.updates)

	_, err = h.svc.OpenPortfolio(context.Background(), 13)
	require.NotNil(t, err)
	assert.Equal(t, errs.KindNotFound, err.Kind())
}

func TestOpenTemplateAndValidate(t *testing.T) {
	h := newHarness(t, nil)

	snap, err := h.svc.OpenTemplate(context.Background(), "")
	require.Nil(t, err)
	assert.True(t, snap.HasHeaderRow)
	assert.Len(t, snap.Grid.ColumnDefs, 9)
	assert.Empty(t, snap.Grid.RowData)

	report, err := h.svc.Validate(snap.ID, "")
	require.Nil(t, err)
	assert.False(t, report.Valid)
	assert.Contains(t, report.Errors, "数据为空")
}

func TestOpenReferenceNamesSession(t *testing.T) {
	h := newHarness(t, nil)
	h.svc.fetcher = fakeFetcher{data: h.xlsx(t, people)}

	snap, err := h.svc.OpenReference(context.Background(), "http://host/api/v1/download/abc.xlsx", "")
	require.Nil(t, err)
	assert.Equal(t, "abc.xlsx", snap.FileName)
}

func TestIdleSessionsExpire(t *testing.T) {
	h := newHarness(t, nil)
	a := h.open(t, people)
	b := h.open(t, people)

	now := time.Now()
	h.svc.now = func() time.Time { return now.Add(90 * time.Minute) }
	_, err := h.svc.Snapshot(b.ID)
	require.Nil(t, err)

	h.svc.now = func() time.Time { return now.Add(2 * time.Hour) }
	assert.Equal(t, 1, h.svc.expire())

	_, err = h.svc.Snapshot(a.ID)
	require.NotNil(t, err)
	assert.Equal(t, errs.KindNotFound, err.Kind())
	_, err = h.svc.Snapshot(b.ID)
	assert.Nil(t, err)
}

func TestClose(t *testing.T) {
	h := newHarness(t, nil)
	snap := h.open(t, people)

	require.Nil(t, h.svc.Close(snap.ID))
	err := h.svc.Close(snap.ID)
	require.NotNil(t, err)
	assert.Equal(t, errs.KindNotFound, err.Kind())
}
