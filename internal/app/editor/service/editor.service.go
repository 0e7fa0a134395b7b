package editor_service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/init-pkg/trade-disclosure/internal/config"
	"go.uber.org/fx"
)

// EditorService keeps server-held editing sessions for the round-trip editor.
type EditorService struct {
	mu       sync.RWMutex
	sessions map[string]*session

	codec      app.WorkbookCodec
	grid       app.GridAdapter
	bridge     app.PersistenceBridge
	portfolios app.PortfolioService
	templates  app.TemplateService
	fetcher    app.SpreadsheetFetcher

	ttl   time.Duration
	sweep time.Duration
	now   func() time.Time
	stop  chan struct{}
	done  chan struct{}
	log   *slog.Logger
}

var _ app.EditorService = &EditorService{}

var errNoSheets = errors.New("workbook has no sheets")

type Params struct {
	fx.In

	Lc         fx.Lifecycle
	Cfg        *config.Config
	Codec      app.WorkbookCodec
	Grid       app.GridAdapter
	Bridge     app.PersistenceBridge
	Portfolios app.PortfolioService
	Templates  app.TemplateService
	Fetcher    app.SpreadsheetFetcher
	Log        *slog.Logger
}

func New(p Params) *EditorService {
	this := &EditorService{
		sessions:   make(map[string]*session),
		codec:      p.Codec,
		grid:       p.Grid,
		bridge:     p.Bridge,
		portfolios: p.Portfolios,
		templates:  p.Templates,
		fetcher:    p.Fetcher,
		ttl:        p.Cfg.Editor.IdleTTL,
		sweep:      p.Cfg.Editor.SweepInterval,
		now:        time.Now,
		log:        p.Log,
	}

	p.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			this.start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return this.shutdown(ctx)
		},
	})

	return this
}

func (this *EditorService) start() {
	if this.ttl <= 0 || this.sweep <= 0 {
		return
	}
	this.stop = make(chan struct{})
	this.done = make(chan struct{})

	go func() {
		defer close(this.done)
		ticker := time.NewTicker(this.sweep)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				this.expire()
			case <-this.stop:
				return
			}
		}
	}()
}

func (this *EditorService) shutdown(ctx context.Context) error {
	if this.stop == nil {
		return nil
	}
	close(this.stop)
	select {
	case <-this.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// expire drops idle sessions that are not in the middle of a save.
func (this *EditorService) expire() int {
	cutoff := this.now().Add(-this.ttl).UnixNano()

	this.mu.Lock()
	defer this.mu.Unlock()

	n := 0
	for id, s := range this.sessions {
		if s.lastUsed.Load() < cutoff && !s.busy.Load() {
			delete(this.sessions, id)
			n++
		}
	}
	if n > 0 {
		this.log.Info("idle editor sessions expired", "count", n, "open", len(this.sessions))
	}
	return n
}

func (this *EditorService) get(id string) (*session, errs.Error) {
	this.mu.RLock()
	s, ok := this.sessions[id]
	this.mu.RUnlock()
	if !ok {
		return nil, errs.New(errs.KindNotFound, "编辑会话不存在或已过期")
	}
	s.touch(this.now())
	return s, nil
}

func (this *EditorService) register(s *session) {
	s.touch(this.now())
	this.mu.Lock()
	this.sessions[s.id] = s
	this.mu.Unlock()
}

// newSession builds a session over wb without registering it.
func (this *EditorService) newSession(fileName string, wb *app.Workbook, preferred string) (*session, errs.Error) {
	s := &session{id: uuid.NewString(), fileName: fileName}
	if err := this.show(s, wb, preferred); err != nil {
		return nil, err
	}
	return s, nil
}

// show points s at wb's sheet preferred and rebuilds the grid from it.
func (this *EditorService) show(s *session, wb *app.Workbook, preferred string) errs.Error {
	sheet, ok := wb.Current(preferred)
	if !ok {
		return errs.Decode(errNoSheets)
	}
	s.workbook = wb
	s.current = sheet.Name
	s.load(this.grid.ToGrid(sheet.Rows), this.grid.HasHeaderRow(sheet.Rows))
	return nil
}

func (this *EditorService) decode(data []byte) (*app.Workbook, errs.Error) {
	wb, err := this.codec.Decode(data)
	if err != nil {
		return nil, err
	}
	if len(wb.Sheets) == 0 {
		return nil, errs.Decode(errNoSheets)
	}
	return wb, nil
}

func (this *EditorService) Open(_ context.Context, req app.OpenRequest) (*app.EditorSnapshot, errs.Error) {
	wb, err := this.decode(req.Data)
	if err != nil {
		return nil, err
	}

	s, err := this.newSession(req.FileName, wb, req.PreferredSheet)
	if err != nil {
		return nil, err
	}
	this.register(s)

	this.log.Info("editor session opened", "session", s.id, "file", req.FileName, "sheet", s.current, "rows", len(s.rows))
	return s.snapshot(), nil
}

func (this *EditorService) OpenReference(ctx context.Context, ref string, preferredSheet string) (*app.EditorSnapshot, errs.Error) {
	data, err := this.fetcher.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	return this.Open(ctx, app.OpenRequest{FileName: referenceName(ref), Data: data, PreferredSheet: preferredSheet})
}

func referenceName(ref string) string {
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		name := path.Base(u.Path)
		if name != "/" && name != "." {
			return name
		}
	}
	return app.DefaultDownloadName
}

func (this *EditorService) OpenPortfolio(ctx context.Context, id uint64) (*app.EditorSnapshot, errs.Error) {
	p, err := this.portfolios.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	payload, err := this.portfolios.Sheet(ctx, id)
	if err != nil {
		return nil, err
	}

	wb := &app.Workbook{Sheets: []app.NamedSheet{{Name: app.DefaultSheetName, Rows: payload.Data}}}
	s, err := this.newSession(payload.FileName, wb, "")
	if err != nil {
		return nil, err
	}
	s.portfolioID = &p.ID
	s.key = &app.PortfolioKey{InvestorID: p.InvestorID, Quarter: p.Quarter, Year: p.Year}
	this.register(s)

	this.log.Info("editor session opened from portfolio", "session", s.id, "portfolioId", id)
	return s.snapshot(), nil
}

func (this *EditorService) OpenTemplate(_ context.Context, name string) (*app.EditorSnapshot, errs.Error) {
	tpl, err := this.templates.Get(name)
	if err != nil {
		return nil, err
	}

	wb := &app.Workbook{Sheets: []app.NamedSheet{{Name: app.DefaultSheetName, Rows: tpl.Sheet()}}}
	s, err := this.newSession(tpl.FileName(), wb, "")
	if err != nil {
		return nil, err
	}
	this.register(s)
	return s.snapshot(), nil
}

func (this *EditorService) Snapshot(id string) (*app.EditorSnapshot, errs.Error) {
	s, err := this.get(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

// Reload replaces the session workbook. A decode failure leaves the session as it was.
func (this *EditorService) Reload(_ context.Context, id string, req app.OpenRequest) (*app.EditorSnapshot, errs.Error) {
	s, err := this.get(id)
	if err != nil {
		return nil, err
	}
	wb, err := this.decode(req.Data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := this.show(s, wb, req.PreferredSheet); err != nil {
		return nil, err
	}
	s.fileName = req.FileName
	s.portfolioID = nil
	s.key = nil
	return s.snapshot(), nil
}

// SelectSheet switches the current sheet. Unsaved edits are written back to
// the workbook copy of the sheet being left.
func (this *EditorService) SelectSheet(id string, name string) (*app.EditorSnapshot, errs.Error) {
	s, err := this.get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workbook.Sheet(name); !ok {
		return nil, errs.Newf(errs.KindNotFound, "工作表不存在: %s", name)
	}
	if name == s.current {
		return s.snapshot(), nil
	}

	if s.dirty {
		reconciled := this.grid.FromGrid(s.rows, s.columns)
		for i := range s.workbook.Sheets {
			if s.workbook.Sheets[i].Name == s.current {
				s.workbook.Sheets[i].Rows = reconciled
			}
		}
	}

	if err := this.show(s, s.workbook, name); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

func (this *EditorService) EditCell(id string, rowID uint64, field string, value string) (*app.CellEdit, errs.Error) {
	s, err := this.get(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edit(rowID, field, value)
}

func (this *EditorService) Undo(id string) (*app.CellEdit, errs.Error) {
	s, err := this.get(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.undo()
}

func (this *EditorService) Redo(id string) (*app.CellEdit, errs.Error) {
	s, err := this.get(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redo()
}

func (this *EditorService) View(id string, opts app.ViewOptions) ([]*app.TabularRow, errs.Error) {
	s, err := this.get(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(opts)
}

// Sheet reconciles the canonical rows, never the sorted or filtered view.
func (this *EditorService) Sheet(id string) (app.Sheet, errs.Error) {
	s, err := this.get(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return this.grid.FromGrid(s.rows, s.columns), nil
}

func (this *EditorService) Validate(id string, template string) (*app.ValidationReport, errs.Error) {
	rows, err := this.Sheet(id)
	if err != nil {
		return nil, err
	}
	return this.templates.Validate(template, rows)
}

// reconcile takes the busy flag and returns the sheet plus the version it was
// taken at. The caller clears busy on every path.
func (this *EditorService) reconcile(s *session) (app.Sheet, uint64, errs.Error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, 0, errs.New(errs.KindBusy, "正在保存，请稍候")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return this.grid.FromGrid(s.rows, s.columns), s.version, nil
}

func (this *EditorService) Download(_ context.Context, id string, fileName string) (*app.Download, errs.Error) {
	s, err := this.get(id)
	if err != nil {
		return nil, err
	}

	rows, version, err := this.reconcile(s)
	if err != nil {
		return nil, err
	}
	defer s.busy.Store(false)

	d, err := this.bridge.SaveAsFile(rows, fileName)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.version == version {
		s.dirty = false
	}
	s.mu.Unlock()
	return d, nil
}

// Save updates the session's record when one is known, else creates one under key.
func (this *EditorService) Save(ctx context.Context, id string, creds app.Credentials, key *app.PortfolioKey) (*app.SaveResult, errs.Error) {
	s, err := this.get(id)
	if err != nil {
		return nil, err
	}

	rows, version, err := this.reconcile(s)
	if err != nil {
		return nil, err
	}
	defer s.busy.Store(false)

	s.mu.Lock()
	existing := s.portfolioID
	fileName := s.fileName
	if key == nil {
		key = s.key
	}
	s.mu.Unlock()

	res, err := this.bridge.SaveToStore(ctx, creds, rows, fileName, key, existing)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	recordID := res.RecordID
	s.portfolioID = &recordID
	// an update keeps the key the record was created or opened with
	if res.Created && key != nil {
		k := *key
		s.key = &k
	}
	if s.version == version {
		s.dirty = false
	}
	s.mu.Unlock()

	this.log.Info("editor session saved", "session", id, "portfolioId", recordID, "created", res.Created)
	return res, nil
}

func (this *EditorService) Close(id string) errs.Error {
	this.mu.Lock()
	defer this.mu.Unlock()
	if _, ok := this.sessions[id]; !ok {
		return errs.New(errs.KindNotFound, "编辑会话不存在或已过期")
	}
	delete(this.sessions, id)
	return nil
}
