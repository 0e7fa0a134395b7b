package upload_service

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/init-pkg/trade-disclosure/internal/app/upload/recognizer"
	workbook_service "github.com/init-pkg/trade-disclosure/internal/app/workbook/service"
	filestore_client "github.com/init-pkg/trade-disclosure/internal/clients/filestore"
	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStatuses struct {
	mu   sync.Mutex
	byID map[string][]app.UploadStatus
}

func (this *memStatuses) Put(_ context.Context, s app.UploadStatus) errs.Error {
	this.mu.Lock()
	defer this.mu.Unlock()
	this.byID[s.UploadID] = append(this.byID[s.UploadID], s)
	return nil
}

func (this *memStatuses) Get(_ context.Context, id string) (*app.UploadStatus, errs.Error) {
	this.mu.Lock()
	defer this.mu.Unlock()
	all := this.byID[id]
	if len(all) == 0 {
		return nil, errs.New(errs.KindNotFound, "missing")
	}
	last := all[len(all)-1]
	return &last, nil
}

func (this *memStatuses) List(_ context.Context, limit, offset int) ([]app.UploadStatus, int64, errs.Error) {
	return []app.UploadStatus{}, int64(len(this.byID)), nil
}

type recordingEvents struct{ keys []string }

func (this *recordingEvents) Publish(_ context.Context, key string, _ any) errs.Error {
	this.keys = append(this.keys, key)
	return nil
}

type failingRecognizer struct{}

func (failingRecognizer) Recognize(context.Context, app.RecognitionInput) (*app.Recognition, errs.Error) {
	return nil, errs.New(errs.KindTransport, "识别服务暂时不可用")
}

type harness struct {
	svc      *UploadService
	codec    *workbook_service.WorkbookService
	dir      string
	statuses *memStatuses
	events   *recordingEvents
}

func newHarness(t *testing.T, rec app.Recognizer) *harness {
	log := slog.New(slog.DiscardHandler)
	cfg := &config.Config{}
	cfg.Upload.MaxBytes = 10 << 20
	cfg.App.PublicURL = "http://files.local/"

	dir := t.TempDir()
	files, err := filestore_client.NewLocal(dir, log)
	require.NoError(t, err)
	if rec == nil {
		rec = recognizer.NewMock(log)
	}

	h := &harness{
		codec:    workbook_service.New(cfg, log),
		dir:      dir,
		statuses: &memStatuses{byID: map[string][]app.UploadStatus{}},
		events:   &recordingEvents{},
	}
	h.svc = New(cfg, h.codec, rec, files, h.statuses, h.events, log)
	return h
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{1}, 256)...)

func submission() app.UploadSubmission {
	return app.UploadSubmission{
		File: app.UploadFile{Name: "../../交易截图.png", ContentType: "image/png", Content: pngBytes},
		Person: app.RelatedPersonInfo{
			Name:         "赵六",
			Relationship: app.RelationshipChild,
			IDNumber:     "110105200001010011",
			Phone:        "15900001111",
		},
	}
}

func TestProcessGeneratesWorkbook(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	res, err := h.svc.Process(ctx, submission())
	require.Nil(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.Demo)
	assert.Contains(t, res.Message, "赵六")
	assert.Equal(t, SheetFileName(res.UploadID), res.FileName)
	assert.Equal(t, "http://files.local/api/v1/download/"+res.FileName, res.ExcelURL)

	data, err := h.svc.Spreadsheet(ctx, res.FileName)
	require.Nil(t, err)
	wb, err := h.codec.Decode(data)
	require.Nil(t, err)
	assert.Equal(t, []string{tradesSheet, personSheet}, wb.SheetNames())
	assert.Equal(t, recognizer.TradeHeaders, wb.Sheets[0].Rows.Strings()[0])
	assert.Equal(t, []string{"姓名", "赵六"}, wb.Sheets[1].Rows.Strings()[1])

	_, statErr := os.Stat(h.dir + "/uploads/" + res.UploadID + "/交易截图.png")
	assert.NoError(t, statErr)

	status, err := h.svc.Status(ctx, res.UploadID)
	require.Nil(t, err)
	assert.Equal(t, app.UploadStatusCompleted, status.Status)
	assert.Equal(t, 100, status.Progress)
	assert.Equal(t, []string{app.EventUploadProcessed}, h.events.keys)
}

func TestProcessValidatesFirst(t *testing.T) {
	h := newHarness(t, nil)
	sub := submission()
	sub.File = app.UploadFile{Name: "a.docx", ContentType: "application/msword", Content: []byte("PK\x03\x04 not allowed")}

	_, err := h.svc.Process(context.Background(), sub)
	require.NotNil(t, err)
	assert.Equal(t, errs.KindValidation, err.Kind())
	assert.Empty(t, h.statuses.byID)

	entries, _ := os.ReadDir(h.dir)
	assert.Empty(t, entries)
}

func TestProcessRecognizerFailureMarksFailed(t *testing.T) {
	h := newHarness(t, failingRecognizer{})

	_, err := h.svc.Process(context.Background(), submission())
	require.NotNil(t, err)
	assert.Equal(t, errs.KindTransport, err.Kind())

	require.Len(t, h.statuses.byID, 1)
	for _, all := range h.statuses.byID {
		assert.Equal(t, app.UploadStatusFailed, all[len(all)-1].Status)
	}
	assert.Empty(t, h.events.keys)
}

func TestSpreadsheetRejectsTraversal(t *testing.T) {
	h := newHarness(t, nil)

	for _, name := range []string{"../secret.xlsx", "sheets/x.xlsx", "a.txt", ""} {
		_, err := h.svc.Spreadsheet(context.Background(), name)
		require.NotNil(t, err, name)
		assert.Equal(t, errs.KindValidation, err.Kind(), name)
	}

	_, err := h.svc.Spreadsheet(context.Background(), "missing.xlsx")
	require.NotNil(t, err)
	assert.Equal(t, errs.KindNotFound, err.Kind())
}

func TestStatusUnknownID(t *testing.T) {
	h := newHarness(t, nil)
	_, err := h.svc.Status(context.Background(), "not-a-uuid")
	require.NotNil(t, err)
	assert.Equal(t, errs.KindNotFound, err.Kind())
}

func TestHistoryClampsPaging(t *testing.T) {
	h := newHarness(t, nil)

	hist, err := h.svc.History(context.Background(), 0, -5)
	require.Nil(t, err)
	assert.Equal(t, 10, hist.Limit)
	assert.Equal(t, 0, hist.Offset)

	hist, err = h.svc.History(context.Background(), 1000, 0)
	require.Nil(t, err)
	assert.Equal(t, historyMax, hist.Limit)
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "c.png", safeName("a/b/c.png"))
	assert.Equal(t, "y.pdf", safeName(`C:\x\y.pdf`))
	assert.Equal(t, "upload", safeName(".."))
	assert.Equal(t, "upload", safeName(""))
}
