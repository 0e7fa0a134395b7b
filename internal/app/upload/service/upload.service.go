package upload_service

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	filestore_client "github.com/init-pkg/trade-disclosure/internal/clients/filestore"
	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/init-pkg/trade-disclosure/internal/validation"
)

const (
	tradesSheet = "交易记录"
	personSheet = "人员信息"
	historyMax  = 100
)

type UploadService struct {
	codec      app.WorkbookCodec
	recognizer app.Recognizer
	files      app.FileStore
	statuses   app.UploadStatusStore
	events     app.EventPublisher
	maxBytes   int64
	publicURL  string
	now        func() time.Time
	log        *slog.Logger
}

var _ app.UploadService = &UploadService{}

func New(
	cfg *config.Config,
	codec app.WorkbookCodec,
	recognizer app.Recognizer,
	files app.FileStore,
	statuses app.UploadStatusStore,
	events app.EventPublisher,
	log *slog.Logger,
) *UploadService {
	return &UploadService{
		codec:      codec,
		recognizer: recognizer,
		files:      files,
		statuses:   statuses,
		events:     events,
		maxBytes:   cfg.Upload.MaxBytes,
		publicURL:  strings.TrimRight(cfg.App.PublicURL, "/"),
		now:        time.Now,
		log:        log,
	}
}

type processedEvent struct {
	UploadID string    `json:"uploadId"`
	FileName string    `json:"fileName"`
	Source   string    `json:"source"`
	Demo     bool      `json:"demo"`
	Trades   int       `json:"trades"`
	At       time.Time `json:"at"`
}

func SheetFileName(uploadID string) string {
	return fmt.Sprintf("processed_%s.xlsx", uploadID)
}

func sheetKey(fileName string) string { return path.Join("sheets", fileName) }

// Process validates, stores the original, recognizes trades and generates the
// workbook. Validation failures happen before anything is stored.
func (this *UploadService) Process(ctx context.Context, sub app.UploadSubmission) (*app.UploadResult, errs.Error) {
	mime, err := validation.Submission(sub, this.maxBytes)
	if err != nil {
		return nil, err
	}
	sub.File.ContentType = mime

	uploadID := uuid.NewString()
	fileName := SheetFileName(uploadID)
	this.progress(ctx, uploadID, app.UploadStatusProcessing, 10, "文件已接收", "")

	original := path.Join("uploads", uploadID, safeName(sub.File.Name))
	if err := this.files.Put(ctx, original, sub.File.Content, mime); err != nil {
		return nil, this.fail(ctx, uploadID, err)
	}
	this.progress(ctx, uploadID, app.UploadStatusProcessing, 40, "正在识别", "")

	rec, err := this.recognizer.Recognize(ctx, app.RecognitionInput{File: sub.File, Person: sub.Person})
	if err != nil {
		return nil, this.fail(ctx, uploadID, err)
	}
	this.progress(ctx, uploadID, app.UploadStatusProcessing, 70, "正在生成Excel", "")

	now := this.now()
	wb := &app.Workbook{Sheets: []app.NamedSheet{
		{Name: tradesSheet, Rows: rec.Rows},
		{Name: personSheet, Rows: this.personRows(sub, rec, now)},
	}}
	content, err := this.codec.EncodeWorkbook(wb)
	if err != nil {
		return nil, this.fail(ctx, uploadID, err)
	}
	if err := this.files.Put(ctx, sheetKey(fileName), content, app.XlsxContentType); err != nil {
		return nil, this.fail(ctx, uploadID, err)
	}

	message := fmt.Sprintf("文件上传成功，已为%s生成Excel报表", sub.Person.Name)
	if rec.Demo {
		message += "（演示数据，非识别结果）"
	}
	createdAt := now.UTC()
	result := &app.UploadResult{
		Success:   true,
		Message:   message,
		ExcelURL:  this.publicURL + "/api/v1/download/" + fileName,
		FileName:  fileName,
		UploadID:  uploadID,
		CreatedAt: &createdAt,
		Demo:      rec.Demo,
	}

	if err := this.statuses.Put(ctx, app.UploadStatus{
		UploadID: uploadID, Status: app.UploadStatusCompleted, Progress: 100,
		Message: "处理完成", FileName: sub.File.Name, Result: result, UpdatedAt: createdAt,
	}); err != nil {
		this.log.Warn("upload status not recorded", "uploadId", uploadID, "error", err)
	}

	if err := this.events.Publish(ctx, app.EventUploadProcessed, processedEvent{
		UploadID: uploadID, FileName: fileName, Source: rec.Source, Demo: rec.Demo,
		Trades: max(len(rec.Rows)-1, 0), At: createdAt,
	}); err != nil {
		this.log.Warn("upload event not published", "uploadId", uploadID, "error", err)
	}

	this.log.Info("upload processed", "uploadId", uploadID, "file", sub.File.Name, "mime", mime, "source", rec.Source, "demo", rec.Demo)
	return result, nil
}

func (this *UploadService) personRows(sub app.UploadSubmission, rec *app.Recognition, now time.Time) app.Sheet {
	p := sub.Person
	source := rec.Source
	if rec.Demo {
		source += "（演示数据，非识别结果）"
	}
	pairs := [][2]string{
		{"姓名", p.Name},
		{"关系", p.Relationship.String()},
		{"身份证号", p.IDNumber},
		{"电话", p.Phone},
		{"说明", p.Description},
		{"处理时间", now.Format("2006-01-02 15:04:05")},
		{"文件名", sub.File.Name},
		{"识别来源", source},
	}

	rows := app.Sheet{{app.Text("字段"), app.Text("值")}}
	for _, kv := range pairs {
		rows = append(rows, []app.Cell{app.Text(kv[0]), app.Text(kv[1])})
	}
	return rows
}

func (this *UploadService) progress(ctx context.Context, id, status string, pct int, msg, fileName string) {
	if err := this.statuses.Put(ctx, app.UploadStatus{
		UploadID: id, Status: status, Progress: pct, Message: msg, FileName: fileName, UpdatedAt: this.now().UTC(),
	}); err != nil {
		this.log.Warn("upload status not recorded", "uploadId", id, "error", err)
	}
}

func (this *UploadService) fail(ctx context.Context, id string, err errs.Error) errs.Error {
	this.log.Error("upload failed", "uploadId", id, "kind", err.Kind(), "error", err)
	this.progress(ctx, id, app.UploadStatusFailed, 100, err.Message(), "")
	return err
}

func (this *UploadService) Status(ctx context.Context, uploadID string) (*app.UploadStatus, errs.Error) {
	if _, err := uuid.Parse(uploadID); err != nil {
		return nil, errs.Newf(errs.KindNotFound, "上传记录不存在: %s", uploadID)
	}
	return this.statuses.Get(ctx, uploadID)
}

func (this *UploadService) History(ctx context.Context, limit, offset int) (*app.UploadHistory, errs.Error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > historyMax {
		limit = historyMax
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := this.statuses.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &app.UploadHistory{History: items, Total: total, Limit: limit, Offset: offset}, nil
}

// Spreadsheet serves a generated workbook by its bare file name.
func (this *UploadService) Spreadsheet(ctx context.Context, fileName string) ([]byte, errs.Error) {
	name, err := filestore_client.CleanKey(fileName)
	if err != nil {
		return nil, err
	}
	if strings.Contains(name, "/") || !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		return nil, errs.Validation("非法的文件名", map[string]string{"fileName": "invalid"})
	}
	return this.files.Get(ctx, sheetKey(name))
}

func safeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." || name == "" {
		return "upload"
	}
	return name
}
