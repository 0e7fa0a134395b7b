package recognition_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/init-pkg/trade-disclosure/internal/validation"
)

const DemoMessage = "演示模式：返回示例文件，并非识别结果"

// RecognitionClient runs the client side of the upload pipeline: validate,
// submit, then fetch the generated spreadsheet.
type RecognitionClient struct {
	url         string
	demo        bool
	demoExample string
	maxBytes    int64
	client      *http.Client
	fetcher     app.SpreadsheetFetcher
	log         *slog.Logger
}

// Generated is the boundary answer plus the fetched spreadsheet bytes.
type Generated struct {
	Result app.UploadResult
	Data   []byte
}

func New(cfg *config.Config, fetcher app.SpreadsheetFetcher, log *slog.Logger) *RecognitionClient {
	return &RecognitionClient{
		url:         strings.TrimRight(cfg.Clients.Recognition.Url, "/"),
		demo:        cfg.Clients.Recognition.Demo,
		demoExample: cfg.Clients.Recognition.DemoExample,
		maxBytes:    cfg.Upload.MaxBytes,
		client:      &http.Client{Timeout: cfg.Clients.Recognition.Timeout},
		fetcher:     fetcher,
		log:         log,
	}
}

// Submit validates locally before any network call.
func (this *RecognitionClient) Submit(ctx context.Context, sub app.UploadSubmission) (*Generated, errs.Error) {
	if _, err := validation.Submission(sub, this.maxBytes); err != nil {
		return nil, err
	}

	var result *app.UploadResult
	if this.demo {
		result = this.demoResult(sub)
	} else {
		var err errs.Error
		if result, err = this.post(ctx, sub); err != nil {
			return nil, err
		}
	}

	data, err := this.fetcher.Fetch(ctx, result.ExcelURL)
	if err != nil {
		return nil, err
	}

	return &Generated{Result: *result, Data: data}, nil
}

func (this *RecognitionClient) demoResult(sub app.UploadSubmission) *app.UploadResult {
	now := time.Now().UTC()
	this.log.Info("recognition demo mode", "file", sub.File.Name)
	return &app.UploadResult{
		Success:   true,
		Message:   DemoMessage,
		ExcelURL:  this.demoExample,
		FileName:  "demo_example.xlsx",
		CreatedAt: &now,
		Demo:      true,
	}
}

func (this *RecognitionClient) post(ctx context.Context, sub app.UploadSubmission) (*app.UploadResult, errs.Error) {
	body, contentType, err := encodeMultipart(sub)
	if err != nil {
		return nil, errs.WrapAppError(err, &errs.ErrorOpts{})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, this.url+"/api/v1/upload", body)
	if err != nil {
		return nil, errs.WrapAppError(err, &errs.ErrorOpts{})
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	res, err := this.client.Do(req)
	if err != nil {
		return nil, errs.Transport(err, "上传失败，请检查网络连接")
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errs.Transport(err, "上传失败，请检查网络连接")
	}

	var result app.UploadResult
	decodeErr := json.Unmarshal(raw, &result)

	switch {
	case res.StatusCode >= 500 || (decodeErr != nil && res.StatusCode < 300):
		return nil, errs.Transport(fmt.Errorf("upload: status %d: %s", res.StatusCode, raw), "识别服务暂时不可用")
	case res.StatusCode >= 300 || !result.Success:
		msg := result.Message
		if msg == "" {
			msg = "上传失败"
		}
		return nil, errs.Validation(msg, nil)
	case result.ExcelURL == "":
		return nil, errs.Transport(fmt.Errorf("upload: response without excelUrl"), "识别服务未返回文件地址")
	}

	this.log.Info("upload recognized", "uploadId", result.UploadID, "fileName", result.FileName)
	return &result, nil
}

func encodeMultipart(sub app.UploadSubmission) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, sub.File.Name))
	contentType := sub.File.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(sub.File.Content); err != nil {
		return nil, "", err
	}

	person, err := json.Marshal(sub.Person)
	if err != nil {
		return nil, "", err
	}
	if err := w.WriteField("relatedPersonInfo", string(person)); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
