package validation

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
)

const DefaultUploadMaxBytes = 10 << 20

// AllowedUploadType reports whether a MIME type is an image or a PDF.
func AllowedUploadType(mime string) bool {
	mime = strings.ToLower(strings.TrimSpace(strings.SplitN(mime, ";", 2)[0]))
	return strings.HasPrefix(mime, "image/") || mime == "application/pdf"
}

// UploadFile checks size and type. The type is sniffed from content; a declared
// content type must agree with the allowed set as well.
func UploadFile(f app.UploadFile, maxBytes int64) (string, errs.Error) {
	if maxBytes <= 0 {
		maxBytes = DefaultUploadMaxBytes
	}
	if f.Size() == 0 {
		return "", errs.Validation("请选择要上传的文件", map[string]string{"file": "required"})
	}
	if f.Size() > maxBytes {
		return "", errs.Validation(
			fmt.Sprintf("文件大小不能超过%dMB", maxBytes>>20),
			map[string]string{"file": "max"},
		)
	}

	sniffed := mimetype.Detect(f.Content).String()
	if !AllowedUploadType(sniffed) || (f.ContentType != "" && !AllowedUploadType(f.ContentType)) {
		return "", errs.Validation(
			"只支持图片格式（JPG、PNG、GIF、WebP）和PDF文件",
			map[string]string{"file": "type"},
		)
	}
	return strings.SplitN(sniffed, ";", 2)[0], nil
}

// Submission validates both the file and the person metadata.
func Submission(sub app.UploadSubmission, maxBytes int64) (string, errs.Error) {
	mime, err := UploadFile(sub.File, maxBytes)
	if err != nil {
		return "", err
	}
	if err := Struct(sub.Person); err != nil {
		return "", errs.Validation("关联人员信息不完整或格式错误", err.Fields())
	}
	return mime, nil
}
