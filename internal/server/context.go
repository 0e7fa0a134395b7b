package server

import (
	"io"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
)

const (
	sessionLocal = "session"
	XlsxMime     = app.XlsxContentType
)

func WithSession(c fiber.Ctx, s app.Session) {
	c.Locals(sessionLocal, s)
}

// SessionFrom returns the request session, the empty session when none was attached.
func SessionFrom(c fiber.Ctx) app.Session {
	if s, ok := c.Locals(sessionLocal).(app.Session); ok {
		return s
	}
	return app.Session{}
}

func ParamID(c fiber.Ctx, name string) (uint64, errs.Error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.Validation("invalid id", map[string]string{name: "must be a positive integer"})
	}
	return id, nil
}

// SendXlsx streams an xlsx attachment.
func SendXlsx(c fiber.Ctx, d *app.Download) error {
	c.Set(fiber.HeaderContentType, XlsxMime)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+asciiName(d.FileName)+`"; filename*=UTF-8''`+url.PathEscape(d.FileName))
	return c.Send(d.Content)
}

func asciiName(name string) string {
	out := make([]byte, 0, len(name))
	for _, r := range name {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			out = append(out, '_')
			continue
		}
		out = append(out, byte(r))
	}
	return string(out)
}

func BindError(err error) errs.Error {
	return errs.WrapAppError(err, &errs.ErrorOpts{Kind: errs.KindValidation, Message: "malformed request"})
}

// FormFile reads a multipart file field fully into memory.
func FormFile(c fiber.Ctx, field string) (app.UploadFile, errs.Error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return app.UploadFile{}, errs.Validation("请选择要上传的文件", map[string]string{field: "required"})
	}

	f, err := fh.Open()
	if err != nil {
		return app.UploadFile{}, errs.WrapAppError(err, &errs.ErrorOpts{})
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return app.UploadFile{}, errs.WrapAppError(err, &errs.ErrorOpts{})
	}

	return app.UploadFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Content:     content,
	}, nil
}
