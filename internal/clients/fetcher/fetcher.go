package fetcher_client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/init-pkg/trade-disclosure/internal/config"
)

// HttpFetcher downloads spreadsheets by reference. Relative references resolve
// against the recognition service base url. Absolute references must point at
// an allowed host.
type HttpFetcher struct {
	base     string
	allowed  map[string]struct{}
	maxBytes int64
	client   *http.Client
	log      *slog.Logger
}

var _ app.SpreadsheetFetcher = &HttpFetcher{}

func New(cfg *config.Config, log *slog.Logger) *HttpFetcher {
	allowed := map[string]struct{}{}
	for _, raw := range []string{cfg.Clients.Recognition.Url, cfg.App.PublicURL} {
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			allowed[strings.ToLower(u.Host)] = struct{}{}
		}
	}
	for _, host := range cfg.Clients.Recognition.AllowedHosts {
		if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
			allowed[host] = struct{}{}
		}
	}

	return &HttpFetcher{
		base:     strings.TrimRight(cfg.Clients.Recognition.Url, "/"),
		allowed:  allowed,
		maxBytes: int64(cfg.Http.BodyLimit),
		client: &http.Client{
			Timeout: cfg.Clients.Recognition.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after %d redirects", len(via))
				}
				if _, ok := allowed[strings.ToLower(req.URL.Host)]; !ok {
					return fmt.Errorf("redirect to %s not allowed", req.URL.Host)
				}
				return nil
			},
		},
		log: log,
	}
}

func (this *HttpFetcher) Resolve(ref string) (string, errs.Error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errs.Validation("缺少文件地址", map[string]string{"url": "required"})
	}
	if strings.HasPrefix(ref, "/") {
		ref = this.base + ref
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errs.Validation("文件地址无效", map[string]string{"url": "url"})
	}
	if _, ok := this.allowed[strings.ToLower(u.Host)]; !ok {
		this.log.Warn("spreadsheet host rejected", "host", u.Host)
		return "", errs.Validation("不允许从该地址下载文件", map[string]string{"url": "host"})
	}
	return u.String(), nil
}

func (this *HttpFetcher) Fetch(ctx context.Context, ref string) ([]byte, errs.Error) {
	target, appErr := this.Resolve(ref)
	if appErr != nil {
		return nil, appErr
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errs.WrapAppError(err, &errs.ErrorOpts{})
	}

	res, err := this.client.Do(req)
	if err != nil {
		return nil, errs.Transport(err, "下载Excel文件失败")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errs.Transport(fmt.Errorf("GET %s: status %d", target, res.StatusCode), "下载Excel文件失败")
	}

	reader := io.Reader(res.Body)
	if this.maxBytes > 0 {
		reader = io.LimitReader(res.Body, this.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errs.Transport(err, "下载Excel文件失败")
	}
	if this.maxBytes > 0 && int64(len(data)) > this.maxBytes {
		return nil, errs.Validation("文件过大", map[string]string{"file": "max"})
	}

	this.log.Debug("spreadsheet fetched", "url", target, "bytes", len(data))
	return data, nil
}
