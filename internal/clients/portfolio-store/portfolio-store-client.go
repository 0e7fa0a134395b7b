package portfolio_store_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/init-pkg/trade-disclosure/internal/config"
)

// PortfolioStoreClient talks to a remote persistence boundary over HTTP.
type PortfolioStoreClient struct {
	url    string
	client *http.Client
	log    *slog.Logger
}

var _ app.PortfolioStore = &PortfolioStoreClient{}

// APIResponse is the boundary envelope. Errors come back as message or, from
// some deployments, as detail.
type APIResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Detail      string `json:"detail,omitempty"`
	PortfolioID uint64 `json:"portfolioId"`
}

func New(cfg *config.Config, log *slog.Logger) *PortfolioStoreClient {
	client := &http.Client{
		Timeout: cfg.Clients.PortfolioStore.Timeout,
	}

	return &PortfolioStoreClient{
		url:    strings.TrimRight(cfg.Clients.PortfolioStore.Url, "/"),
		client: client,
		log:    log,
	}
}

// Create - creates a record for key
func (this *PortfolioStoreClient) Create(ctx context.Context, creds app.Credentials, key app.PortfolioKey, payload app.SheetPayload) (*app.SaveResult, errs.Error) {
	query := url.Values{}
	query.Set("investor_id", strconv.FormatUint(key.InvestorID, 10))
	query.Set("quarter", key.Quarter.String())
	query.Set("year", strconv.Itoa(key.Year))

	endpoint := fmt.Sprintf("%s/api/v1/investment-portfolios/excel?%s", this.url, query.Encode())

	res, err := this.send(ctx, http.MethodPost, endpoint, creds, payload)
	if err != nil {
		return nil, err
	}
	if res.PortfolioID == 0 {
		this.log.Warn("portfolio store created without id", "investor", key.InvestorID, "quarter", key.Quarter, "year", key.Year)
		return nil, errs.Persistence(errors.New("create response has no portfolioId"), "保存失败: 存储服务未返回记录编号")
	}
	return &app.SaveResult{RecordID: res.PortfolioID, Created: true, Message: res.Message}, nil
}

// Update - replaces the sheet of record id
func (this *PortfolioStoreClient) Update(ctx context.Context, creds app.Credentials, id uint64, payload app.SheetPayload) (*app.SaveResult, errs.Error) {
	endpoint := fmt.Sprintf("%s/api/v1/investment-portfolios/%d/excel", this.url, id)

	res, err := this.send(ctx, http.MethodPut, endpoint, creds, payload)
	if err != nil {
		return nil, err
	}
	if res.PortfolioID == 0 {
		res.PortfolioID = id
	}
	return &app.SaveResult{RecordID: res.PortfolioID, Created: false, Message: res.Message}, nil
}

func (this *PortfolioStoreClient) send(ctx context.Context, method, endpoint string, creds app.Credentials, payload app.SheetPayload) (*APIResponse, errs.Error) {
	if payload.Data == nil {
		payload.Data = app.Sheet{}
	}
	js, e := json.Marshal(payload)
	if e != nil {
		return nil, errs.WrapAppError(e, &errs.ErrorOpts{})
	}

	req, e := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewBuffer(js))
	if e != nil {
		return nil, errs.WrapAppError(e, &errs.ErrorOpts{})
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if creds.Token != "" {
		req.Header.Set("Authorization", "Bearer "+creds.Token)
	}

	res, e := this.client.Do(req)
	if e != nil {
		return nil, errs.Persistence(e, "保存失败: 无法连接存储服务")
	}
	defer res.Body.Close()

	body, e := io.ReadAll(res.Body)
	if e != nil {
		return nil, errs.Persistence(e, "保存失败: 读取响应失败")
	}

	var parsed APIResponse
	_ = json.Unmarshal(body, &parsed)

	if res.StatusCode < 200 || res.StatusCode >= 300 || !parsed.Success {
		msg := parsed.Message
		if msg == "" {
			msg = parsed.Detail
		}
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		this.log.Warn("portfolio store rejected request", "method", method, "status", res.StatusCode, "message", msg)
		return nil, errs.Persistence(fmt.Errorf("API error %d: %s", res.StatusCode, string(body)), msg)
	}

	return &parsed, nil
}
