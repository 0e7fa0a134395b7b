package portfolio_store_client

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(url string) *PortfolioStoreClient {
	cfg := &config.Config{}
	cfg.Clients.PortfolioStore.Url = url + "/"
	cfg.Clients.PortfolioStore.Timeout = 5 * time.Second
	return New(cfg, slog.New(slog.DiscardHandler))
}

var creds = app.Credentials{Token: "tok-123", Username: "zhangsan"}

func TestCreateSendsKeyAndPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/investment-portfolios/excel", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("investor_id"))
		assert.Equal(t, "Q2", r.URL.Query().Get("quarter"))
		assert.Equal(t, "2024", r.URL.Query().Get("year"))
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "edited.xlsx", body["file_name"])
		assert.Equal(t, []any{[]any{"a", float64(1)}}, body["data"])

		w.Write([]byte(`{"success":true,"message":"created","portfolioId":17}`))
	}))
	defer srv.Close()

	rows := app.Sheet{{app.Text("a"), app.ParseCell("1")}}
	res, err := newClient(srv.URL).Create(context.Background(), creds,
		app.PortfolioKey{InvestorID: 42, Quarter: app.QuarterQ2, Year: 2024},
		app.SheetPayload{Data: rows, FileName: "edited.xlsx"})

	require.Nil(t, err)
	assert.Equal(t, uint64(17), res.RecordID)
	assert.True(t, res.Created)
}

func TestUpdateUsesRecordID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/investment-portfolios/9/excel", r.URL.Path)
		w.Write([]byte(`{"success":true,"message":"updated"}`))
	}))
	defer srv.Close()

	res, err := newClient(srv.URL).Update(context.Background(), creds, 9, app.SheetPayload{})
	require.Nil(t, err)
	assert.Equal(t, uint64(9), res.RecordID)
	assert.False(t, res.Created)
}

func TestNonSuccessIsPersistenceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"该投资人在此季度已有投资记录"}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Create(context.Background(), creds, app.PortfolioKey{InvestorID: 1, Quarter: app.QuarterQ1, Year: 2024}, app.SheetPayload{})
	require.NotNil(t, err)
	assert.Equal(t, errs.KindPersistence, err.Kind())
	assert.Equal(t, "该投资人在此季度已有投资记录", err.Message())
}

func TestSuccessFlagFalseIsPersistenceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"rejected"}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Update(context.Background(), creds, 3, app.SheetPayload{})
	require.NotNil(t, err)
	assert.Equal(t, errs.KindPersistence, err.Kind())
	assert.Equal(t, "rejected", err.Message())
}

func TestUnreachableStoreIsPersistenceError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newClient(url).Update(context.Background(), creds, 3, app.SheetPayload{})
	require.NotNil(t, err)
	assert.Equal(t, errs.KindPersistence, err.Kind())
}

func TestSuccessFlagFalseWithIDIsPersistenceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"该投资组合不可编辑","portfolioId":7}`))
	}))
	defer srv.Close()

	res, err := newClient(srv.URL).Update(context.Background(), creds, 7, app.SheetPayload{})
	assert.Nil(t, res)
	require.NotNil(t, err)
	assert.Equal(t, errs.KindPersistence, err.Kind())
	assert.Equal(t, "该投资组合不可编辑", err.Message())
}

func TestCreateWithoutIDIsPersistenceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	defer srv.Close()

	res, err := newClient(srv.URL).Create(context.Background(), creds, app.PortfolioKey{InvestorID: 1, Quarter: app.QuarterQ1, Year: 2024}, app.SheetPayload{})
	assert.Nil(t, res)
	require.NotNil(t, err)
	assert.Equal(t, errs.KindPersistence, err.Kind())
}
