package portfolio_search_service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/init-pkg/trade-disclosure/internal/config"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOpenSearch struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
}

func (f *fakeOpenSearch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies[r.Method+" "+r.URL.Path] = string(body)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/_search"):
		io.WriteString(w, `{"took":1,"timed_out":false,"_shards":{"total":1,"successful":1,"skipped":0,"failed":0},
			"hits":{"total":{"value":1,"relation":"eq"},"max_score":2.5,"hits":[
			{"_index":"investment-portfolios","_id":"5","_score":2.5,
			 "_source":{"id":5,"investorId":7,"quarter":"Q3","year":2024,"fileName":"q3.xlsx"}}]}}`)
	case r.Method == http.MethodDelete:
		io.WriteString(w, `{"_index":"investment-portfolios","_id":"5","_version":2,"result":"deleted","_shards":{"total":1,"successful":1,"failed":0},"_seq_no":1,"_primary_term":1}`)
	case strings.Contains(r.URL.Path, "/_doc/"):
		io.WriteString(w, `{"_index":"investment-portfolios","_id":"5","_version":1,"result":"created","_shards":{"total":1,"successful":1,"failed":0},"_seq_no":0,"_primary_term":1}`)
	default:
		io.WriteString(w, `{"acknowledged":true,"shards_acknowledged":true,"index":"investment-portfolios"}`)
	}
}

func (f *fakeOpenSearch) indexed(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, v := range f.bodies {
		if strings.HasSuffix(k, "/_doc/"+id) && !strings.HasPrefix(k, http.MethodDelete) {
			return v
		}
	}
	return ""
}

func newService(t *testing.T) (*PortfolioSearchService, *fakeOpenSearch) {
	t.Helper()
	fake := &fakeOpenSearch{bodies: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := opensearchapi.NewClient(opensearchapi.Config{Client: opensearch.Config{Addresses: []string{srv.URL}}})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Infrastructure.OpenSearch.Index = "investment-portfolios"
	return New(client, nil, cfg, slog.New(slog.DiscardHandler)), fake
}

func TestIndexAndSearch(t *testing.T) {
	svc, fake := newService(t)
	ctx := context.Background()
	require.True(t, svc.Enabled())

	p := &app.Portfolio{ID: 5, InvestorID: 7, Quarter: app.QuarterQ3, Year: 2024, OriginalFilename: "q3.xlsx"}
	rows := app.Sheet{{app.Text("证券代码")}, {app.Text("600000")}}
	require.Nil(t, svc.Index(ctx, p, rows))

	var doc document
	require.NoError(t, json.Unmarshal([]byte(fake.indexed("5")), &doc))
	assert.Equal(t, "证券代码 \n600000", doc.Content)
	assert.Empty(t, doc.Embedding)

	hits, err := svc.Search(ctx, "600000", 10)
	require.Nil(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, uint64(5), hits[0].ID)
	assert.Equal(t, app.QuarterQ3, hits[0].Quarter)
	assert.InDelta(t, 2.5, hits[0].Score, 0.001)
	assert.Contains(t, fake.bodies["POST /investment-portfolios/_search"], "multi_match")

	require.Nil(t, svc.Remove(ctx, 5))
	assert.Contains(t, fake.requests, "DELETE /investment-portfolios/_doc/5")
}

func TestDisabledIndex(t *testing.T) {
	cfg := &config.Config{}
	svc := New(nil, nil, cfg, slog.New(slog.DiscardHandler))

	assert.False(t, svc.Enabled())
	assert.Nil(t, svc.Index(context.Background(), &app.Portfolio{ID: 1}, nil))
	assert.Nil(t, svc.Remove(context.Background(), 1))

	_, err := svc.Search(context.Background(), "x", 5)
	require.NotNil(t, err)
	assert.Equal(t, errs.KindNotFound, err.Kind())
}
