package portfolio_search_service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/init-pkg/trade-disclosure/internal/config"

	"github.com/openai/openai-go/v2"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

const (
	embeddingDimension = 1536
	maxEmbeddingInput  = 8000
	minScore           = 0.3
)

type document struct {
	ID         uint64      `json:"id"`
	InvestorID uint64      `json:"investorId"`
	Quarter    app.Quarter `json:"quarter"`
	Year       int         `json:"year"`
	FileName   string      `json:"fileName"`
	Content    string      `json:"content"`
	Embedding  []float64   `json:"embedding,omitempty"`
}

// PortfolioSearchService keeps portfolio sheets in an OpenSearch index. With an
// OpenAI key configured it also stores embeddings and answers with kNN search.
type PortfolioSearchService struct {
	opensearchClient *opensearchapi.Client
	openaiClient     *openai.Client
	index            string
	semantic         bool
	embeddingModel   string
	log              *slog.Logger

	ensureOnce sync.Once
}

var _ app.PortfolioIndex = &PortfolioSearchService{}

func New(
	opensearchClient *opensearchapi.Client,
	openaiClient *openai.Client,
	cfg *config.Config,
	log *slog.Logger,
) *PortfolioSearchService {
	return &PortfolioSearchService{
		opensearchClient: opensearchClient,
		openaiClient:     openaiClient,
		index:            cfg.Infrastructure.OpenSearch.Index,
		semantic:         openaiClient != nil && cfg.Clients.OpenAI.ApiKey != "",
		embeddingModel:   openai.EmbeddingModelTextEmbedding3Small,
		log:              log,
	}
}

func (this *PortfolioSearchService) Enabled() bool {
	return this.opensearchClient != nil
}

func (this *PortfolioSearchService) Index(ctx context.Context, p *app.Portfolio, rows app.Sheet) errs.Error {
	if !this.Enabled() {
		return nil
	}
	this.ensureIndex(ctx)

	doc := document{
		ID:         p.ID,
		InvestorID: p.InvestorID,
		Quarter:    p.Quarter,
		Year:       p.Year,
		FileName:   p.OriginalFilename,
		Content:    flatten(rows),
	}
	if this.semantic {
		embedding, err := this.generateEmbedding(ctx, doc.FileName+"\n"+doc.Content)
		if err != nil {
			this.log.Warn("embedding skipped", "id", p.ID, "error", err)
		} else {
			doc.Embedding = embedding
		}
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return errs.WrapAppError(err, &errs.ErrorOpts{})
	}

	_, err = this.opensearchClient.Index(ctx, opensearchapi.IndexReq{
		Index:      this.index,
		DocumentID: strconv.FormatUint(p.ID, 10),
		Body:       bytes.NewReader(body),
		Params:     opensearchapi.IndexParams{Refresh: "true"},
	})
	if err != nil {
		return errs.Transport(err, "index portfolio")
	}
	return nil
}

func (this *PortfolioSearchService) Remove(ctx context.Context, id uint64) errs.Error {
	if !this.Enabled() {
		return nil
	}
	_, err := this.opensearchClient.Document.Delete(ctx, opensearchapi.DocumentDeleteReq{
		Index:      this.index,
		DocumentID: strconv.FormatUint(id, 10),
	})
	if err != nil {
		return errs.Transport(err, "remove portfolio from index")
	}
	return nil
}

func (this *PortfolioSearchService) Search(ctx context.Context, query string, limit int) ([]app.PortfolioHit, errs.Error) {
	if !this.Enabled() {
		return nil, errs.New(errs.KindNotFound, "search index is not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, errs.Validation("search query is required", map[string]string{"q": "is required"})
	}

	var body map[string]any
	if this.semantic {
		embedding, err := this.generateEmbedding(ctx, query)
		if err != nil {
			return nil, errs.Transport(err, "embed search query")
		}
		body = knnQuery(embedding, limit)
	} else {
		body = textQuery(query, limit)
	}

	hits, err := this.searchInIndex(ctx, body)
	if err != nil {
		return nil, errs.Transport(err, "search portfolios")
	}
	return hits, nil
}

func (this *PortfolioSearchService) generateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if len(text) > maxEmbeddingInput {
		text = text[:maxEmbeddingInput]
	}

	response, err := this.openaiClient.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: []string{text},
		},
		Model: this.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(response.Data) == 0 {
		return nil, errors.New("no embedding data received")
	}

	return response.Data[0].Embedding, nil
}

func knnQuery(embedding []float64, k int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"knn": map[string]any{
				"embedding": map[string]any{
					"vector": embedding,
					"k":      k,
				},
			},
		},
		"size":      k,
		"_source":   []string{"id", "investorId", "quarter", "year", "fileName"},
		"min_score": minScore,
	}
}

func textQuery(query string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"fileName^2", "content"},
			},
		},
		"size":    size,
		"_source": []string{"id", "investorId", "quarter", "year", "fileName"},
	}
}

func (this *PortfolioSearchService) searchInIndex(ctx context.Context, query map[string]any) ([]app.PortfolioHit, error) {
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	searchResp, err := this.opensearchClient.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{this.index},
		Body:    bytes.NewReader(queryJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search in index %s: %w", this.index, err)
	}

	results := make([]app.PortfolioHit, 0, len(searchResp.Hits.Hits))
	for _, hit := range searchResp.Hits.Hits {
		var source document
		if err := json.Unmarshal(hit.Source, &source); err != nil {
			continue
		}
		results = append(results, app.PortfolioHit{
			ID:         source.ID,
			InvestorID: source.InvestorID,
			Quarter:    source.Quarter,
			Year:       source.Year,
			FileName:   source.FileName,
			Score:      float64(hit.Score),
		})
	}

	return results, nil
}

// ensureIndex creates the index with a knn mapping. An existing index is fine.
func (this *PortfolioSearchService) ensureIndex(ctx context.Context) {
	this.ensureOnce.Do(func() {
		properties := map[string]any{
			"id":         map[string]string{"type": "long"},
			"investorId": map[string]string{"type": "long"},
			"quarter":    map[string]string{"type": "keyword"},
			"year":       map[string]string{"type": "integer"},
			"fileName":   map[string]string{"type": "text"},
			"content":    map[string]string{"type": "text"},
		}
		settings := map[string]any{}
		if this.semantic {
			properties["embedding"] = map[string]any{"type": "knn_vector", "dimension": embeddingDimension}
			settings["index"] = map[string]any{"knn": true}
		}

		body, _ := json.Marshal(map[string]any{
			"settings": settings,
			"mappings": map[string]any{"properties": properties},
		})

		_, err := this.opensearchClient.Indices.Create(ctx, opensearchapi.IndicesCreateReq{
			Index: this.index,
			Body:  bytes.NewReader(body),
		})
		if err != nil && !strings.Contains(err.Error(), "resource_already_exists_exception") {
			this.log.Warn("opensearch index create failed", "index", this.index, "error", err)
		}
	})
}

func flatten(rows app.Sheet) string {
	var b strings.Builder
	for _, row := range rows {
		for _, c := range row {
			if c.IsBlank() {
				continue
			}
			b.WriteString(c.String())
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}
