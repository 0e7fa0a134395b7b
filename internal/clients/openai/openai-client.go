package openai_client

import (
	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

func New(cfg *config.Config) *openai.Client {
	var cl = openai.NewClient(
		option.WithAPIKey(cfg.Clients.OpenAI.ApiKey),
		option.WithMaxRetries(0),
	)

	return &cl
}
