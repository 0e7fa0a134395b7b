package recognizer

import (
	"log/slog"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/openai/openai-go/v2"
)

const EngineOpenAI = "openai"

// New picks the engine named by recognition.engine. Without an api key the
// mock engine is used.
func New(cfg *config.Config, client *openai.Client, log *slog.Logger) app.Recognizer {
	if cfg.Recognition.Engine == EngineOpenAI && cfg.Clients.OpenAI.ApiKey != "" {
		return NewOpenAI(client, cfg.Clients.OpenAI.Model, log)
	}
	if cfg.Recognition.Engine == EngineOpenAI {
		log.Warn("openai recognition requested without api key, using mock")
	}
	return NewMock(log)
}
