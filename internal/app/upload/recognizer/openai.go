package recognizer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v2"
)

const SourceOpenAI = "openai"

func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var tradesSchema = openai.ResponseFormatJSONSchemaJSONSchemaParam{
	Name:        "trade_records",
	Description: openai.String("Securities trades read from a brokerage screenshot or statement"),
	Schema:      GenerateSchema[Trades](),
	Strict:      openai.Bool(true),
}

const systemPrompt = "You read brokerage app screenshots and account statements. " +
	"Extract every securities trade you can see. Do not invent trades. " +
	"Return ONLY the JSON required by the schema."

// OpenAIRecognizer reads trades from images and PDFs with a vision model.
type OpenAIRecognizer struct {
	client *openai.Client
	model  string
	log    *slog.Logger
}

var _ app.Recognizer = &OpenAIRecognizer{}

func NewOpenAI(client *openai.Client, model string, log *slog.Logger) *OpenAIRecognizer {
	return &OpenAIRecognizer{client: client, model: model, log: log}
}

func (this *OpenAIRecognizer) Recognize(ctx context.Context, in app.RecognitionInput) (*app.Recognition, errs.Error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", in.File.ContentType, base64.StdEncoding.EncodeToString(in.File.Content))

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart("Extract the trades in this document."),
	}
	if in.File.ContentType == "application/pdf" {
		parts = append(parts, openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
			FileData: openai.String(dataURL),
			Filename: openai.String(in.File.Name),
		}))
	} else {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL,
		}))
	}

	chat, err := this.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(parts),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: tradesSchema,
			},
		},
		Seed:  openai.Int(42),
		Model: openai.ChatModel(this.model),
	})
	if err != nil {
		return nil, errs.Transport(fmt.Errorf("openai chat completion: %w", err), "识别服务暂时不可用")
	}
	if len(chat.Choices) == 0 {
		return nil, errs.Transport(errors.New("openai: empty choices"), "识别服务未返回结果")
	}

	var trades Trades
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &trades); err != nil {
		return nil, errs.Transport(fmt.Errorf("unmarshal model output: %w", err), "识别结果无法解析")
	}

	this.log.Info("trades recognized", "file", in.File.Name, "trades", len(trades.Trades), "model", this.model)
	return &app.Recognition{Rows: trades.Sheet(in.Person), Source: SourceOpenAI}, nil
}
