package recognizer

import (
	"context"
	"log/slog"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
)

const SourceMock = "mock"

// MockRecognizer returns fixed sample trades. The result is flagged Demo and
// every sample row names itself as such.
type MockRecognizer struct {
	log *slog.Logger
}

var _ app.Recognizer = &MockRecognizer{}

func NewMock(log *slog.Logger) *MockRecognizer {
	return &MockRecognizer{log: log}
}

var sampleTrades = Trades{Trades: []Trade{
	{Date: "2024-01-15", Code: "600000", Name: "示例数据-浦发银行", Side: "买入", Quantity: "1000", Price: "7.85", Amount: "7850"},
	{Date: "2024-02-20", Code: "000001", Name: "示例数据-平安银行", Side: "卖出", Quantity: "500", Price: "10.32", Amount: "5160"},
}}

func (this *MockRecognizer) Recognize(_ context.Context, in app.RecognitionInput) (*app.Recognition, errs.Error) {
	this.log.Info("mock recognition", "file", in.File.Name)
	return &app.Recognition{Rows: sampleTrades.Sheet(in.Person), Source: SourceMock, Demo: true}, nil
}
