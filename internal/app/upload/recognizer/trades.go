package recognizer

import (
	"strings"

	"github.com/init-pkg/trade-disclosure/domain/app"
)

// TradeHeaders match the disclosure template so generated sheets validate
// against it.
var TradeHeaders = []string{"交易日期", "证券代码", "证券名称", "交易类型", "交易数量", "交易价格", "交易金额", "相关人员", "关系"}

type Trade struct {
	Date     string `json:"trade_date" jsonschema_description:"Trade date as YYYY-MM-DD"`
	Code     string `json:"security_code" jsonschema_description:"6-digit security code"`
	Name     string `json:"security_name" jsonschema_description:"Security name as shown"`
	Side     string `json:"side" jsonschema:"enum=买入,enum=卖出" jsonschema_description:"买入 for buy, 卖出 for sell"`
	Quantity string `json:"quantity" jsonschema_description:"Number of shares, digits only"`
	Price    string `json:"price" jsonschema_description:"Price per share, digits and dot only"`
	Amount   string `json:"amount" jsonschema_description:"Total amount, digits and dot only, empty when not shown"`
}

type Trades struct {
	Trades []Trade `json:"trades" jsonschema_description:"Every trade visible in the document, in document order"`
}

// Sheet renders trades under TradeHeaders, tagging each row with the person.
func (t Trades) Sheet(person app.RelatedPersonInfo) app.Sheet {
	rows := make(app.Sheet, 0, len(t.Trades)+1)

	header := make([]app.Cell, len(TradeHeaders))
	for i, h := range TradeHeaders {
		header[i] = app.Text(h)
	}
	rows = append(rows, header)

	for _, tr := range t.Trades {
		rows = append(rows, []app.Cell{
			app.Text(strings.TrimSpace(tr.Date)),
			app.Text(strings.TrimSpace(tr.Code)),
			app.Text(strings.TrimSpace(tr.Name)),
			app.Text(strings.TrimSpace(tr.Side)),
			app.ParseCell(strings.TrimSpace(tr.Quantity)),
			app.ParseCell(strings.TrimSpace(tr.Price)),
			app.ParseCell(strings.TrimSpace(tr.Amount)),
			app.Text(person.Name),
			app.Text(person.Relationship.String()),
		})
	}
	return rows
}
