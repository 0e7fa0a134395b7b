package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type CellKind uint8

const (
	CellBlank CellKind = iota
	CellText
	CellNumber
)

func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	default:
		return "blank"
	}
}

// Cell is a single spreadsheet value: text, number or blank.
type Cell struct {
	kind CellKind
	text string
	num  decimal.Decimal
}

func Text(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{kind: CellText, text: s}
}

func Number(d decimal.Decimal) Cell {
	return Cell{kind: CellNumber, num: d}
}

func Blank() Cell { return Cell{} }

// ParseCell keeps numeric-looking input as a number and everything else as text.
func ParseCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil && looksNumeric(s) {
		return Number(d)
	}
	return Text(s)
}

// looksNumeric rejects values decimal accepts but a spreadsheet user means as text,
// like ids with leading zeros or padded strings.
func looksNumeric(s string) bool {
	if s != strings.TrimSpace(s) {
		return false
	}
	digits := strings.TrimLeft(s, "-+")
	if len(digits) > 1 && digits[0] == '0' && digits[1] != '.' {
		return false
	}
	return !strings.ContainsAny(s, "eE")
}

func (c Cell) Kind() CellKind           { return c.kind }
func (c Cell) IsBlank() bool            { return c.kind == CellBlank }
func (c Cell) Decimal() decimal.Decimal { return c.num }
func (c Cell) IsText() bool             { return c.kind == CellText }
func (c Cell) IsNumber() bool           { return c.kind == CellNumber }

// String is the display form used by the grid editor.
func (c Cell) String() string {
	switch c.kind {
	case CellText:
		return c.text
	case CellNumber:
		return c.num.String()
	default:
		return ""
	}
}

func (c Cell) Equal(o Cell) bool {
	if c.kind != o.kind {
		return false
	}
	switch c.kind {
	case CellText:
		return c.text == o.text
	case CellNumber:
		return c.num.Equal(o.num)
	default:
		return true
	}
}

// Compare orders numbers numerically, text lexically, numbers before text and
// blanks last.
func (c Cell) Compare(o Cell) int {
	if c.kind != o.kind {
		return rank(c.kind) - rank(o.kind)
	}
	switch c.kind {
	case CellNumber:
		return c.num.Cmp(o.num)
	case CellText:
		return strings.Compare(c.text, o.text)
	default:
		return 0
	}
}

func rank(k CellKind) int {
	switch k {
	case CellNumber:
		return 0
	case CellText:
		return 1
	default:
		return 2
	}
}

func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case CellNumber:
		return []byte(c.num.String()), nil
	case CellText:
		return json.Marshal(c.text)
	default:
		return []byte(`""`), nil
	}
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Cell{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Text(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*c = Text(fmt.Sprint(b))
		return nil
	default:
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			return fmt.Errorf("cell value %s: %w", data, err)
		}
		*c = Number(d)
		return nil
	}
}

// Sheet is a 2-D array of cells, rows outer. Rows may have unequal length.
type Sheet [][]Cell

// MaxCols is the rendering width: the longest row length.
func (s Sheet) MaxCols() int {
	max := 0
	for _, row := range s {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// Padded returns a copy with every row blank-padded to MaxCols.
func (s Sheet) Padded() Sheet {
	width := s.MaxCols()
	out := make(Sheet, len(s))
	for i, row := range s {
		out[i] = make([]Cell, width)
		copy(out[i], row)
	}
	return out
}

// Strings renders the sheet with display strings.
func (s Sheet) Strings() [][]string {
	out := make([][]string, len(s))
	for i, row := range s {
		out[i] = make([]string, len(row))
		for j, c := range row {
			out[i][j] = c.String()
		}
	}
	return out
}

func SheetFromStrings(rows [][]string) Sheet {
	out := make(Sheet, len(rows))
	for i, row := range rows {
		out[i] = make([]Cell, len(row))
		for j, v := range row {
			out[i][j] = Text(v)
		}
	}
	return out
}
