package app

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ColumnDefinition is the grid-widget view of one sheet column.
type ColumnDefinition struct {
	Field      string `json:"field"`
	HeaderName string `json:"headerName"`
	Editable   bool   `json:"editable"`
	Sortable   bool   `json:"sortable"`
	Filter     bool   `json:"filter"`
}

func ColumnField(i int) string { return "col" + strconv.Itoa(i) }

// TabularRow maps column fields to cells. ID is the widget row identity and is
// never persisted.
type TabularRow struct {
	ID    uint64
	Cells map[string]Cell
}

func (r *TabularRow) Get(field string) Cell {
	if r.Cells == nil {
		return Cell{}
	}
	return r.Cells[field]
}

func (r *TabularRow) Clone() *TabularRow {
	cells := make(map[string]Cell, len(r.Cells))
	for k, v := range r.Cells {
		cells[k] = v
	}
	return &TabularRow{ID: r.ID, Cells: cells}
}

func (r TabularRow) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(r.Cells))
	for k := range r.Cells {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(`{"id":`)
	b.WriteString(strconv.FormatUint(r.ID, 10))
	for _, k := range keys {
		v, err := json.Marshal(r.Cells[k])
		if err != nil {
			return nil, err
		}
		kj, _ := json.Marshal(k)
		b.WriteByte(',')
		b.Write(kj)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func (r *TabularRow) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Cells = make(map[string]Cell, len(raw))
	for k, v := range raw {
		if k == "id" {
			if err := json.Unmarshal(v, &r.ID); err != nil {
				return fmt.Errorf("row id: %w", err)
			}
			continue
		}
		var c Cell
		if err := json.Unmarshal(v, &c); err != nil {
			return err
		}
		r.Cells[k] = c
	}
	return nil
}

type Grid struct {
	RowData    []*TabularRow      `json:"rowData"`
	ColumnDefs []ColumnDefinition `json:"columnDefs"`
}

type GridAdapter interface {
	ToGrid(sheet Sheet) Grid
	FromGrid(rows []*TabularRow, columns []ColumnDefinition) Sheet
	HasHeaderRow(sheet Sheet) bool
}
