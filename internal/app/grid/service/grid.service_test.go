package grid_service

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ignoreRowID = cmpopts.IgnoreFields(app.TabularRow{}, "ID")

func num(n int64) app.Cell { return app.Number(decimal.NewFromInt(n)) }

func headers(g app.Grid) []string {
	out := make([]string, len(g.ColumnDefs))
	for i, c := range g.ColumnDefs {
		out[i] = c.HeaderName
	}
	return out
}

func TestToGridInfersHeader(t *testing.T) {
	g := New().ToGrid(app.Sheet{
		{app.Text("Name"), app.Text("Age")},
		{app.Text("A"), num(30)},
	})

	assert.Equal(t, []string{"Name", "Age"}, headers(g))
	require.Len(t, g.RowData, 1)

	want := &app.TabularRow{Cells: map[string]app.Cell{"col0": app.Text("A"), "col1": num(30)}}
	assert.Empty(t, cmp.Diff(want, g.RowData[0], ignoreRowID))

	for _, c := range g.ColumnDefs {
		assert.True(t, c.Editable)
		assert.True(t, c.Sortable)
		assert.True(t, c.Filter)
	}
}

func TestToGridNumericFirstRowIsData(t *testing.T) {
	g := New().ToGrid(app.Sheet{
		{num(5), num(6)},
		{num(7), num(8)},
	})

	assert.Equal(t, []string{"Column 1", "Column 2"}, headers(g))
	require.Len(t, g.RowData, 2)
	assert.True(t, g.RowData[0].Get("col0").Equal(num(5)))
	assert.True(t, g.RowData[0].Get("col1").Equal(num(6)))
}

func TestToGridRaggedRows(t *testing.T) {
	g := New().ToGrid(app.Sheet{
		{app.Text("a")},
		{app.Text("b"), app.Text("c"), app.Text("d")},
	})

	assert.Equal(t, []string{"Column 1", "Column 2", "Column 3"}, headers(g))
	require.Len(t, g.RowData, 2)
	assert.Equal(t, "a", g.RowData[0].Get("col0").String())
	assert.True(t, g.RowData[0].Get("col1").IsBlank())
	assert.True(t, g.RowData[0].Get("col2").IsBlank())
	assert.Len(t, g.RowData[0].Cells, 3)
}

func TestToGridBlankOrPaddedHeaderCell(t *testing.T) {
	svc := New()

	assert.False(t, svc.HasHeaderRow(app.Sheet{{app.Text("a"), app.Text("  ")}, {app.Text("x"), app.Text("y")}}))
	assert.False(t, svc.HasHeaderRow(app.Sheet{{app.Text("a"), app.Blank()}}))
	assert.True(t, svc.HasHeaderRow(app.Sheet{{app.Text(" a "), app.Text("b")}}))
}

func TestToGridSingleHeaderRow(t *testing.T) {
	g := New().ToGrid(app.Sheet{{app.Text("交易日期"), app.Text("证券代码")}})

	assert.Equal(t, []string{"交易日期", "证券代码"}, headers(g))
	assert.Empty(t, g.RowData)
}

func TestToGridEmptySheet(t *testing.T) {
	svc := New()

	for _, s := range []app.Sheet{nil, {}, {{}, {}}} {
		g := svc.ToGrid(s)
		assert.Empty(t, g.RowData)
		assert.Empty(t, g.ColumnDefs)
	}
}

func TestRowIDsAreStableAndUnique(t *testing.T) {
	svc := New()
	sheet := app.Sheet{{num(1)}, {num(2)}, {num(3)}}

	first := svc.ToGrid(sheet)
	second := svc.ToGrid(sheet)

	seen := map[uint64]bool{}
	for _, r := range append(first.RowData, second.RowData...) {
		assert.False(t, seen[r.ID], "id %d reused", r.ID)
		seen[r.ID] = true
	}
}

func TestFromGridSynthesizesHeader(t *testing.T) {
	svc := New()
	s := app.Sheet{{num(5), num(6)}, {num(7)}}

	out := svc.FromGrid(svc.ToGrid(s).RowData, svc.ToGrid(s).ColumnDefs)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"Column 1", "Column 2"}, out.Strings()[0])
	assert.Equal(t, []string{"5", "6"}, out.Strings()[1])
	assert.Equal(t, []string{"7", ""}, out.Strings()[2])
	assert.True(t, out[2][1].IsBlank())
}

func TestRoundTripIsIdempotentFromSecondApplication(t *testing.T) {
	svc := New()
	sheets := []app.Sheet{
		{{num(5), num(6)}, {num(7), num(8)}},
		{{app.Text("Name"), app.Text("Age")}, {app.Text("A"), num(30)}},
		{{app.Text("a")}, {app.Text("b"), app.Text("c"), app.Text("d")}},
		{{app.Text("only")}},
	}

	roundTrip := func(s app.Sheet) app.Grid {
		g := svc.ToGrid(s)
		return svc.ToGrid(svc.FromGrid(g.RowData, g.ColumnDefs))
	}

	for _, s := range sheets {
		once := roundTrip(s)
		twice := svc.ToGrid(svc.FromGrid(once.RowData, once.ColumnDefs))
		assert.Empty(t, cmp.Diff(once, twice, ignoreRowID))
	}
}
