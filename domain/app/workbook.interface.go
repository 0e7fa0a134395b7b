package app

import "github.com/init-pkg/trade-disclosure/domain/errs"

const DefaultSheetName = "Sheet1"

type NamedSheet struct {
	Name string `json:"name"`
	Rows Sheet  `json:"rows"`
}

// Workbook is an ordered sequence of named sheets.
type Workbook struct {
	Sheets []NamedSheet `json:"sheets"`
}

func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}

func (w *Workbook) Sheet(name string) (NamedSheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return NamedSheet{}, false
}

// Current returns the sheet named preferred when present, else the first sheet.
func (w *Workbook) Current(preferred string) (NamedSheet, bool) {
	if preferred != "" {
		if s, ok := w.Sheet(preferred); ok {
			return s, true
		}
	}
	if len(w.Sheets) == 0 {
		return NamedSheet{}, false
	}
	return w.Sheets[0], true
}

type WorkbookCodec interface {
	Decode(data []byte) (*Workbook, errs.Error)
	Encode(rows Sheet, sheetName string) ([]byte, errs.Error)
	EncodeWorkbook(wb *Workbook) ([]byte, errs.Error)
}
