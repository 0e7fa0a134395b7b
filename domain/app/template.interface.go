package app

import "github.com/init-pkg/trade-disclosure/domain/errs"

type TemplateRule struct {
	Required  bool     `yaml:"required" json:"required,omitempty"`
	Type      string   `yaml:"type" json:"type,omitempty"`
	Pattern   string   `yaml:"pattern" json:"pattern,omitempty"`
	MaxLength int      `yaml:"maxLength" json:"maxLength,omitempty"`
	Enum      []string `yaml:"enum" json:"enum,omitempty"`
	Min       *float64 `yaml:"min" json:"min,omitempty"`
}

type Template struct {
	Name            string                  `yaml:"name" json:"templateName"`
	Description     string                  `yaml:"description" json:"description"`
	Headers         []string                `yaml:"headers" json:"headers"`
	DefaultData     [][]string              `yaml:"defaultData" json:"defaultData"`
	ValidationRules map[string]TemplateRule `yaml:"validationRules" json:"validationRules"`
}

// Sheet renders the header row followed by the default data rows.
func (t *Template) Sheet() Sheet {
	rows := make(Sheet, 0, len(t.DefaultData)+1)
	header := make([]Cell, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = Text(h)
	}
	rows = append(rows, header)
	for _, line := range t.DefaultData {
		row := make([]Cell, len(line))
		for i, v := range line {
			row[i] = ParseCell(v)
		}
		rows = append(rows, row)
	}
	return rows
}

func (t *Template) FileName() string { return t.Name + ".xlsx" }

type ValidationSummary struct {
	TotalRows    int      `json:"totalRows"`
	TotalColumns int      `json:"totalColumns"`
	Columns      []string `json:"columns"`
}

type ValidationReport struct {
	Valid    bool              `json:"valid"`
	Errors   []string          `json:"errors"`
	Warnings []string          `json:"warnings"`
	Summary  ValidationSummary `json:"summary"`
}

type TemplateService interface {
	List() []Template
	Get(name string) (*Template, errs.Error)
	Validate(name string, rows Sheet) (*ValidationReport, errs.Error)
}
