package template_service

import (
	_ "embed"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYaml []byte

const DefaultTemplate = "员工配偶信息报备模板"

var dateLayouts = []string{"2006-01-02", "2006/01/02", "2006/1/2", "2006-1-2", "20060102", "2006年1月2日"}

type TemplateService struct {
	log       *slog.Logger
	templates []app.Template
	patterns  map[string]*regexp.Regexp
}

var _ app.TemplateService = &TemplateService{}

func New(log *slog.Logger) (*TemplateService, error) {
	return NewFromYaml(templatesYaml, log)
}

func NewFromYaml(data []byte, log *slog.Logger) (*TemplateService, error) {
	var templates []app.Template
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	patterns := map[string]*regexp.Regexp{}
	for _, t := range templates {
		for _, rule := range t.ValidationRules {
			if rule.Pattern == "" {
				continue
			}
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				return nil, fmt.Errorf("template %s: %w", t.Name, err)
			}
			patterns[rule.Pattern] = re
		}
	}

	log.Info("templates loaded", "count", len(templates))
	return &TemplateService{log: log, templates: templates, patterns: patterns}, nil
}

func (this *TemplateService) List() []app.Template {
	return this.templates
}

func (this *TemplateService) Get(name string) (*app.Template, errs.Error) {
	if name == "" {
		name = DefaultTemplate
	}
	for i := range this.templates {
		if this.templates[i].Name == name {
			return &this.templates[i], nil
		}
	}
	return nil, errs.Newf(errs.KindNotFound, "template %q not found", name)
}

// Validate checks rows against the named template. Row 0 is the header row.
func (this *TemplateService) Validate(name string, rows app.Sheet) (*app.ValidationReport, errs.Error) {
	tpl, err := this.Get(name)
	if err != nil {
		return nil, err
	}

	report := &app.ValidationReport{Errors: []string{}, Warnings: []string{}}
	if len(rows) == 0 {
		report.Errors = append(report.Errors, "数据为空")
		report.Summary.Columns = []string{}
		return report, nil
	}

	header := make([]string, len(rows[0]))
	index := make(map[string]int, len(rows[0]))
	for i, c := range rows[0] {
		header[i] = strings.TrimSpace(c.String())
		if _, dup := index[header[i]]; !dup {
			index[header[i]] = i
		}
	}
	report.Summary = app.ValidationSummary{TotalRows: len(rows) - 1, TotalColumns: len(header), Columns: header}

	for _, h := range tpl.Headers {
		if _, ok := index[h]; !ok {
			report.Errors = append(report.Errors, fmt.Sprintf("缺少列'%s'", h))
		}
	}
	known := make(map[string]struct{}, len(tpl.Headers))
	for _, h := range tpl.Headers {
		known[h] = struct{}{}
	}
	for _, h := range header {
		if _, ok := known[h]; !ok && h != "" {
			report.Warnings = append(report.Warnings, fmt.Sprintf("列'%s'不在模板中", h))
		}
	}

	if len(rows) == 1 {
		report.Errors = append(report.Errors, "数据为空")
	}

	for r := 1; r < len(rows); r++ {
		for _, h := range tpl.Headers {
			col, ok := index[h]
			if !ok {
				continue
			}
			var cell app.Cell
			if col < len(rows[r]) {
				cell = rows[r][col]
			}
			rule, hasRule := tpl.ValidationRules[h]
			if msg := this.check(rule, cell); hasRule && msg != "" {
				report.Errors = append(report.Errors, fmt.Sprintf("第%d行的'%s'列%s", r+1, h, msg))
			} else if cell.IsBlank() && !rule.Required {
				report.Warnings = append(report.Warnings, fmt.Sprintf("第%d行的'%s'列为空", r+1, h))
			}
		}
	}

	report.Valid = len(report.Errors) == 0
	this.log.Debug("template validation", "template", tpl.Name, "rows", report.Summary.TotalRows, "errors", len(report.Errors))
	return report, nil
}

// check returns an empty string when cell satisfies rule.
func (this *TemplateService) check(rule app.TemplateRule, cell app.Cell) string {
	value := strings.TrimSpace(cell.String())
	if value == "" {
		if rule.Required {
			return "为必填项"
		}
		return ""
	}

	switch rule.Type {
	case "number":
		d, ok := asDecimal(cell)
		if !ok {
			return "必须是数字"
		}
		if rule.Min != nil && d.LessThan(decimal.NewFromFloat(*rule.Min)) {
			return fmt.Sprintf("不能小于%s", decimal.NewFromFloat(*rule.Min).String())
		}
	case "date":
		if !isDate(cell) {
			return "必须是日期"
		}
	}

	if rule.Pattern != "" {
		if re := this.patterns[rule.Pattern]; re != nil && !re.MatchString(value) {
			return "格式不正确"
		}
	}
	if rule.MaxLength > 0 && utf8.RuneCountInString(value) > rule.MaxLength {
		return fmt.Sprintf("长度不能超过%d", rule.MaxLength)
	}
	if len(rule.Enum) > 0 && !contains(rule.Enum, value) {
		return fmt.Sprintf("必须是以下值之一: %s", strings.Join(rule.Enum, ", "))
	}

	return ""
}

func asDecimal(cell app.Cell) (decimal.Decimal, bool) {
	if cell.IsNumber() {
		return cell.Decimal(), true
	}
	d, err := decimal.NewFromString(strings.TrimSpace(cell.String()))
	return d, err == nil
}

// isDate accepts common written layouts and spreadsheet date serials.
func isDate(cell app.Cell) bool {
	if cell.IsNumber() {
		return cell.Decimal().IsPositive()
	}
	value := strings.TrimSpace(cell.String())
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
