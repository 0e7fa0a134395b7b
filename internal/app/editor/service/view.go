package editor_service

import (
	"sort"
	"strings"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
)

// view filters and sorts copies of the canonical rows.
func (s *session) view(opts app.ViewOptions) ([]*app.TabularRow, errs.Error) {
	for field := range opts.Filters {
		if !s.hasField(field) {
			return nil, errs.Validation("列不存在", map[string]string{"filters": field})
		}
	}
	if opts.SortField != "" && !s.hasField(opts.SortField) {
		return nil, errs.Validation("列不存在", map[string]string{"sortField": opts.SortField})
	}

	out := make([]*app.TabularRow, 0, len(s.rows))
	for _, r := range s.rows {
		if matches(r, opts.Filters) {
			out = append(out, r.Clone())
		}
	}

	if opts.SortField != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].Get(opts.SortField), out[j].Get(opts.SortField)
			if opts.Desc {
				// blanks stay last in both directions
				if a.IsBlank() != b.IsBlank() {
					return b.IsBlank()
				}
				return a.Compare(b) > 0
			}
			return a.Compare(b) < 0
		})
	}

	return out, nil
}

func matches(r *app.TabularRow, filters map[string]string) bool {
	for field, needle := range filters {
		needle = strings.ToLower(strings.TrimSpace(needle))
		if needle == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(r.Get(field).String()), needle) {
			return false
		}
	}
	return true
}
