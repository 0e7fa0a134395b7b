package dtos

import "github.com/init-pkg/trade-disclosure/domain/app"

type PortfolioListRequest struct {
	Skip       int    `query:"skip" json:"skip"`
	Limit      int    `query:"limit" json:"limit"`
	Search     string `query:"search" json:"search"`
	InvestorID uint64 `query:"investor_id" json:"investor_id"`
	Quarter    string `query:"quarter" json:"quarter"`
	Year       int    `query:"year" json:"year"`
	Status     string `query:"status" json:"status"`
}

func (r PortfolioListRequest) ToFilter() app.PortfolioFilter {
	return app.PortfolioFilter{
		Skip:       r.Skip,
		Limit:      r.Limit,
		Search:     r.Search,
		InvestorID: r.InvestorID,
		Quarter:    app.Quarter(r.Quarter),
		Year:       r.Year,
		Status:     r.Status,
	}
}

type PortfolioSearchRequest struct {
	Query string `query:"q" json:"q"`
	Limit int    `query:"limit" json:"limit"`
}
