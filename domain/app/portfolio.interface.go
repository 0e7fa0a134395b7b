package app

import (
	"context"
	"time"

	"github.com/init-pkg/trade-disclosure/domain/errs"
)

// PortfolioKey addresses a durable sheet record.
type PortfolioKey struct {
	InvestorID uint64  `json:"investorId" query:"investor_id" validate:"required,gt=0"`
	Quarter    Quarter `json:"quarter" query:"quarter" validate:"required,quarter"`
	Year       int     `json:"year" query:"year" validate:"required,min=2000,max=2100"`
}

// SheetPayload is the persistence boundary body.
type SheetPayload struct {
	Data     Sheet  `json:"data"`
	FileName string `json:"file_name"`
}

type SaveResult struct {
	RecordID uint64 `json:"portfolioId"`
	Created  bool   `json:"created"`
	Message  string `json:"message"`
}

// Credentials are forwarded explicitly to the store on behalf of the caller.
type Credentials struct {
	Token    string
	Username string
}

type PortfolioStore interface {
	Create(ctx context.Context, creds Credentials, key PortfolioKey, payload SheetPayload) (*SaveResult, errs.Error)
	Update(ctx context.Context, creds Credentials, id uint64, payload SheetPayload) (*SaveResult, errs.Error)
}

const (
	PortfolioStatusPending  = "pending"
	PortfolioStatusApproved = "approved"
	PortfolioStatusRejected = "rejected"
)

type Portfolio struct {
	ID               uint64    `json:"id"`
	InvestorID       uint64    `json:"investorId"`
	Quarter          Quarter   `json:"quarter"`
	Year             int       `json:"year"`
	OriginalFilename string    `json:"originalFilename"`
	FileHash         string    `json:"fileHash"`
	Rows             int       `json:"rows"`
	Columns          int       `json:"columns"`
	Status           string    `json:"status"`
	IsEditable       bool      `json:"isEditable"`
	Notes            string    `json:"notes,omitempty"`
	CreatedBy        string    `json:"createdBy,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type PortfolioFilter struct {
	Skip       int     `query:"skip" validate:"min=0"`
	Limit      int     `query:"limit" validate:"min=1,max=100"`
	Search     string  `query:"search"`
	InvestorID uint64  `query:"investor_id"`
	Quarter    Quarter `query:"quarter" validate:"omitempty,quarter"`
	Year       int     `query:"year"`
	Status     string  `query:"status" validate:"omitempty,oneof=pending approved rejected"`
}

type PortfolioPage struct {
	Portfolios []Portfolio `json:"portfolios"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Size       int         `json:"size"`
	Pages      int         `json:"pages"`
}

type PortfolioStats struct {
	TotalPortfolios      int64            `json:"totalPortfolios"`
	PortfoliosByQuarter  map[string]int64 `json:"portfoliosByQuarter"`
	PortfoliosByStatus   map[string]int64 `json:"portfoliosByStatus"`
	PortfoliosByYear     map[int]int64    `json:"portfoliosByYear"`
	LastUpdatedPortfolio *time.Time       `json:"lastUpdatedPortfolio,omitempty"`
}

type PortfolioHit struct {
	ID         uint64  `json:"id"`
	InvestorID uint64  `json:"investorId"`
	Quarter    Quarter `json:"quarter"`
	Year       int     `json:"year"`
	FileName   string  `json:"fileName"`
	Score      float64 `json:"score"`
}

// PortfolioReview changes the review state of a record. Nil fields are left as is.
type PortfolioReview struct {
	Status     *string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	IsEditable *bool   `json:"isEditable"`
	Notes      *string `json:"notes" validate:"omitempty,max=2000"`
}

type PortfolioService interface {
	PortfolioStore
	Get(ctx context.Context, id uint64) (*Portfolio, errs.Error)
	Review(ctx context.Context, id uint64, review PortfolioReview) (*Portfolio, errs.Error)
	Sheet(ctx context.Context, id uint64) (*SheetPayload, errs.Error)
	List(ctx context.Context, filter PortfolioFilter) (*PortfolioPage, errs.Error)
	Delete(ctx context.Context, id uint64) errs.Error
	Stats(ctx context.Context) (*PortfolioStats, errs.Error)
	Search(ctx context.Context, query string, limit int) ([]PortfolioHit, errs.Error)
}

// PortfolioIndex keeps a searchable copy of stored sheets.
type PortfolioIndex interface {
	Enabled() bool
	Index(ctx context.Context, p *Portfolio, rows Sheet) errs.Error
	Remove(ctx context.Context, id uint64) errs.Error
	Search(ctx context.Context, query string, limit int) ([]PortfolioHit, errs.Error)
}
