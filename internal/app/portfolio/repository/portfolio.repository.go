package portfolio_repository

import (
	"context"
	"errors"
	"time"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"

	"gorm.io/gorm"
)

type PortfolioModel struct {
	ID               uint64 `gorm:"primaryKey"`
	InvestorID       uint64
	Quarter          string
	Year             int
	OriginalFilename string
	FileHash         string
	PortfolioData    string
	RowsCount        int
	ColumnsCount     int
	Status           string
	IsEditable       bool
	Notes            string
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PortfolioModel) TableName() string { return "investment_portfolios" }

func (m *PortfolioModel) ToDomain() *app.Portfolio {
	return &app.Portfolio{
		ID:               m.ID,
		InvestorID:       m.InvestorID,
		Quarter:          app.Quarter(m.Quarter),
		Year:             m.Year,
		OriginalFilename: m.OriginalFilename,
		FileHash:         m.FileHash,
		Rows:             m.RowsCount,
		Columns:          m.ColumnsCount,
		Status:           m.Status,
		IsEditable:       m.IsEditable,
		Notes:            m.Notes,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

type PortfolioRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *PortfolioRepository {
	return &PortfolioRepository{db}
}

func (this *PortfolioRepository) Create(ctx context.Context, m *PortfolioModel) errs.Error {
	err := this.db.WithContext(ctx).Create(m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.WrapAppError(err, &errs.ErrorOpts{Kind: errs.KindConflict, Message: "该投资人在此季度已有投资记录"})
	}
	if err != nil {
		return errs.Persistence(err, "create portfolio")
	}
	return nil
}

func (this *PortfolioRepository) Save(ctx context.Context, m *PortfolioModel) errs.Error {
	if err := this.db.WithContext(ctx).Save(m).Error; err != nil {
		return errs.Persistence(err, "update portfolio")
	}
	return nil
}

func (this *PortfolioRepository) FindByID(ctx context.Context, id uint64) (*PortfolioModel, errs.Error) {
	var m PortfolioModel
	err := this.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.Newf(errs.KindNotFound, "投资组合不存在: %d", id)
	}
	if err != nil {
		return nil, errs.Persistence(err, "load portfolio")
	}
	return &m, nil
}

// FindByKey returns nil without error when no record has the key.
func (this *PortfolioRepository) FindByKey(ctx context.Context, key app.PortfolioKey) (*PortfolioModel, errs.Error) {
	var m PortfolioModel
	err := this.db.WithContext(ctx).
		Where("investor_id = ? AND quarter = ? AND year = ?", key.InvestorID, string(key.Quarter), key.Year).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Persistence(err, "load portfolio")
	}
	return &m, nil
}

func (this *PortfolioRepository) List(ctx context.Context, f app.PortfolioFilter) ([]PortfolioModel, int64, errs.Error) {
	q := this.db.WithContext(ctx).Model(&PortfolioModel{})

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("original_filename LIKE ? OR notes LIKE ? OR portfolio_data LIKE ?", like, like, like)
	}
	if f.InvestorID > 0 {
		q = q.Where("investor_id = ?", f.InvestorID)
	}
	if f.Quarter != "" {
		q = q.Where("quarter = ?", string(f.Quarter))
	}
	if f.Year > 0 {
		q = q.Where("year = ?", f.Year)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errs.Persistence(err, "count portfolios")
	}

	var items []PortfolioModel
	err := q.Order("updated_at DESC").Order("id DESC").
		Offset(f.Skip).Limit(f.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, errs.Persistence(err, "list portfolios")
	}

	return items, total, nil
}

func (this *PortfolioRepository) Delete(ctx context.Context, id uint64) errs.Error {
	res := this.db.WithContext(ctx).Delete(&PortfolioModel{}, id)
	if res.Error != nil {
		return errs.Persistence(res.Error, "delete portfolio")
	}
	if res.RowsAffected == 0 {
		return errs.Newf(errs.KindNotFound, "投资组合不存在: %d", id)
	}
	return nil
}

type groupCount[K comparable] struct {
	GroupKey K
	Count    int64
}

// CountBy groups records by quarter or status.
func (this *PortfolioRepository) CountBy(ctx context.Context, column string) (map[string]int64, errs.Error) {
	switch column {
	case "quarter", "status":
	default:
		return nil, errs.Newf(errs.KindInternal, "unsupported group column %q", column)
	}
	return countGrouped[string](ctx, this.db, column)
}

func (this *PortfolioRepository) CountByYear(ctx context.Context) (map[int]int64, errs.Error) {
	return countGrouped[int](ctx, this.db, "year")
}

func countGrouped[K comparable](ctx context.Context, db *gorm.DB, column string) (map[K]int64, errs.Error) {
	var rows []groupCount[K]
	err := db.WithContext(ctx).Model(&PortfolioModel{}).
		Select(column + " AS group_key, COUNT(id) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, errs.Persistence(err, "count portfolios")
	}

	out := make(map[K]int64, len(rows))
	for _, r := range rows {
		out[r.GroupKey] = r.Count
	}
	return out, nil
}

func (this *PortfolioRepository) Count(ctx context.Context) (int64, errs.Error) {
	var total int64
	if err := this.db.WithContext(ctx).Model(&PortfolioModel{}).Count(&total).Error; err != nil {
		return 0, errs.Persistence(err, "count portfolios")
	}
	return total, nil
}

func (this *PortfolioRepository) LastUpdated(ctx context.Context) (*time.Time, errs.Error) {
	var m PortfolioModel
	err := this.db.WithContext(ctx).Order("updated_at DESC").Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Persistence(err, "load portfolio")
	}
	return &m.UpdatedAt, nil
}
