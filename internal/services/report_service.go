package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/cache"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// reportService produces read-only aggregates over the transaction history.
// Results may be served from a short-TTL cache; reports tolerate staleness.
type reportService struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewReportService creates a new ReportServicer. The cache may be nil, in
// which case every call hits the database.
func NewReportService(db *gorm.DB, c *cache.Cache) ReportServicer {
	return &reportService{db: db, cache: c}
}

func reportCacheKey(kind, userID string, from, to *time.Time) string {
	fromKey, toKey := "", ""
	if from != nil {
		fromKey = from.UTC().Format(time.RFC3339)
	}
	if to != nil {
		toKey = to.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("%s:%s:%s:%s", kind, userID, fromKey, toKey)
}

func applyDateWindow(q *gorm.DB, from, to *time.Time) *gorm.DB {
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}
	return q
}

// GetSummary returns income, expense, and net balance totals for the user
// within an optional date window.
func (s *reportService) GetSummary(userID string, from, to *time.Time) (*ReportSummary, error) {
	key := reportCacheKey("summary", userID, from, to)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if summary, ok := v.(*ReportSummary); ok {
				return summary, nil
			}
		}
	}

	sumByType := func(transactionType models.TransactionType) (int64, error) {
		var total int64
		q := s.db.Model(&models.Transaction{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("user_id = ? AND type = ?", userID, transactionType)
		if err := applyDateWindow(q, from, to).Scan(&total).Error; err != nil {
			return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return total, nil
	}

	income, err := sumByType(models.TransactionTypeIncome)
	if err != nil {
		return nil, err
	}
	expense, err := sumByType(models.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}

	summary := &ReportSummary{
		Income:  income,
		Expense: expense,
		Balance: income - expense,
	}

	if s.cache != nil {
		s.cache.Set(key, summary)
	}
	return summary, nil
}

// GetSpendingByCategory returns expense totals grouped by category within an
// optional date window, ordered by descending total. Category names are
// joined in; uncategorized expenses are reported under "Uncategorized".
func (s *reportService) GetSpendingByCategory(userID string, from, to *time.Time) ([]CategorySpending, error) {
	key := reportCacheKey("spending", userID, from, to)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if spending, ok := v.([]CategorySpending); ok {
				return spending, nil
			}
		}
	}

	type row struct {
		CategoryID *string
		Total      int64
	}
	var rows []row
	q := s.db.Model(&models.Transaction{}).
		Select("category_id, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND type = ?", userID, models.TransactionTypeExpense)
	q = applyDateWindow(q, from, to)
	if err := q.Group("category_id").Order("total DESC").Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Join category names in one batch.
	var categoryIDs []string
	for _, r := range rows {
		if r.CategoryID != nil {
			categoryIDs = append(categoryIDs, *r.CategoryID)
		}
	}

	names := make(map[string]string, len(categoryIDs))
	if len(categoryIDs) > 0 {
		var categories []models.Category
		if err := s.db.Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, c := range categories {
			names[c.ID] = c.Name
		}
	}

	spending := make([]CategorySpending, 0, len(rows))
	for _, r := range rows {
		name := "Uncategorized"
		if r.CategoryID != nil {
			if n, ok := names[*r.CategoryID]; ok {
				name = n
			}
		}
		spending = append(spending, CategorySpending{
			CategoryID:   r.CategoryID,
			CategoryName: name,
			Total:        r.Total,
		})
	}

	if s.cache != nil {
		s.cache.Set(key, spending)
	}
	return spending, nil
}
