package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// transactionService handles the transaction lifecycle. Every mutation runs
// inside a single database transaction together with its balance effect, so
// a transaction row and its account balance can never diverge.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
	}
}

// validateTransactionInput checks the required fields once, before any
// atomic unit opens. Lower layers do not re-validate.
func validateTransactionInput(accountID string, transactionType models.TransactionType, amount int64, description string, date time.Time) error {
	if accountID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	if description == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be INCOME or EXPENSE")
	}
	if amount <= 0 {
		return apperrors.ErrNonPositiveAmount
	}
	return nil
}

// CreateTransaction creates a new transaction and applies its signed effect
// to the account balance atomically.
func (s *transactionService) CreateTransaction(
	userID, accountID string,
	categoryID *string,
	transactionType models.TransactionType,
	amount int64,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if err := validateTransactionInput(accountID, transactionType, amount, description, date); err != nil {
		return nil, err
	}

	// Ownership checks run before the atomic unit: a precondition failure
	// must never leave a partially applied balance.
	if _, err := s.accountService.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}
	if categoryID != nil {
		if err := s.checkCategoryOwnership(userID, *categoryID); err != nil {
			return nil, err
		}
	}

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   accountID,
		CategoryID:  categoryID,
		Type:        transactionType,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.accountService.ApplyBalanceDelta(tx, accountID, transaction.SignedEffect())
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of all transactions for a user.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountTransactions retrieves a paginated, filtered list of transactions for a specific account.
func (s *transactionService) GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	// First verify the account belongs to the user
	if _, err := s.accountService.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}

	filter.AccountID = &accountID
	return s.GetUserTransactions(userID, page, filter)
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction rewrites a transaction and corrects the account balances
// in three steps inside one database transaction: reverse the original
// effect on the original account, write the new field values, apply the new
// effect on the (possibly different) account. The sequence is always run in
// full, even when nothing changed, so partial field updates stay correct.
func (s *transactionService) UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	original, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	// Resolve the post-update values.
	updated := *original
	if fields.AccountID != nil {
		updated.AccountID = *fields.AccountID
	}
	if fields.CategoryID != nil {
		updated.CategoryID = fields.CategoryID
	}
	if fields.Type != nil {
		updated.Type = *fields.Type
	}
	if fields.Amount != nil {
		updated.Amount = *fields.Amount
	}
	if fields.Description != nil {
		updated.Description = *fields.Description
	}
	if fields.Date != nil {
		updated.Date = *fields.Date
	}

	if err := validateTransactionInput(updated.AccountID, updated.Type, updated.Amount, updated.Description, updated.Date); err != nil {
		return nil, err
	}

	// Ownership checks on any newly referenced account or category.
	if updated.AccountID != original.AccountID {
		if _, err := s.accountService.GetAccountByID(userID, updated.AccountID); err != nil {
			return nil, err
		}
	}
	if fields.CategoryID != nil {
		if err := s.checkCategoryOwnership(userID, *fields.CategoryID); err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// 1. Reverse the original effect on the original account.
		if err := s.accountService.ApplyBalanceDelta(tx, original.AccountID, -original.SignedEffect()); err != nil {
			return err
		}

		// 2. Write the new field values.
		writes := map[string]interface{}{
			"account_id":  updated.AccountID,
			"category_id": updated.CategoryID,
			"type":        updated.Type,
			"amount":      updated.Amount,
			"description": updated.Description,
			"date":        updated.Date,
		}
		if err := tx.Model(&models.Transaction{}).Where("id = ?", transactionID).Updates(writes).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		// 3. Apply the new effect on the target account.
		return s.accountService.ApplyBalanceDelta(tx, updated.AccountID, updated.SignedEffect())
	})
	if err != nil {
		return nil, err
	}

	// Reload to get fresh data
	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction reverses a transaction's effect on its account and
// removes the row, atomically.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.accountService.ApplyBalanceDelta(tx, transaction.AccountID, -transaction.SignedEffect()); err != nil {
			return err
		}

		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// checkCategoryOwnership verifies a category exists and belongs to the user.
func (s *transactionService) checkCategoryOwnership(userID, categoryID string) error {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
