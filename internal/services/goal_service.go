package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// goalService handles savings-goal business logic, including the atomic
// contribution flow that moves money from an account into a goal.
type goalService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB, accountService AccountServicer) GoalServicer {
	return &goalService{
		db:             db,
		accountService: accountService,
	}
}

// CreateGoal creates a new savings goal for a user.
func (s *goalService) CreateGoal(userID, name string, targetAmount int64, deadline *time.Time) (*models.Goal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if targetAmount <= 0 {
		return nil, apperrors.ErrNonPositiveAmount
	}

	goal := &models.Goal{
		UserID:       userID,
		Name:         name,
		TargetAmount: targetAmount,
		Deadline:     deadline,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals retrieves a paginated list of goals for a user.
func (s *goalService) GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Goal{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	if err := base.Scopes(pagination.Paginate(page)).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID retrieves a goal by ID for a specific user.
// Absent and foreign-owned goals both return ErrGoalNotFound.
func (s *goalService) GetGoalByID(userID, goalID string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal updates a goal's name, target amount, or deadline.
// CurrentAmount only changes through Contribute.
func (s *goalService) UpdateGoal(userID, goalID string, fields GoalUpdateFields) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		updates["name"] = *fields.Name
	}
	if fields.TargetAmount != nil {
		if *fields.TargetAmount <= 0 {
			return nil, apperrors.ErrNonPositiveAmount
		}
		updates["target_amount"] = *fields.TargetAmount
	}
	if fields.Deadline != nil {
		updates["deadline"] = fields.Deadline
	}

	if len(updates) > 0 {
		if err := s.db.Model(goal).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return goal, nil
}

// DeleteGoal soft-deletes a goal. Contributions already debited from
// accounts remain in the transaction history.
func (s *goalService) DeleteGoal(userID, goalID string) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Contribute moves amount from an account into a goal as one atomic unit:
// debit the account, increment the goal's current amount, and insert an
// EXPENSE transaction for history. The history row is created directly —
// not through the transaction service — because its balance effect was
// already applied by the debit; routing it through CreateTransaction would
// double-apply it.
func (s *goalService) Contribute(userID, goalID, fromAccountID string, amount int64) (*models.Goal, error) {
	if amount <= 0 {
		return nil, apperrors.ErrNonPositiveAmount
	}

	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	if _, err := s.accountService.GetAccountByID(userID, fromAccountID); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// 1. Debit the funding account.
		if err := s.accountService.ApplyBalanceDelta(tx, fromAccountID, -amount); err != nil {
			return err
		}

		// 2. Credit the goal with a relative increment.
		res := tx.Model(&models.Goal{}).
			Where("id = ?", goalID).
			UpdateColumn("current_amount", gorm.Expr("current_amount + ?", amount))
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrGoalNotFound
		}

		// 3. Record the contribution in the transaction history.
		transaction := &models.Transaction{
			UserID:      userID,
			AccountID:   fromAccountID,
			Type:        models.TransactionTypeExpense,
			Amount:      amount,
			Description: "Contribution to goal: " + goal.Name,
			Date:        time.Now(),
		}
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetGoalByID(userID, goalID)
}
