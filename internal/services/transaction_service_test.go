package services

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("income_increases_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeIncome, 5000, "Salary", time.Now())
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected non-empty transaction ID")
		}
		if tx.Amount != 5000 {
			t.Errorf("expected amount 5000, got %d", tx.Amount)
		}

		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != 5000 {
			t.Errorf("expected balance 5000, got %d", updated.Balance)
		}
	})

	t.Run("expense_decreases_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 3000, "Lunch", time.Now())
		testutil.AssertNoError(t, err)

		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != 7000 {
			t.Errorf("expected balance 7000, got %d", updated.Balance)
		}
	})

	t.Run("balance_may_go_negative", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 1000)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 2500, "Overdraft", time.Now())
		testutil.AssertNoError(t, err)

		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != -1500 {
			t.Errorf("expected balance -1500, got %d", updated.Balance)
		}
	})

	t.Run("zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeIncome, 0, "Nothing", time.Now())
		testutil.AssertAppError(t, err, "NON_POSITIVE_AMOUNT")

		// Rejected input must leave the balance untouched.
		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != 0 {
			t.Errorf("expected balance 0, got %d", updated.Balance)
		}
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeIncome, -100, "Refund", time.Now())
		testutil.AssertAppError(t, err, "NON_POSITIVE_AMOUNT")
	})

	t.Run("missing_description", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeIncome, 1000, "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionType("TRANSFER"), 1000, "Move", time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)

		_, err := txSvc.CreateTransaction(user.ID, "00000000-0000-0000-0000-000000000000", nil, models.TransactionTypeIncome, 1000, "Ghost", time.Now())
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("wrong_user_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user1.ID)

		_, err := txSvc.CreateTransaction(user2.ID, account.ID, nil, models.TransactionTypeIncome, 1000, "Salary", time.Now())
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("with_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		category := testutil.CreateTestCategory(t, db, user.ID)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, &category.ID, models.TransactionTypeExpense, 1500, "Groceries", time.Now())
		testutil.AssertNoError(t, err)
		if tx.CategoryID == nil || *tx.CategoryID != category.ID {
			t.Errorf("expected category %s, got %v", category.ID, tx.CategoryID)
		}
	})

	t.Run("wrong_user_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user1.ID)
		category := testutil.CreateTestCategory(t, db, user2.ID)

		_, err := txSvc.CreateTransaction(user1.ID, account.ID, &category.ID, models.TransactionTypeExpense, 1500, "Groceries", time.Now())
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("mid_unit_store_failure_leaves_no_trace", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		// Fail the balance write, the second step of the unit. The row
		// inserted in the first step must not survive the rollback.
		storeErr := errors.New("balance write failed")
		err := db.Callback().Update().Before("gorm:update").Register("fail_balance_write", func(d *gorm.DB) {
			if d.Statement.Schema != nil && d.Statement.Schema.Table == "accounts" {
				d.AddError(storeErr)
			}
		})
		testutil.AssertNoError(t, err)
		defer db.Callback().Update().Remove("fail_balance_write")

		_, err = txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 3000, "Dinner", time.Now())
		if err == nil {
			t.Fatal("expected creation to fail")
		}

		var count int64
		if err := db.Model(&models.Transaction{}).Where("account_id = ?", account.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count transactions: %v", err)
		}
		if count != 0 {
			t.Errorf("expected inserted row rolled back, got %d rows", count)
		}

		acct, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if acct.Balance != 10000 {
			t.Errorf("expected balance unchanged at 10000, got %d", acct.Balance)
		}
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("amount_change_corrects_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		// 100.00 - 30.00 = 70.00
		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 3000, "Dinner", time.Now())
		testutil.AssertNoError(t, err)

		// Raising the expense to 50.00 must land the balance on 50.00,
		// not just subtract again.
		newAmount := int64(5000)
		updated, err := txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Amount: &newAmount})
		testutil.AssertNoError(t, err)
		if updated.Amount != 5000 {
			t.Errorf("expected amount 5000, got %d", updated.Amount)
		}

		acct, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if acct.Balance != 5000 {
			t.Errorf("expected balance 5000, got %d", acct.Balance)
		}
	})

	t.Run("type_flip_corrects_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 2000, "Misfiled", time.Now())
		testutil.AssertNoError(t, err)

		newType := models.TransactionTypeIncome
		_, err = txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Type: &newType})
		testutil.AssertNoError(t, err)

		// 10000 - 2000 = 8000, then reversed to 10000 and credited to 12000.
		acct, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if acct.Balance != 12000 {
			t.Errorf("expected balance 12000, got %d", acct.Balance)
		}
	})

	t.Run("account_move_shifts_both_balances", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		source := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)
		target := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		tx, err := txSvc.CreateTransaction(user.ID, source.ID, nil, models.TransactionTypeExpense, 4000, "Rent", time.Now())
		testutil.AssertNoError(t, err)

		_, err = txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{AccountID: &target.ID})
		testutil.AssertNoError(t, err)

		src, err := acctSvc.GetAccountByID(user.ID, source.ID)
		testutil.AssertNoError(t, err)
		if src.Balance != 10000 {
			t.Errorf("expected source balance restored to 10000, got %d", src.Balance)
		}

		tgt, err := acctSvc.GetAccountByID(user.ID, target.ID)
		testutil.AssertNoError(t, err)
		if tgt.Balance != 6000 {
			t.Errorf("expected target balance 6000, got %d", tgt.Balance)
		}
	})

	t.Run("same_values_is_idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 3000, "Dinner", time.Now())
		testutil.AssertNoError(t, err)

		sameAmount := int64(3000)
		_, err = txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Amount: &sameAmount})
		testutil.AssertNoError(t, err)

		acct, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if acct.Balance != 7000 {
			t.Errorf("expected balance unchanged at 7000, got %d", acct.Balance)
		}
	})

	t.Run("invalid_amount_leaves_state_untouched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 3000, "Dinner", time.Now())
		testutil.AssertNoError(t, err)

		zero := int64(0)
		_, err = txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Amount: &zero})
		testutil.AssertAppError(t, err, "NON_POSITIVE_AMOUNT")

		acct, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if acct.Balance != 7000 {
			t.Errorf("expected balance unchanged at 7000, got %d", acct.Balance)
		}

		stored, err := txSvc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if stored.Amount != 3000 {
			t.Errorf("expected stored amount unchanged at 3000, got %d", stored.Amount)
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user1.ID, 10000)

		tx, err := txSvc.CreateTransaction(user1.ID, account.ID, nil, models.TransactionTypeExpense, 3000, "Dinner", time.Now())
		testutil.AssertNoError(t, err)

		newAmount := int64(5000)
		_, err = txSvc.UpdateTransaction(user2.ID, tx.ID, TransactionUpdateFields{Amount: &newAmount})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("move_to_foreign_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user1.ID, 10000)
		foreign := testutil.CreateTestAccount(t, db, user2.ID)

		tx, err := txSvc.CreateTransaction(user1.ID, account.ID, nil, models.TransactionTypeExpense, 3000, "Dinner", time.Now())
		testutil.AssertNoError(t, err)

		_, err = txSvc.UpdateTransaction(user1.ID, tx.ID, TransactionUpdateFields{AccountID: &foreign.ID})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")

		acct, err := acctSvc.GetAccountByID(user1.ID, account.ID)
		testutil.AssertNoError(t, err)
		if acct.Balance != 7000 {
			t.Errorf("expected balance unchanged at 7000, got %d", acct.Balance)
		}
	})

	t.Run("mid_unit_store_failure_rolls_back_reversal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		// 100.00 - 30.00 = 70.00
		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 3000, "Dinner", time.Now())
		testutil.AssertNoError(t, err)

		// Fail the field rewrite, the second step of the unit. By then the
		// reversal of the original effect has already been written inside
		// the open unit and must be rolled back with it.
		storeErr := errors.New("row write failed")
		err = db.Callback().Update().Before("gorm:update").Register("fail_row_write", func(d *gorm.DB) {
			if d.Statement.Schema != nil && d.Statement.Schema.Table == "transactions" {
				d.AddError(storeErr)
			}
		})
		testutil.AssertNoError(t, err)
		defer db.Callback().Update().Remove("fail_row_write")

		newAmount := int64(5000)
		_, err = txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Amount: &newAmount})
		if err == nil {
			t.Fatal("expected update to fail")
		}

		acct, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if acct.Balance != 7000 {
			t.Errorf("expected reversal rolled back to 7000, got %d", acct.Balance)
		}

		stored, err := txSvc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if stored.Amount != 3000 {
			t.Errorf("expected amount unchanged at 3000, got %d", stored.Amount)
		}
	})

	t.Run("returns_persisted_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 3000, "Dinner", time.Now())
		testutil.AssertNoError(t, err)

		newAmount := int64(5000)
		updated, err := txSvc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Amount: &newAmount})
		testutil.AssertNoError(t, err)

		stored, err := txSvc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if !updated.UpdatedAt.Equal(stored.UpdatedAt) {
			t.Errorf("expected returned UpdatedAt %v to match stored %v", updated.UpdatedAt, stored.UpdatedAt)
		}
		if updated.Amount != stored.Amount {
			t.Errorf("expected returned amount %d to match stored %d", updated.Amount, stored.Amount)
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("reverses_balance_effect", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 3000, "Dinner", time.Now())
		testutil.AssertNoError(t, err)

		err = txSvc.DeleteTransaction(user.ID, tx.ID)
		testutil.AssertNoError(t, err)

		acct, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if acct.Balance != 10000 {
			t.Errorf("expected balance restored to 10000, got %d", acct.Balance)
		}

		_, err = txSvc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("reverses_income", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		tx, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeIncome, 5000, "Salary", time.Now())
		testutil.AssertNoError(t, err)

		err = txSvc.DeleteTransaction(user.ID, tx.ID)
		testutil.AssertNoError(t, err)

		acct, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if acct.Balance != 0 {
			t.Errorf("expected balance restored to 0, got %d", acct.Balance)
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user1.ID, 10000)

		tx, err := txSvc.CreateTransaction(user1.ID, account.ID, nil, models.TransactionTypeExpense, 3000, "Dinner", time.Now())
		testutil.AssertNoError(t, err)

		err = txSvc.DeleteTransaction(user2.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

		acct, err := acctSvc.GetAccountByID(user1.ID, account.ID)
		testutil.AssertNoError(t, err)
		if acct.Balance != 7000 {
			t.Errorf("expected balance unchanged at 7000, got %d", acct.Balance)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)

		err := txSvc.DeleteTransaction(user.ID, "00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestGetUserTransactions(t *testing.T) {
	t.Run("filters_by_type_and_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 100000)

		_, err := txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeIncome, 5000, "Salary", time.Now())
		testutil.AssertNoError(t, err)
		_, err = txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 2000, "Lunch", time.Now())
		testutil.AssertNoError(t, err)
		_, err = txSvc.CreateTransaction(user.ID, account.ID, nil, models.TransactionTypeExpense, 1500, "Coffee", time.Now())
		testutil.AssertNoError(t, err)

		expense := models.TransactionTypeExpense
		result, err := txSvc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Type: &expense})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 expense transactions, got %d", result.TotalItems)
		}

		past := time.Now().Add(-48 * time.Hour)
		result, err = txSvc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{ToDate: &past})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 0 {
			t.Errorf("expected 0 transactions before cutoff, got %d", result.TotalItems)
		}
	})

	t.Run("excludes_other_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account1 := testutil.CreateTestAccountWithBalance(t, db, user1.ID, 10000)
		account2 := testutil.CreateTestAccountWithBalance(t, db, user2.ID, 10000)

		_, err := txSvc.CreateTransaction(user1.ID, account1.ID, nil, models.TransactionTypeExpense, 2000, "Lunch", time.Now())
		testutil.AssertNoError(t, err)
		_, err = txSvc.CreateTransaction(user2.ID, account2.ID, nil, models.TransactionTypeExpense, 3000, "Dinner", time.Now())
		testutil.AssertNoError(t, err)

		result, err := txSvc.GetUserTransactions(user1.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 transaction, got %d", result.TotalItems)
		}
	})

	t.Run("account_scoped_listing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		user := testutil.CreateTestUser(t, db)
		account1 := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)
		account2 := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000)

		_, err := txSvc.CreateTransaction(user.ID, account1.ID, nil, models.TransactionTypeExpense, 2000, "Lunch", time.Now())
		testutil.AssertNoError(t, err)
		_, err = txSvc.CreateTransaction(user.ID, account2.ID, nil, models.TransactionTypeExpense, 3000, "Dinner", time.Now())
		testutil.AssertNoError(t, err)

		result, err := txSvc.GetAccountTransactions(user.ID, account1.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 transaction, got %d", result.TotalItems)
		}
	})
}
