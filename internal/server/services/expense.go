package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/financevault/backend/internal/server/models"
	"github.com/financevault/backend/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ErrInvalidAmount rejects non-positive expense amounts.
var ErrInvalidAmount = errors.New("expense amount must be positive")

// ExpenseService implements the user-scoped expense resource. Every
// operation takes the owning user's id; an expense belonging to another
// user is indistinguishable from a missing one.
type ExpenseService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewExpenseService(db *sql.DB, m repomanager.RepositoryManager) *ExpenseService {
	return &ExpenseService{db: db, repos: m}
}

// ExpensePatch carries the optional fields of a partial update; nil means
// "leave unchanged".
type ExpensePatch struct {
	Description *string
	Amount      *float64
	Date        *time.Time
	Category    *string
}

func (s *ExpenseService) Create(ctx context.Context, userID, description string, amount float64, date time.Time, category string) (*models.Expense, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	expense := &models.Expense{
		ID:          uuid.NewString(),
		UserID:      userID,
		Description: description,
		Amount:      amount,
		Date:        date,
		Category:    category,
	}

	return s.repos.Expenses(s.db).Create(ctx, expense)
}

func (s *ExpenseService) List(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.repos.Expenses(s.db).ListByUser(ctx, userID)
}

func (s *ExpenseService) Get(ctx context.Context, id, userID string) (*models.Expense, error) {
	return s.repos.Expenses(s.db).GetByID(ctx, id, userID)
}

// Update applies the non-nil patch fields to an expense the user owns and
// returns the updated record.
func (s *ExpenseService) Update(ctx context.Context, id, userID string, patch ExpensePatch) (*models.Expense, error) {

	repo := s.repos.Expenses(s.db)

	expense, err := repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if patch.Description != nil {
		expense.Description = *patch.Description
	}
	if patch.Amount != nil {
		if *patch.Amount <= 0 {
			return nil, ErrInvalidAmount
		}
		expense.Amount = *patch.Amount
	}
	if patch.Date != nil {
		expense.Date = *patch.Date
	}
	if patch.Category != nil {
		expense.Category = *patch.Category
	}

	return repo.Update(ctx, expense)
}

func (s *ExpenseService) Delete(ctx context.Context, id, userID string) error {
	return s.repos.Expenses(s.db).Delete(ctx, id, userID)
}
