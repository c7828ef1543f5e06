package expense

import (
	"context"
	"errors"
	"fmt"

	"github.com/mzidan/divvy/internal/expense/split"
	"github.com/mzidan/divvy/internal/group"
	"github.com/mzidan/divvy/pkg/cache"
	"github.com/mzidan/divvy/pkg/currency"
)

// Common errors
var (
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrExpenseNotInGroup = errors.New("expense does not belong to the given group")
)

// Service is the expense ledger: it owns create/update/delete of an expense
// and its payer and split children as one atomic unit.
//
// The pipeline for every write is: validator (shape and business rules) →
// membership guard (batched check over payer and all split users) → split
// calculator → transactional persistence → cache invalidation.
type Service struct {
	repo    *Repository
	guard   *group.Guard
	factory *split.Factory
	cache   *cache.Cache
}

// NewService creates a new expense service with dependencies injected
func NewService(repo *Repository, guard *group.Guard, factory *split.Factory, c *cache.Cache) *Service {
	return &Service{
		repo:    repo,
		guard:   guard,
		factory: factory,
		cache:   c,
	}
}

// prepare runs validation, membership checks, and split computation shared
// by create and update. groupID is the group the expense lives in.
func (s *Service) prepare(ctx context.Context, callerID, groupID int64, req *CreateExpenseRequest) (currency.Currency, []split.Share, error) {
	if violations := Validate(req); len(violations) > 0 {
		return "", nil, &ValidationError{Violations: violations}
	}

	if _, err := s.guard.IsMember(ctx, callerID, groupID); err != nil {
		return "", nil, err
	}

	// One batched lookup for the payer plus every split participant.
	userIDs := make([]int64, 0, len(req.Splits)+1)
	userIDs = append(userIDs, req.PaidBy)
	for _, sp := range req.Splits {
		userIDs = append(userIDs, sp.UserID)
	}
	invalid, err := s.guard.ValidateAllMembers(ctx, groupID, userIDs)
	if err != nil {
		return "", nil, err
	}
	if len(invalid) > 0 {
		violations := make([]string, len(invalid))
		for i, id := range invalid {
			violations[i] = fmt.Sprintf("user %d is not a member of the group", id)
		}
		return "", nil, &ValidationError{Violations: violations}
	}

	strategy, err := s.factory.Create(split.Mode(req.SplitType))
	if err != nil {
		return "", nil, &ValidationError{Violations: []string{err.Error()}}
	}

	participants := make([]split.Participant, len(req.Splits))
	for i, sp := range req.Splits {
		participants[i] = split.Participant{UserID: sp.UserID, Amount: sp.Amount}
	}
	shares, err := strategy.Compute(req.Amount, participants)
	if err != nil {
		return "", nil, &ValidationError{Violations: []string{err.Error()}}
	}

	cur := currency.Currency(req.Currency)
	if req.Currency == "" {
		cur = currency.Default
	}

	return cur, shares, nil
}

// Create validates and persists a new expense with its payer and splits
func (s *Service) Create(ctx context.Context, callerID int64, req *CreateExpenseRequest) (*ExpenseDetail, error) {
	cur, shares, err := s.prepare(ctx, callerID, req.GroupID, req)
	if err != nil {
		return nil, err
	}

	detail, err := s.repo.CreateExpense(ctx, callerID, req, cur, shares)
	if err != nil {
		return nil, err
	}

	s.invalidateBalances(detail)
	return detail, nil
}

// Update validates and replaces an expense's fields and children. The
// original creator identity is preserved even when another member edits.
func (s *Service) Update(ctx context.Context, callerID, id int64, req *UpdateExpenseRequest) (*ExpenseDetail, error) {
	existing, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrExpenseNotFound
	}
	if req.GroupID != 0 && req.GroupID != existing.Expense.GroupID {
		return nil, ErrExpenseNotInGroup
	}
	req.GroupID = existing.Expense.GroupID

	cur, shares, err := s.prepare(ctx, callerID, existing.Expense.GroupID, req)
	if err != nil {
		return nil, err
	}

	detail, err := s.repo.ReplaceExpense(ctx, id, req, cur, shares)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrExpenseNotFound
	}

	// Users removed from the expense by this edit need their views
	// refreshed too.
	s.invalidateBalances(existing)
	s.invalidateBalances(detail)
	return detail, nil
}

// Delete removes an expense and its children. Any group member may delete;
// unlike member or group removal, expense deletion never blocks on other
// entities.
func (s *Service) Delete(ctx context.Context, callerID, id int64) error {
	existing, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrExpenseNotFound
	}

	if _, err := s.guard.IsMember(ctx, callerID, existing.Expense.GroupID); err != nil {
		return err
	}

	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return err
	}

	s.invalidateBalances(existing)
	return nil
}

// GetByID retrieves an expense with its payers and splits. The caller must
// be a member of the expense's group.
func (s *Service) GetByID(ctx context.Context, callerID, id int64) (*ExpenseDetail, error) {
	detail, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrExpenseNotFound
	}

	if _, err := s.guard.IsMember(ctx, callerID, detail.Expense.GroupID); err != nil {
		return nil, err
	}

	return detail, nil
}

// ListByGroup retrieves a page of a group's expenses. Member only.
func (s *Service) ListByGroup(ctx context.Context, callerID, groupID int64, page, perPage int) ([]*ExpenseDetail, int, error) {
	if _, err := s.guard.IsMember(ctx, callerID, groupID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroup(ctx, groupID, perPage, offset)
}

// invalidateBalances drops every cached balance view the expense touches:
// all views of its group, and the global view of each participant (global
// balances aggregate across groups).
func (s *Service) invalidateBalances(detail *ExpenseDetail) {
	s.cache.InvalidatePrefix(cache.GroupBalancePrefix(detail.Expense.GroupID))
	for _, userID := range detail.ParticipantIDs() {
		s.cache.Invalidate(cache.UserBalanceKey(userID))
	}
}
