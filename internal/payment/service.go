package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/mzidan/divvy/internal/group"
	"github.com/mzidan/divvy/pkg/cache"
)

// Common errors
var (
	ErrSelfPayment      = errors.New("cannot record a payment to yourself")
	ErrInvalidAmount    = errors.New("payment amount must be greater than zero")
	ErrPartiesNotMember = errors.New("both payment parties must be group members")
)

// Service handles settlement business logic. Payments are create/list only.
type Service struct {
	repo  *Repository
	guard *group.Guard
	cache *cache.Cache
}

// NewService creates a new payment service
func NewService(repo *Repository, guard *group.Guard, c *cache.Cache) *Service {
	return &Service{repo: repo, guard: guard, cache: c}
}

// Create records a settlement between two members of a group. The caller
// must be a member; both parties must be members; self-payments and
// non-positive amounts are rejected.
func (s *Service) Create(ctx context.Context, callerID int64, req *CreatePaymentRequest) (*Payment, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.FromUserID == req.ToUserID {
		return nil, ErrSelfPayment
	}

	if _, err := s.guard.IsMember(ctx, callerID, req.GroupID); err != nil {
		return nil, err
	}

	// One query covers both parties.
	invalid, err := s.guard.ValidateAllMembers(ctx, req.GroupID, []int64{req.FromUserID, req.ToUserID})
	if err != nil {
		return nil, err
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrPartiesNotMember, invalid)
	}

	payment, err := s.repo.Create(ctx, callerID, req)
	if err != nil {
		return nil, err
	}

	// A payment changes who-owes-whom, so cached balance views of the
	// group and both parties' global views are stale.
	s.cache.InvalidatePrefix(cache.GroupBalancePrefix(req.GroupID))
	s.cache.Invalidate(
		cache.UserBalanceKey(req.FromUserID),
		cache.UserBalanceKey(req.ToUserID),
	)

	return payment, nil
}

// ListByGroup retrieves a page of a group's payments. Member only.
func (s *Service) ListByGroup(ctx context.Context, callerID, groupID int64, page, perPage int) ([]*Payment, int, error) {
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
