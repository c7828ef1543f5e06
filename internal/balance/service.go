package balance

import (
	"context"

	"github.com/mzidan/divvy/internal/group"
	"github.com/mzidan/divvy/pkg/cache"
)

// Service computes balance views on demand, with a read-through cache that
// expense and payment writes invalidate.
type Service struct {
	repo  *Repository
	guard *group.Guard
	cache *cache.Cache
}

// NewService creates a new balance service
func NewService(repo *Repository, guard *group.Guard, c *cache.Cache) *Service {
	return &Service{repo: repo, guard: guard, cache: c}
}

// GroupBalance returns the caller's balance view of one group. Member only.
func (s *Service) GroupBalance(ctx context.Context, callerID, groupID int64) (*Summary, error) {
	if _, err := s.guard.IsMember(ctx, callerID, groupID); err != nil {
		return nil, err
	}

	key := cache.GroupBalanceKey(groupID, callerID)
	if cached, ok := s.cache.Get(key); ok {
		if summary, ok := cached.(*Summary); ok {
			return summary, nil
		}
	}

	payers, splits, payments, err := s.repo.GroupRows(ctx, groupID)
	if err != nil {
		return nil, err
	}

	summary := Aggregate(callerID, payers, splits, payments)
	if err := s.enrichUsernames(ctx, summary); err != nil {
		return nil, err
	}

	s.cache.Set(key, summary)
	return summary, nil
}

// GlobalBalance returns the caller's balance view across every group they
// belong to.
func (s *Service) GlobalBalance(ctx context.Context, callerID int64) (*Summary, error) {
	key := cache.UserBalanceKey(callerID)
	if cached, ok := s.cache.Get(key); ok {
		if summary, ok := cached.(*Summary); ok {
			return summary, nil
		}
	}

	payers, splits, payments, err := s.repo.GlobalRows(ctx, callerID)
	if err != nil {
		return nil, err
	}

	summary := Aggregate(callerID, payers, splits, payments)
	if err := s.enrichUsernames(ctx, summary); err != nil {
		return nil, err
	}

	s.cache.Set(key, summary)
	return summary, nil
}

func (s *Service) enrichUsernames(ctx context.Context, summary *Summary) error {
	seen := make(map[int64]bool)
	var ids []int64
	for _, e := range summary.OwesTo {
		if !seen[e.UserID] {
			seen[e.UserID] = true
			ids = append(ids, e.UserID)
		}
	}
	for _, e := range summary.OwedBy {
		if !seen[e.UserID] {
			seen[e.UserID] = true
			ids = append(ids, e.UserID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	usernames, err := s.repo.UsernamesByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range summary.OwesTo {
		summary.OwesTo[i].Username = usernames[summary.OwesTo[i].UserID]
	}
	for i := range summary.OwedBy {
		summary.OwedBy[i].Username = usernames[summary.OwedBy[i].UserID]
	}
	return nil
}
