package group

import "context"

// Guard is the membership policy check gating every mutating operation.
// Callers distinguish ErrNotMember (not in the group at all) from
// ErrInsufficientRole (member but not admin) because clients render
// different messages for each.
type Guard struct {
	repo *Repository
}

// NewGuard creates a membership guard backed by the group repository
func NewGuard(repo *Repository) *Guard {
	return &Guard{repo: repo}
}

// IsMember returns the caller's role in the group, or ErrNotMember.
func (g *Guard) IsMember(ctx context.Context, userID, groupID int64) (MemberRole, error) {
	member, err := g.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "", ErrNotMember
	}
	return member.Role, nil
}

// RequireAdmin fails with ErrNotMember or ErrInsufficientRole unless the
// caller is an admin of the group.
func (g *Guard) RequireAdmin(ctx context.Context, userID, groupID int64) error {
	role, err := g.IsMember(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if role != MemberRoleAdmin {
		return ErrInsufficientRole
	}
	return nil
}

// ValidateAllMembers checks every given user id against the group's
// membership in one batched query and returns the ids that are not members.
// An expense write references up to N+1 users; this must not cost N lookups.
func (g *Guard) ValidateAllMembers(ctx context.Context, groupID int64, userIDs []int64) ([]int64, error) {
	unique := make([]int64, 0, len(userIDs))
	seen := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	memberIDs, err := g.repo.MemberIDsAmong(ctx, groupID, unique)
	if err != nil {
		return nil, err
	}

	isMember := make(map[int64]bool, len(memberIDs))
	for _, id := range memberIDs {
		isMember[id] = true
	}

	var invalid []int64
	for _, id := range unique {
		if !isMember[id] {
			invalid = append(invalid, id)
		}
	}
	return invalid, nil
}
