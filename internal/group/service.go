package group

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this group")
	ErrNotMember           = errors.New("not a member of this group")
	ErrInsufficientRole    = errors.New("admin role required for this action")
	ErrLastAdmin           = errors.New("a group must always have at least one admin")
	ErrMemberHasExpenses   = errors.New("member is involved in expenses and cannot be removed")
	ErrCannotRemoveSelf    = errors.New("cannot remove yourself from a group")
	ErrGroupHasExpenses    = errors.New("group still has expenses and cannot be deleted")
)

// Service handles group business logic
type Service struct {
	repo  *Repository
	guard *Guard
}

// NewService creates a new group service
func NewService(repo *Repository, guard *Guard) *Service {
	return &Service{repo: repo, guard: guard}
}

// Create creates a new group with the creator as admin
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	return s.repo.Create(ctx, creatorID, req)
}

// GetByIDWithMembers retrieves a group with all its members. The caller must
// be a member.
func (s *Service) GetByIDWithMembers(ctx context.Context, callerID, id int64) (*Group, []*GroupMember, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if group == nil {
		return nil, nil, ErrGroupNotFound
	}

	if _, err := s.guard.IsMember(ctx, callerID, id); err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return group, members, nil
}

// ListByUserID retrieves all groups the user belongs to
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}

// Update modifies an existing group. Admin only.
func (s *Service) Update(ctx context.Context, callerID, id int64, req *UpdateGroupRequest) (*Group, error) {
	if err := s.guard.RequireAdmin(ctx, callerID, id); err != nil {
		return nil, err
	}

	group, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// Delete removes a group. Admin only; blocked while the group still has
// expenses.
func (s *Service) Delete(ctx context.Context, callerID, id int64) error {
	if err := s.guard.RequireAdmin(ctx, callerID, id); err != nil {
		return err
	}

	count, err := s.repo.CountExpenses(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrGroupHasExpenses
	}

	return s.repo.Delete(ctx, id)
}

// AddMember adds a user to a group. Admin only.
func (s *Service) AddMember(ctx context.Context, callerID, groupID int64, req *AddMemberRequest) (*GroupMember, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	if err := s.guard.RequireAdmin(ctx, callerID, groupID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetMember(ctx, groupID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberAlreadyExists
	}

	return s.repo.AddMember(ctx, groupID, req)
}

// UpdateMemberRole changes a member's role. Admin only; the group must
// retain at least one admin.
func (s *Service) UpdateMemberRole(ctx context.Context, callerID, groupID, targetID int64, role MemberRole) (*GroupMember, error) {
	if err := s.guard.RequireAdmin(ctx, callerID, groupID); err != nil {
		return nil, err
	}

	members, err := s.repo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := CheckChangeRole(members, targetID, role); err != nil {
		return nil, err
	}

	member, err := s.repo.UpdateMemberRole(ctx, groupID, targetID, role)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// RemoveMember removes a user from a group. Admin only; self-removal, the
// last admin, and members with expense involvement are all rejected.
func (s *Service) RemoveMember(ctx context.Context, callerID, groupID, targetID int64) error {
	if err := s.guard.RequireAdmin(ctx, callerID, groupID); err != nil {
		return err
	}

	members, err := s.repo.GetMembers(ctx, groupID)
	if err != nil {
		return err
	}

	hasExpenses, err := s.repo.HasExpenseInvolvement(ctx, groupID, targetID)
	if err != nil {
		return err
	}

	if err := CheckRemoveMember(members, callerID, targetID, hasExpenses); err != nil {
		return err
	}

	return s.repo.RemoveMember(ctx, groupID, targetID)
}
