package group

import (
	"errors"
	"testing"
)

func member(userID int64, role MemberRole) *GroupMember {
	return &GroupMember{UserID: userID, GroupID: 1, Role: role}
}

func TestCheckRemoveMember(t *testing.T) {
	tests := []struct {
		name        string
		members     []*GroupMember
		callerID    int64
		targetID    int64
		hasExpenses bool
		wantErr     error
	}{
		{
			name: "plain member removal allowed",
			members: []*GroupMember{
				member(1, MemberRoleAdmin),
				member(2, MemberRoleMember),
			},
			callerID: 1,
			targetID: 2,
		},
		{
			name: "cannot remove self",
			members: []*GroupMember{
				member(1, MemberRoleAdmin),
				member(2, MemberRoleMember),
			},
			callerID: 1,
			targetID: 1,
			wantErr:  ErrCannotRemoveSelf,
		},
		{
			name: "cannot remove member with expense involvement",
			members: []*GroupMember{
				member(1, MemberRoleAdmin),
				member(2, MemberRoleMember),
			},
			callerID:    1,
			targetID:    2,
			hasExpenses: true,
			wantErr:     ErrMemberHasExpenses,
		},
		{
			name: "cannot remove the only admin",
			members: []*GroupMember{
				member(1, MemberRoleAdmin),
				member(2, MemberRoleMember),
				member(3, MemberRoleMember),
			},
			callerID: 2,
			targetID: 1,
			wantErr:  ErrLastAdmin,
		},
		{
			name: "admin removable once a second admin exists",
			members: []*GroupMember{
				member(1, MemberRoleAdmin),
				member(2, MemberRoleAdmin),
				member(3, MemberRoleMember),
			},
			callerID: 2,
			targetID: 1,
		},
		{
			name: "unknown target",
			members: []*GroupMember{
				member(1, MemberRoleAdmin),
			},
			callerID: 1,
			targetID: 99,
			wantErr:  ErrMemberNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRemoveMember(tt.members, tt.callerID, tt.targetID, tt.hasExpenses)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckRemoveMember() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckChangeRole(t *testing.T) {
	tests := []struct {
		name     string
		members  []*GroupMember
		targetID int64
		newRole  MemberRole
		wantErr  error
	}{
		{
			name: "promote member to admin",
			members: []*GroupMember{
				member(1, MemberRoleAdmin),
				member(2, MemberRoleMember),
			},
			targetID: 2,
			newRole:  MemberRoleAdmin,
		},
		{
			name: "cannot demote the only admin",
			members: []*GroupMember{
				member(1, MemberRoleAdmin),
				member(2, MemberRoleMember),
			},
			targetID: 1,
			newRole:  MemberRoleMember,
			wantErr:  ErrLastAdmin,
		},
		{
			name: "demote admin when another remains",
			members: []*GroupMember{
				member(1, MemberRoleAdmin),
				member(2, MemberRoleAdmin),
			},
			targetID: 1,
			newRole:  MemberRoleMember,
		},
		{
			name: "unknown target",
			members: []*GroupMember{
				member(1, MemberRoleAdmin),
			},
			targetID: 5,
			newRole:  MemberRoleMember,
			wantErr:  ErrMemberNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckChangeRole(tt.members, tt.targetID, tt.newRole)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckChangeRole() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
