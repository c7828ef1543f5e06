package group

// Membership change rules, kept free of I/O so they are testable with
// literal member lists. The service fetches state and delegates here.

// adminCount returns the number of admins in a member list.
func adminCount(members []*GroupMember) int {
	count := 0
	for _, m := range members {
		if m.Role == MemberRoleAdmin {
			count++
		}
	}
	return count
}

// findMember returns the member with the given user id, or nil.
func findMember(members []*GroupMember, userID int64) *GroupMember {
	for _, m := range members {
		if m.UserID == userID {
			return m
		}
	}
	return nil
}

// CheckRemoveMember decides whether callerID may remove targetID from a
// group with the given members. hasExpenses is the target's expense
// involvement (payer or split participant) in the group.
func CheckRemoveMember(members []*GroupMember, callerID, targetID int64, hasExpenses bool) error {
	target := findMember(members, targetID)
	if target == nil {
		return ErrMemberNotFound
	}
	if callerID == targetID {
		return ErrCannotRemoveSelf
	}
	if hasExpenses {
		return ErrMemberHasExpenses
	}
	if target.Role == MemberRoleAdmin && adminCount(members) <= 1 {
		return ErrLastAdmin
	}
	return nil
}

// CheckChangeRole decides whether targetID's role may be changed to newRole.
// Demoting the only admin would leave the group unmanageable.
func CheckChangeRole(members []*GroupMember, targetID int64, newRole MemberRole) error {
	target := findMember(members, targetID)
	if target == nil {
		return ErrMemberNotFound
	}
	if target.Role == MemberRoleAdmin && newRole != MemberRoleAdmin && adminCount(members) <= 1 {
		return ErrLastAdmin
	}
	return nil
}
