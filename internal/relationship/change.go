package relationship

import "slices"

// UserChange is a field-level mutation of one user record expressed as set
// operations keyed by id. Applying the same change twice has the same effect
// as applying it once, and changes to different records commute.
type UserChange struct {
	UserID uint

	AddFriends    []uint
	RemoveFriends []uint
	AddBlocked    []uint
	RemoveBlocked []uint

	// AppendRequest adds a pending request unless one from the same sender exists.
	AppendRequest *FriendRequest
	// RemoveRequestsFrom drops the first pending request from each sender email.
	RemoveRequestsFrom []string
	// ConsumeRequests makes the change fail with ErrNotFound unless every
	// sender in RemoveRequestsFrom still has a pending request at write time.
	ConsumeRequests bool
}

// Empty reports whether the change would not modify anything.
func (c UserChange) Empty() bool {
	return len(c.AddFriends) == 0 &&
		len(c.RemoveFriends) == 0 &&
		len(c.AddBlocked) == 0 &&
		len(c.RemoveBlocked) == 0 &&
		c.AppendRequest == nil &&
		len(c.RemoveRequestsFrom) == 0
}

// MissingRequest returns the first sender in RemoveRequestsFrom with no
// pending request in u, when the change consumes requests.
func (c UserChange) MissingRequest(u User) (string, bool) {
	if !c.ConsumeRequests {
		return "", false
	}
	for _, email := range c.RemoveRequestsFrom {
		if !u.HasRequestFrom(email) {
			return email, true
		}
	}
	return "", false
}

// ApplyTo returns a copy of u with the change applied. u is not modified.
// Removal of friend requests keeps the order of the remaining entries.
func (c UserChange) ApplyTo(u User) User {
	u = u.Clone()

	u.Friends = removeIDs(u.Friends, c.RemoveFriends)
	u.Friends = addIDs(u.Friends, c.AddFriends)
	u.BlockedUsers = removeIDs(u.BlockedUsers, c.RemoveBlocked)
	u.BlockedUsers = addIDs(u.BlockedUsers, c.AddBlocked)

	for _, email := range c.RemoveRequestsFrom {
		if i := u.RequestIndex(email); i >= 0 {
			u.FriendRequests = slices.Delete(u.FriendRequests, i, i+1)
		}
	}
	if c.AppendRequest != nil && !u.HasRequestFrom(c.AppendRequest.FromEmail) {
		u.FriendRequests = append(u.FriendRequests, *c.AppendRequest)
	}
	return u
}

func addIDs(set, ids []uint) []uint {
	for _, id := range ids {
		if !slices.Contains(set, id) {
			set = append(set, id)
		}
	}
	return set
}

func removeIDs(set, ids []uint) []uint {
	if len(ids) == 0 {
		return set
	}
	return slices.DeleteFunc(set, func(id uint) bool {
		return slices.Contains(ids, id)
	})
}
