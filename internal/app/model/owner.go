package model

// Owner identifies who a cart or order belongs to: a registered user or an
// anonymous guest token, never both. The zero Owner is invalid.
type Owner struct {
	userID  uint
	guestID string
}

// RegisteredOwner returns the owner for a registered user.
func RegisteredOwner(userID uint) Owner {
	return Owner{userID: userID}
}

// GuestOwner returns the owner for an anonymous guest token.
func GuestOwner(guestID string) Owner {
	return Owner{guestID: guestID}
}

func (o Owner) IsRegistered() bool {
	return o.userID != 0
}

func (o Owner) IsGuest() bool {
	return o.userID == 0 && o.guestID != ""
}

func (o Owner) IsZero() bool {
	return o.userID == 0 && o.guestID == ""
}

// UserID returns the user ID when the owner is a registered user.
func (o Owner) UserID() (uint, bool) {
	return o.userID, o.userID != 0
}

// GuestID returns the guest token when the owner is a guest.
func (o Owner) GuestID() (string, bool) {
	if o.IsGuest() {
		return o.guestID, true
	}
	return "", false
}

// Columns maps the owner onto the nullable user_id/guest_id column pair.
func (o Owner) Columns() (*uint, *string) {
	if o.IsRegistered() {
		id := o.userID
		return &id, nil
	}
	if o.IsGuest() {
		gid := o.guestID
		return nil, &gid
	}
	return nil, nil
}

// Matches reports whether a row with the given column values belongs to this
// owner. Rows carrying the other identity kind never match.
func (o Owner) Matches(userID *uint, guestID *string) bool {
	if o.IsRegistered() {
		return userID != nil && *userID == o.userID && guestID == nil
	}
	if o.IsGuest() {
		return guestID != nil && *guestID == o.guestID && userID == nil
	}
	return false
}

// LogFields renders the owner for structured logging.
func (o Owner) LogFields() map[string]interface{} {
	if o.IsRegistered() {
		return map[string]interface{}{"user_id": o.userID}
	}
	return map[string]interface{}{"guest_id": o.guestID}
}
