package domain

// OwnerKind distinguishes the two ways a cart row can be owned.
type OwnerKind string

const (
	// OwnerUser scopes cart rows to an authenticated user id.
	OwnerUser OwnerKind = "user"
	// OwnerSession scopes cart rows to an anonymous session token.
	OwnerSession OwnerKind = "session"
)

// Owner is the identity a cart is scoped to. A row is owned by exactly one
// kind at a time: user_id and session_id are never both set.
type Owner struct {
	Kind OwnerKind
	ID   string
}

// UserOwner returns an authenticated owner identity.
func UserOwner(id string) Owner {
	return Owner{Kind: OwnerUser, ID: id}
}

// SessionOwner returns an anonymous owner identity.
func SessionOwner(id string) Owner {
	return Owner{Kind: OwnerSession, ID: id}
}

// IsZero reports whether the owner has not been resolved.
func (o Owner) IsZero() bool {
	return o.ID == ""
}

// Columns splits the owner into the nullable (user_id, session_id) pair the
// cart_items table stores.
func (o Owner) Columns() (userID, sessionID *string) {
	switch o.Kind {
	case OwnerUser:
		id := o.ID
		return &id, nil
	case OwnerSession:
		id := o.ID
		return nil, &id
	}
	return nil, nil
}

// Key is a stable map key for the owner ("user:<id>" or "session:<id>").
func (o Owner) Key() string {
	return string(o.Kind) + ":" + o.ID
}
