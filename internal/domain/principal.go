package domain

// Recognized top-level roles. Any other role string identifies a delegated
// staff member acting on behalf of a parent account.
const (
	RoleAdmin       = "admin"
	RoleDropshipper = "dropshipper"
	RoleSupplier    = "supplier"
)

// IsTopLevelRole reports whether the role owns bindings directly.
func IsTopLevelRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDropshipper, RoleSupplier:
		return true
	}
	return false
}

// Principal is the resolved calling identity. It is a tagged variant:
// either a main account, or a staff account attributed to its parent.
type Principal interface {
	// AccountID is the id the caller authenticated as.
	AccountID() int64
	// EffectiveOwner is the main account id a binding is attributed to.
	EffectiveOwner() int64
	// RoleName is the role the caller presented, kept for audit.
	RoleName() string
}

// MainAccount is a top-level principal that owns its own bindings.
type MainAccount struct {
	ID   int64
	Role string
}

func (a MainAccount) AccountID() int64      { return a.ID }
func (a MainAccount) EffectiveOwner() int64 { return a.ID }
func (a MainAccount) RoleName() string      { return a.Role }

// StaffAccount is a delegated principal whose bindings are attributed to the
// linked parent account.
type StaffAccount struct {
	ID       int64
	ParentID int64
	Role     string
}

func (a StaffAccount) AccountID() int64      { return a.ID }
func (a StaffAccount) EffectiveOwner() int64 { return a.ParentID }
func (a StaffAccount) RoleName() string      { return a.Role }

// NewPrincipal classifies a looked-up account once, explicitly. A staff
// record with no parent link resolves to a main account so it owns whatever
// it binds, rather than falling back silently somewhere downstream.
func NewPrincipal(id int64, role string, parentID int64) Principal {
	if IsTopLevelRole(role) {
		return MainAccount{ID: id, Role: role}
	}
	if parentID > 0 {
		return StaffAccount{ID: id, ParentID: parentID, Role: role}
	}
	return MainAccount{ID: id, Role: role}
}
