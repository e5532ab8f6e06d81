package access

// Every ownership and role check in the API goes through Can. Controllers
// never compare roles or owner ids themselves.

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Caller is the resolved identity of an authenticated request.
type Caller struct {
	UserID int64
	Role   string
}

// Resource describes the thing being acted on. AdminManaged covers the
// catalog entities (movies, actors, directors, writers); OwnerID is set
// for owned resources (reviews).
type Resource struct {
	OwnerID      int64
	AdminManaged bool
}

// Can reports whether the caller may perform the action on the resource.
func Can(caller Caller, action Action, resource Resource) bool {
	if resource.AdminManaged {
		if action == ActionRead {
			return true
		}
		return caller.Role == RoleAdmin
	}

	switch action {
	case ActionRead, ActionCreate:
		return true
	case ActionUpdate:
		// ownership required even for admins
		return caller.UserID == resource.OwnerID
	case ActionDelete:
		return caller.UserID == resource.OwnerID || caller.Role == RoleAdmin
	}

	return false
}
