package model

type Role string

const (
	RoleUser    Role = "user"
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

type Capability string

const (
	CapReact          Capability = "react"
	CapComment        Capability = "comment"
	CapUpload         Capability = "upload"
	CapManageOwnVideo Capability = "manage_own_video"
)

var roleCapabilities = map[Role][]Capability{
	RoleUser:    {CapReact, CapComment},
	RoleCreator: {CapReact, CapComment, CapUpload, CapManageOwnVideo},
	RoleAdmin:   {CapReact, CapComment, CapUpload, CapManageOwnVideo},
}

// Identity is the caller as resolved by the authentication layer.
type Identity struct {
	UserID string
	Role   Role
}

// RequestContext carries the resolved caller and its capabilities into
// usecase operations. The zero value is an anonymous caller.
type RequestContext struct {
	identity *Identity
	caps     map[Capability]struct{}
}

func Anonymous() RequestContext { return RequestContext{} }

func Authenticated(id Identity) RequestContext {
	caps := make(map[Capability]struct{})
	for _, c := range roleCapabilities[id.Role] {
		caps[c] = struct{}{}
	}
	return RequestContext{identity: &id, caps: caps}
}

func (rc RequestContext) IsAnonymous() bool { return rc.identity == nil }

// UserID returns the caller id, or "" when anonymous.
func (rc RequestContext) UserID() string {
	if rc.identity == nil {
		return ""
	}
	return rc.identity.UserID
}

func (rc RequestContext) Role() Role {
	if rc.identity == nil {
		return ""
	}
	return rc.identity.Role
}

func (rc RequestContext) Can(c Capability) bool {
	_, ok := rc.caps[c]
	return ok
}

// Require returns a Forbidden error unless the caller holds c.
func (rc RequestContext) Require(c Capability) error {
	if rc.Can(c) {
		return nil
	}
	if rc.IsAnonymous() {
		return Forbidden("Authentication required")
	}
	return Forbidden("Access denied")
}
