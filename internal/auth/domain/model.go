package domain

import "errors"

const (
	RoleAdmin = "admin"
	// ClaimAdmin is the custom claim SetupAdmin grants.
	ClaimAdmin = "admin"

	SessionCookieName = "__session"
)

var (
	ErrMissingToken = errors.New("missing authorization token")
	ErrInvalidToken = errors.New("invalid token")
	ErrNotAdmin     = errors.New("admin access required")
	ErrStaleLogin   = errors.New("recent sign-in required")
)

// AdminUser mirrors users/{uid} in Firestore.
type AdminUser struct {
	UID   string   `json:"uid" firestore:"-"`
	Email string   `json:"email" firestore:"email"`
	Roles []string `json:"roles" firestore:"roles"`
}

func (u AdminUser) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
