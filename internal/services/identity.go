package services

import "github.com/stagegear/inventory/internal/models"

// Identity is the authenticated caller of a service operation. A nil
// *Identity means an anonymous request.
type Identity struct {
	UserID    string
	Name      string
	Role      string
	SessionID string
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

// RequireAuth fails with ErrUnauthenticated for anonymous callers.
func RequireAuth(caller *Identity) error {
	if caller == nil || caller.UserID == "" {
		return ErrUnauthenticated
	}
	return nil
}

// RequireRole fails with ErrUnauthenticated when there is no caller and
// ErrForbidden when the caller's role differs from role.
func RequireRole(caller *Identity, role string) error {
	if err := RequireAuth(caller); err != nil {
		return err
	}
	if caller.Role != role {
		return ErrForbidden
	}
	return nil
}
