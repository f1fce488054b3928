package services

import (
	"errors"
	"fmt"

	"github.com/stagegear/inventory/pkg/response"
)

// Errors returned by the services. Handlers pass them to response.Error,
// which maps each to its HTTP status.
var (
	ErrInvalidCredentials   = response.NewUnauthorized("Invalid credentials")
	ErrUnauthenticated      = response.NewUnauthorized("Unauthorized")
	ErrForbidden            = response.NewForbidden("Forbidden")
	ErrUserExists           = response.NewBadRequest("User already exists")
	ErrSelfDeletion         = response.NewBadRequest("Cannot delete yourself")
	ErrUserNotFound         = response.NewNotFound("User not found")
	ErrEquipmentNotFound    = response.NewNotFound("Equipment not found")
	ErrNotificationNotFound = response.NewNotFound("Notification not found")

	// ErrSessionNotFound is internal to session resolution and never reaches a client.
	ErrSessionNotFound = errors.New("session not found")
)

func validationError(format string, args ...interface{}) error {
	return response.NewBadRequest(fmt.Sprintf(format, args...))
}
