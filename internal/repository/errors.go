// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios and map them onto the
// right HTTP responses without string matching.
package repository

import (
	"errors"
	"strings"
)

// ErrUniversityNotFound is returned when a university lookup fails.
var ErrUniversityNotFound = errors.New("university not found")

// ErrUniversityDomainNotFound is returned by ResolveByEmail when no approved
// university carries the email's domain. At signup this is a hard failure;
// at login it is tolerated and the user's university is simply left unset.
var ErrUniversityDomainNotFound = errors.New("no approved university for email domain")

// ErrSpaceNotFound is returned when a space lookup fails.
var ErrSpaceNotFound = errors.New("space not found")

// ErrUserNotFound is returned when a user lookup fails.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when creating a user with an email that is
// already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrRefreshTokenInvalid is returned when a refresh token hash is unknown,
// revoked or expired. The cases are deliberately indistinguishable.
var ErrRefreshTokenInvalid = errors.New("invalid refresh token")

// ErrUniversityExists is returned when a university name or email domain
// collides with an existing row.
var ErrUniversityExists = errors.New("university name or domain already exists")

// ErrDuplicateSpace is returned when (university, name, location) collides
// with an existing space.
var ErrDuplicateSpace = errors.New("space with this name and location already exists")

// ErrCircularParent is returned when a set-parent operation would make a
// space its own ancestor. The save is rejected with no mutation.
var ErrCircularParent = errors.New("circular parent relationship")

// ErrParentUniversityMismatch is returned when the requested parent belongs
// to a different university than the space.
var ErrParentUniversityMismatch = errors.New("parent belongs to a different university")

// ErrSpaceHasChildren is returned when deleting a space that still has
// children; leaves must be deleted first.
var ErrSpaceHasChildren = errors.New("space still has children")

// isDuplicateKey reports whether err is a MySQL duplicate-key violation
// (error 1062). The driver does not expose a typed error for this, so the
// code is sniffed from the message the same way across all repositories.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
