package model

import "time"

// Roles stored in users.role and carried in the JWT "role" claim. Members
// belong to exactly one university; admins belong to none and manage the
// university directory itself.
const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

// User represents an account. Members are associated to a university at
// signup by resolving their email domain; UniversityID is nil only for
// admins (and transiently for members whose domain could not be resolved at
// login, which is tolerated).
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (stored lower case)
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	UniversityID *uint64   // users.university_id (nullable, FK universities.id)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// IsAdmin reports whether the user is a system admin.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// SameUniversity reports whether the user belongs to the university owning
// the given space.
func (u User) SameUniversity(s *Space) bool {
	return u.UniversityID != nil && s != nil && *u.UniversityID == s.UniversityID
}

// CanManageSpace decides whether the user may create, edit, re-parent or
// delete a space. Admins bypass the university match; everyone must be
// active.
func (u User) CanManageSpace(s *Space) bool {
	if !u.IsActive {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	return u.SameUniversity(s)
}

// CanReportOccupancy decides whether the user may report occupancy for a
// space. Only active members of the space's own university qualify; admins
// are excluded since they hold no university-scoped session.
func (u User) CanReportOccupancy(s *Space) bool {
	return u.IsActive && !u.IsAdmin() && u.SameUniversity(s)
}
