package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidEmailDomain is returned when a university email domain cannot be
// normalized into the canonical "@host" form (it must contain exactly one
// '@' once the leading one has been added).
var ErrInvalidEmailDomain = errors.New("invalid email domain format")

// ErrInvalidEmail is returned when an email address does not contain exactly
// one '@' and therefore carries no resolvable domain.
var ErrInvalidEmail = errors.New("invalid email address")

// University represents a registered institution. Each university owns the
// users and spaces created under it; its email domain is the key used to
// associate accounts at signup.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique human-readable name.
//  EmailDomain – unique canonical domain, always stored with a leading '@'.
//  IsApproved  – whether signups against this domain are accepted. Requested
//                universities start unapproved until an admin approves them.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type University struct {
	ID          uint64    // universities.id
	Name        string    // universities.name
	EmailDomain string    // universities.email_domain
	IsApproved  bool      // universities.is_approved
	CreatedAt   time.Time // universities.created_at
	UpdatedAt   time.Time // universities.updated_at
}

// NormalizeEmailDomain brings a raw domain string into canonical form: lower
// case, with a leading '@'. Input "university.edu" becomes "@university.edu".
// A domain that still contains more than one '@' after normalization (e.g.
// "@a@b") is rejected with ErrInvalidEmailDomain.
func NormalizeEmailDomain(raw string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(raw))
	if d == "" {
		return "", ErrInvalidEmailDomain
	}
	if !strings.HasPrefix(d, "@") {
		d = "@" + d
	}
	if strings.Count(d, "@") != 1 || len(d) == 1 {
		return "", ErrInvalidEmailDomain
	}
	return d, nil
}

// DomainFromEmail extracts the candidate university domain from an email
// address: the substring from the '@' to the end, lower cased. The address
// must contain exactly one '@'. Matching against stored domains is exact;
// "student@cs.mit.edu" yields "@cs.mit.edu" and will not match "@mit.edu".
func DomainFromEmail(email string) (string, error) {
	e := strings.ToLower(strings.TrimSpace(email))
	if strings.Count(e, "@") != 1 {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	at := strings.Index(e, "@")
	if at == len(e)-1 {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return e[at:], nil
}
