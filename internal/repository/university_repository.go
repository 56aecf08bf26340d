// This file defines the UniversityRepo with CRUD and lookup operations for
// the university directory, including the email-domain resolver used at
// signup and login. A university owns its users and spaces; deleting one
// removes them too, inside a single transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/opencampus/unispace/internal/model"
)

// UniversityRepo encapsulates all database queries related to universities.
type UniversityRepo struct {
	db *sql.DB
}

// NewUniversityRepo constructs a UniversityRepo with the provided DB handle.
func NewUniversityRepo(db *sql.DB) *UniversityRepo {
	return &UniversityRepo{db: db}
}

const universityCols = "id, name, email_domain, is_approved, created_at, updated_at"

func scanUniversity(row *sql.Row) (*model.University, error) {
	var u model.University
	err := row.Scan(&u.ID, &u.Name, &u.EmailDomain, &u.IsApproved, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUniversityNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new university. The email domain is normalized to its
// canonical "@host" form before the insert; a malformed domain fails with
// model.ErrInvalidEmailDomain and nothing is written. On success the ID and
// timestamp fields are populated.
func (r *UniversityRepo) Create(ctx context.Context, u *model.University) error {
	domain, err := model.NormalizeEmailDomain(u.EmailDomain)
	if err != nil {
		return err
	}
	u.EmailDomain = domain

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO universities (name, email_domain, is_approved) VALUES (?, ?, ?)",
		u.Name, u.EmailDomain, u.IsApproved)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrUniversityExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)

	// Follow-up SELECT to populate default timestamp fields.
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM universities WHERE id = ?", u.ID).
		Scan(&u.CreatedAt, &u.UpdatedAt)
}

// GetByID fetches a university by its ID. Returns ErrUniversityNotFound when
// no row matches.
func (r *UniversityRepo) GetByID(ctx context.Context, id uint64) (*model.University, error) {
	return scanUniversity(r.db.QueryRowContext(ctx,
		"SELECT "+universityCols+" FROM universities WHERE id = ?", id))
}

// GetByDomain fetches an approved university whose stored domain equals the
// given canonical domain exactly. Subdomains are not generalized:
// "@cs.mit.edu" will not match a university registered as "@mit.edu".
func (r *UniversityRepo) GetByDomain(ctx context.Context, domain string) (*model.University, error) {
	u, err := scanUniversity(r.db.QueryRowContext(ctx,
		"SELECT "+universityCols+" FROM universities WHERE email_domain = ? AND is_approved = 1", domain))
	if err != nil {
		if errors.Is(err, ErrUniversityNotFound) {
			return nil, ErrUniversityDomainNotFound
		}
		return nil, err
	}
	return u, nil
}

// ResolveByEmail maps an email address to the approved university matching
// its domain. It has no side effects. Fails with model.ErrInvalidEmail when
// the address carries no domain and ErrUniversityDomainNotFound when no
// approved university matches; the caller decides whether that is fatal
// (signup) or ignorable (login).
func (r *UniversityRepo) ResolveByEmail(ctx context.Context, email string) (*model.University, error) {
	domain, err := model.DomainFromEmail(email)
	if err != nil {
		return nil, err
	}
	return r.GetByDomain(ctx, domain)
}

// List returns universities ordered by name. When approvedOnly is true,
// pending requests are filtered out; the admin directory passes false.
func (r *UniversityRepo) List(ctx context.Context, approvedOnly bool) ([]*model.University, error) {
	q := "SELECT " + universityCols + " FROM universities"
	if approvedOnly {
		q += " WHERE is_approved = 1"
	}
	q += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.University
	for rows.Next() {
		var u model.University
		if err := rows.Scan(&u.ID, &u.Name, &u.EmailDomain, &u.IsApproved, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update renames a university and/or changes its domain. The domain is
// re-normalized. Returns ErrUniversityNotFound when no row is affected.
func (r *UniversityRepo) Update(ctx context.Context, id uint64, name, domain string) error {
	canonical, err := model.NormalizeEmailDomain(domain)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE universities SET name = ?, email_domain = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		name, canonical, id)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrUniversityExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUniversityNotFound
	}
	return nil
}

// Approve flips the approval flag on. Requested universities become part of
// the approved directory and their domain starts resolving at signup.
func (r *UniversityRepo) Approve(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE universities SET is_approved = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUniversityNotFound
	}
	return nil
}

// Delete removes a university and cascades to its users and spaces inside a
// transaction so no orphan rows remain. Spaces are removed before users so
// the last_updated_by reference never blocks, and child spaces before their
// parents is not a concern because all of the university's spaces go in one
// statement.
func (r *UniversityRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var exists uint64
	if err = tx.QueryRowContext(ctx, "SELECT id FROM universities WHERE id = ?", id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUniversityNotFound
		}
		return err
	}
	// Detach parent references first; MySQL rejects multi-row deletes on a
	// self-referencing FK even when every row is going away.
	if _, err = tx.ExecContext(ctx, "UPDATE spaces SET parent_id = NULL WHERE university_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM spaces WHERE university_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		"DELETE rt FROM refresh_tokens rt JOIN users u ON u.id = rt.user_id WHERE u.university_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM users WHERE university_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM universities WHERE id = ?", id); err != nil {
		return err
	}
	return nil
}
