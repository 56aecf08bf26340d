// This file defines the SpaceRepo. Spaces are tenant rows scoped to one
// university and form a parent/child tree via parent_id. The repo loads
// whole university subtrees for aggregation and enforces the hierarchy
// invariants (no cycles, same-university parents, delete leaves first) on
// every write.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/opencampus/unispace/internal/model"
)

// SpaceRepo encapsulates all database queries related to spaces.
type SpaceRepo struct {
	db *sql.DB
}

// NewSpaceRepo constructs a SpaceRepo with the provided DB handle.
func NewSpaceRepo(db *sql.DB) *SpaceRepo {
	return &SpaceRepo{db: db}
}

const spaceCols = `id, university_id, name, location, space_type, current_occupancy,
	parent_id, last_updated_by, last_updated,
	has_plugs, has_wifi, has_student_discounts, eating_price_range,
	coffee_quality, coffee_price_range`

func scanSpace(scan func(dest ...any) error) (*model.Space, error) {
	var s model.Space
	err := scan(&s.ID, &s.UniversityID, &s.Name, &s.Location, &s.SpaceType, &s.CurrentOccupancy,
		&s.ParentID, &s.LastUpdatedBy, &s.LastUpdated,
		&s.HasPlugs, &s.HasWifi, &s.HasStudentDiscounts, &s.EatingPriceRange,
		&s.CoffeeQuality, &s.CoffeePriceRange)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID fetches a space by id regardless of university. Returns
// ErrSpaceNotFound when no row matches.
func (r *SpaceRepo) GetByID(ctx context.Context, id uint64) (*model.Space, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+spaceCols+" FROM spaces WHERE id = ?", id)
	s, err := scanSpace(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSpaceNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListByUniversity returns every space of a university ordered by
// (space_type, name), the dashboard ordering. The full set is loaded in one
// query so callers can build a model.Tree and aggregate in memory.
func (r *SpaceRepo) ListByUniversity(ctx context.Context, universityID uint64) ([]*model.Space, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+spaceCols+" FROM spaces WHERE university_id = ? ORDER BY space_type, name", universityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Space
	for rows.Next() {
		s, err := scanSpace(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TreeByUniversity loads all spaces of a university into a model.Tree.
func (r *SpaceRepo) TreeByUniversity(ctx context.Context, universityID uint64) (*model.Tree, error) {
	spaces, err := r.ListByUniversity(ctx, universityID)
	if err != nil {
		return nil, err
	}
	return model.NewTree(spaces), nil
}

// Create inserts a new space after applying type-specific defaults and
// validating the requested parent. The parent must exist and belong to the
// same university. A brand-new space has no children, so no cycle is
// possible here. Fails with ErrDuplicateSpace when (university, name,
// location) is taken.
func (r *SpaceRepo) Create(ctx context.Context, s *model.Space) error {
	model.ApplyTypeDefaults(s)

	if s.ParentID != nil {
		parent, err := r.GetByID(ctx, *s.ParentID)
		if err != nil {
			return err
		}
		if parent.UniversityID != s.UniversityID {
			return ErrParentUniversityMismatch
		}
	}

	res, err := r.db.ExecContext(ctx, `INSERT INTO spaces
		(university_id, name, location, space_type, current_occupancy, parent_id,
		 has_plugs, has_wifi, has_student_discounts, eating_price_range, coffee_quality, coffee_price_range)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.UniversityID, s.Name, s.Location, s.SpaceType, s.CurrentOccupancy, s.ParentID,
		s.HasPlugs, s.HasWifi, s.HasStudentDiscounts, s.EatingPriceRange, s.CoffeeQuality, s.CoffeePriceRange)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateSpace
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// Update edits the descriptive fields of a space (name, location, type and
// type-specific attributes). Occupancy and parent have their own operations.
// Defaults are re-applied so a type change never leaves its own fields NULL.
func (r *SpaceRepo) Update(ctx context.Context, s *model.Space) error {
	model.ApplyTypeDefaults(s)

	res, err := r.db.ExecContext(ctx, `UPDATE spaces SET
		name = ?, location = ?, space_type = ?,
		has_plugs = ?, has_wifi = ?, has_student_discounts = ?,
		eating_price_range = ?, coffee_quality = ?, coffee_price_range = ?
		WHERE id = ? AND university_id = ?`,
		s.Name, s.Location, s.SpaceType,
		s.HasPlugs, s.HasWifi, s.HasStudentDiscounts,
		s.EatingPriceRange, s.CoffeeQuality, s.CoffeePriceRange,
		s.ID, s.UniversityID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateSpace
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSpaceNotFound
	}
	return nil
}

// SetParent re-parents a space, or detaches it when parentID is nil. The
// whole parent chain is checked against the freshly loaded university tree:
// the new parent may not be the space itself nor any of its descendants, and
// must belong to the same university. On violation nothing is written.
//
// The check and the write are separate statements; the unique and FK
// constraints remain the backstop if two re-parent requests race.
func (r *SpaceRepo) SetParent(ctx context.Context, spaceID uint64, parentID *uint64) error {
	s, err := r.GetByID(ctx, spaceID)
	if err != nil {
		return err
	}
	if parentID != nil {
		parent, err := r.GetByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, ErrSpaceNotFound) {
				return ErrSpaceNotFound
			}
			return err
		}
		if parent.UniversityID != s.UniversityID {
			return ErrParentUniversityMismatch
		}
		tree, err := r.TreeByUniversity(ctx, s.UniversityID)
		if err != nil {
			return err
		}
		if tree.WouldCycle(spaceID, *parentID) {
			return ErrCircularParent
		}
	}
	_, err = r.db.ExecContext(ctx, "UPDATE spaces SET parent_id = ? WHERE id = ?", parentID, spaceID)
	return err
}

// ReportOccupancy records a self-reported occupancy value and stamps who
// reported it and when. Last write wins; there is no optimistic check
// against the previous last_updated value.
func (r *SpaceRepo) ReportOccupancy(ctx context.Context, spaceID, reporterID uint64, occupancy int) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE spaces SET current_occupancy = ?, last_updated_by = ?, last_updated = ? WHERE id = ?",
		occupancy, reporterID, time.Now().UTC(), spaceID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSpaceNotFound
	}
	return nil
}

// Delete removes a space scoped to a university. Deletion is blocked while
// children exist: leaves must go first, keeping removals explicit.
func (r *SpaceRepo) Delete(ctx context.Context, id, universityID uint64) error {
	var children int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM spaces WHERE parent_id = ?", id).Scan(&children); err != nil {
		return err
	}
	if children > 0 {
		return ErrSpaceHasChildren
	}
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM spaces WHERE id = ? AND university_id = ?", id, universityID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSpaceNotFound
	}
	return nil
}
