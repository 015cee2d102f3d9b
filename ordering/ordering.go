// Package ordering keeps a zero-based, contiguous order_index among the
// active children of a parent row.
//
// Every mutation runs in one transaction that first locks the parent row,
// so concurrent mutations of the same collection are serialized by the
// database. SQLite ignores the row lock; it serializes writers anyway.
package ordering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnly/apperrors"
	"learnly/database"
	"learnly/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Collection describes one parent-scoped table. Both tables must carry the
// models.SoftDelete columns; the child table also needs order_index.
type Collection struct {
	Table        string
	ParentTable  string
	ParentColumn string
	ParentLabel  string // used in error messages, e.g. "Training"
	ChildLabel   string

	// AncestorTable, when set, is the table the parent belongs to through
	// AncestorColumn. Its row is locked before the parent and must be active.
	AncestorTable  string
	AncestorColumn string
}

type Manager struct {
	db  *gorm.DB
	col Collection
}

func New(db *gorm.DB, col Collection) *Manager {
	return &Manager{db: db, col: col}
}

// Append inserts a new last child. insert receives the transaction and the
// index the new row must be created with.
func (m *Manager) Append(ctx context.Context, parentID uint, insert func(tx *gorm.DB, index int) error) (int, error) {
	var index int
	err := database.Transact(ctx, m.db, func(tx *gorm.DB) error {
		if err := m.lockParent(tx, parentID); err != nil {
			return err
		}

		next, err := m.nextIndex(tx, parentID)
		if err != nil {
			return err
		}
		index = next
		return insert(tx, next)
	})
	if err != nil {
		return 0, err
	}
	return index, nil
}

// MoveTo places childID at target, shifting the siblings in between one
// step toward the vacated slot. Moving a child onto its own index is a no-op.
func (m *Manager) MoveTo(ctx context.Context, parentID, childID uint, target int) error {
	return m.MoveWith(ctx, parentID, childID, target, nil)
}

// MoveWith is MoveTo with an extra step run in the same transaction once the
// child is in place, e.g. updating the child's other fields.
func (m *Manager) MoveWith(ctx context.Context, parentID, childID uint, target int, after func(tx *gorm.DB) error) error {
	return database.Transact(ctx, m.db, func(tx *gorm.DB) error {
		if err := m.lockParent(tx, parentID); err != nil {
			return err
		}

		current, err := m.indexOf(tx, parentID, childID)
		if err != nil {
			return err
		}

		count, err := m.countActive(tx, parentID)
		if err != nil {
			return err
		}
		if target < 0 || int64(target) >= count {
			return apperrors.Field("order_index", fmt.Sprintf("order_index must be between 0 and %d!", count-1))
		}

		if target != current {
			if err := m.shift(tx, parentID, childID, current, target); err != nil {
				return err
			}
		}
		if after == nil {
			return nil
		}
		return after(tx)
	})
}

func (m *Manager) shift(tx *gorm.DB, parentID, childID uint, current, target int) error {
	now := time.Now()
	shift := m.active(tx, parentID)
	if target < current {
		shift = shift.Where("order_index >= ? AND order_index < ?", target, current).
			Updates(map[string]interface{}{"order_index": gorm.Expr("order_index + 1"), "updated_at": now})
	} else {
		shift = shift.Where("order_index > ? AND order_index <= ?", current, target).
			Updates(map[string]interface{}{"order_index": gorm.Expr("order_index - 1"), "updated_at": now})
	}
	if shift.Error != nil {
		return shift.Error
	}

	return tx.Table(m.col.Table).Where("id = ?", childID).
		Updates(map[string]interface{}{"order_index": target, "updated_at": now}).Error
}

// Within runs fn in a transaction holding the parent lock after checking
// that childID is an active child of parentID.
func (m *Manager) Within(ctx context.Context, parentID, childID uint, fn func(tx *gorm.DB) error) error {
	return database.Transact(ctx, m.db, func(tx *gorm.DB) error {
		if err := m.lockParent(tx, parentID); err != nil {
			return err
		}
		if _, err := m.indexOf(tx, parentID, childID); err != nil {
			return err
		}
		return fn(tx)
	})
}

// Remove soft deletes childID and closes the gap it leaves. The tombstoned
// row keeps its last order_index.
func (m *Manager) Remove(ctx context.Context, parentID, childID uint) error {
	return database.Transact(ctx, m.db, func(tx *gorm.DB) error {
		if err := m.lockParent(tx, parentID); err != nil {
			return err
		}
		return m.removeLocked(tx, parentID, childID, func(*gorm.DB) error { return nil })
	})
}

// RemoveWith is Remove with an extra step run in the same transaction after
// the row is tombstoned, e.g. cascading to the child's own children.
func (m *Manager) RemoveWith(ctx context.Context, parentID, childID uint, after func(tx *gorm.DB) error) error {
	return database.Transact(ctx, m.db, func(tx *gorm.DB) error {
		if err := m.lockParent(tx, parentID); err != nil {
			return err
		}
		return m.removeLocked(tx, parentID, childID, after)
	})
}

func (m *Manager) removeLocked(tx *gorm.DB, parentID, childID uint, after func(tx *gorm.DB) error) error {
	current, err := m.indexOf(tx, parentID, childID)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := tx.Table(m.col.Table).Where("id = ?", childID).Updates(models.Tombstone(now)).Error; err != nil {
		return err
	}

	if err := m.active(tx, parentID).Where("order_index > ?", current).
		Updates(map[string]interface{}{"order_index": gorm.Expr("order_index - 1"), "updated_at": now}).Error; err != nil {
		return err
	}
	return after(tx)
}

// ReorderAll assigns order_index = position to each id. ids must be exactly
// the active children of parentID, each once.
func (m *Manager) ReorderAll(ctx context.Context, parentID uint, ids []uint) error {
	if ids == nil {
		return apperrors.Field("ids", "A list of ids is required!")
	}

	return database.Transact(ctx, m.db, func(tx *gorm.DB) error {
		if err := m.lockParent(tx, parentID); err != nil {
			return err
		}

		var current []uint
		if err := m.active(tx, parentID).Pluck("id", &current).Error; err != nil {
			return err
		}
		if err := checkPermutation(ids, current, m.col.ChildLabel); err != nil {
			return err
		}

		now := time.Now()
		for position, id := range ids {
			if err := tx.Table(m.col.Table).Where("id = ?", id).
				Updates(map[string]interface{}{"order_index": position, "updated_at": now}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// List loads the active children of parentID in order into dest, which
// must be a pointer to a slice of the child model.
func (m *Manager) List(ctx context.Context, parentID uint, dest interface{}) error {
	return m.active(m.db.WithContext(ctx), parentID).Order("order_index asc").Find(dest).Error
}

func (m *Manager) Count(ctx context.Context, parentID uint) (int64, error) {
	return m.countActive(m.db.WithContext(ctx), parentID)
}

// TombstoneChildren soft deletes every active child of the given parents.
// It is used when the parents themselves are being deleted, so no
// renumbering happens.
func (m *Manager) TombstoneChildren(tx *gorm.DB, parentIDs []uint, at time.Time) error {
	if len(parentIDs) == 0 {
		return nil
	}
	return tx.Table(m.col.Table).
		Where(m.col.ParentColumn+" IN ? AND lifecycle = ?", parentIDs, models.LifecycleActive).
		Updates(models.Tombstone(at)).Error
}

// ActiveIDs returns the ids of the active children of the given parents.
func (m *Manager) ActiveIDs(tx *gorm.DB, parentIDs []uint) ([]uint, error) {
	var ids []uint
	if len(parentIDs) == 0 {
		return ids, nil
	}
	err := tx.Table(m.col.Table).
		Where(m.col.ParentColumn+" IN ? AND lifecycle = ?", parentIDs, models.LifecycleActive).
		Pluck("id", &ids).Error
	return ids, err
}

func (m *Manager) active(tx *gorm.DB, parentID uint) *gorm.DB {
	return tx.Table(m.col.Table).Where(m.col.ParentColumn+" = ? AND lifecycle = ?", parentID, models.LifecycleActive)
}

func (m *Manager) lockParent(tx *gorm.DB, parentID uint) error {
	notFound := apperrors.NotFound(m.col.ParentLabel + " not found!")
	if m.col.AncestorTable != "" {
		var ref struct{ AncestorID uint }
		err := tx.Table(m.col.ParentTable).
			Select(m.col.AncestorColumn+" AS ancestor_id").
			Where("id = ?", parentID).
			Take(&ref).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound
		}
		if err != nil {
			return err
		}
		if err := lockActive(tx, m.col.AncestorTable, ref.AncestorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound
			}
			return err
		}
	}

	err := lockActive(tx, m.col.ParentTable, parentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

func lockActive(tx *gorm.DB, table string, id uint) error {
	var row struct{ ID uint }
	return tx.Table(table).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ? AND lifecycle = ?", id, models.LifecycleActive).
		Take(&row).Error
}

func (m *Manager) indexOf(tx *gorm.DB, parentID, childID uint) (int, error) {
	var row struct{ OrderIndex int }
	err := m.active(tx, parentID).Select("order_index").Where("id = ?", childID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperrors.NotFound(m.col.ChildLabel + " not found!")
	}
	return row.OrderIndex, err
}

func (m *Manager) nextIndex(tx *gorm.DB, parentID uint) (int, error) {
	var max int64
	if err := m.active(tx, parentID).Select("COALESCE(MAX(order_index), -1)").Row().Scan(&max); err != nil {
		return 0, err
	}
	return int(max) + 1, nil
}

func (m *Manager) countActive(tx *gorm.DB, parentID uint) (int64, error) {
	var count int64
	err := m.active(tx, parentID).Count(&count).Error
	return count, err
}

func checkPermutation(ids, current []uint, label string) error {
	known := make(map[uint]bool, len(current))
	for _, id := range current {
		known[id] = true
	}

	details := make(map[string]string)
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		switch {
		case seen[id]:
			details["ids"] = fmt.Sprintf("%s %d is listed more than once!", label, id)
		case !known[id]:
			details["ids"] = fmt.Sprintf("%s %d does not belong to this collection!", label, id)
		}
		seen[id] = true
	}
	if len(details) == 0 && len(ids) != len(current) {
		details["ids"] = fmt.Sprintf("Expected all %d items, got %d!", len(current), len(ids))
	}
	if len(details) > 0 {
		return apperrors.Validation("Invalid order!", details)
	}
	return nil
}
