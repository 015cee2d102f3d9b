package models

import (
	"time"

	"gorm.io/gorm"
)

// Base replaces gorm.Model so that deletion is tracked by SoftDelete
// instead of gorm.DeletedAt's implicit query filter.
type Base struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lifecycle tags a row as live or tombstoned.
type Lifecycle string

const (
	LifecycleActive  Lifecycle = "ACTIVE"
	LifecycleDeleted Lifecycle = "DELETED"
)

// SoftDelete is embedded by every model that is never physically removed.
type SoftDelete struct {
	Lifecycle Lifecycle  `json:"-" gorm:"type:varchar(16);not null;default:'ACTIVE';index"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func (s SoftDelete) IsDeleted() bool {
	return s.Lifecycle == LifecycleDeleted
}

func (s *SoftDelete) MarkDeleted(at time.Time) {
	s.Lifecycle = LifecycleDeleted
	s.DeletedAt = &at
}

// Tombstone is the column set written when a row is soft deleted.
func Tombstone(at time.Time) map[string]interface{} {
	return map[string]interface{}{
		"lifecycle":  LifecycleDeleted,
		"deleted_at": at,
	}
}

// Active restricts a query to live rows of its main table.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("lifecycle = ?", LifecycleActive)
}
