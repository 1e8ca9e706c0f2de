// Package entity chứa phần thuộc tính chung (identity, audit, soft delete,
// version) được embed vào mọi aggregate.
package entity

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// now is swapped in tests.
var now = func() time.Time { return time.Now().UTC() }

// Identifiable is anything with an aggregate id.
type Identifiable interface {
	ID() uuid.UUID
}

// Base is embedded in every aggregate. Fields are only changed through the
// methods below; the version is owned by the persistence layer.
type Base struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt *time.Time
	createdBy *string
	updatedBy *string
	isDeleted bool
	deletedAt *time.Time

	// Optimistic locking token, incremented by the database on every write.
	// 0 means the entity has never been persisted.
	version int64

	changed bool
}

// NewBase generates a random id and stamps CreatedAt.
func NewBase() Base {
	return Base{
		id:        uuid.New(),
		createdAt: now(),
	}
}

func (b *Base) ID() uuid.UUID         { return b.id }
func (b *Base) CreatedAt() time.Time  { return b.createdAt }
func (b *Base) UpdatedAt() *time.Time { return b.updatedAt }
func (b *Base) CreatedBy() *string    { return b.createdBy }
func (b *Base) UpdatedBy() *string    { return b.updatedBy }
func (b *Base) IsDeleted() bool       { return b.isDeleted }
func (b *Base) DeletedAt() *time.Time { return b.deletedAt }
func (b *Base) Version() int64        { return b.version }
func (b *Base) IsNew() bool           { return b.version == 0 }
func (b *Base) HasChanges() bool      { return b.changed || b.version == 0 }

// MarkAsDeleted soft-deletes the entity. DeletedAt and UpdatedAt share one timestamp.
func (b *Base) MarkAsDeleted(deletedBy string) {
	ts := now()
	b.isDeleted = true
	b.deletedAt = &ts
	b.updatedBy = &deletedBy
	b.updatedAt = &ts
	b.changed = true
}

// UpdateAuditInfo records who last changed the entity.
func (b *Base) UpdateAuditInfo(updatedBy string) {
	ts := now()
	b.updatedBy = &updatedBy
	b.updatedAt = &ts
	b.changed = true
}

// AssignCreator sets CreatedBy once; later calls are ignored.
func (b *Base) AssignCreator(createdBy string) {
	if b.createdBy == nil {
		b.createdBy = &createdBy
	}
}

// Touch must be called by every aggregate mutator after validation passed.
func (b *Base) Touch() {
	ts := now()
	b.updatedAt = &ts
	b.changed = true
}

// AcceptChanges is called by the persistence layer after a successful write.
func (b *Base) AcceptChanges(version int64) {
	b.version = version
	b.changed = false
}

// =====================================================
// SNAPSHOT (persistence shape)
// =====================================================

// Snapshot is the flat, persisted form of Base.
type Snapshot struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	CreatedBy *string
	UpdatedBy *string
	IsDeleted bool
	DeletedAt *time.Time
	Version   int64
}

func (b *Base) Snapshot() Snapshot {
	return Snapshot{
		ID:        b.id,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
		CreatedBy: b.createdBy,
		UpdatedBy: b.updatedBy,
		IsDeleted: b.isDeleted,
		DeletedAt: b.deletedAt,
		Version:   b.version,
	}
}

// Restore rebuilds a Base loaded from storage. The result has no pending changes.
func Restore(s Snapshot) Base {
	return Base{
		id:        s.ID,
		createdAt: s.CreatedAt,
		updatedAt: s.UpdatedAt,
		createdBy: s.CreatedBy,
		updatedBy: s.UpdatedBy,
		isDeleted: s.IsDeleted,
		deletedAt: s.DeletedAt,
		version:   s.Version,
	}
}

// IsNil reports whether v is nil or a typed nil pointer.
func IsNil(v Identifiable) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
