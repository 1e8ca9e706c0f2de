package database

import (
	"pubs-backend/internal/shared/entity"
	"pubs-backend/internal/shared/valueobject"
)

// =====================================================
// AUDIT COLUMNS
// =====================================================

// AuditColumns là các cột chung của mọi bảng, luôn đứng đầu SELECT list
// theo đúng thứ tự của AuditTargets.
const AuditColumns = "id, created_at, updated_at, created_by, updated_by, is_deleted, deleted_at, version"

// AuditTargets returns scan destinations for AuditColumns.
func AuditTargets(s *entity.Snapshot) []any {
	return []any{&s.ID, &s.CreatedAt, &s.UpdatedAt, &s.CreatedBy, &s.UpdatedBy, &s.IsDeleted, &s.DeletedAt, &s.Version}
}

// AuditInsertValues returns AuditColumns minus version, which every INSERT
// sets to 1.
func AuditInsertValues(s entity.Snapshot) []any {
	return []any{s.ID, s.CreatedAt, s.UpdatedAt, s.CreatedBy, s.UpdatedBy, s.IsDeleted, s.DeletedAt}
}

// AuditUpdateValues returns updated_at, updated_by, is_deleted, deleted_at.
func AuditUpdateValues(s entity.Snapshot) []any {
	return []any{s.UpdatedAt, s.UpdatedBy, s.IsDeleted, s.DeletedAt}
}

// =====================================================
// ADDRESS COLUMNS
// =====================================================

// AddressColumns are the five nullable address columns, in NullAddress order.
const AddressColumns = "street, city, state, postal_code, country"

// NullAddress scans the address columns. All NULL means no address.
type NullAddress struct {
	Street     *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string
}

func (n *NullAddress) Targets() []any {
	return []any{&n.Street, &n.City, &n.State, &n.PostalCode, &n.Country}
}

func (n NullAddress) Address() *valueobject.Address {
	if n.Street == nil && n.City == nil && n.State == nil && n.PostalCode == nil && n.Country == nil {
		return nil
	}
	addr := valueobject.NewAddress(deref(n.Street), deref(n.City), deref(n.State), deref(n.PostalCode), deref(n.Country))
	return &addr
}

// AddressValues returns values for AddressColumns; a nil address writes NULLs.
func AddressValues(a *valueobject.Address) []any {
	if a == nil {
		return []any{nil, nil, nil, nil, nil}
	}
	return []any{a.Street(), a.City(), a.State(), a.PostalCode(), a.Country()}
}

// Args flattens argument groups into one slice for Exec/Query.
func Args(groups ...[]any) []any {
	var out []any
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
