package database

import (
	"context"

	"github.com/google/uuid"
)

// Repository là contract CRUD chung cho mọi aggregate. T là con trỏ tới
// aggregate, GetByID trả về (nil, nil) khi không tìm thấy.
//
// Add/Update/Delete không chạy SQL ngay mà ghi vào change set của Session,
// dữ liệu chỉ xuống database khi SaveChanges.
type Repository[T any] interface {
	GetByID(ctx context.Context, id uuid.UUID) (T, error)
	GetAll(ctx context.Context) ([]T, error)
	Add(ctx context.Context, entity T) error
	Update(ctx context.Context, entity T) error
	// Delete is a soft delete.
	Delete(ctx context.Context, entity T) error
}

// Tracker is the part of a Session that repositories depend on.
type Tracker interface {
	// Conn returns the executor for reads: the active transaction when
	// there is one, the pool otherwise.
	Conn(ctx context.Context) (Executor, error)
	Track(ctx context.Context, op Operation) error
}
