package database

import (
	"context"

	"github.com/google/uuid"

	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/entity"
)

// Aggregate is satisfied by every aggregate through the embedded entity.Base.
type Aggregate interface {
	ID() uuid.UUID
	IsNew() bool
	Version() int64
	AssignCreator(createdBy string)
	UpdateAuditInfo(updatedBy string)
	MarkAsDeleted(deletedBy string)
	AcceptChanges(version int64)
}

// WriteFunc persists one aggregate (root row and its children) and returns the
// callback that accepts the written state once the flush succeeded.
type WriteFunc func(ctx context.Context, exec Executor) (int64, func(), error)

// TrackAdd queues the insert of a new aggregate. CreatedBy comes from the actor in ctx.
func TrackAdd(ctx context.Context, t Tracker, name string, a Aggregate, write WriteFunc) error {
	if entity.IsNil(a) {
		return shared.NewInvalidArgument(name, name+" is required")
	}
	if !a.IsNew() {
		return shared.NewInvalidArgument(name, name+" is already persisted, use Update")
	}

	a.AssignCreator(shared.ActorFromContext(ctx))
	return track(ctx, t, OpInsert, name, a, write)
}

// TrackUpdate queues a versioned update of a persisted aggregate.
func TrackUpdate(ctx context.Context, t Tracker, name string, a Aggregate, write WriteFunc) error {
	if entity.IsNil(a) {
		return shared.NewInvalidArgument(name, name+" is required")
	}
	if a.IsNew() {
		return shared.NewInvalidArgument(name, name+" is not persisted yet, use Add")
	}

	a.UpdateAuditInfo(shared.ActorFromContext(ctx))
	return track(ctx, t, OpUpdate, name, a, write)
}

// TrackDelete soft-deletes the aggregate and queues the versioned update.
// Children are left untouched.
func TrackDelete(ctx context.Context, t Tracker, name string, a Aggregate, write WriteFunc) error {
	if entity.IsNil(a) {
		return shared.NewInvalidArgument(name, name+" is required")
	}
	if a.IsNew() {
		return shared.NewInvalidArgument(name, name+" is not persisted yet")
	}

	a.MarkAsDeleted(shared.ActorFromContext(ctx))
	return track(ctx, t, OpDelete, name, a, write)
}

func track(ctx context.Context, t Tracker, kind OpKind, name string, a Aggregate, write WriteFunc) error {
	var accept func()
	return t.Track(ctx, Operation{
		Kind:   kind,
		Entity: name,
		ID:     a.ID(),
		Apply: func(ctx context.Context, exec Executor) (int64, error) {
			n, acc, err := write(ctx, exec)
			if err != nil {
				return 0, err
			}
			accept = acc
			return n, nil
		},
		Accept: func() {
			if accept != nil {
				accept()
			}
		},
	})
}

// Accepts chains accept callbacks.
func Accepts(fns ...func()) func() {
	return func() {
		for _, fn := range fns {
			if fn != nil {
				fn()
			}
		}
	}
}
