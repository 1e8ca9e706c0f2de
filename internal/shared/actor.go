package shared

import "context"

// SystemActor là actor mặc định khi request không mang thông tin người thao tác
const SystemActor = "system"

type actorKey struct{}

// WithActor gắn tên người thao tác vào context, repositories dùng nó
// để điền CreatedBy / UpdatedBy.
func WithActor(ctx context.Context, actor string) context.Context {
	if actor == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by WithActor, or SystemActor.
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return SystemActor
}
