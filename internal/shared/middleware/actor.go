package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"pubs-backend/internal/shared"
)

const (
	HeaderActor = "X-User"
	KeyActor    = "actor"
)

// Actor đưa người thao tác từ header X-User vào request context. Repositories
// đọc nó qua shared.ActorFromContext để ghi created_by / updated_by.
// Thiếu header thì actor là shared.SystemActor.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(HeaderActor))
		if actor == "" {
			actor = shared.SystemActor
		}

		c.Set(KeyActor, actor)
		c.Request = c.Request.WithContext(shared.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}
