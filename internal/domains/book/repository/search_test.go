package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchQuery(t *testing.T) {
	t.Run("blank term lists live books", func(t *testing.T) {
		query, args, err := buildSearchQuery("   ")
		require.NoError(t, err)

		assert.Contains(t, query, `FROM "books"`)
		assert.Contains(t, query, `"is_deleted" IS FALSE`)
		assert.Contains(t, query, `ORDER BY "title" ASC`)
		assert.NotContains(t, query, "ILIKE")
		assert.Empty(t, args)
	})

	t.Run("term matches title, description and isbn", func(t *testing.T) {
		query, args, err := buildSearchQuery(" 978-0-306 ")
		require.NoError(t, err)

		assert.Contains(t, query, `"title" ILIKE $1`)
		assert.Contains(t, query, `"description" ILIKE $2`)
		assert.Contains(t, query, `"isbn" ILIKE $3`)
		assert.Equal(t, []any{"%978-0-306%", "%978-0-306%", "%9780306%"}, args)
	})

	t.Run("like wildcards are escaped", func(t *testing.T) {
		_, args, err := buildSearchQuery("100%_off")
		require.NoError(t, err)
		require.Len(t, args, 3)
		assert.Equal(t, `%100\%\_off%`, args[0])
	})
}
