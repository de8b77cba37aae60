package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaops/internal/core/id"
	"aquaops/internal/domain"
)

func TestCustomerRepo_ListQuery(t *testing.T) {
	repo := NewCustomerRepo(nil)
	mid := id.New()

	tests := []struct {
		name     string
		filter   domain.ListFilter
		wantTail string
		wantArgs []any
	}{
		{
			name:     "no filter",
			filter:   domain.ListFilter{},
			wantTail: "FROM customers ORDER BY name, id",
		},
		{
			name:     "search",
			filter:   domain.ListFilter{Search: "ali"},
			wantTail: "FROM customers WHERE (name ILIKE $1 OR phone ILIKE $2 OR address ILIKE $3) ORDER BY name, id",
			wantArgs: []any{"%ali%", "%ali%", "%ali%"},
		},
		{
			name:     "area and moderator",
			filter:   domain.ListFilter{Area: "North", ModeratorID: &mid},
			wantTail: "FROM customers WHERE area = $1 AND moderator_id = $2 ORDER BY name, id",
			wantArgs: []any{"North", mid.String()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.listQuery(tt.filter).ToSql()
			require.NoError(t, err)
			assert.True(t, len(sql) >= len(tt.wantTail) && sql[len(sql)-len(tt.wantTail):] == tt.wantTail, sql)
			assert.Equal(t, len(tt.wantArgs), len(args))
			if len(tt.wantArgs) > 0 {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestModeratorRepo_ListQueryByArea(t *testing.T) {
	repo := NewModeratorRepo(nil)

	sql, args, err := repo.listQuery(domain.ListFilter{Area: "Harbour"}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM moderators WHERE $1 = ANY(areas) ORDER BY name, id")
	assert.Equal(t, []any{"Harbour"}, args)
}
