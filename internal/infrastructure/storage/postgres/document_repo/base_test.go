package document_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain"
)

func TestDeliveryRepo_ListQuery(t *testing.T) {
	repo := NewDeliveryRepo(nil)
	mid, cid := id.New(), id.New()
	f := domain.ListFilter{
		ModeratorID: &mid,
		CustomerID:  &cid,
		From:        types.NewDay(2024, 3, 5),
	}

	sql, args, err := repo.listQuery(f).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM deliveries WHERE moderator_id = $1 AND day >= $2 AND customer_id = $3 "+
		"ORDER BY day DESC, created_at DESC, id DESC")
	assert.Equal(t, []any{mid.String(), "2024-03-05", cid.String()}, args)
}

func TestExpenseRepo_SearchDescription(t *testing.T) {
	repo := NewExpenseRepo(nil)

	sql, args, err := repo.listQuery(domain.ListFilter{Search: "fuel"}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM other_expenses WHERE description ILIKE $1")
	assert.Equal(t, []any{"%fuel%"}, args)
}

func TestMiscellaneousRepo_ColumnsIncludeCounts(t *testing.T) {
	repo := NewMiscellaneousRepo(nil)

	cols := repo.table.Columns()
	assert.Contains(t, cols, "buyer")
	assert.Contains(t, cols, "filled_bottles")
	assert.Contains(t, cols, "payment")
	assert.Contains(t, cols, "number")
}

func TestModeratorDayCondition(t *testing.T) {
	mid := id.New()

	sql, args, err := moderatorDay(mid, types.NewDay(2024, 3, 5)).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "day = ? AND moderator_id = ?", sql)
	assert.Equal(t, []any{"2024-03-05", mid.String()}, args)
}
