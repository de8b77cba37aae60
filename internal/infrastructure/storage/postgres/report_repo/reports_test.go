package report_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
)

func TestSalesQuery_GroupsByModerator(t *testing.T) {
	day := types.NewDay(2024, 3, 5)

	sql, args, err := salesQuery("deliveries", day, nil).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT moderator_id, COUNT(*) AS count, "+
		"COALESCE(SUM(filled_bottles), 0) AS filled_bottles, COALESCE(SUM(foc), 0) AS foc, "+
		"COALESCE(SUM(empty_bottles), 0) AS empty_bottles, COALESCE(SUM(damaged_bottles), 0) AS damaged_bottles, "+
		"COALESCE(SUM(bill), 0) AS billed, COALESCE(SUM(payment), 0) AS payments "+
		"FROM deliveries WHERE day = $1 GROUP BY moderator_id", sql)
	// squirrel resolves driver.Valuer arguments
	assert.Equal(t, []any{"2024-03-05"}, args)
}

func TestExpenseQuery_ScopedToModerator(t *testing.T) {
	day := types.NewDay(2024, 3, 5)
	mid := id.New()

	sql, args, err := expenseQuery(day, &mid).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT moderator_id, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount "+
		"FROM other_expenses WHERE day = $1 AND moderator_id = $2 GROUP BY moderator_id", sql)
	assert.Equal(t, []any{"2024-03-05", mid.String()}, args)
}
