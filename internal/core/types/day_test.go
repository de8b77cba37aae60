package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOf_UsesBusinessTimezone(t *testing.T) {
	dubai := time.FixedZone("GST", 4*3600)
	// 22:30 UTC on the 14th is already the 15th in UTC+4.
	instant := time.Date(2026, 3, 14, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-14", DayOf(instant, time.UTC).String())
	assert.Equal(t, "2026-03-15", DayOf(instant, dubai).String())
}

func TestDay_JSONRoundTrip(t *testing.T) {
	in := NewDay(2026, time.October, 1)

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `"2026-10-01"`, string(raw))

	var out Day
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, in.Equal(out))

	assert.Error(t, json.Unmarshal([]byte(`"01/10/2026"`), &out))
}

func TestDay_Scan(t *testing.T) {
	var d Day
	require.NoError(t, d.Scan(time.Date(2026, 5, 2, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, "2026-05-02", d.String())

	require.NoError(t, d.Scan("2026-05-03"))
	assert.Equal(t, "2026-05-03", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestDay_Ordering(t *testing.T) {
	d := NewDay(2026, 12, 31)
	next := d.AddDays(1)

	assert.Equal(t, "2027-01-01", next.String())
	assert.True(t, d.Before(next))
	assert.True(t, next.After(d))
	assert.Equal(t, 2027, next.Year())
}

func TestClock_Today(t *testing.T) {
	clock := FixedClock(time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC), time.FixedZone("X", -2*3600))
	assert.Equal(t, "2025-12-31", clock.Today().String())
}

func TestBottles(t *testing.T) {
	assert.True(t, MustMoney("400").Equal(Bottles(4, MoneyFromInt(100))))
	assert.True(t, Zero().Equal(Bottles(0, MustMoney("2.5"))))
}
