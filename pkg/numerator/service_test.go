package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates sys_sequences: strict calls pass only the key,
// cached calls pass the key and the range size.
type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
	keys         []string
}

func (m *mockQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}
	if key, ok := args[0].(string); ok {
		m.keys = append(m.keys, key)
	}

	m.currentValue += increment
	return &mockRow{val: m.currentValue}
}

var period = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("DLV")

	num, err := svc.Next(ctx, cfg, period)
	require.NoError(t, err)
	assert.Equal(t, "DLV-2026-00001", num)

	num, err = svc.Next(ctx, cfg, period)
	require.NoError(t, err)
	assert.Equal(t, "DLV-2026-00002", num)

	assert.Equal(t, []string{"DLV_2026", "DLV_2026"}, q.keys)
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("MSC")
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}

	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "MSC-2026-00001", num)
	assert.Equal(t, int64(10), q.currentValue)

	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "MSC-2026-00002", num)
	assert.Equal(t, int64(10), q.currentValue, "second number must come from the reserved range")

	for i := 0; i < 8; i++ {
		_, err = svc.GetNextNumber(ctx, cfg, opts, period)
		require.NoError(t, err)
	}

	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "MSC-2026-00011", num)
	assert.Equal(t, int64(20), q.currentValue)
}

func TestResolverIsAskedPerCall(t *testing.T) {
	first, second := &mockQuerier{}, &mockQuerier{}
	calls := 0
	svc := NewWithResolver(func(context.Context) Querier {
		calls++
		if calls == 1 {
			return first
		}
		return second
	}, nil)

	_, err := svc.Next(context.Background(), DefaultConfig("DLV"), period)
	require.NoError(t, err)
	_, err = svc.Next(context.Background(), DefaultConfig("DLV"), period)
	require.NoError(t, err)

	assert.Len(t, first.keys, 1)
	assert.Len(t, second.keys, 1)
}

func TestMemoryGenerator_SeparatesPrefixesAndYears(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	a, _ := m.Next(ctx, DefaultConfig("DLV"), period)
	b, _ := m.Next(ctx, DefaultConfig("DLV"), period)
	c, _ := m.Next(ctx, DefaultConfig("MSC"), period)
	d, _ := m.Next(ctx, DefaultConfig("DLV"), period.AddDate(1, 0, 0))

	assert.Equal(t, "DLV-2026-00001", a)
	assert.Equal(t, "DLV-2026-00002", b)
	assert.Equal(t, "MSC-2026-00001", c)
	assert.Equal(t, "DLV-2027-00001", d)
}

func TestFormatAndParse(t *testing.T) {
	cfg := Config{Prefix: "R", PadWidth: 3}
	assert.Equal(t, "R-007", formatNumber(cfg, period, 7))
	assert.Equal(t, int64(7), ParseNumber("R-007"))
	assert.Equal(t, int64(42), ParseNumber("DLV-2026-00042"))
	assert.Equal(t, int64(-1), ParseNumber("garbage"))
}
