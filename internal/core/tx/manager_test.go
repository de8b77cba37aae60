package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inlineManager struct{ reads int }

func (m *inlineManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *inlineManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.reads++
	return fn(ctx)
}

func TestRead(t *testing.T) {
	m := &inlineManager{}

	n, err := Read(context.Background(), m, func(context.Context) (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	n, err = Read(context.Background(), m, func(context.Context) (int, error) { return 7, errors.New("boom") })
	assert.EqualError(t, err, "boom")
	assert.Zero(t, n)
	assert.Equal(t, 2, m.reads)
}
