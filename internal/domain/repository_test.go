package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"aquaops/internal/core/types"
)

func TestListFilter_Normalize(t *testing.T) {
	f := ListFilter{Limit: 10000, Offset: -4}
	assert.NoError(t, f.Normalize())
	assert.Equal(t, maxLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)

	f = ListFilter{}
	assert.NoError(t, f.Normalize())
	assert.Equal(t, defaultLimit, f.Limit)

	f = ListFilter{From: types.NewDay(2026, 5, 2), To: types.NewDay(2026, 5, 1)}
	assert.Error(t, f.Normalize())
}

func TestHookRegistry_StopsAtFirstError(t *testing.T) {
	r := NewHookRegistry[string]()
	var ran []string
	r.On(BeforeCreate, func(_ context.Context, s string) error { ran = append(ran, "a:"+s); return nil })
	r.On(BeforeCreate, func(_ context.Context, s string) error { return errors.New("stop") })
	r.On(BeforeCreate, func(_ context.Context, s string) error { ran = append(ran, "c:"+s); return nil })

	err := r.Run(context.Background(), BeforeCreate, "x")

	assert.EqualError(t, err, "stop")
	assert.Equal(t, []string{"a:x"}, ran)
	assert.NoError(t, r.Run(context.Background(), AfterCreate, "x"))
}
