package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The store contract every backend must honor: absent keys read as nil
// without error, and mget returns one slot per requested key in order.
func TestRedisKVContract(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	value, err := env.store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, env.store.Set(ctx, "k1", []byte(`"one"`)))
	require.NoError(t, env.store.Set(ctx, "k2", []byte(`"two"`)))

	value, err = env.store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`"one"`), value)

	// Overwrite replaces in place.
	require.NoError(t, env.store.Set(ctx, "k1", []byte(`"uno"`)))
	value, err = env.store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`"uno"`), value)

	values, err := env.store.MGet(ctx, []string{"k2", "missing", "k1"})
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, []byte(`"two"`), values[0])
	assert.Nil(t, values[1])
	assert.Equal(t, []byte(`"uno"`), values[2])
}
