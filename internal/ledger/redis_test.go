package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierops/parceltrack/internal/domain/model"
	"github.com/courierops/parceltrack/internal/testutil"
)

func TestRedisLedger(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	l := NewRedisLedger(client, "parceltrack:flag:")
	ctx := context.Background()

	flag := emailFlag(7, model.OutcomePending)

	t.Run("setnx decides the race", func(t *testing.T) {
		created, err := l.CreateIfAbsent(ctx, flag)
		require.NoError(t, err)
		assert.True(t, created)

		created, err = l.CreateIfAbsent(ctx, flag)
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("exists and remove", func(t *testing.T) {
		exists, err := l.Exists(ctx, flag)
		require.NoError(t, err)
		assert.True(t, exists)

		removed, err := l.Remove(ctx, flag)
		require.NoError(t, err)
		assert.True(t, removed)

		exists, err = l.Exists(ctx, flag)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("list scans the prefix", func(t *testing.T) {
		for _, f := range []model.CommsFlag{
			emailFlag(7, model.OutcomePending),
			emailFlag(7, model.OutcomeError),
			emailFlag(70, model.OutcomePending),
		} {
			_, err := l.CreateIfAbsent(ctx, f)
			require.NoError(t, err)
		}

		flags, err := l.List(ctx, 7)
		require.NoError(t, err)
		require.Len(t, flags, 2)
		assert.Equal(t, "email.7.pe", flags[0].Name())
		assert.Equal(t, "email.7.pe.err", flags[1].Name())
	})
}
