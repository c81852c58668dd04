//go:build integration

package velocity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fraudgate/internal/domain"
	"fraudgate/pkg/testutil/containers"
)

func TestRedisStore_RecordAndFetch(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	store := NewRedisStore(rc.Client)
	ctx := context.Background()
	base := time.Date(2025, 1, 18, 12, 0, 0, 0, time.UTC)
	window := 10 * time.Minute

	summary := func(offset time.Duration, amount float64, country string) domain.Summary {
		return domain.Summary{Timestamp: base.Add(offset), Amount: amount, Country: country}
	}

	t.Run("first transaction sees empty history", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		prior, err := store.RecordAndFetch(ctx, "usr-1", summary(0, 100, "Germany"), window)
		require.NoError(t, err)
		require.Empty(t, prior)
	})

	t.Run("prior entries returned oldest first, current excluded", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		for i, amount := range []float64{10, 20, 30} {
			_, err := store.RecordAndFetch(ctx, "usr-2", summary(time.Duration(i)*time.Second, amount, "Germany"), window)
			require.NoError(t, err)
		}

		prior, err := store.RecordAndFetch(ctx, "usr-2", summary(3*time.Second, 40, "Germany"), window)
		require.NoError(t, err)
		require.Len(t, prior, 3)
		require.Equal(t, 10.0, prior[0].Amount)
		require.Equal(t, 30.0, prior[2].Amount)
	})

	t.Run("window eviction follows event time", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		for i := range 5 {
			_, err := store.RecordAndFetch(ctx, "usr-3", summary(time.Duration(i)*time.Second, 50, "Germany"), window)
			require.NoError(t, err)
		}

		prior, err := store.RecordAndFetch(ctx, "usr-3", summary(700*time.Second, 50, "Germany"), window)
		require.NoError(t, err)
		require.Empty(t, prior)
	})

	t.Run("users are isolated", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		_, err := store.RecordAndFetch(ctx, "usr-a", summary(0, 100, "Germany"), window)
		require.NoError(t, err)

		prior, err := store.RecordAndFetch(ctx, "usr-b", summary(time.Second, 200, "France"), window)
		require.NoError(t, err)
		require.Empty(t, prior)
	})

	t.Run("concurrent appends for one user are not lost", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		const n = 50
		var wg sync.WaitGroup
		for i := range n {
			wg.Go(func() {
				_, err := store.RecordAndFetch(ctx, "usr-conc", summary(time.Duration(i)*time.Millisecond, 1, "Germany"), window)
				require.NoError(t, err)
			})
		}
		wg.Wait()

		prior, err := store.RecordAndFetch(ctx, "usr-conc", summary(time.Second, 1, "Germany"), window)
		require.NoError(t, err)
		require.Len(t, prior, n)
	})
}

func TestRedisStore_Unreachable(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	store := NewRedisStore(rc.Client)
	ctx := context.Background()

	require.NoError(t, rc.Container.Terminate(ctx))

	_, err := store.RecordAndFetch(ctx, "usr-down", domain.Summary{Timestamp: time.Now(), Amount: 1, Country: "Germany"}, time.Minute)
	require.Error(t, err)
}
