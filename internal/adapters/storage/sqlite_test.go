package storage_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alejandrodnm/polywatch/internal/adapters/storage"
	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func delivery(run, wallet, id string, ts int64, ok bool) domain.Delivery {
	d := domain.Delivery{
		RunID:      run,
		Wallet:     wallet,
		ActivityID: id,
		Title:      "Will X happen?",
		Timestamp:  ts,
		Delivered:  ok,
	}
	if !ok {
		d.Error = "sendMessage status 502"
	}
	return d
}

func TestSQLiteJournal_Summary(t *testing.T) {
	j, err := storage.NewSQLiteJournal(":memory:")
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	require.NoError(t, j.RecordDelivery(ctx, delivery("run-1", "whale", "a1", 150, true)))
	require.NoError(t, j.RecordDelivery(ctx, delivery("run-1", "whale", "a2", 160, false)))
	require.NoError(t, j.RecordDelivery(ctx, delivery("run-1", "whale", "a3", 155, true)))
	require.NoError(t, j.RecordDelivery(ctx, delivery("run-1", "alpha", "b1", 300, true)))
	require.NoError(t, j.RecordDelivery(ctx, delivery("run-2", "whale", "c1", 999, true)))

	sum, err := j.Summary(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, sum, 2)

	assert.Equal(t, domain.WalletSummary{Wallet: "alpha", Delivered: 1, Failed: 0, LastSeen: 300}, sum[0])
	assert.Equal(t, domain.WalletSummary{Wallet: "whale", Delivered: 2, Failed: 1, LastSeen: 155}, sum[1])
}

func TestSQLiteJournal_EmptyRun(t *testing.T) {
	j, err := storage.NewSQLiteJournal("")
	require.NoError(t, err)
	defer j.Close()

	sum, err := j.Summary(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, sum)
}

func TestSQLiteJournal_OnlyFailures(t *testing.T) {
	j, err := storage.NewSQLiteJournal(":memory:")
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	require.NoError(t, j.RecordDelivery(ctx, delivery("r", "w", "x", 10, false)))

	sum, err := j.Summary(ctx, "r")
	require.NoError(t, err)
	require.Len(t, sum, 1)
	assert.Equal(t, 0, sum[0].Delivered)
	assert.Equal(t, 1, sum[0].Failed)
	assert.Zero(t, sum[0].LastSeen)
}

func TestSQLiteJournal_ConcurrentWrites(t *testing.T) {
	j, err := storage.NewSQLiteJournal(":memory:")
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	for _, w := range []string{"w1", "w2", "w3"} {
		wg.Add(1)
		go func(wallet string) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				assert.NoError(t, j.RecordDelivery(ctx, delivery("r", wallet, "", int64(i), true)))
			}
		}(w)
	}
	wg.Wait()

	sum, err := j.Summary(ctx, "r")
	require.NoError(t, err)
	require.Len(t, sum, 3)
	for _, s := range sum {
		assert.Equal(t, 20, s.Delivered)
		assert.Equal(t, int64(19), s.LastSeen)
	}
}

func TestSQLiteJournal_FileDSNPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j, err := storage.NewSQLiteJournal(path)
	require.NoError(t, err)
	require.NoError(t, j.RecordDelivery(ctx, delivery("r", "w", "a", 1, true)))
	require.NoError(t, j.Close())

	j, err = storage.NewSQLiteJournal(path)
	require.NoError(t, err)
	defer j.Close()

	sum, err := j.Summary(ctx, "r")
	require.NoError(t, err)
	assert.Len(t, sum, 1)
}
