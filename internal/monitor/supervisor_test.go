package monitor_test

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/alejandrodnm/polywatch/internal/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zeroStart() monitor.Config {
	return monitor.Config{
		Interval:    5 * time.Millisecond,
		StartPolicy: domain.StartFromZero,
		RunID:       "sup-run",
	}
}

func TestSupervisor_WalletsAreIndependent(t *testing.T) {
	p := newScriptedProvider()
	// A llega a 50 y luego avanza a 60; B llega a 200 y solo 210 es nuevo después.
	p.script(walletA,
		[]domain.Activity{act("a1", "50")},
		[]domain.Activity{act("a2", "60"), act("a1", "50")},
	)
	p.script(walletB,
		[]domain.Activity{act("b1", "200")},
		[]domain.Activity{act("b2", "150"), act("b3", "210"), act("b1", "200")},
	)
	n := &recordingNotifier{}
	journal := &memJournal{}

	sup := monitor.NewSupervisor(
		[]domain.Wallet{{Address: walletA, Label: "a"}, {Address: walletB, Label: "b"}},
		zeroStart(), monitor.NewFetcher(p, 0, nil), n, journal,
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sup.Run(ctx) }()

	require.Eventually(t, func() bool {
		return p.callsFor(walletA) >= 3 && p.callsFor(walletB) >= 3
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	mons := sup.Monitors()
	require.Len(t, mons, 2)
	assert.Equal(t, int64(60), mons[0].Watermark())
	assert.Equal(t, int64(210), mons[1].Watermark())

	assert.Equal(t, []string{"a1", "a2"}, n.idsFor(walletA))
	assert.Equal(t, []string{"b1", "b3"}, n.idsFor(walletB))

	perWallet := map[string]int{}
	for _, d := range journal.entries {
		perWallet[d.Wallet]++
	}
	assert.Equal(t, map[string]int{walletA: 2, walletB: 2}, perWallet)
}

func TestSupervisor_LoopFailureCancelsSiblings(t *testing.T) {
	p := newScriptedProvider()
	p.script(walletA, []domain.Activity{act("a1", "50")})
	p.script(walletB, []domain.Activity{act("b1", "70")})
	n := &recordingNotifier{panicWallet: walletB}

	cfg := zeroStart()
	cfg.Interval = 20 * time.Millisecond
	sup := monitor.NewSupervisor(
		[]domain.Wallet{{Address: walletA}, {Address: walletB}},
		cfg, monitor.NewFetcher(p, 0, nil), n, nil,
	)

	done := make(chan error, 1)
	go func() { done <- sup.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cycle panic")
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not stop after a loop failure")
	}
}

func TestSupervisor_OnceReturnsAfterOneCycleEach(t *testing.T) {
	p := newScriptedProvider()
	cfg := zeroStart()
	cfg.Once = true

	sup := monitor.NewSupervisor(
		[]domain.Wallet{{Address: walletA}, {Address: walletB}},
		cfg, monitor.NewFetcher(p, 0, nil), &recordingNotifier{}, nil,
	)

	require.NoError(t, sup.Run(context.Background()))
	assert.Equal(t, 1, p.callsFor(walletA))
	assert.Equal(t, 1, p.callsFor(walletB))
}
