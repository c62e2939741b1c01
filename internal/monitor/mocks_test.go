package monitor_test

import (
	"context"
	"errors"
	"sync"

	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/alejandrodnm/polywatch/internal/ports"
)

// scriptedProvider devuelve respuestas sucesivas por wallet; la última se repite.
type scriptedProvider struct {
	mu      sync.Mutex
	scripts map[string][][]domain.Activity
	fail    map[string]bool
	calls   map[string]int
	queries []ports.ActivityQuery
}

func newScriptedProvider() *scriptedProvider {
	return &scriptedProvider{
		scripts: make(map[string][][]domain.Activity),
		fail:    make(map[string]bool),
		calls:   make(map[string]int),
	}
}

func (p *scriptedProvider) script(user string, responses ...[]domain.Activity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scripts[user] = responses
}

func (p *scriptedProvider) FetchActivity(_ context.Context, q ports.ActivityQuery) ([]domain.Activity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queries = append(p.queries, q)
	n := p.calls[q.User]
	p.calls[q.User]++

	if p.fail[q.User] {
		return nil, errors.New("data-api.FetchActivity: server error 502 after 0 retries")
	}
	responses := p.scripts[q.User]
	if len(responses) == 0 {
		return nil, nil
	}
	if n >= len(responses) {
		n = len(responses) - 1
	}
	out := make([]domain.Activity, len(responses[n]))
	copy(out, responses[n])
	return out, nil
}

func (p *scriptedProvider) callsFor(user string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[user]
}

// recordingNotifier guarda cada intento; falla para los ids de failIDs.
type recordingNotifier struct {
	mu          sync.Mutex
	attempts    []domain.Activity
	failIDs     map[string]bool
	panicWallet string
}

func (n *recordingNotifier) Notify(_ context.Context, a domain.Activity) error {
	if n.panicWallet != "" && a.Wallet == n.panicWallet {
		panic("notifier exploded")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.attempts = append(n.attempts, a)
	if n.failIDs[a.ID] {
		return errors.New("sendMessage status 502")
	}
	return nil
}

func (n *recordingNotifier) idsFor(wallet string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, a := range n.attempts {
		if a.Wallet == wallet {
			out = append(out, a.ID)
		}
	}
	return out
}

type memJournal struct {
	mu      sync.Mutex
	entries []domain.Delivery
}

func (j *memJournal) RecordDelivery(_ context.Context, d domain.Delivery) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, d)
	return nil
}

func (j *memJournal) Summary(_ context.Context, _ string) ([]domain.WalletSummary, error) {
	return nil, nil
}

func (j *memJournal) Close() error { return nil }
