package monitor

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/alejandrodnm/polywatch/internal/ports"
)

// Supervisor lanza un WalletMonitor por wallet y agrega sus ciclos de vida.
// Si un loop falla, el resto se cancela en su siguiente espera y Run devuelve ese error.
type Supervisor struct {
	monitors []*WalletMonitor
}

// NewSupervisor crea un monitor por wallet compartiendo fetcher, notifier y journal.
func NewSupervisor(wallets []domain.Wallet, cfg Config, fetcher *Fetcher, notifier ports.Notifier, journal ports.Journal) *Supervisor {
	s := &Supervisor{monitors: make([]*WalletMonitor, 0, len(wallets))}
	for _, w := range wallets {
		s.monitors = append(s.monitors, NewWalletMonitor(w, cfg, fetcher, notifier, journal))
	}
	return s
}

// Monitors devuelve los loops gestionados.
func (s *Supervisor) Monitors() []*WalletMonitor { return s.monitors }

// Run bloquea hasta que todos los loops terminen. Devuelve nil en una cancelación limpia.
func (s *Supervisor) Run(ctx context.Context) error {
	slog.Info("supervisor starting", "wallets", len(s.monitors))

	g, gctx := errgroup.WithContext(ctx)
	for _, m := range s.monitors {
		m := m
		g.Go(func() error {
			return m.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("supervisor stopped on loop failure", "err", err)
		return err
	}
	slog.Info("supervisor stopped")
	return nil
}
