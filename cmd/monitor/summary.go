package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/alejandrodnm/polywatch/internal/monitor"
	"github.com/alejandrodnm/polywatch/internal/ports"
)

// printSummary imprime, por wallet, las entregas del run, la última actividad
// entregada y el watermark final. El journal se indexa por dirección.
func printSummary(ctx context.Context, w io.Writer, journal ports.Journal, runID string, monitors []*monitor.WalletMonitor) {
	sums, err := journal.Summary(ctx, runID)
	if err != nil {
		slog.Warn("journal summary failed", "err", err)
		return
	}

	byWallet := make(map[string]domain.WalletSummary, len(sums))
	for _, s := range sums {
		byWallet[s.Wallet] = s
	}

	table := tablewriter.NewWriter(w)
	table.Header("Wallet", "Address", "Delivered", "Failed", "Last delivered", "Watermark")
	for _, m := range monitors {
		wallet := m.Wallet()
		s := byWallet[wallet.Address]
		table.Append(
			wallet.DisplayLabel(),
			wallet.Address,
			fmt.Sprintf("%d", s.Delivered),
			fmt.Sprintf("%d", s.Failed),
			formatUnix(s.LastSeen),
			formatUnix(m.Watermark()),
		)
	}
	table.Render()
}

func formatUnix(ts int64) string {
	if ts <= 0 {
		return "-"
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04:05")
}
