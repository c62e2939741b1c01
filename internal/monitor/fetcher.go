package monitor

import (
	"context"
	"log/slog"

	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/alejandrodnm/polywatch/internal/metrics"
	"github.com/alejandrodnm/polywatch/internal/ports"
)

const (
	DefaultActivityLimit = 100

	sortByTimestamp = "TIMESTAMP"
	sortDesc        = "DESC"
)

// Fetcher obtiene la actividad de una wallet y aplica el filtro de mercados.
// Los errores no se propagan: se loguean y el resultado es "sin datos".
type Fetcher struct {
	provider ports.ActivityProvider
	limit    int
	filter   map[string]struct{} // nil = sin filtro
}

// NewFetcher crea un Fetcher. Un filtro vacío equivale a no filtrar.
func NewFetcher(provider ports.ActivityProvider, limit int, filter map[string]struct{}) *Fetcher {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if len(filter) == 0 {
		filter = nil
	}
	return &Fetcher{provider: provider, limit: limit, filter: filter}
}

// Fetch devuelve los registros de la wallet y true, o nil y false si la consulta falló.
func (f *Fetcher) Fetch(ctx context.Context, wallet domain.Wallet) ([]domain.Activity, bool) {
	label := wallet.DisplayLabel()

	acts, err := f.provider.FetchActivity(ctx, ports.ActivityQuery{
		User:          wallet.Address,
		Limit:         f.limit,
		SortBy:        sortByTimestamp,
		SortDirection: sortDesc,
	})
	if err != nil {
		metrics.FetchFailures.WithLabelValues(label).Inc()
		slog.Warn("fetch failed", "wallet", label, "err", err)
		return nil, false
	}

	out := make([]domain.Activity, 0, len(acts))
	for _, a := range acts {
		// los indecodificables pasan siempre: el detector los cuenta como malformados
		if f.filter != nil && !a.Undecodable {
			if _, ok := f.filter[a.ConditionID]; !ok {
				continue
			}
		}
		a.Wallet = wallet.Address
		a.WalletLabel = label
		out = append(out, a)
	}
	return out, true
}

// Filtered indica si el Fetcher restringe la actividad a una watch-list.
func (f *Fetcher) Filtered() bool { return f.filter != nil }
