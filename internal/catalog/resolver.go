package catalog

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/alejandrodnm/polywatch/internal/ports"
)

// DefaultTagDelay separa las consultas secuenciales de tags al resolver el catálogo.
const DefaultTagDelay = 100 * time.Millisecond

// Resolver construye la watch-list de mercados a partir de tags o condition ids.
// Nunca devuelve error: un fallo se loguea y se trata como "sin mercados".
type Resolver struct {
	markets ports.MarketProvider
	limiter *rate.Limiter
}

// NewResolver crea un Resolver. tagDelay <= 0 desactiva la pausa entre tags.
func NewResolver(markets ports.MarketProvider, tagDelay time.Duration) *Resolver {
	limit := rate.Inf
	if tagDelay > 0 {
		limit = rate.Every(tagDelay)
	}
	return &Resolver{
		markets: markets,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// ResolveByTags consulta cada tag en orden y concatena los mercados.
// Un tag que falla aporta cero mercados y no aborta el resto.
func (r *Resolver) ResolveByTags(ctx context.Context, tagIDs []string, limitPerTag int) []domain.Market {
	var out []domain.Market
	for _, tagID := range tagIDs {
		if err := r.limiter.Wait(ctx); err != nil {
			slog.Warn("tag resolution interrupted", "tag_id", tagID, "err", err)
			return out
		}

		markets, err := r.markets.FetchMarketsByTag(ctx, tagID, limitPerTag)
		if err != nil {
			slog.Warn("tag lookup failed, skipping", "tag_id", tagID, "err", err)
			continue
		}

		for _, m := range markets {
			m.TagID = tagID
			out = append(out, m)
		}
		slog.Debug("tag resolved", "tag_id", tagID, "markets", len(markets))
	}
	return out
}

// ResolveByConditionID busca un mercado por condition id.
// Devuelve false si no existe o si la consulta falla.
func (r *Resolver) ResolveByConditionID(ctx context.Context, conditionID string) (domain.Market, bool) {
	markets, err := r.markets.FetchMarketsByCondition(ctx, conditionID)
	if err != nil {
		slog.Warn("condition lookup failed", "condition_id", conditionID, "err", err)
		return domain.Market{}, false
	}
	for _, m := range markets {
		if m.ConditionID == conditionID {
			return m, true
		}
	}
	if len(markets) > 0 {
		m := markets[0]
		if m.ConditionID == "" {
			m.ConditionID = conditionID
		}
		return m, true
	}
	return domain.Market{}, false
}

// WatchList resuelve tags y condition ids y devuelve la unión sin duplicados,
// en orden de aparición (tags primero).
func (r *Resolver) WatchList(ctx context.Context, tagIDs []string, limitPerTag int, conditionIDs []string) []domain.Market {
	out := r.ResolveByTags(ctx, tagIDs, limitPerTag)
	seen := ConditionIDs(out)

	for _, id := range conditionIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		m, ok := r.ResolveByConditionID(ctx, id)
		if !ok {
			continue
		}
		seen[m.ConditionID] = struct{}{}
		out = append(out, m)
	}
	return dedupe(out)
}

// ConditionIDs devuelve el set de condition ids, ignorando los vacíos.
func ConditionIDs(markets []domain.Market) map[string]struct{} {
	set := make(map[string]struct{}, len(markets))
	for _, m := range markets {
		if m.ConditionID == "" {
			continue
		}
		set[m.ConditionID] = struct{}{}
	}
	return set
}

// dedupe quita mercados repetidos (el mismo mercado puede colgar de varios tags).
func dedupe(markets []domain.Market) []domain.Market {
	seen := make(map[string]bool, len(markets))
	out := markets[:0]
	for _, m := range markets {
		if m.ConditionID != "" && seen[m.ConditionID] {
			continue
		}
		seen[m.ConditionID] = true
		out = append(out, m)
	}
	return out
}
