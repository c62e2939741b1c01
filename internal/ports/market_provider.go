package ports

import (
	"context"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

// MarketProvider consulta el endpoint de listado de mercados (Gamma).
type MarketProvider interface {
	// FetchMarketsByTag devuelve los mercados abiertos de un tag, hasta limit.
	FetchMarketsByTag(ctx context.Context, tagID string, limit int) ([]domain.Market, error)

	// FetchMarketsByCondition devuelve los mercados con el condition_id dado.
	// Gamma puede responder con un objeto o con una lista; ambos se normalizan a slice.
	FetchMarketsByCondition(ctx context.Context, conditionID string) ([]domain.Market, error)
}
