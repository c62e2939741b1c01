package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

const gammaMarketsPath = "/markets"

// FetchMarketsByTag obtiene los mercados abiertos (closed=false) de un tag de Gamma.
func (c *Client) FetchMarketsByTag(ctx context.Context, tagID string, limit int) ([]domain.Market, error) {
	q := url.Values{}
	q.Set("tag_id", tagID)
	q.Set("closed", "false")
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u := c.gammaBase + gammaMarketsPath + "?" + q.Encode()

	var raw json.RawMessage
	if err := c.get(ctx, c.gammaLimiter, u, &raw); err != nil {
		return nil, fmt.Errorf("gamma.FetchMarketsByTag %s: %w", tagID, err)
	}

	resp, err := decodeMarketsPayload(raw)
	if err != nil {
		return nil, fmt.Errorf("gamma.FetchMarketsByTag %s: %w", tagID, err)
	}

	slog.Debug("gamma markets fetched", "tag_id", tagID, "count", len(resp))
	return mapGammaMarkets(resp, tagID), nil
}

// FetchMarketsByCondition obtiene los mercados con el condition_id dado.
// Gamma responde con una lista o con un objeto según la versión; ambos valen.
func (c *Client) FetchMarketsByCondition(ctx context.Context, conditionID string) ([]domain.Market, error) {
	q := url.Values{}
	q.Set("condition_ids", conditionID)
	u := c.gammaBase + gammaMarketsPath + "?" + q.Encode()

	var raw json.RawMessage
	if err := c.get(ctx, c.gammaLimiter, u, &raw); err != nil {
		return nil, fmt.Errorf("gamma.FetchMarketsByCondition: %w", err)
	}

	resp, err := decodeMarketsPayload(raw)
	if err != nil {
		return nil, fmt.Errorf("gamma.FetchMarketsByCondition: %w", err)
	}
	return mapGammaMarkets(resp, ""), nil
}
