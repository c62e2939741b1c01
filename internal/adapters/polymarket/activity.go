package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/alejandrodnm/polywatch/internal/ports"
)

const activityPath = "/activity"

// FetchActivity obtiene el feed de actividad de una wallet desde la Data API pública.
// No filtra por mercado: el filtrado por condition_id se hace del lado del cliente.
func (c *Client) FetchActivity(ctx context.Context, aq ports.ActivityQuery) ([]domain.Activity, error) {
	q := url.Values{}
	q.Set("user", aq.User)
	if aq.Limit > 0 {
		q.Set("limit", strconv.Itoa(aq.Limit))
	}
	if aq.SortBy != "" {
		q.Set("sortBy", aq.SortBy)
	}
	if aq.SortDirection != "" {
		q.Set("sortDirection", aq.SortDirection)
	}
	u := c.dataBase + activityPath + "?" + q.Encode()

	// cada item se decodifica por separado: uno roto no tumba el fetch entero
	var items []json.RawMessage
	if err := c.get(ctx, c.dataLimiter, u, &items); err != nil {
		return nil, fmt.Errorf("data-api.FetchActivity: %w", err)
	}

	user := aq.User[:min(10, len(aq.User))] + "..."
	out := make([]domain.Activity, 0, len(items))
	for i, item := range items {
		var r rawActivity
		if err := json.Unmarshal(item, &r); err != nil {
			slog.Warn("undecodable activity record", "user", user, "index", i, "err", err)
			out = append(out, domain.Activity{Undecodable: true})
			continue
		}
		out = append(out, mapActivity(r))
	}

	slog.Debug("activity fetched", "user", user, "count", len(out))
	return out, nil
}
