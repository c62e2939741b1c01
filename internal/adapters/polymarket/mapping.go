package polymarket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

// mapGammaMarkets convierte los DTOs de Gamma a domain.Market.
func mapGammaMarkets(raw []gammaMarket, tagID string) []domain.Market {
	markets := make([]domain.Market, 0, len(raw))
	for _, r := range raw {
		markets = append(markets, mapGammaMarket(r, tagID))
	}
	return markets
}

// mapGammaMarket convierte un gammaMarket DTO a domain.Market.
// Gamma usa "slug" en unas versiones y "marketSlug" en otras.
func mapGammaMarket(r gammaMarket, tagID string) domain.Market {
	slug := r.MarketSlug
	if slug == "" {
		slug = r.Slug
	}
	return domain.Market{
		ConditionID: r.ConditionID,
		Question:    r.Question,
		MarketSlug:  slug,
		Title:       r.Title,
		TagID:       tagID,
	}
}

// decodeMarketsPayload acepta un array de mercados o un único objeto.
func decodeMarketsPayload(raw json.RawMessage) ([]gammaMarket, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var list []gammaMarket
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode market list: %w", err)
		}
		return list, nil
	case '{':
		var one gammaMarket
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, fmt.Errorf("decode market object: %w", err)
		}
		if one.ConditionID == "" && one.Question == "" {
			return nil, nil
		}
		return []gammaMarket{one}, nil
	default:
		return nil, fmt.Errorf("unexpected markets payload starting with %q", trimmed[0])
	}
}

// mapActivity convierte un item raw del feed a domain.Activity.
// El timestamp se deja como texto: la coerción (y el descarte de malformados)
// es responsabilidad del detector.
func mapActivity(r rawActivity) domain.Activity {
	id := r.ID
	if id == "" {
		id = r.TransactionHash
	}
	name := r.Name
	if name == "" {
		name = r.Pseudonym
	}
	return domain.Activity{
		ID:           id,
		Name:         name,
		Title:        r.Title,
		Slug:         r.Slug,
		Outcome:      r.Outcome,
		Side:         r.Side,
		Type:         r.Type,
		Size:         parseLooseFloat(r.Size),
		Price:        parseLooseFloat(r.Price),
		ConditionID:  r.ConditionID,
		TxHash:       r.TransactionHash,
		RawTimestamp: rawText(r.Timestamp),
	}
}

// rawText devuelve el literal JSON sin comillas; "" si falta o es null.
func rawText(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	if unq, err := strconv.Unquote(s); err == nil {
		return unq
	}
	return s
}

// parseLooseFloat acepta número o string numérico. Devuelve 0 si no se puede.
func parseLooseFloat(raw json.RawMessage) float64 {
	s := rawText(raw)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
