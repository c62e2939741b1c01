package polymarket

import "encoding/json"

// DTOs raw de las APIs de Polymarket. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// --- Gamma API ---

// gammaMarket es un mercado de GET /markets.
type gammaMarket struct {
	ConditionID string `json:"conditionId"`
	Question    string `json:"question"`
	MarketSlug  string `json:"marketSlug"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Active      bool   `json:"active"`
	Closed      bool   `json:"closed"`
}

// --- Data API ---

// rawActivity es un item de GET /activity.
// timestamp, size y price llegan a veces como número y a veces como string,
// por eso se guardan raw y se convierten en mapping.go.
type rawActivity struct {
	ID              string          `json:"id"`
	ProxyWallet     string          `json:"proxyWallet"`
	Name            string          `json:"name"`
	Pseudonym       string          `json:"pseudonym"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Outcome         string          `json:"outcome"`
	Side            string          `json:"side"`
	Type            string          `json:"type"`
	Size            json.RawMessage `json:"size"`
	Price           json.RawMessage `json:"price"`
	Timestamp       json.RawMessage `json:"timestamp"`
	ConditionID     string          `json:"conditionId"`
	TransactionHash string          `json:"transactionHash"`
}
