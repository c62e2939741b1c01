package ports

import (
	"context"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

// Journal registra los intentos de entrega de la ejecución actual.
// No se usa para reconstruir watermarks al arrancar.
type Journal interface {
	RecordDelivery(ctx context.Context, d domain.Delivery) error

	// Summary devuelve los totales por wallet de la ejecución dada.
	Summary(ctx context.Context, runID string) ([]domain.WalletSummary, error)

	Close() error
}
