package ports

import (
	"context"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

// ActivityQuery son los parámetros de GET /activity.
type ActivityQuery struct {
	User          string
	Limit         int    // 0 = default del servidor
	SortBy        string // "TIMESTAMP"
	SortDirection string // "ASC" | "DESC"
}

// ActivityProvider obtiene el feed de actividad de una wallet.
type ActivityProvider interface {
	FetchActivity(ctx context.Context, q ActivityQuery) ([]domain.Activity, error)
}
