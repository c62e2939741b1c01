package ports

import (
	"context"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

// Notifier entrega una actividad nueva al usuario.
type Notifier interface {
	// Notify hace exactamente un intento de entrega. Un error significa que
	// la notificación se perdió; quien llama no reintenta.
	Notify(ctx context.Context, activity domain.Activity) error
}
