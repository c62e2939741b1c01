package notify

import (
	"context"

	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/alejandrodnm/polywatch/internal/ports"
)

// Multi reparte cada actividad entre varios notificadores.
// Intenta todos aunque alguno falle y devuelve el primer error.
type Multi struct {
	notifiers []ports.Notifier
}

// NewMulti crea un Multi. Los nil se ignoran.
func NewMulti(notifiers ...ports.Notifier) *Multi {
	m := &Multi{}
	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	return m
}

// Notify entrega la actividad a cada notificador en orden.
func (m *Multi) Notify(ctx context.Context, a domain.Activity) error {
	var first error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, a); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Len devuelve el número de notificadores.
func (m *Multi) Len() int { return len(m.notifiers) }
