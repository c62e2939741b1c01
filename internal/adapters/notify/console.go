package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

// Console implementa ports.Notifier escribiendo un bloque por actividad.
// Varias wallets escriben a la vez, por eso el writer va protegido.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Notify imprime la actividad. Solo falla si falla el writer.
func (c *Console) Notify(_ context.Context, a domain.Activity) error {
	tag := a.WalletLabel
	if a.Name != "" {
		tag = a.Name
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n  [%s] 🆔 Activity ID: %s\n", tag, a.ID)
	fmt.Fprintf(&sb, "  [%s] 📊 Market: %s\n", tag, a.Title)
	fmt.Fprintf(&sb, "  [%s] 🎯 Outcome: %s\n", tag, a.Outcome)
	fmt.Fprintf(&sb, "  [%s] 💰 Size: %s shares @ $%s\n", tag, formatFloat(a.Size), formatFloat(a.Price))
	fmt.Fprintf(&sb, "  [%s] 📈 Side: %s\n", tag, a.Side)
	fmt.Fprintf(&sb, "  [%s] 💸 Value: $%s\n", tag, a.Value().StringFixed(2))
	if a.Timestamp > 0 {
		fmt.Fprintf(&sb, "  [%s] ⏰ Timestamp: %s (%d)\n", tag, a.Time().Format(timeLayout), a.Timestamp)
	}
	if a.Type != "" {
		fmt.Fprintf(&sb, "  [%s] 🏷️  Type: %s\n", tag, a.Type)
	}
	sb.WriteString(strings.Repeat("-", 40) + "\n")

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := io.WriteString(c.out, sb.String()); err != nil {
		return fmt.Errorf("console.Notify: %w", err)
	}
	return nil
}
