package notify

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05 UTC"

// RenderHTML construye el mensaje de alerta de una actividad en el subset HTML de Telegram.
// Todos los campos de texto se escapan; la hora se muestra en UTC.
func RenderHTML(a domain.Activity) string {
	var sb strings.Builder
	sb.WriteString("🆕 <b>New Activity Alert!</b>\n\n")
	fmt.Fprintf(&sb, "<b>Wallet:</b> %s\n", esc(walletLine(a)))
	fmt.Fprintf(&sb, "📊 <b>Market:</b> %s\n", esc(orNA(a.Title)))
	fmt.Fprintf(&sb, "👀 <b>Type:</b> %s\n", esc(orNA(a.Type)))
	fmt.Fprintf(&sb, "🎯 <b>Outcome:</b> %s\n", esc(orNA(a.Outcome)))
	fmt.Fprintf(&sb, "💰 <b>Size:</b> %s shares @ $%s\n", formatFloat(a.Size), formatFloat(a.Price))
	fmt.Fprintf(&sb, "📈 <b>Side:</b> %s\n", esc(orNA(a.Side)))
	fmt.Fprintf(&sb, "💸 <b>Value:</b> $%s\n", a.Value().StringFixed(2))
	if a.Timestamp > 0 {
		fmt.Fprintf(&sb, "⏰ <b>Time:</b> %s\n", a.Time().Format(timeLayout))
	}
	return sb.String()
}

// walletLine combina la etiqueta configurada con el pseudónimo del feed cuando difieren.
func walletLine(a domain.Activity) string {
	label := a.WalletLabel
	if label == "" {
		label = domain.Wallet{Address: a.Wallet}.DisplayLabel()
	}
	if a.Name != "" && a.Name != label {
		return label + " (" + a.Name + ")"
	}
	return orNA(label)
}

func esc(s string) string { return html.EscapeString(s) }

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
