package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

const (
	defaultTelegramBase    = "https://api.telegram.org"
	defaultTelegramTimeout = 10 * time.Second
	defaultParseMode       = "HTML"

	// Telegram admite ~1 msg/s sostenido por chat con pequeñas ráfagas.
	telegramRatePerSec = 1
	telegramBurst      = 5
)

// TelegramOptions configura el notificador de Telegram.
type TelegramOptions struct {
	BaseURL   string // vacío = api.telegram.org
	Token     string
	ChatID    string
	ParseMode string // vacío = HTML
	Timeout   time.Duration
}

// Telegram implementa ports.Notifier enviando cada actividad con sendMessage.
// Un solo intento por mensaje: si falla, el error se devuelve y no se reintenta.
type Telegram struct {
	http      *http.Client
	endpoint  string
	chatID    string
	parseMode string
	limiter   *rate.Limiter
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// NewTelegram crea el notificador. El token no se loguea nunca.
func NewTelegram(opts TelegramOptions) *Telegram {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultTelegramBase
	}
	if opts.ParseMode == "" {
		opts.ParseMode = defaultParseMode
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTelegramTimeout
	}
	return &Telegram{
		http:      &http.Client{Timeout: opts.Timeout},
		endpoint:  opts.BaseURL + "/bot" + opts.Token + "/sendMessage",
		chatID:    opts.ChatID,
		parseMode: opts.ParseMode,
		limiter:   rate.NewLimiter(telegramRatePerSec, telegramBurst),
	}
}

// Notify renderiza la actividad y la envía al chat configurado.
func (t *Telegram) Notify(ctx context.Context, a domain.Activity) error {
	if err := t.Send(ctx, RenderHTML(a)); err != nil {
		return fmt.Errorf("telegram.Notify %s: %w", a.Key(), err)
	}
	return nil
}

// Send envía un texto arbitrario. Esperar al limiter no cuenta como reintento.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: t.chatID, Text: text, ParseMode: t.parseMode})
	if err != nil {
		return fmt.Errorf("marshal sendMessage: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		// el error de url incluye el token en la ruta
		return fmt.Errorf("sendMessage request failed: %w", redactURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sendMessage status %d: %s", resp.StatusCode, string(msg))
	}

	slog.Debug("telegram message sent", "chat_id", t.chatID)
	return nil
}
