package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

// ErrInvalidConfig envuelve cualquier fallo de validación. Es fatal: el proceso no arranca.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config es la configuración completa del monitor. Se valida una vez y no cambia después.
type Config struct {
	Monitor  MonitorConfig  `yaml:"monitor"`
	Wallets  []WalletConfig `yaml:"wallets"`
	Markets  MarketsConfig  `yaml:"markets"`
	API      APIConfig      `yaml:"api"`
	Telegram TelegramConfig `yaml:"telegram"`
	Journal  JournalConfig  `yaml:"journal"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

// MonitorConfig controla los loops de wallet.
type MonitorConfig struct {
	IntervalSeconds int    `yaml:"interval_seconds"`
	StartFrom       string `yaml:"start_from"`    // now | zero
	DedupeWindow    int    `yaml:"dedupe_window"` // ids recientes recordados por wallet; 0 = off
}

// WalletConfig es una wallet a monitorizar.
type WalletConfig struct {
	Address string `yaml:"address"`
	Label   string `yaml:"label"`
}

// MarketsConfig define la watch-list. Vacía = toda la actividad.
type MarketsConfig struct {
	TagIDs       []string `yaml:"tag_ids"`
	LimitPerTag  int      `yaml:"limit_per_tag"`
	TagDelayMs   int      `yaml:"tag_delay_ms"`
	ConditionIDs []string `yaml:"condition_ids"`
}

// APIConfig contiene los base URLs y el comportamiento HTTP.
type APIConfig struct {
	GammaBase      string `yaml:"gamma_base"`
	DataBase       string `yaml:"data_base"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"` // -1 desactiva los reintentos
	ActivityLimit  int    `yaml:"activity_limit"`
}

// TelegramConfig configura el relay. Se activa solo si hay token y chat id.
type TelegramConfig struct {
	Enabled   bool   `yaml:"enabled"`
	BotToken  string `yaml:"bot_token"`
	ChatID    string `yaml:"chat_id"`
	ParseMode string `yaml:"parse_mode"`
	BaseURL   string `yaml:"base_url"`
}

// JournalConfig controla dónde se registran las entregas.
type JournalConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// MetricsConfig expone /metrics si Addr no está vacío.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Si el YAML no existe se usan defaults + entorno. Devuelve ErrInvalidConfig si no valida.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// sin archivo: todo sale del entorno
	default:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// PollInterval devuelve el intervalo entre ciclos como time.Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Monitor.IntervalSeconds) * time.Second
}

// APITimeout devuelve el timeout por request HTTP.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// TagDelay devuelve la pausa entre consultas de tags.
func (c *Config) TagDelay() time.Duration {
	return time.Duration(c.Markets.TagDelayMs) * time.Millisecond
}

// StartPolicy devuelve la política de watermark inicial.
func (c *Config) StartPolicy() domain.StartPolicy {
	return domain.StartPolicy(c.Monitor.StartFrom)
}

// DomainWallets convierte las wallets configuradas a domain.Wallet.
func (c *Config) DomainWallets() []domain.Wallet {
	out := make([]domain.Wallet, 0, len(c.Wallets))
	for _, w := range c.Wallets {
		out = append(out, domain.Wallet{Address: w.Address, Label: w.Label})
	}
	return out
}

// Filtered indica si hay watch-list configurada.
func (c *Config) Filtered() bool {
	return len(c.Markets.TagIDs) > 0 || len(c.Markets.ConditionIDs) > 0
}

// Validate comprueba la configuración. Acumula todos los problemas en un solo error.
func (c *Config) Validate() error {
	var problems []string

	if len(c.Wallets) == 0 {
		problems = append(problems, "no wallets configured")
	}
	seen := make(map[string]bool, len(c.Wallets))
	// la etiqueta visible es la clave de métricas y logs: no puede repetirse
	labels := make(map[string]bool, len(c.Wallets))
	for i, w := range c.Wallets {
		if !common.IsHexAddress(w.Address) {
			problems = append(problems, fmt.Sprintf("wallets[%d]: %q is not a hex address", i, w.Address))
			continue
		}
		key := strings.ToLower(w.Address)
		if seen[key] {
			problems = append(problems, fmt.Sprintf("wallets[%d]: duplicate address %s", i, w.Address))
		}
		seen[key] = true

		label := domain.Wallet{Address: w.Address, Label: w.Label}.DisplayLabel()
		if labels[label] {
			problems = append(problems, fmt.Sprintf("wallets[%d]: duplicate label %q", i, label))
		}
		labels[label] = true
	}

	if c.Monitor.IntervalSeconds <= 0 {
		problems = append(problems, "monitor.interval_seconds must be positive")
	}
	if !c.StartPolicy().Valid() {
		problems = append(problems, fmt.Sprintf("monitor.start_from %q must be now or zero", c.Monitor.StartFrom))
	}
	if c.Monitor.DedupeWindow < 0 {
		problems = append(problems, "monitor.dedupe_window must not be negative")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			problems = append(problems, "telegram enabled without bot token")
		}
		if c.Telegram.ChatID == "" {
			problems = append(problems, "telegram enabled without chat id")
		}
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// MaskSecret oculta un secreto para poder loguearlo.
func MaskSecret(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + "..." + s[len(s)-2:]
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("POLYWATCH_WALLETS"); v != "" {
		cfg.Wallets = ParseWallets(v)
	}
	if v := os.Getenv("POLYWATCH_INTERVAL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: POLYWATCH_INTERVAL_SECONDS %q: %v", ErrInvalidConfig, v, err)
		}
		cfg.Monitor.IntervalSeconds = n
	}
	return nil
}

// ParseWallets lee una lista "addr[=label],addr[=label]". Las entradas vacías se ignoran.
func ParseWallets(s string) []WalletConfig {
	var out []WalletConfig
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		addr, label, _ := strings.Cut(part, "=")
		out = append(out, WalletConfig{
			Address: strings.TrimSpace(addr),
			Label:   strings.TrimSpace(label),
		})
	}
	return out
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Monitor.IntervalSeconds == 0 {
		cfg.Monitor.IntervalSeconds = 10
	}
	if cfg.Monitor.StartFrom == "" {
		cfg.Monitor.StartFrom = string(domain.StartFromNow)
	}
	if cfg.Markets.LimitPerTag <= 0 {
		cfg.Markets.LimitPerTag = 50
	}
	if cfg.Markets.TagDelayMs == 0 {
		cfg.Markets.TagDelayMs = 100
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.API.DataBase == "" {
		cfg.API.DataBase = "https://data-api.polymarket.com"
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 10
	}
	switch {
	case cfg.API.MaxRetries == 0:
		cfg.API.MaxRetries = 2
	case cfg.API.MaxRetries < 0:
		cfg.API.MaxRetries = 0
	}
	if cfg.API.ActivityLimit <= 0 {
		cfg.API.ActivityLimit = 100
	}
	// con token y chat id el relay se activa solo
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		cfg.Telegram.Enabled = true
	}
	if cfg.Telegram.ParseMode == "" {
		cfg.Telegram.ParseMode = "HTML"
	}
	if cfg.Telegram.BaseURL == "" {
		cfg.Telegram.BaseURL = "https://api.telegram.org"
	}
	if cfg.Journal.DSN == "" {
		cfg.Journal.DSN = ":memory:"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
