package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/alejandrodnm/polywatch/config"
	"github.com/alejandrodnm/polywatch/internal/adapters/notify"
	"github.com/alejandrodnm/polywatch/internal/adapters/polymarket"
	"github.com/alejandrodnm/polywatch/internal/adapters/storage"
	"github.com/alejandrodnm/polywatch/internal/catalog"
	"github.com/alejandrodnm/polywatch/internal/metrics"
	"github.com/alejandrodnm/polywatch/internal/monitor"
	"github.com/alejandrodnm/polywatch/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one polling cycle per wallet and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if err := applyFlags(cfg, *verbose, *logFormat); err != nil {
		slog.Error("invalid flags", "err", err)
		os.Exit(1)
	}
	setupLogger(cfg.Log)

	runID := uuid.NewString()
	slog.Info("polywatch starting",
		"config", *configPath,
		"run_id", runID,
		"wallets", len(cfg.Wallets),
		"interval", cfg.PollInterval(),
		"start_from", cfg.Monitor.StartFrom,
		"once", *once,
		"telegram", cfg.Telegram.Enabled,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := polymarket.NewClient(cfg.API.GammaBase, cfg.API.DataBase, polymarket.Options{
		Timeout:    cfg.APITimeout(),
		MaxRetries: cfg.API.MaxRetries,
	})

	journal, err := storage.NewSQLiteJournal(cfg.Journal.DSN)
	if err != nil {
		slog.Error("failed to open journal", "err", err, "dsn", cfg.Journal.DSN)
		os.Exit(1)
	}
	defer journal.Close()

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr); err != nil {
				slog.Warn("metrics server failed", "err", err)
			}
		}()
	}

	filter := resolveWatchList(ctx, cfg, client)
	fetcher := monitor.NewFetcher(client, cfg.API.ActivityLimit, filter)

	sup := monitor.NewSupervisor(cfg.DomainWallets(), monitor.Config{
		Interval:     cfg.PollInterval(),
		StartPolicy:  cfg.StartPolicy(),
		DedupeWindow: cfg.Monitor.DedupeWindow,
		Once:         *once,
		RunID:        runID,
	}, fetcher, buildNotifier(cfg), journal)

	runErr := sup.Run(ctx)

	// resumen con un contexto propio: ctx ya puede estar cancelado
	printSummary(context.Background(), os.Stdout, journal, runID, sup.Monitors())

	if runErr != nil {
		slog.Error("monitor exited with error", "err", runErr)
		journal.Close()
		os.Exit(1)
	}
	slog.Info("polywatch stopped cleanly")
}

// applyFlags aplica los overrides de la línea de comandos y revalida.
func applyFlags(cfg *config.Config, verbose bool, logFormat string) error {
	if verbose {
		cfg.Log.Level = "debug"
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("main.applyFlags: %w", err)
	}
	return nil
}

// resolveWatchList construye el filtro de condition ids. nil = sin filtro.
func resolveWatchList(ctx context.Context, cfg *config.Config, client *polymarket.Client) map[string]struct{} {
	if !cfg.Filtered() {
		slog.Info("no market filter configured, monitoring all activity")
		return nil
	}

	resolver := catalog.NewResolver(client, cfg.TagDelay())
	markets := resolver.WatchList(ctx, cfg.Markets.TagIDs, cfg.Markets.LimitPerTag, cfg.Markets.ConditionIDs)
	catalog.PrintWatchList(os.Stdout, markets)

	filter := catalog.ConditionIDs(markets)
	if len(filter) == 0 {
		slog.Warn("market filter resolved to nothing, monitoring all activity",
			"tag_ids", cfg.Markets.TagIDs,
			"condition_ids", len(cfg.Markets.ConditionIDs),
		)
		return nil
	}
	slog.Info("watch-list ready", "markets", len(filter))
	return filter
}

// buildNotifier combina consola y Telegram según la configuración.
func buildNotifier(cfg *config.Config) ports.Notifier {
	notifiers := []ports.Notifier{notify.NewConsole()}
	if cfg.Telegram.Enabled {
		slog.Info("telegram relay enabled",
			"chat_id", cfg.Telegram.ChatID,
			"token", config.MaskSecret(cfg.Telegram.BotToken),
		)
		notifiers = append(notifiers, notify.NewTelegram(notify.TelegramOptions{
			BaseURL:   cfg.Telegram.BaseURL,
			Token:     cfg.Telegram.BotToken,
			ChatID:    cfg.Telegram.ChatID,
			ParseMode: cfg.Telegram.ParseMode,
		}))
	}
	return notify.NewMulti(notifiers...)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
