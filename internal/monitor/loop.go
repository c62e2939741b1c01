package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/alejandrodnm/polywatch/internal/metrics"
	"github.com/alejandrodnm/polywatch/internal/ports"
)

// Config contiene la configuración compartida por todos los loops de wallet.
type Config struct {
	Interval     time.Duration
	StartPolicy  domain.StartPolicy
	DedupeWindow int              // 0 = desactivado
	Once         bool             // un solo ciclo y salir
	RunID        string           // etiqueta las entradas del journal
	Now          func() time.Time // nil = time.Now
}

// CycleResult resume un ciclo Polling → Notifying.
type CycleResult struct {
	FetchOK    bool
	Fetched    int
	Malformed  int
	New        int
	Suppressed int
	Delivered  int
	Failed     int
	Watermark  int64 // watermark tras el commit del ciclo
}

// WalletMonitor es el loop de una wallet. Su estado (watermark y ids vistos)
// solo lo modifica su propia goroutine.
type WalletMonitor struct {
	wallet    domain.Wallet
	label     string
	cfg       Config
	fetcher   *Fetcher
	notifier  ports.Notifier
	journal   ports.Journal // puede ser nil
	seen      *seenSet
	watermark atomic.Int64
	log       *slog.Logger
}

// NewWalletMonitor crea el loop con el watermark inicial según cfg.StartPolicy.
func NewWalletMonitor(wallet domain.Wallet, cfg Config, fetcher *Fetcher, notifier ports.Notifier, journal ports.Journal) *WalletMonitor {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	label := wallet.DisplayLabel()
	m := &WalletMonitor{
		wallet:   wallet,
		label:    label,
		cfg:      cfg,
		fetcher:  fetcher,
		notifier: notifier,
		journal:  journal,
		seen:     newSeenSet(cfg.DedupeWindow),
		log:      slog.With("wallet", label),
	}
	m.watermark.Store(cfg.StartPolicy.InitialWatermark(cfg.Now()))
	metrics.Watermark.WithLabelValues(label).Set(float64(m.watermark.Load()))
	return m
}

// Wallet devuelve la wallet monitorizada.
func (m *WalletMonitor) Wallet() domain.Wallet { return m.wallet }

// Watermark devuelve el último watermark confirmado.
func (m *WalletMonitor) Watermark() int64 { return m.watermark.Load() }

// Run ejecuta ciclos hasta que ctx se cancele. La cancelación solo se observa
// durante la espera entre ciclos; un ciclo empezado siempre termina.
// Devuelve error solo si un ciclo hace panic.
func (m *WalletMonitor) Run(ctx context.Context) error {
	m.log.Info("wallet monitor starting",
		"address", m.wallet.Address,
		"interval", m.cfg.Interval,
		"watermark", m.Watermark(),
		"once", m.cfg.Once,
	)

	for {
		if _, err := m.safeCycle(ctx); err != nil {
			return err
		}
		if m.cfg.Once {
			return nil
		}

		timer := time.NewTimer(m.cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			m.log.Info("wallet monitor stopped", "watermark", m.Watermark())
			return nil
		case <-timer.C:
		}
	}
}

func (m *WalletMonitor) safeCycle(ctx context.Context) (res CycleResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("monitor.WalletMonitor %s: cycle panic: %v", m.label, r)
		}
	}()
	return m.Cycle(ctx), nil
}

// Cycle ejecuta un ciclo completo: fetch, detección, notificación de cada
// actividad nueva en orden y commit del watermark al final.
func (m *WalletMonitor) Cycle(ctx context.Context) CycleResult {
	// un interrupt no corta el ciclo a medias; los timeouts HTTP lo acotan
	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	defer func() {
		metrics.CycleLatency.WithLabelValues(m.label).Observe(time.Since(start).Seconds())
	}()
	metrics.PollsTotal.WithLabelValues(m.label).Inc()

	previous := m.Watermark()
	res := CycleResult{Watermark: previous}

	fetched, ok := m.fetcher.Fetch(ctx, m.wallet)
	res.FetchOK = ok
	res.Fetched = len(fetched)
	if !ok {
		return res
	}
	if len(fetched) == 0 {
		m.log.Debug("no activities found")
		return res
	}

	det := Detect(previous, fetched)
	res.Malformed = det.Malformed
	res.New = len(det.New)
	if det.Malformed > 0 {
		metrics.MalformedRecords.WithLabelValues(m.label).Add(float64(det.Malformed))
		m.log.Warn("dropped malformed activities", "count", det.Malformed)
	}

	for _, a := range det.New {
		key := a.Key()
		if m.seen.Contains(key) {
			res.Suppressed++
			metrics.DuplicatesSuppressed.WithLabelValues(m.label).Inc()
			m.log.Debug("activity already notified", "activity_id", key)
			continue
		}

		err := m.notifier.Notify(ctx, a)
		metrics.Deliveries.WithLabelValues(m.label, metrics.DeliveryResult(err)).Inc()
		if err != nil {
			res.Failed++
			m.log.Warn("delivery failed", "activity_id", key, "err", err)
		} else {
			res.Delivered++
		}
		m.record(ctx, a, err)
		m.seen.Add(key)
	}
	if res.New > 0 {
		metrics.NewActivities.WithLabelValues(m.label).Add(float64(res.New))
	}

	// commit: todas las notificaciones del ciclo ya se intentaron
	m.watermark.Store(det.Next)
	metrics.Watermark.WithLabelValues(m.label).Set(float64(det.Next))
	res.Watermark = det.Next

	if res.New > 0 {
		m.log.Info("new activities processed",
			"new", res.New,
			"delivered", res.Delivered,
			"failed", res.Failed,
			"suppressed", res.Suppressed,
			"watermark_from", previous,
			"watermark_to", det.Next,
		)
	} else {
		m.log.Debug("no new activities", "fetched", res.Fetched)
	}
	return res
}

// record guarda el intento en el journal. Un fallo del journal no afecta al ciclo.
func (m *WalletMonitor) record(ctx context.Context, a domain.Activity, deliveryErr error) {
	if m.journal == nil {
		return
	}
	d := domain.Delivery{
		RunID:      m.cfg.RunID,
		Wallet:     m.wallet.Address,
		ActivityID: a.Key(),
		Title:      a.Title,
		Timestamp:  a.Timestamp,
		Delivered:  deliveryErr == nil,
	}
	if deliveryErr != nil {
		d.Error = deliveryErr.Error()
	}
	if err := m.journal.RecordDelivery(ctx, d); err != nil {
		m.log.Warn("journal write failed", "err", err)
	}
}
