package domain

import "time"

// Wallet es una dirección monitorizada con su etiqueta opcional.
type Wallet struct {
	Address string
	Label   string
}

// DisplayLabel devuelve la etiqueta, o los primeros 10 caracteres de la dirección si no hay.
func (w Wallet) DisplayLabel() string {
	if w.Label != "" {
		return w.Label
	}
	if len(w.Address) > 10 {
		return w.Address[:10]
	}
	return w.Address
}

// StartPolicy define el watermark inicial de cada wallet al arrancar.
type StartPolicy string

const (
	// StartFromNow: solo actividades estrictamente posteriores al arranque son nuevas.
	StartFromNow StartPolicy = "now"
	// StartFromZero: el primer ciclo notifica todo lo que devuelva el feed.
	StartFromZero StartPolicy = "zero"
)

// InitialWatermark devuelve el watermark inicial según la política.
func (p StartPolicy) InitialWatermark(now time.Time) int64 {
	if p == StartFromZero {
		return 0
	}
	return now.Unix()
}

// Valid indica si la política es conocida.
func (p StartPolicy) Valid() bool {
	return p == StartFromNow || p == StartFromZero
}

// Delivery es un intento de notificación registrado en el journal.
type Delivery struct {
	ID          string
	RunID       string
	Wallet      string // dirección, no etiqueta
	ActivityID  string
	Title       string
	Timestamp   int64
	Delivered   bool
	Error       string
	AttemptedAt time.Time
}

// WalletSummary agrega los intentos de entrega de una wallet.
type WalletSummary struct {
	Wallet    string // dirección
	Delivered int
	Failed    int
	LastSeen  int64 // timestamp de la actividad más reciente notificada
}
