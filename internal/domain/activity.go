package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMalformedTimestamp indica que el timestamp de una actividad falta o no es un entero unix.
var ErrMalformedTimestamp = errors.New("malformed activity timestamp")

// Activity es un evento de trading de una wallet tal como lo devuelve el feed de actividad.
// Es un valor inmutable: el detector devuelve copias con Timestamp ya coercionado.
type Activity struct {
	ID          string
	Wallet      string // dirección monitorizada
	WalletLabel string // etiqueta configurada o prefijo de la dirección
	Name        string // pseudónimo público del usuario en Polymarket
	Title       string
	Slug        string
	Outcome     string
	Side        string // "BUY" | "SELL"
	Type        string // "TRADE", "REDEEM", "SPLIT", ...
	Size        float64
	Price       float64
	ConditionID string
	TxHash      string

	// RawTimestamp es el timestamp tal cual llegó (número o string JSON).
	RawTimestamp string
	// Timestamp son los segundos unix coercionados. Cero hasta pasar por el detector.
	Timestamp int64

	// Undecodable marca un item del feed que no se pudo decodificar. Solo sirve
	// para que el detector lo cuente como malformado; el resto de campos va vacío.
	Undecodable bool
}

// Value devuelve size × price con aritmética decimal (sin ruido de float).
func (a Activity) Value() decimal.Decimal {
	return decimal.NewFromFloat(a.Size).Mul(decimal.NewFromFloat(a.Price))
}

// Time devuelve el Timestamp como time.Time en UTC.
func (a Activity) Time() time.Time {
	return time.Unix(a.Timestamp, 0).UTC()
}

// UnixTimestamp coerciona RawTimestamp a segundos unix.
// Acepta enteros, strings numéricos y floats con valor entero ("1700000000.0").
func (a Activity) UnixTimestamp() (int64, error) {
	if a.Undecodable {
		return 0, fmt.Errorf("%w: undecodable record", ErrMalformedTimestamp)
	}
	return ParseUnixTimestamp(a.RawTimestamp)
}

// ParseUnixTimestamp convierte el texto de un timestamp a segundos unix.
func ParseUnixTimestamp(raw string) (int64, error) {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"`))
	if s == "" || s == "null" {
		return 0, fmt.Errorf("%w: empty", ErrMalformedTimestamp)
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return sec, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, raw)
	}
	// float64(MaxInt64) redondea a 2^63, que ya no cabe en int64
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%w: %q out of range", ErrMalformedTimestamp, raw)
	}
	return int64(f), nil
}

// Key identifica la actividad para deduplicación. Vacío si el feed no dio id ni tx hash.
func (a Activity) Key() string {
	if a.ID != "" {
		return a.ID
	}
	return a.TxHash
}
