package storage

// sqlite.go: journal de entregas de notificaciones.
//
// Estrategia:
//   - `deliveries`: una fila por intento de notificación (entregada o no), con el run_id
//     del proceso. Sirve para el resumen al apagar y para auditoría si el DSN es un fichero.
//   - Por defecto se abre en memoria (":memory:") y muere con el proceso.
//   - Nunca se lee para reconstruir watermarks: el estado del monitor vive solo en memoria.
//   - Prune automático al arrancar: entregas con más de 14 días.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/polywatch/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS deliveries (
    id           TEXT PRIMARY KEY,
    run_id       TEXT     NOT NULL,
    wallet       TEXT     NOT NULL,
    activity_id  TEXT     NOT NULL,
    title        TEXT,
    activity_ts  INTEGER  NOT NULL DEFAULT 0,
    delivered    INTEGER  NOT NULL DEFAULT 0,
    error        TEXT,
    attempted_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_deliveries_run    ON deliveries(run_id, wallet);
CREATE INDEX IF NOT EXISTS idx_deliveries_at     ON deliveries(attempted_at DESC);
`

const retentionDeliveries = 14 * 24 * time.Hour

// SQLiteJournal implementa ports.Journal usando SQLite (pure Go, sin CGo).
// Es seguro para uso concurrente: una sola conexión serializa los writes.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal abre (o crea) el journal en el DSN dado. ":memory:" es válido.
func NewSQLiteJournal(dsn string) (*SQLiteJournal, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteJournal: open %q: %w", dsn, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer; además :memory: es por conexión
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteJournal: apply schema: %w", err)
	}

	j := &SQLiteJournal{db: db}
	j.pruneOld(context.Background())
	return j, nil
}

// RecordDelivery guarda un intento de entrega. Genera ID y AttemptedAt si faltan.
func (j *SQLiteJournal) RecordDelivery(ctx context.Context, d domain.Delivery) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.AttemptedAt.IsZero() {
		d.AttemptedAt = time.Now().UTC()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO deliveries (id, run_id, wallet, activity_id, title, activity_ts, delivered, error, attempted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.RunID, d.Wallet, d.ActivityID, d.Title, d.Timestamp,
		boolToInt(d.Delivered), nullString(d.Error), d.AttemptedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storage.RecordDelivery %s: %w", d.ActivityID, err)
	}
	return nil
}

// Summary agrega las entregas de un run por wallet, ordenado por wallet.
// LastSeen es el timestamp más reciente entre las entregas con éxito.
func (j *SQLiteJournal) Summary(ctx context.Context, runID string) ([]domain.WalletSummary, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT wallet,
		       COALESCE(SUM(delivered), 0),
		       COALESCE(SUM(1 - delivered), 0),
		       COALESCE(MAX(CASE WHEN delivered = 1 THEN activity_ts END), 0)
		FROM deliveries
		WHERE run_id = ?
		GROUP BY wallet
		ORDER BY wallet`, runID)
	if err != nil {
		return nil, fmt.Errorf("storage.Summary: %w", err)
	}
	defer rows.Close()

	var out []domain.WalletSummary
	for rows.Next() {
		var s domain.WalletSummary
		if err := rows.Scan(&s.Wallet, &s.Delivered, &s.Failed, &s.LastSeen); err != nil {
			return nil, fmt.Errorf("storage.Summary: scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage.Summary: %w", err)
	}
	return out, nil
}

// Close cierra la conexión.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// pruneOld borra entregas antiguas. Solo tiene efecto con un DSN de fichero.
func (j *SQLiteJournal) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionDeliveries).Format(time.RFC3339)
	j.db.ExecContext(ctx, `DELETE FROM deliveries WHERE attempted_at < ?`, cutoff)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
