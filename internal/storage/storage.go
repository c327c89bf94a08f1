// Package storage persists payment rows and submission outcomes in the
// local SQLite database shared with the draw engine.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/dvilelaf/zerppay/internal/domain"
	"github.com/dvilelaf/zerppay/internal/observability"
)

// ErrOutcomeRecorded means the row already has a transaction id. Outcomes
// are write-once: a second write for the same request id is refused.
var ErrOutcomeRecorded = errors.New("storage: outcome already recorded")

type Store struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates the payment table if it does not exist. Column names match
// the historical schema so the database stays shared with the draw engine.
func (s *Store) Init(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS payment (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		TXtype TEXT NOT NULL,
		status TEXT NOT NULL,
		destination TEXT NOT NULL,
		amount REAL NOT NULL,
		TXid TEXT,
		ledgerIndex INTEGER,
		date DATETIME,
		memo TEXT NOT NULL
	);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create payment table: %w", err)
	}
	return nil
}

type paymentRow struct {
	ID          int64          `db:"id"`
	Kind        string         `db:"TXtype"`
	Status      string         `db:"status"`
	Destination string         `db:"destination"`
	Amount      float64        `db:"amount"`
	TXid        sql.NullString `db:"TXid"`
	Memo        string         `db:"memo"`
}

// AddPayment queues a new PENDING payment row and returns its id.
func (s *Store) AddPayment(ctx context.Context, kind, destination string, amount float64, memo string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO payment (TXtype, status, destination, amount, memo) VALUES (?, ?, ?, ?, ?)`,
		kind, domain.StatusPending, destination, amount, memo,
	)
	if err != nil {
		return 0, fmt.Errorf("insert payment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert payment id: %w", err)
	}
	return id, nil
}

// PendingPayments returns all rows that have never been submitted, in row
// order. A row that went through a submission attempt is terminal either
// way: success sets the transaction id, failure sets status ERROR. Neither
// is ever picked up again; failed payments are resubmitted by queueing a
// new row, not by re-deriving pendingness here.
func (s *Store) PendingPayments(ctx context.Context) ([]domain.PaymentRequest, error) {
	var rows []paymentRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, TXtype, status, destination, amount, TXid, memo
		 FROM payment
		 WHERE TXid IS NULL AND status = ?
		 ORDER BY id`,
		domain.StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("select pending payments: %w", err)
	}

	requests := make([]domain.PaymentRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, domain.PaymentRequest{
			ID:                 strconv.FormatInt(row.ID, 10),
			DestinationAddress: row.Destination,
			Amount:             row.Amount,
			Memo:               row.Memo,
			Kind:               row.Kind,
		})
	}
	return requests, nil
}

// RecordOutcome writes one outcome back to its row, keyed by request id.
// The update is guarded on a null transaction id so an outcome can never be
// overwritten once written.
func (s *Store) RecordOutcome(ctx context.Context, outcome domain.Outcome) error {
	id, err := strconv.ParseInt(outcome.RequestID, 10, 64)
	if err != nil {
		return fmt.Errorf("record outcome: bad request id %q: %w", outcome.RequestID, err)
	}

	var hash sql.NullString
	if outcome.TransactionHash != "" {
		hash = sql.NullString{String: outcome.TransactionHash, Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE payment SET TXid = ?, status = ? WHERE id = ? AND TXid IS NULL AND status = ?`,
		hash, outcome.Status, id, domain.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("update payment %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update payment %d rows: %w", id, err)
	}
	if affected != 1 {
		return fmt.Errorf("payment %d: %w", id, ErrOutcomeRecorded)
	}
	return nil
}

// RecordOutcomes persists a whole batch. Each write is independent; a
// failure is logged and does not block the sibling writes.
func (s *Store) RecordOutcomes(ctx context.Context, outcomes []domain.Outcome) {
	for _, outcome := range outcomes {
		if err := s.RecordOutcome(ctx, outcome); err != nil {
			observability.IncrementOutcomeWrite("error")
			zap.L().Error("outcome write failed",
				zap.String("request_id", outcome.RequestID),
				zap.Error(err),
			)
			continue
		}
		observability.IncrementOutcomeWrite("ok")
		zap.L().Info("updated payment",
			zap.String("request_id", outcome.RequestID),
			zap.String("status", outcome.Status),
		)
	}
}
