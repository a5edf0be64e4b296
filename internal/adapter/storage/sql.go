package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/internal/core/port"
	"github.com/niksmo/escrow-market/pkg/locator"
)

var _ port.RecordStore = (*SQLStorage)(nil)
var _ port.BalanceStore = (*SQLStorage)(nil)

// SQLStorage is the postgres-backed record and balance store. Balances
// live in a bigint column, so amounts past the signed 64-bit range are
// rejected with [domain.ErrOverflow] before they reach the database.
type SQLStorage struct {
	db *sql.DB
}

func NewSQLStorage(ctx context.Context, dsn string) (*SQLStorage, error) {
	connConfig, _ := pgx.ParseConfig(dsn)
	connStr := stdlib.RegisterConnConfig(connConfig)
	db, _ := sql.Open("pgx", connStr)

	s := &SQLStorage{db}
	if err := s.Ping(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStorage) Ping(ctx context.Context) error {
	const op = "SQLStorage.Ping"
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: database unavailable: %w", op, err)
	}
	return nil
}

func (s *SQLStorage) Close() {
	const op = "SQLStorage.Close"
	log := slog.With("op", op)

	log.Info("closing sql storage...")
	if err := s.db.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("sql storage is closed")
}

func (s *SQLStorage) Get(
	ctx context.Context, addr locator.Address,
) ([]byte, error) {
	const op = "SQLStorage.Get"

	query := `SELECT body FROM records WHERE address = $1;`

	var body []byte
	err := s.db.QueryRowContext(ctx, query, addr.Bytes()).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return body, nil
}

func (s *SQLStorage) Put(ctx context.Context, rec port.Record) error {
	const op = "SQLStorage.Put"

	query := `
		INSERT INTO records (address, namespace, body)
		VALUES ($1, $2, $3)
		ON CONFLICT (address) DO UPDATE SET body = EXCLUDED.body;
	`
	_, err := s.db.ExecContext(
		ctx, query, rec.Address.Bytes(), rec.Namespace, rec.Body,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *SQLStorage) PutNew(ctx context.Context, rec port.Record) error {
	const op = "SQLStorage.PutNew"

	query := `
		INSERT INTO records (address, namespace, body)
		VALUES ($1, $2, $3);
	`
	_, err := s.db.ExecContext(
		ctx, query, rec.Address.Bytes(), rec.Namespace, rec.Body,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			err = domain.ErrRecordExists
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *SQLStorage) PutBatch(
	ctx context.Context, recs ...port.Record,
) (batchErr error) {
	const op = "SQLStorage.PutBatch"
	log := slog.With("op", op)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if batchErr == nil {
			if err := tx.Commit(); err != nil {
				batchErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}
		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	query := `
		INSERT INTO records (address, namespace, body)
		VALUES ($1, $2, $3)
		ON CONFLICT (address) DO UPDATE SET body = EXCLUDED.body;
	`
	for _, rec := range recs {
		_, err := tx.ExecContext(
			ctx, query, rec.Address.Bytes(), rec.Namespace, rec.Body,
		)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

func (s *SQLStorage) Balance(
	ctx context.Context, addr locator.Address,
) (uint64, error) {
	const op = "SQLStorage.Balance"

	query := `SELECT amount FROM balances WHERE address = $1;`

	var amount int64
	err := s.db.QueryRowContext(ctx, query, addr.Bytes()).Scan(&amount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return uint64(amount), nil
}

func (s *SQLStorage) Credit(
	ctx context.Context, addr locator.Address, amount uint64,
) error {
	const op = "SQLStorage.Credit"

	if amount > math.MaxInt64 {
		return fmt.Errorf("%s: %w", op, domain.ErrOverflow)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := lockBalance(ctx, tx, addr)
		if err != nil {
			return err
		}
		next, err := domain.AddAmount(current, amount)
		if err != nil {
			return err
		}
		if next > math.MaxInt64 {
			return domain.ErrOverflow
		}
		return upsertBalance(ctx, tx, addr, next)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *SQLStorage) Open(ctx context.Context, addr locator.Address) error {
	const op = "SQLStorage.Open"

	query := `
		INSERT INTO balances (address, amount)
		VALUES ($1, 0)
		ON CONFLICT (address) DO NOTHING;
	`
	if _, err := s.db.ExecContext(ctx, query, addr.Bytes()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *SQLStorage) Transfer(
	ctx context.Context,
	from, to locator.Address,
	amount uint64,
	updates ...port.Record,
) error {
	const op = "SQLStorage.Transfer"

	if amount > math.MaxInt64 {
		return fmt.Errorf("%s: %w", op, domain.ErrOverflow)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		fromAmount, err := lockBalance(ctx, tx, from)
		if err != nil {
			return err
		}
		if fromAmount < amount {
			return domain.ErrInsufficientFunds
		}

		toAmount, err := lockBalance(ctx, tx, to)
		if err != nil {
			return err
		}
		toNext, err := domain.AddAmount(toAmount, amount)
		if err != nil {
			return err
		}
		if toNext > math.MaxInt64 {
			return domain.ErrOverflow
		}

		if err := upsertBalance(ctx, tx, from, fromAmount-amount); err != nil {
			return err
		}
		if err := upsertBalance(ctx, tx, to, toNext); err != nil {
			return err
		}

		query := `
			INSERT INTO records (address, namespace, body)
			VALUES ($1, $2, $3)
			ON CONFLICT (address) DO UPDATE SET body = EXCLUDED.body;
		`
		for _, rec := range updates {
			_, err := tx.ExecContext(
				ctx, query, rec.Address.Bytes(), rec.Namespace, rec.Body,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *SQLStorage) withTx(
	ctx context.Context, fn func(tx *sql.Tx) error,
) (txErr error) {
	log := slog.With("op", "SQLStorage.withTx")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	defer func() {
		if txErr == nil {
			if err := tx.Commit(); err != nil {
				txErr = fmt.Errorf("failed to commit: %w", err)
			}
			return
		}
		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	return fn(tx)
}

func lockBalance(
	ctx context.Context, tx *sql.Tx, addr locator.Address,
) (uint64, error) {
	query := `SELECT amount FROM balances WHERE address = $1 FOR UPDATE;`

	var amount int64
	err := tx.QueryRowContext(ctx, query, addr.Bytes()).Scan(&amount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return uint64(amount), nil
}

func upsertBalance(
	ctx context.Context, tx *sql.Tx, addr locator.Address, amount uint64,
) error {
	query := `
		INSERT INTO balances (address, amount)
		VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET amount = EXCLUDED.amount;
	`
	_, err := tx.ExecContext(ctx, query, addr.Bytes(), int64(amount))
	return err
}
