package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Repos groups every repository bound to the same handle.
type Repos struct {
	Companies  CompanyRepository
	Financials FinancialRepository
	Stocks     StockRepository
	Macro      MacroRepository
	Audit      AuditRepository
	Users      UserRepository
	Market     MarketRepository
}

// NewRepos binds all repositories to db.
func NewRepos(db DBTX) Repos {
	return Repos{
		Companies:  NewCompanyRepository(db),
		Financials: NewFinancialRepository(db),
		Stocks:     NewStockRepository(db),
		Macro:      NewMacroRepository(db),
		Audit:      NewAuditRepository(db),
		Users:      NewUserRepository(db),
		Market:     NewMarketRepository(db),
	}
}

// TxRunner executes callbacks inside a single database transaction.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx DBTX, repos Repos) error) error
}

type txRunner struct {
	db *sql.DB
}

func NewTxRunner(db *sql.DB) TxRunner {
	return &txRunner{db: db}
}

// Run begins a transaction, calls fn with repositories bound to it and commits
// when fn succeeds. Any error from fn rolls everything back.
func (r *txRunner) Run(ctx context.Context, fn func(tx DBTX, repos Repos) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx, NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// WithSavepoint runs fn inside a savepoint of an open transaction. When fn
// fails only its own work is undone and the transaction stays usable.
func WithSavepoint(ctx context.Context, tx DBTX, fn func() error) error {
	if _, err := tx.ExecContext(ctx, "SAVEPOINT record"); err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}
	if err := fn(); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT record"); rbErr != nil {
			return fmt.Errorf("rollback to savepoint: %w (after %v)", rbErr, err)
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT record"); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// placeholders renders "$from, $from+1, ..." for n values.
func placeholders(from, n int) string {
	var b []byte
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = fmt.Appendf(b, "$%d", from+i)
	}
	return string(b)
}
