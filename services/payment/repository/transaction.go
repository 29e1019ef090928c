package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/piresc/paygate/internal/pkg/models"
	nrpkg "github.com/piresc/paygate/internal/pkg/newrelic"
	"github.com/piresc/paygate/services/payment"
)

const pgUniqueViolation = "23505"

const transactionColumns = `id, amount, currency, provider, status, transaction_id, created_at, updated_at`

// TransactionRepo implements payment.TransactionStore on Postgres
type TransactionRepo struct {
	db *sqlx.DB
}

// NewTransactionRepo creates a new transaction repository
func NewTransactionRepo(db *sqlx.DB) *TransactionRepo {
	return &TransactionRepo{
		db: db,
	}
}

// RecordTransaction inserts the transaction and its request log in one database transaction
func (r *TransactionRepo) RecordTransaction(ctx context.Context, txn *models.Transaction, requestLog *models.RequestLog) error {
	now := time.Now().UTC()
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	txn.CreatedAt, txn.UpdatedAt = now, now
	if requestLog.ID == uuid.Nil {
		requestLog.ID = uuid.New()
	}
	requestLog.CreatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (:id, :amount, :currency, :provider, :status, :transaction_id, :created_at, :updated_at)
	`
	end := nrpkg.StartDatastoreSegment(ctx, "transactions", "INSERT", query)
	_, err = tx.NamedExecContext(ctx, query, txn)
	end()
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ExternalID(), payment.ErrDuplicateExternalID)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	query = `
		INSERT INTO requests (id, provider, endpoint, payload, response, created_at)
		VALUES (:id, :provider, :endpoint, :payload, :response, :created_at)
	`
	end = nrpkg.StartDatastoreSegment(ctx, "requests", "INSERT", query)
	_, err = tx.NamedExecContext(ctx, query, requestLog)
	end()
	if err != nil {
		return fmt.Errorf("failed to insert request log: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FindByExternalID looks up a transaction by its provider-assigned id
func (r *TransactionRepo) FindByExternalID(ctx context.Context, provider models.Provider, transactionID string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE provider = $1 AND transaction_id = $2`
	return r.getTransaction(ctx, query, provider, transactionID)
}

// GetTransaction retrieves a transaction by its gateway id
func (r *TransactionRepo) GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return r.getTransaction(ctx, query, id)
}

func (r *TransactionRepo) getTransaction(ctx context.Context, query string, args ...interface{}) (*models.Transaction, error) {
	defer nrpkg.StartDatastoreSegment(ctx, "transactions", "SELECT", query)()

	var txn models.Transaction
	if err := r.db.GetContext(ctx, &txn, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

// UpdateStatus moves a pending transaction to status. The pending guard makes
// concurrent deliveries race on the row: exactly one of them sees true.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, txn *models.Transaction, status models.TransactionStatus) (bool, error) {
	now := time.Now().UTC()
	query := `UPDATE transactions SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	defer nrpkg.StartDatastoreSegment(ctx, "transactions", "UPDATE", query)()

	result, err := r.db.ExecContext(ctx, query, status, now, txn.ID, models.TransactionStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to update transaction status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return false, nil
	}

	txn.Status = status
	txn.UpdatedAt = now
	return true, nil
}

// RecordWebhook appends an inbound callback to the audit log
func (r *TransactionRepo) RecordWebhook(ctx context.Context, webhook *models.Webhook) error {
	if webhook.ID == uuid.Nil {
		webhook.ID = uuid.New()
	}
	webhook.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO webhooks (id, provider, payload, created_at)
		VALUES (:id, :provider, :payload, :created_at)
	`
	defer nrpkg.StartDatastoreSegment(ctx, "webhooks", "INSERT", query)()

	if _, err := r.db.NamedExecContext(ctx, query, webhook); err != nil {
		return fmt.Errorf("failed to insert webhook: %w", err)
	}
	return nil
}
