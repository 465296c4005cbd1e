package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spendlens/spendlens/pkg/logging"
)

// DefaultChatRowLimit caps how many rows a generated query may return.
const DefaultChatRowLimit = 1000

// ChatQueryExecutor runs already-guarded SQL against the invoice schema.
type ChatQueryExecutor interface {
	// ExecuteReadOnly runs query inside a read-only transaction and
	// returns the result set as one map per row, keyed by column name.
	ExecuteReadOnly(ctx context.Context, query string) ([]map[string]any, error)
}

type chatQueryExecutor struct {
	pool     *pgxpool.Pool
	rowLimit int
	logger   *zap.Logger
}

// NewChatQueryExecutor creates an executor over pool. The pool may point at
// a dedicated read-only role; the read-only transaction mode applies either
// way as a second line of defense.
func NewChatQueryExecutor(pool *pgxpool.Pool, rowLimit int, logger *zap.Logger) ChatQueryExecutor {
	if rowLimit <= 0 {
		rowLimit = DefaultChatRowLimit
	}
	return &chatQueryExecutor{
		pool:     pool,
		rowLimit: rowLimit,
		logger:   logger.Named("chat-executor"),
	}
}

var _ ChatQueryExecutor = (*chatQueryExecutor)(nil)

func (e *chatQueryExecutor) ExecuteReadOnly(ctx context.Context, query string) ([]map[string]any, error) {
	// The subquery wrap enforces the row cap without parsing the
	// generated statement.
	limited := fmt.Sprintf("SELECT * FROM (%s) AS _limited LIMIT %d", query, e.rowLimit)

	tx, err := e.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin read-only transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, limited)
	if err != nil {
		e.logger.Warn("generated query failed",
			zap.String("sql", logging.TruncateSQL(query)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("execute generated query: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	results := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, name := range columns {
			rowMap[name] = values[i]
		}
		results = append(results, rowMap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit read-only transaction: %w", err)
	}

	return results, nil
}
