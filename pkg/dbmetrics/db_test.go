package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", Operation("SELECT id FROM parking_slots"))
	assert.Equal(t, "update", Operation("  UPDATE reservations SET status = $1"))
	assert.Equal(t, "other", Operation("TRUNCATE parking_lots"))
	assert.Equal(t, "unknown", Operation(""))
}

func TestGetExecutorPrefersTransaction(t *testing.T) {
	var db *sql.DB
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Equal(t, DBExecutor(db), GetExecutor(ctx, db))

	tx := &Tx{}
	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, tx, GetExecutor(txCtx, db))
}
