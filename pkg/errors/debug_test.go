package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpExtractsPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "users_email_key",
		TableName:      "users",
		Message:        "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeConflict, fmt.Errorf("insert user: %w", pgErr), "email already registered")

	d := Dump(err)
	assert.Equal(t, CodeConflict, d.Code)
	assert.Equal(t, "23505", d.PGCode)
	assert.Equal(t, "users_email_key", d.PGConstraint)
	assert.Equal(t, "users", d.PGTable)
	require.Len(t, d.Chain, 3)
}

func TestDumpRecordsRemoteStatus(t *testing.T) {
	err := Remote(CodeRemote, http.StatusBadGateway, "orders", nil, "bad gateway")
	d := Dump(err)
	assert.Equal(t, http.StatusBadGateway, d.Status)
	assert.Equal(t, CodeRemote, d.Code)
}

func TestDumpNil(t *testing.T) {
	assert.Equal(t, ErrorDump{}, Dump(nil))
}
