package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Verdict
	}{
		{"nil", nil, Permanent},
		{"record not found", gorm.ErrRecordNotFound, Permanent},
		{"domain not found", shared.NewNotFoundError("vessel", "v-1"), Permanent},
		{"canceled", context.Canceled, Permanent},
		{"deadline", context.DeadlineExceeded, Transient},
		{"bad conn", fmt.Errorf("query: %w", driver.ErrBadConn), Transient},
		{"connection reset", &net.OpError{Op: "read", Err: syscall.ECONNRESET}, Transient},
		{"connection refused errno", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), Transient},
		{"broken pipe", syscall.EPIPE, Transient},
		{"pg admin shutdown", &pgconn.PgError{Code: "57P01"}, Transient},
		{"pg connection failure", &pgconn.PgError{Code: "08006"}, Transient},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, Transient},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, Transient},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, Permanent},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, Transient},
		{"sqlite locked", sqlite3.Error{Code: sqlite3.ErrLocked}, Transient},
		{"sqlite constraint", sqlite3.Error{Code: sqlite3.ErrConstraint}, Permanent},
		{"already wrapped", shared.NewTransientError(errors.New("x"), 3), Transient},
		{"message fallback", errors.New("write: connection reset by peer"), Transient},
		{"plain error", errors.New("syntax error at or near"), Permanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
