package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// Verdict says whether a failed store call is worth repeating
type Verdict int

const (
	Permanent Verdict = iota
	Transient
)

func (v Verdict) String() string {
	if v == Transient {
		return "transient"
	}
	return "permanent"
}

// transientMessages catch drivers that only report connectivity problems as text
var transientMessages = []string{
	"connection reset",
	"connection refused",
	"timeout",
	"broken pipe",
	"bad connection",
	"server closed the connection",
	"database is locked",
}

// Classify is the single place that decides whether a store error is
// connectivity related. Business errors, constraint violations and missing
// rows are permanent.
func Classify(err error) Verdict {
	if err == nil {
		return Permanent
	}

	var transientErr *shared.TransientError
	if errors.As(err, &transientErr) {
		return Transient
	}
	// The caller gave up, repeating will not help
	if errors.Is(err, context.Canceled) {
		return Permanent
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return Transient
	}

	for _, errno := range []syscall.Errno{syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ETIMEDOUT, syscall.EPIPE} {
		if errors.Is(err, errno) {
			return Transient
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Transient
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return Transient
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return Transient
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifySQLState(pgErr.Code)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked {
			return Transient
		}
		return Permanent
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range transientMessages {
		if strings.Contains(msg, fragment) {
			return Transient
		}
	}
	return Permanent
}

// classifySQLState marks connection exceptions (class 08), operator
// intervention shutdowns (57P01-57P03), serialization failures, deadlocks
// and connection exhaustion as transient
func classifySQLState(code string) Verdict {
	switch {
	case strings.HasPrefix(code, "08"):
		return Transient
	case code == "57P01", code == "57P02", code == "57P03":
		return Transient
	case code == "40001", code == "40P01":
		return Transient
	case code == "53300":
		return Transient
	default:
		return Permanent
	}
}

// IsTransient reports whether err should be retried
func IsTransient(err error) bool {
	return Classify(err) == Transient
}
