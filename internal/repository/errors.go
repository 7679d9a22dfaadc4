package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrStorageUnavailable means the store could not be reached at all.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrStorage means the store was reached but the operation failed.
	ErrStorage = errors.New("storage error")
)

var errNoDatabase = errors.New("database not initialized")

// classify wraps a driver error in ErrStorageUnavailable or ErrStorage.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

func isConnectionError(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, mysqldriver.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return pgconn.Timeout(err)
}
